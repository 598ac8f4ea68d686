package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sshinde/billsplit-backend/models"
)

func TestCanAccessExpense(t *testing.T) {
	group := &models.Group{
		ID:        10,
		Members:   []models.User{{ID: 1}, {ID: 2}, {ID: 5}},
		CreatedBy: 1,
	}
	expense := &models.Expense{
		Payer:        models.User{ID: 1},
		Participants: []models.User{{ID: 2}, {ID: 3}},
		Group:        group,
	}

	assert.True(t, CanAccessExpense(models.User{ID: 1}, expense), "payer")
	assert.True(t, CanAccessExpense(models.User{ID: 3}, expense), "participant who is not the payer")
	assert.True(t, CanAccessExpense(models.User{ID: 5}, expense), "group member who is not a participant")
	assert.False(t, CanAccessExpense(models.User{ID: 9}, expense), "outsider")
}

func TestCanAccessExpense_NoGroup(t *testing.T) {
	expense := &models.Expense{
		Payer:        models.User{ID: 1},
		Participants: []models.User{{ID: 2}},
	}

	assert.True(t, CanAccessExpense(models.User{ID: 2}, expense))
	assert.False(t, CanAccessExpense(models.User{ID: 5}, expense))
}

func TestIsGroupMember(t *testing.T) {
	group := &models.Group{Members: []models.User{{ID: 1}, {ID: 2}}}

	assert.True(t, IsGroupMember(models.User{ID: 2}, group))
	assert.False(t, IsGroupMember(models.User{ID: 3}, group))
}

func TestIsGroupCreator(t *testing.T) {
	group := &models.Group{CreatedBy: 1, Members: []models.User{{ID: 1}, {ID: 2}}}

	assert.True(t, IsGroupCreator(models.User{ID: 1}, group))
	assert.False(t, IsGroupCreator(models.User{ID: 2}, group), "membership does not grant creator rights")
}
