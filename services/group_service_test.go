package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

type fakeGroupStore struct {
	groups      map[int64]*models.Group
	nextID      int64
	updateCalls int
	deleteCalls int
}

func (f *fakeGroupStore) CreateGroup(group *models.Group) error {
	f.nextID++
	group.ID = f.nextID
	stored := *group
	f.groups[group.ID] = &stored
	return nil
}

func (f *fakeGroupStore) UpdateGroup(group *models.Group) error {
	f.updateCalls++
	stored := *group
	f.groups[group.ID] = &stored
	return nil
}

func (f *fakeGroupStore) DeleteGroup(id int64) error {
	f.deleteCalls++
	delete(f.groups, id)
	return nil
}

func (f *fakeGroupStore) GetGroupByID(id int64) (*models.Group, error) {
	if group, ok := f.groups[id]; ok {
		loaded := *group
		return &loaded, nil
	}
	return nil, nil
}

func (f *fakeGroupStore) GetGroupsByMember(userID int64) ([]models.Group, error) {
	var matches []models.Group
	for _, group := range f.groups {
		if IsGroupMember(models.User{ID: userID}, group) {
			matches = append(matches, *group)
		}
	}
	return matches, nil
}

func newGroupFixture() (*GroupService, *fakeGroupStore) {
	users := &fakeUserDirectory{users: map[int64]models.User{
		1: {ID: 1, Name: "Asha"},
		2: {ID: 2, Name: "Ben"},
		3: {ID: 3, Name: "Chitra"},
	}}
	store := &fakeGroupStore{groups: map[int64]*models.Group{}}
	return NewGroupService(store, users), store
}

func seedGroup(store *fakeGroupStore, group models.Group) int64 {
	store.nextID++
	group.ID = store.nextID
	stored := group
	store.groups[group.ID] = &stored
	return group.ID
}

func TestCreateGroup_CreatorAlwaysMember(t *testing.T) {
	svc, _ := newGroupFixture()
	actor := models.User{ID: 1, Name: "Asha"}

	group, err := svc.CreateGroup(actor, &models.GroupRequest{
		GroupName: "Trip",
		MemberIDs: []int64{2, 3},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), group.CreatedBy)
	assert.Len(t, group.Members, 3)
	assert.True(t, IsGroupMember(actor, group))
}

func TestCreateGroup_CreatorNotDuplicated(t *testing.T) {
	svc, _ := newGroupFixture()
	actor := models.User{ID: 1}

	group, err := svc.CreateGroup(actor, &models.GroupRequest{
		GroupName: "Trip",
		MemberIDs: []int64{1, 2},
	})

	assert.NoError(t, err)
	assert.Len(t, group.Members, 2)
}

func TestCreateGroup_NoResolvableMembers(t *testing.T) {
	svc, _ := newGroupFixture()

	_, err := svc.CreateGroup(models.User{ID: 1}, &models.GroupRequest{
		GroupName: "Trip",
		MemberIDs: []int64{98, 99},
	})

	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Contains(t, err.Error(), "Invalid member IDs")
}

func TestGetGroupByID_MemberAllowed(t *testing.T) {
	svc, store := newGroupFixture()
	id := seedGroup(store, models.Group{
		GroupName: "Trip",
		Members:   []models.User{{ID: 1}, {ID: 2}},
		CreatedBy: 1,
	})

	group, err := svc.GetGroupByID(models.User{ID: 2}, id)

	assert.NoError(t, err)
	assert.Equal(t, "Trip", group.GroupName)
}

func TestGetGroupByID_NonMemberForbidden(t *testing.T) {
	svc, store := newGroupFixture()
	id := seedGroup(store, models.Group{
		Members:   []models.User{{ID: 1}},
		CreatedBy: 1,
	})

	_, err := svc.GetGroupByID(models.User{ID: 3}, id)

	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestGetGroupByID_NotFound(t *testing.T) {
	svc, _ := newGroupFixture()

	_, err := svc.GetGroupByID(models.User{ID: 1}, 404)

	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestUpdateGroup_CreatorReplacesMembersWholesale(t *testing.T) {
	svc, store := newGroupFixture()
	id := seedGroup(store, models.Group{
		GroupName: "Trip",
		Members:   []models.User{{ID: 1}, {ID: 2}},
		CreatedBy: 1,
	})

	name := "Goa Trip"
	group, err := svc.UpdateGroup(models.User{ID: 1}, id, &models.GroupUpdateRequest{
		GroupName: &name,
		MemberIDs: []int64{1, 3},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Goa Trip", group.GroupName)
	assert.Len(t, group.Members, 2)
	assert.False(t, IsGroupMember(models.User{ID: 2}, group), "previous member set is replaced")
	assert.True(t, IsGroupMember(models.User{ID: 3}, group))
}

func TestUpdateGroup_MemberWhoIsNotCreatorDenied(t *testing.T) {
	svc, store := newGroupFixture()
	id := seedGroup(store, models.Group{
		Members:   []models.User{{ID: 1}, {ID: 2}},
		CreatedBy: 1,
	})

	name := "hijacked"
	_, err := svc.UpdateGroup(models.User{ID: 2}, id, &models.GroupUpdateRequest{GroupName: &name})

	assert.True(t, utils.IsKind(err, utils.KindForbidden))
	assert.Contains(t, err.Error(), "You do not have permission to update this group")
	assert.Equal(t, 0, store.updateCalls)
}

func TestDeleteGroup_CreatorOnly(t *testing.T) {
	svc, store := newGroupFixture()
	id := seedGroup(store, models.Group{
		Members:   []models.User{{ID: 1}, {ID: 2}},
		CreatedBy: 1,
	})

	err := svc.DeleteGroup(models.User{ID: 2}, id)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
	assert.Equal(t, 0, store.deleteCalls)

	err = svc.DeleteGroup(models.User{ID: 1}, id)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.deleteCalls)
}

func TestGetGroupsForUser(t *testing.T) {
	svc, store := newGroupFixture()
	seedGroup(store, models.Group{Members: []models.User{{ID: 1}, {ID: 2}}, CreatedBy: 1})
	seedGroup(store, models.Group{Members: []models.User{{ID: 2}, {ID: 3}}, CreatedBy: 2})

	groups, err := svc.GetGroupsForUser(models.User{ID: 1})

	assert.NoError(t, err)
	assert.Len(t, groups, 1)
}
