// services/authorization.go
package services

import "github.com/sshinde/billsplit-backend/models"

// Access predicates for expenses and groups. All of them are pure
// functions over value snapshots; the acting user is always passed in
// explicitly rather than read from any ambient context.

// CanAccessExpense reports whether the user may read or mutate the
// expense: the payer, any participant, and any member of the expense's
// group (when it has one) all qualify. Participants deliberately share
// edit rights with the payer.
func CanAccessExpense(user models.User, expense *models.Expense) bool {
	if expense.Payer.ID == user.ID {
		return true
	}
	if expense.HasParticipant(user.ID) {
		return true
	}
	if expense.Group != nil && IsGroupMember(user, expense.Group) {
		return true
	}
	return false
}

// IsGroupMember reports whether the user is a current member of the group
func IsGroupMember(user models.User, group *models.Group) bool {
	for _, member := range group.Members {
		if member.ID == user.ID {
			return true
		}
	}
	return false
}

// IsGroupCreator reports whether the user created the group. Only the
// creator may update or delete a group.
func IsGroupCreator(user models.User, group *models.Group) bool {
	return group.CreatedBy == user.ID
}
