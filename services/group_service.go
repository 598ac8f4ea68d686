// services/group_service.go
package services

import (
	"time"

	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

// GroupStore is the durable store for groups
type GroupStore interface {
	CreateGroup(group *models.Group) error
	UpdateGroup(group *models.Group) error
	DeleteGroup(id int64) error
	GetGroupByID(id int64) (*models.Group, error)
	GetGroupsByMember(userID int64) ([]models.Group, error)
}

// GroupService handles group lifecycle and membership rules: any member
// may read a group, only the creator may update or delete it, and the
// member set is always replaced wholesale.
type GroupService struct {
	store GroupStore
	users UserDirectory
}

// NewGroupService creates a new group service
func NewGroupService(store GroupStore, users UserDirectory) *GroupService {
	return &GroupService{store: store, users: users}
}

// CreateGroup creates a group owned by the actor. The actor is added to
// the member set whether or not their ID was listed.
func (s *GroupService) CreateGroup(actor models.User, req *models.GroupRequest) (*models.Group, error) {
	members, err := s.users.GetUsersByIDs(req.MemberIDs)
	if err != nil {
		return nil, utils.NewInternalError("Failed to resolve members")
	}
	if len(members) == 0 {
		return nil, utils.NewValidationError("Invalid member IDs")
	}

	if !containsParticipant(members, actor.ID) {
		members = append(members, actor)
	}

	now := time.Now()
	group := &models.Group{
		GroupName: req.GroupName,
		Members:   members,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateGroup(group); err != nil {
		return nil, utils.NewInternalError("Failed to store group")
	}
	return group, nil
}

// GetGroupByID returns a group to a current member. Non-members are
// refused with a permission error, not a not-found.
func (s *GroupService) GetGroupByID(actor models.User, id int64) (*models.Group, error) {
	group, err := s.store.GetGroupByID(id)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve group")
	}
	if group == nil {
		return nil, utils.NewNotFoundError("Group")
	}
	if !IsGroupMember(actor, group) {
		return nil, utils.NewForbiddenError("Access denied: You are not a member of this group")
	}
	return group, nil
}

// GetGroupsForUser returns all groups the actor belongs to
func (s *GroupService) GetGroupsForUser(actor models.User) ([]models.Group, error) {
	groups, err := s.store.GetGroupsByMember(actor.ID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve groups")
	}
	return groups, nil
}

// UpdateGroup applies a partial update. Only the creator may update; a
// present member list replaces the member set wholesale.
func (s *GroupService) UpdateGroup(actor models.User, id int64, req *models.GroupUpdateRequest) (*models.Group, error) {
	group, err := s.store.GetGroupByID(id)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve group")
	}
	if group == nil {
		return nil, utils.NewNotFoundError("Group")
	}
	if !IsGroupCreator(actor, group) {
		return nil, utils.NewForbiddenError("You do not have permission to update this group")
	}

	if req.GroupName != nil {
		group.GroupName = *req.GroupName
	}

	if len(req.MemberIDs) > 0 {
		members, err := s.users.GetUsersByIDs(req.MemberIDs)
		if err != nil {
			return nil, utils.NewInternalError("Failed to resolve members")
		}
		if len(members) == 0 {
			return nil, utils.NewValidationError("Invalid member IDs")
		}
		group.Members = members
	}

	group.UpdatedAt = time.Now()

	if err := s.store.UpdateGroup(group); err != nil {
		return nil, utils.NewInternalError("Failed to store group")
	}
	return group, nil
}

// DeleteGroup removes a group. Only the creator may delete.
func (s *GroupService) DeleteGroup(actor models.User, id int64) error {
	group, err := s.store.GetGroupByID(id)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve group")
	}
	if group == nil {
		return utils.NewNotFoundError("Group")
	}
	if !IsGroupCreator(actor, group) {
		return utils.NewForbiddenError("You do not have permission to delete this group")
	}

	if err := s.store.DeleteGroup(id); err != nil {
		return utils.NewInternalError("Failed to delete group")
	}
	return nil
}
