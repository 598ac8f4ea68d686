// repository/group_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/sshinde/billsplit-backend/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup inserts a group and its member set in one transaction
func (r *GroupRepository) CreateGroup(group *models.Group) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO user_groups (group_name, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		group.GroupName, group.CreatedBy, group.CreatedAt, group.UpdatedAt,
	).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to insert group: %v", err)
	}

	for _, member := range group.Members {
		_, err = tx.Exec(
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
			group.ID, member.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %v", err)
		}
	}

	return tx.Commit()
}

// GetGroupByID returns a group with its members loaded, or nil if absent
func (r *GroupRepository) GetGroupByID(id int64) (*models.Group, error) {
	var group models.Group
	err := r.db.QueryRow(
		`SELECT id, group_name, created_by, created_at, updated_at FROM user_groups WHERE id = $1`,
		id,
	).Scan(&group.ID, &group.GroupName, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %v", err)
	}

	members, err := r.loadMembers(group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return &group, nil
}

// GetGroupsByMember returns every group the user belongs to
func (r *GroupRepository) GetGroupsByMember(userID int64) ([]models.Group, error) {
	rows, err := r.db.Query(
		`SELECT g.id, g.group_name, g.created_by, g.created_at, g.updated_at
		 FROM user_groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = $1
		 ORDER BY g.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %v", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.GroupName, &group.CreatedBy,
			&group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %v", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := r.loadMembers(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}

	return groups, nil
}

// UpdateGroup persists the group row and replaces the member set wholesale
func (r *GroupRepository) UpdateGroup(group *models.Group) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE user_groups SET group_name = $1, updated_at = $2 WHERE id = $3`,
		group.GroupName, group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %v", err)
	}

	_, err = tx.Exec(`DELETE FROM group_members WHERE group_id = $1`, group.ID)
	if err != nil {
		return fmt.Errorf("failed to clear group members: %v", err)
	}

	for _, member := range group.Members {
		_, err = tx.Exec(
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
			group.ID, member.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %v", err)
		}
	}

	return tx.Commit()
}

// DeleteGroup removes a group; members cascade
func (r *GroupRepository) DeleteGroup(id int64) error {
	_, err := r.db.Exec(`DELETE FROM user_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %v", err)
	}
	return nil
}

func (r *GroupRepository) loadMembers(groupID int64) ([]models.User, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.gender, u.enabled, u.active, u.role, u.created_at, u.updated_at
		 FROM users u
		 JOIN group_members gm ON gm.user_id = u.id
		 WHERE gm.group_id = $1`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %v", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		member, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group member: %v", err)
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}
