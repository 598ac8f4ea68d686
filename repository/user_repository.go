// repository/user_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/sshinde/billsplit-backend/models"
)

// UserRepository handles database operations for users and their
// verification tokens
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone, password_hash, gender, enabled, active, role, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Gender, &user.Enabled, &user.Active, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user and fills in the generated ID
func (r *UserRepository) CreateUser(user *models.User) error {
	err := r.db.QueryRow(
		`INSERT INTO users (name, email, phone, password_hash, gender, enabled, active, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Gender,
		user.Enabled, user.Active, user.Role, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}
	return nil
}

// GetUserByID returns the user with the given ID, or nil if absent
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email, or nil if absent
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %v", err)
	}
	return user, nil
}

// GetUsersByIDs returns the users matching the given IDs. IDs that do not
// resolve are dropped silently; callers check for an empty result.
func (r *UserRepository) GetUsersByIDs(ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser persists mutable profile fields of a user
func (r *UserRepository) UpdateUser(user *models.User) error {
	_, err := r.db.Exec(
		`UPDATE users SET name = $1, phone = $2, gender = $3, enabled = $4, active = $5, updated_at = $6
		 WHERE id = $7`,
		user.Name, user.Phone, user.Gender, user.Enabled, user.Active, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	return nil
}

// CreateVerificationToken stores a pending email verification token
func (r *UserRepository) CreateVerificationToken(token *models.VerificationToken) error {
	_, err := r.db.Exec(
		`INSERT INTO verification_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token.Token, token.UserID, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification token: %v", err)
	}
	return nil
}

// GetVerificationToken returns the token record, or nil if absent
func (r *UserRepository) GetVerificationToken(token string) (*models.VerificationToken, error) {
	var vt models.VerificationToken
	err := r.db.QueryRow(
		`SELECT token, user_id, expires_at FROM verification_tokens WHERE token = $1`,
		token,
	).Scan(&vt.Token, &vt.UserID, &vt.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token: %v", err)
	}
	return &vt, nil
}

// DeleteVerificationToken removes a consumed token
func (r *UserRepository) DeleteVerificationToken(token string) error {
	_, err := r.db.Exec(`DELETE FROM verification_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete verification token: %v", err)
	}
	return nil
}
