// services/user_service.go
package services

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sshinde/billsplit-backend/auth"
	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

const verificationTokenTTL = 24 * time.Hour

// UserStore is the durable store for users and verification tokens
type UserStore interface {
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []int64) ([]models.User, error)
	CreateVerificationToken(token *models.VerificationToken) error
	GetVerificationToken(token string) (*models.VerificationToken, error)
	DeleteVerificationToken(token string) error
}

// Mailer sends account emails
type Mailer interface {
	SendVerificationEmail(to, name, token string) error
}

// UserService handles registration, email verification, login and
// profile maintenance
type UserService struct {
	store  UserStore
	mailer Mailer
	tokens *auth.TokenService
}

// NewUserService creates a new user service
func NewUserService(store UserStore, mailer Mailer, tokens *auth.TokenService) *UserService {
	return &UserService{store: store, mailer: mailer, tokens: tokens}
}

// Register creates a disabled account, stores a verification token and
// sends the verification email. A failed email send is logged but does
// not fail the registration.
func (s *UserService) Register(req *models.RegisterRequest) error {
	existing, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		return utils.NewInternalError("Failed to check existing user")
	}
	if existing != nil {
		return utils.NewConflictError("User with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return utils.NewInternalError("Failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Gender:       *req.Gender,
		Enabled:      false,
		Active:       true,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(user); err != nil {
		return utils.NewInternalError("Failed to store user")
	}

	token := &models.VerificationToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(verificationTokenTTL),
	}
	if err := s.store.CreateVerificationToken(token); err != nil {
		return utils.NewInternalError("Failed to store verification token")
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, user.Name, token.Token); err != nil {
			log.Printf("Warning: failed to send verification email to %s: %v", user.Email, err)
		}
	}

	return nil
}

// VerifyEmail enables the account linked to a valid, unexpired token and
// consumes the token
func (s *UserService) VerifyEmail(token string) error {
	vt, err := s.store.GetVerificationToken(token)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve verification token")
	}
	if vt == nil {
		return utils.NewValidationError("Invalid verification token")
	}
	if vt.ExpiresAt.Before(time.Now()) {
		return utils.NewValidationError("Verification token has expired")
	}

	user, err := s.store.GetUserByID(vt.UserID)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve user")
	}
	if user == nil {
		return utils.NewValidationError("Associated user not found for the token")
	}

	user.Enabled = true
	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(user); err != nil {
		return utils.NewInternalError("Failed to store user")
	}

	if err := s.store.DeleteVerificationToken(token); err != nil {
		return utils.NewInternalError("Failed to delete verification token")
	}
	return nil
}

// Login verifies credentials and returns a signed session token
func (s *UserService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve user")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, utils.NewUnauthorizedError("Invalid email or password")
	}
	if !user.Enabled {
		return nil, utils.NewUnauthorizedError("Email not verified")
	}
	if !user.Active {
		return nil, utils.NewUnauthorizedError("Account is deactivated")
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to generate token")
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

// GetUserByID returns a user, or a not-found error
func (s *UserService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(id)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve user")
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUser updates the actor's own profile fields
func (s *UserService) UpdateUser(actor models.User, req *models.UserUpdateRequest) error {
	user, err := s.store.GetUserByID(actor.ID)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve user")
	}
	if user == nil {
		return utils.NewNotFoundError("User")
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Gender = *req.Gender
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(user); err != nil {
		return utils.NewInternalError("Failed to store user")
	}
	return nil
}

// DeactivateUser soft-deletes the actor's account
func (s *UserService) DeactivateUser(actor models.User) error {
	user, err := s.store.GetUserByID(actor.ID)
	if err != nil {
		return utils.NewInternalError("Failed to retrieve user")
	}
	if user == nil {
		return utils.NewNotFoundError("User")
	}

	user.Active = false
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(user); err != nil {
		return utils.NewInternalError("Failed to store user")
	}
	return nil
}
