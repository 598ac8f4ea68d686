package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshinde/billsplit-backend/auth"
	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/utils"
)

type fakeUserStore struct {
	fakeUserDirectory
	tokens      map[string]*models.VerificationToken
	nextID      int64
	updateCalls int
}

func (f *fakeUserStore) CreateUser(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) UpdateUser(user *models.User) error {
	f.updateCalls++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			loaded := user
			return &loaded, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) CreateVerificationToken(token *models.VerificationToken) error {
	stored := *token
	f.tokens[token.Token] = &stored
	return nil
}

func (f *fakeUserStore) GetVerificationToken(token string) (*models.VerificationToken, error) {
	if vt, ok := f.tokens[token]; ok {
		loaded := *vt
		return &loaded, nil
	}
	return nil, nil
}

func (f *fakeUserStore) DeleteVerificationToken(token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeMailer struct {
	sent      int
	lastToken string
	fail      bool
}

func (f *fakeMailer) SendVerificationEmail(to, name, token string) error {
	f.sent++
	f.lastToken = token
	if f.fail {
		return assert.AnError
	}
	return nil
}

func newUserFixture() (*UserService, *fakeUserStore, *fakeMailer) {
	store := &fakeUserStore{
		fakeUserDirectory: fakeUserDirectory{users: map[int64]models.User{}},
		tokens:            map[string]*models.VerificationToken{},
	}
	mailer := &fakeMailer{}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewUserService(store, mailer, tokens), store, mailer
}

func registerRequest(email string) *models.RegisterRequest {
	gender := true
	return &models.RegisterRequest{
		Name:     "Asha",
		Email:    email,
		Phone:    "5550100",
		Password: "correct horse",
		Gender:   &gender,
	}
}

func TestRegister_CreatesDisabledAccountAndSendsEmail(t *testing.T) {
	svc, store, mailer := newUserFixture()

	err := svc.Register(registerRequest("asha@example.com"))

	require.NoError(t, err)
	assert.Equal(t, 1, mailer.sent)

	user, err := store.GetUserByEmail("asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.Enabled, "account starts unverified")
	assert.True(t, user.Active)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	vt, err := store.GetVerificationToken(mailer.lastToken)
	require.NoError(t, err)
	require.NotNil(t, vt)
	assert.Equal(t, user.ID, vt.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))

	err := svc.Register(registerRequest("asha@example.com"))

	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Contains(t, err.Error(), "User with this email already exists")
}

func TestRegister_EmailFailureDoesNotFailRegistration(t *testing.T) {
	svc, store, mailer := newUserFixture()
	mailer.fail = true

	err := svc.Register(registerRequest("asha@example.com"))

	assert.NoError(t, err)
	user, _ := store.GetUserByEmail("asha@example.com")
	assert.NotNil(t, user)
}

func TestVerifyEmail_EnablesAccountAndConsumesToken(t *testing.T) {
	svc, store, mailer := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))

	err := svc.VerifyEmail(mailer.lastToken)

	require.NoError(t, err)
	user, _ := store.GetUserByEmail("asha@example.com")
	assert.True(t, user.Enabled)

	vt, _ := store.GetVerificationToken(mailer.lastToken)
	assert.Nil(t, vt, "token is single-use")
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, _, _ := newUserFixture()

	err := svc.VerifyEmail("no-such-token")

	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Contains(t, err.Error(), "Invalid verification token")
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	svc, store, mailer := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))
	store.tokens[mailer.lastToken].ExpiresAt = time.Now().Add(-time.Minute)

	err := svc.VerifyEmail(mailer.lastToken)

	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Contains(t, err.Error(), "Verification token has expired")
}

func TestLogin(t *testing.T) {
	svc, _, mailer := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))
	require.NoError(t, svc.VerifyEmail(mailer.lastToken))

	response, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "correct horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "asha@example.com", response.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mailer := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))
	require.NoError(t, svc.VerifyEmail(mailer.lastToken))

	_, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "wrong"})

	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	svc, _, _ := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))

	_, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "correct horse"})

	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	assert.Contains(t, err.Error(), "Email not verified")
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, store, mailer := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))
	require.NoError(t, svc.VerifyEmail(mailer.lastToken))

	user, _ := store.GetUserByEmail("asha@example.com")
	require.NoError(t, svc.DeactivateUser(*user))

	_, err := svc.Login(&models.LoginRequest{Email: "asha@example.com", Password: "correct horse"})

	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	assert.Contains(t, err.Error(), "Account is deactivated")
}

func TestUpdateUser(t *testing.T) {
	svc, store, _ := newUserFixture()
	require.NoError(t, svc.Register(registerRequest("asha@example.com")))
	user, _ := store.GetUserByEmail("asha@example.com")

	gender := false
	err := svc.UpdateUser(*user, &models.UserUpdateRequest{Name: "Asha S", Phone: "5550199", Gender: &gender})

	require.NoError(t, err)
	updated, _ := store.GetUserByID(user.ID)
	assert.Equal(t, "Asha S", updated.Name)
	assert.Equal(t, "5550199", updated.Phone)
}
