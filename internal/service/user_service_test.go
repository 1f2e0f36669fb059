package service

import (
	"testing"

	"reviewdeck/internal/auth"
	"reviewdeck/internal/models"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestUserService(repo *MockUserRepository) UserService {
	// MinCost keeps the hashing in tests fast; cost only affects new hashes.
	return NewUserService(repo, bcrypt.MinCost)
}

func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", "alice@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := newTestUserService(mockRepo).Register("alice", "alice@x.com", "longpassword1", "longpassword1")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	// Stored value is a verifiable hash, never the plaintext.
	assert.NotEqual(t, "longpassword1", user.Password)
	assert.True(t, auth.VerifyPassword(user.Password, "longpassword1"))

	mockRepo.AssertExpectations(t)
}

func TestRegister_UsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "alice").Return(&models.User{Username: "alice"}, nil)

	_, err := newTestUserService(mockRepo).Register("alice", "alice@x.com", "longpassword1", "longpassword1")
	assert.ErrorIs(t, err, ErrNameInUse)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", "alice@x.com").Return(&models.User{Email: "alice@x.com"}, nil)

	_, err := newTestUserService(mockRepo).Register("alice", "alice@x.com", "longpassword1", "longpassword1")
	assert.ErrorIs(t, err, ErrEmailInUse)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_ValidationOrder(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestUserService(mockRepo)

	// Username checked first: a 2-char username fails with the
	// length-specific message even when every later field is also bad.
	_, err := svc.Register("ab", "not-an-email", "short", "mismatch")
	var validationErr *validation.Error
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Username must be at least 3 characters", validationErr.Message)

	// Then email.
	_, err = svc.Register("alice", "not-an-email", "short", "mismatch")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Please enter a valid email address", validationErr.Message)

	// Then password.
	_, err = svc.Register("alice", "alice@x.com", "short", "mismatch")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Password must be at least 8 characters", validationErr.Message)

	// The confirmation is checked last, only once the fields themselves pass.
	_, err = svc.Register("alice", "alice@x.com", "longpassword1", "different1234")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "confirm_password", validationErr.Field)
	assert.Equal(t, "Passwords do not match.", validationErr.Message)

	// Rejected input never reaches the repository.
	mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateRace(t *testing.T) {
	// Both pre-checks pass but the insert loses a race; the constraint
	// violation still maps to the per-field outcome.
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", "alice@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicateEmail)

	_, err := newTestUserService(mockRepo).Register("alice", "alice@x.com", "longpassword1", "longpassword1")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestAuthenticate_Success(t *testing.T) {
	hash, err := auth.HashPassword("longpassword1", bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "alice").Return(&models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hash,
	}, nil)

	user, err := newTestUserService(mockRepo).Authenticate("alice", "longpassword1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	// The hash never leaves the directory.
	assert.Empty(t, user.Password)
}

func TestAuthenticate_FailuresIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("longpassword1", bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", "nosuchuser").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByUsername", "alice").Return(&models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hash,
	}, nil)

	svc := newTestUserService(mockRepo)

	_, unknownErr := svc.Authenticate("nosuchuser", "longpassword1")
	_, wrongErr := svc.Authenticate("alice", "wrongpassword")

	// Unknown username and wrong password surface the same failure kind.
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongErr)
}
