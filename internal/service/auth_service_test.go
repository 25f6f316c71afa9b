package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/estate-api/internal/domain/entity"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// ============================================================================
// Mocks
// ============================================================================

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockNotificationRepository implements repository.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *entity.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id uint) (*entity.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetByUserID(userID uint) ([]entity.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// ============================================================================
// Fixture
// ============================================================================

type authFixture struct {
	service      *AuthService
	verification *verificationFixture
	userRepo     *MockUserRepository
	notifRepo    *MockNotificationRepository
	email        *recordingEmailService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	vf := newVerificationFixture(t)
	notifRepo := new(MockNotificationRepository)

	svc, err := NewAuthService(vf.userRepo, notifRepo, vf.service, vf.email)
	require.NoError(t, err)

	return &authFixture{
		service:      svc,
		verification: vf,
		userRepo:     vf.userRepo,
		notifRepo:    notifRepo,
		email:        vf.email,
	}
}

// issueRegistrationCode is a test shortcut that plants a live code.
func (f *authFixture) issueRegistrationCode(t *testing.T, email string) string {
	t.Helper()
	code, err := f.verification.service.IssueRegistrationCode(context.Background(), email)
	require.NoError(t, err)
	return code
}

// ============================================================================
// RegisterWithCode
// ============================================================================

func TestAuthService_RegisterWithCode_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	f.userRepo.On("GetByUsername", "newuser").Return(nil, apperrors.ErrNotFound)
	f.userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)
	f.notifRepo.On("Create", mock.AnythingOfType("*entity.Notification")).Return(nil)

	code := f.issueRegistrationCode(t, "new@example.com")

	user, err := f.service.RegisterWithCode(context.Background(), RegisterInput{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "password123",
		Code:     code,
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotNil(t, user.EmailVerifiedAt, "OTP-verified registration marks the email verified")
	f.userRepo.AssertExpectations(t)
	f.notifRepo.AssertExpectations(t)
}

func TestAuthService_RegisterWithCode_InvalidCode(t *testing.T) {
	f := newAuthFixture(t)
	f.userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)

	_ = f.issueRegistrationCode(t, "new@example.com")

	user, err := f.service.RegisterWithCode(context.Background(), RegisterInput{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "password123",
		Code:     "999999999", // wrong length never matches a live code
	})

	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	assert.Nil(t, user)
	f.userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterWithCode_CodeConsumedEvenWhenUsernameTaken(t *testing.T) {
	f := newAuthFixture(t)
	// Email is free at issuance and registration time, but the chosen
	// username is taken.
	f.userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	f.userRepo.On("GetByUsername", "taken").Return(&entity.User{ID: 2, Username: "taken"}, nil)

	code := f.issueRegistrationCode(t, "new@example.com")

	user, err := f.service.RegisterWithCode(context.Background(), RegisterInput{
		Username: "taken",
		Email:    "new@example.com",
		Password: "password123",
		Code:     code,
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists, "downstream failure is reported on its own")
	assert.Nil(t, user)

	// The successful verification was a destructive read; the failed
	// downstream action does not resurrect the code.
	err = f.verification.service.VerifyAndConsume(context.Background(), "new@example.com", code, entity.PurposeRegistration)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

// ============================================================================
// ResetPasswordWithCode
// ============================================================================

func TestAuthService_ResetPasswordWithCode_Success(t *testing.T) {
	f := newAuthFixture(t)
	existing := &entity.User{ID: 7, Username: "resetter", Email: "user@example.com"}
	f.userRepo.On("GetByEmail", "user@example.com").Return(existing, nil)
	f.userRepo.On("UpdatePassword", uint(7), "newPassword123").Return(nil)
	f.notifRepo.On("Create", mock.AnythingOfType("*entity.Notification")).Return(nil)

	code, err := f.verification.service.IssuePasswordResetCode(context.Background(), "user@example.com")
	require.NoError(t, err)

	err = f.service.ResetPasswordWithCode(context.Background(), "user@example.com", code, "newPassword123")

	require.NoError(t, err)
	f.userRepo.AssertExpectations(t)
	f.notifRepo.AssertExpectations(t)
}

func TestAuthService_ResetPasswordWithCode_WrongCode(t *testing.T) {
	f := newAuthFixture(t)
	existing := &entity.User{ID: 7, Email: "user@example.com"}
	f.userRepo.On("GetByEmail", "user@example.com").Return(existing, nil)

	_, err := f.verification.service.IssuePasswordResetCode(context.Background(), "user@example.com")
	require.NoError(t, err)

	err = f.service.ResetPasswordWithCode(context.Background(), "user@example.com", "999999999", "newPassword123")

	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	f.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

// ============================================================================
// SignIn
// ============================================================================

func TestAuthService_SignIn_ValidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	plainPassword := "correctPassword123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)

	existing := &entity.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	f.userRepo.On("GetByEmail", "test@example.com").Return(existing, nil)

	user, err := f.service.SignIn("test@example.com", plainPassword)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(1), user.ID)
	f.userRepo.AssertExpectations(t)
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correctPassword"), bcrypt.DefaultCost)

	existing := &entity.User{ID: 1, Email: "test@example.com", Password: string(hashedPassword)}
	f.userRepo.On("GetByEmail", "test@example.com").Return(existing, nil)

	user, err := f.service.SignIn("test@example.com", "wrongPassword")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	user, err := f.service.SignIn("ghost@example.com", "whatever")

	// Unknown account and bad password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

// ============================================================================
// SignUp (legacy direct registration)
// ============================================================================

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.userRepo.On("GetByEmail", "existing@example.com").
		Return(&entity.User{ID: 1, Email: "existing@example.com"}, nil)

	user, err := f.service.SignUp(context.Background(), "newuser", "existing@example.com", "password123")

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Nil(t, user)
}
