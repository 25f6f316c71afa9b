package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// AuthService handles account creation and credential checks. The OTP-gated
// flows consume a verification code first and only then perform the gated
// action; a failure of the gated action is reported on its own and never
// re-validates the code.
type AuthService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	verification  *VerificationService
	email         EmailService
}

// RegisterInput carries the payload of the code-gated registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Code     string
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	verification *VerificationService,
	email EmailService,
) (*AuthService, error) {
	if users == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if notifications == nil {
		return nil, fmt.Errorf("NotificationRepository is required for AuthService")
	}
	if verification == nil {
		return nil, fmt.Errorf("VerificationService is required for AuthService")
	}
	if email == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	return &AuthService{
		users:         users,
		notifications: notifications,
		verification:  verification,
		email:         email,
	}, nil
}

// SignUp creates an account directly, without email verification. Kept for
// clients that have not adopted the OTP flow.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := s.checkUnique(email, username); err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password,
		Avatar:   entity.DefaultAvatarURL,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendWelcome(ctx, user)
	return user, nil
}

// RegisterWithCode consumes a registration code and creates the account.
func (s *AuthService) RegisterWithCode(ctx context.Context, input RegisterInput) (*entity.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)

	if err := s.verification.VerifyAndConsume(ctx, input.Email, input.Code, entity.PurposeRegistration); err != nil {
		return nil, err
	}

	// The code was valid; from here on failures are downstream-action
	// failures, reported distinctly so the caller knows the code was fine.
	if err := s.checkUnique(input.Email, input.Username); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Username:        input.Username,
		Email:           input.Email,
		Password:        input.Password,
		Avatar:          entity.DefaultAvatarURL,
		EmailVerifiedAt: &now,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notify(user.ID, "Welcome to Estate App! Your account is ready.")
	s.sendWelcome(ctx, user)
	return user, nil
}

// ResetPasswordWithCode consumes a password-reset code and updates the
// account password.
func (s *AuthService) ResetPasswordWithCode(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)

	if err := s.verification.VerifyAndConsume(ctx, email, code, entity.PurposePasswordReset); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Account deleted between issuance and verification.
			return fmt.Errorf("%w: no account found with this email", ErrNoAccountForEmail)
		}
		return fmt.Errorf("failed to load user for password reset: %w", err)
	}

	if err := s.users.UpdatePassword(user.ID, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.notify(user.ID, "Your password was changed. If this wasn't you, contact support.")
	return nil
}

// SignIn validates credentials and returns the account.
func (s *AuthService) SignIn(email, password string) (*entity.User, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID returns the account with the given ID.
func (s *AuthService) GetUserByID(id uint) (*entity.User, error) {
	return s.users.GetByID(id)
}

func (s *AuthService) checkUnique(email, username string) error {
	_, err := s.users.GetByEmail(email)
	if err == nil {
		return fmt.Errorf("%w: user already exists with this email", ErrUserAlreadyExists)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check email existence: %w", err)
	}

	_, err = s.users.GetByUsername(username)
	if err == nil {
		return fmt.Errorf("%w: username is taken", ErrUserAlreadyExists)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check username existence: %w", err)
	}
	return nil
}

func (s *AuthService) notify(userID uint, message string) {
	err := s.notifications.Create(&entity.Notification{UserID: userID, Message: message})
	if err != nil {
		log.Printf("[AuthService] failed to create notification for user ID=%d: %v", userID, err)
	}
}

func (s *AuthService) sendWelcome(ctx context.Context, user *entity.User) {
	if err := s.email.SendWelcome(ctx, user.Email, user.Username); err != nil {
		log.Printf("[AuthService] failed to send welcome email to %s: %v", user.Email, err)
	}
}
