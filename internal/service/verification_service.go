package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// VerificationService owns issuance, validation and consumption of the
// short-lived codes that prove control of an email address before an
// account-affecting action. One live code per (email, purpose) pair; issuing
// again supersedes the previous code; successful verification is a
// destructive read.
type VerificationService struct {
	codes    repository.VerificationCodeRepository
	users    repository.UserRepository
	email    EmailService
	codeTTL  time.Duration
	timeNow  func() time.Time
}

// NewVerificationService creates a new verification code service.
func NewVerificationService(
	codes repository.VerificationCodeRepository,
	users repository.UserRepository,
	email EmailService,
) (*VerificationService, error) {
	if codes == nil {
		return nil, fmt.Errorf("verification code repository is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email service is required")
	}
	return &VerificationService{
		codes:   codes,
		users:   users,
		email:   email,
		codeTTL: entity.VerificationCodeTTL,
		timeNow: time.Now,
	}, nil
}

// IssueRegistrationCode issues a code for completing a new registration.
// Precondition: no account exists with the email.
func (s *VerificationService) IssueRegistrationCode(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	_, err := s.users.GetByEmail(email)
	if err == nil {
		return "", fmt.Errorf("%w: user already exists with this email", ErrUserAlreadyExists)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to check email existence: %w", err)
	}

	return s.issue(ctx, email, entity.PurposeRegistration)
}

// IssuePasswordResetCode issues a code for resetting a forgotten password.
// Precondition: an account exists with the email.
func (s *VerificationService) IssuePasswordResetCode(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	_, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: no account found with this email", ErrNoAccountForEmail)
		}
		return "", fmt.Errorf("failed to check email existence: %w", err)
	}

	return s.issue(ctx, email, entity.PurposePasswordReset)
}

// issue generates, stores and best-effort delivers a new code. The new record
// supersedes any live code for the pair. Delivery failure is logged and never
// fails issuance: the code is also returned to the caller, which carries it
// in the response when configured to.
func (s *VerificationService) issue(ctx context.Context, email string, purpose entity.VerificationPurpose) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := s.timeNow()
	record := &entity.VerificationCode{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.codeTTL),
	}
	if err := s.codes.Put(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	idempotencyKey := fmt.Sprintf("otp:%s:%s:%s", purpose, email, uuid.NewString())
	if err := s.email.SendVerificationCode(ctx, email, code, purpose, idempotencyKey); err != nil {
		log.Printf("[VerificationService] delivery failed for %s code to %s: %v", purpose, email, err)
	}

	return code, nil
}

// VerifyAndConsume checks the code against the live record for the pair and
// deletes it on match, in one atomic store operation. Absent, mismatched and
// expired codes all fail identically with ErrInvalidOrExpiredCode.
func (s *VerificationService) VerifyAndConsume(ctx context.Context, email, code string, purpose entity.VerificationPurpose) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", apperrors.ErrValidation)
	}

	consumed, err := s.codes.ConsumeMatching(ctx, email, purpose, code)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if !consumed {
		return ErrInvalidOrExpiredCode
	}
	return nil
}

// GenerateCode returns a 6-digit code drawn uniformly from
// [100000, 999999], so the result always has exactly six digits.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
