package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/estate-api/internal/domain/entity"
)

// EmailService sends transactional emails. Delivery is always best-effort
// from the caller's point of view: issuance flows log failures and continue.
type EmailService interface {
	SendVerificationCode(ctx context.Context, toEmail, code string, purpose entity.VerificationPurpose, idempotencyKey string) error
	SendWelcome(ctx context.Context, toEmail, username string) error
}

// NoopEmailService is used when no email provider is configured.
type NoopEmailService struct{}

func (s *NoopEmailService) SendVerificationCode(ctx context.Context, toEmail, code string, purpose entity.VerificationPurpose, idempotencyKey string) error {
	log.Printf("[EmailService] noop send %s code to=%s", purpose, toEmail)
	return nil
}

func (s *NoopEmailService) SendWelcome(ctx context.Context, toEmail, username string) error {
	log.Printf("[EmailService] noop send welcome to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via the Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendVerificationCode(ctx context.Context, toEmail, code string, purpose entity.VerificationPurpose, idempotencyKey string) error {
	if toEmail == "" || code == "" {
		return fmt.Errorf("toEmail and code are required")
	}

	subject := "Registration Code - Estate App"
	intro := "Thank you for signing up with Estate App! Use the following code to verify your email address and complete your registration."
	if purpose == entity.PurposePasswordReset {
		subject = "Password Reset Code - Estate App"
		intro = "We received a request to reset the password for your Estate App account. Use the following code to verify your identity and reset your password."
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Text:    fmt.Sprintf("%s\n\nYour code is %s. It expires in 10 minutes.\n\nIf you did not request this, you can ignore this email.", intro, code),
		Html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2563eb;">Estate App</h1>
  <p>%s</p>
  <div style="background: #f1f5f9; padding: 16px; text-align: center; border-radius: 8px;">
    <span style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</span>
  </div>
  <p><strong>Important:</strong> this code expires in 10 minutes.</p>
  <p style="color: #64748b;">If you did not request this, you can ignore this email.</p>
</div>`, intro, code),
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	return s.sendWithRetry(ctx, params, options)
}

func (s *ResendEmailService) SendWelcome(ctx context.Context, toEmail, username string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Welcome to Estate App!",
		Text:    fmt.Sprintf("Hello %s!\n\nYour account is ready. You can now browse listings, post your own properties and contact owners.", username),
		Html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2563eb;">Welcome to Estate App!</h1>
  <h2 style="color: #1e293b;">Hello %s!</h2>
  <p>Your account is ready. You can now:</p>
  <ul>
    <li>Browse properties for sale and rent</li>
    <li>Post your own listings with photos</li>
    <li>Contact owners directly</li>
  </ul>
</div>`, username),
	}

	return s.sendWithRetry(ctx, params, &resend.SendEmailOptions{})
}

func (s *ResendEmailService) sendWithRetry(ctx context.Context, params *resend.SendEmailRequest, options *resend.SendEmailOptions) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
