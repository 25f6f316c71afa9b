package service

import "errors"

// Flow specific errors used by handlers for stable error_type mapping.
var (
	// ErrUserAlreadyExists: an account with the email (or username) exists
	// where the flow requires none.
	ErrUserAlreadyExists = errors.New("user_already_exists")

	// ErrNoAccountForEmail: no account exists where the flow requires one.
	ErrNoAccountForEmail = errors.New("no_account_for_email")

	// ErrInvalidCredentials: wrong email/password pair on sign-in.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidOrExpiredCode covers absent, mismatched and expired
	// verification codes alike, so a caller cannot tell which occurred.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")

	// ErrGoogleTokenVerificationFailed: the Google ID token did not verify.
	ErrGoogleTokenVerificationFailed = errors.New("google_token_verification_failed")

	// ErrFeatureDisabled: the requested sign-in method is not configured.
	ErrFeatureDisabled = errors.New("feature_disabled")
)
