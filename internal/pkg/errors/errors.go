package errors

import "errors"

// Shared application errors. Services wrap these with context; handlers map
// them to HTTP status codes and stable error_type strings.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (missing or
	// invalid token, wrong credentials).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the authenticated user may not perform
	// the action (e.g. editing another user's listing).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts (e.g. registering an email
	// that already has an account).
	ErrConflict = errors.New("resource state conflict")
)
