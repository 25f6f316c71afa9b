package repository

import (
	"context"

	"github.com/yourusername/estate-api/internal/domain/entity"
)

// VerificationCodeRepository stores short-lived verification codes keyed by
// (email, purpose). The store expires records on its own once the TTL passes;
// Put replaces any existing live record for the pair.
type VerificationCodeRepository interface {
	// Put stores the record and makes it the only live code for its
	// (email, purpose) pair, superseding any previous one.
	Put(ctx context.Context, code *entity.VerificationCode) error

	// Get returns the live record for the pair, or apperrors.ErrNotFound.
	Get(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error)

	// ConsumeMatching atomically deletes the live record for the pair if its
	// digits match code, returning whether a record was consumed. A false
	// return covers absent, mismatched and expired records alike.
	ConsumeMatching(ctx context.Context, email string, purpose entity.VerificationPurpose, code string) (bool, error)

	// Delete removes the live record for the pair, if any.
	Delete(ctx context.Context, email string, purpose entity.VerificationPurpose) error
}
