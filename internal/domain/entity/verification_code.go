package entity

import "time"

// VerificationPurpose tags which account-affecting flow a code authorizes.
type VerificationPurpose string

const (
	PurposeRegistration  VerificationPurpose = "registration"
	PurposePasswordReset VerificationPurpose = "password_reset"
)

// IsValid reports whether p is a known purpose.
func (p VerificationPurpose) IsValid() bool {
	return p == PurposeRegistration || p == PurposePasswordReset
}

// VerificationCodeTTL is the validity window of an issued code.
const VerificationCodeTTL = 10 * time.Minute

// VerificationCode is one outstanding challenge for an (email, purpose) pair.
// Records live in Redis under otp:{purpose}:{email} with a TTL equal to the
// validity window, so expired codes are swept by the store itself and at most
// one live code exists per pair.
type VerificationCode struct {
	Email     string              `json:"email"`
	Purpose   VerificationPurpose `json:"purpose"`
	Code      string              `json:"code"`
	IssuedAt  time.Time           `json:"issued_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// IsExpired reports whether the code is past its validity window. The store
// TTL normally removes expired records before this is ever observed.
func (v *VerificationCode) IsExpired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
