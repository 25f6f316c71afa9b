package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationPurpose_IsValid(t *testing.T) {
	assert.True(t, PurposeRegistration.IsValid())
	assert.True(t, PurposePasswordReset.IsValid())
	assert.False(t, VerificationPurpose("login").IsValid())
	assert.False(t, VerificationPurpose("").IsValid())
}

func TestVerificationCode_IsExpired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code := &VerificationCode{
		Email:     "user@example.com",
		Purpose:   PurposeRegistration,
		Code:      "123456",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(VerificationCodeTTL),
	}

	assert.False(t, code.IsExpired(issued))
	assert.False(t, code.IsExpired(issued.Add(VerificationCodeTTL-time.Second)))

	// The boundary counts as expired.
	assert.True(t, code.IsExpired(issued.Add(VerificationCodeTTL)))
	assert.True(t, code.IsExpired(issued.Add(VerificationCodeTTL+time.Second)))
}
