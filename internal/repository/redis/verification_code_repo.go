package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/estate-api/internal/domain/entity"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// consumeMatchingScript deletes the record only if its digits match, in one
// atomic step. This closes the find-then-delete race: a code can be consumed
// exactly once even under concurrent verify requests.
var consumeMatchingScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return 0
end
local rec = cjson.decode(v)
if rec.code == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)

// VerificationCodeRepo implements repository.VerificationCodeRepository on
// Redis. Records carry a TTL equal to their validity window, so the store
// sweeps expired codes without any application polling, and SET-on-issue
// guarantees at most one live code per (email, purpose) pair.
type VerificationCodeRepo struct {
	client redis.UniversalClient
}

// NewVerificationCodeRepo creates a new verification code repository.
func NewVerificationCodeRepo(client redis.UniversalClient) (*VerificationCodeRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for VerificationCodeRepo")
	}
	return &VerificationCodeRepo{client: client}, nil
}

func codeKey(email string, purpose entity.VerificationPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Put stores the record under its pair key with a TTL running to ExpiresAt.
// An existing live record for the pair is overwritten: latest code wins.
func (r *VerificationCodeRepo) Put(ctx context.Context, code *entity.VerificationCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal verification code: %w", err)
	}

	ttl := time.Until(code.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("verification code already expired at %s", code.ExpiresAt)
	}

	return r.client.Set(ctx, codeKey(code.Email, code.Purpose), data, ttl).Err()
}

// Get returns the live record for the pair.
func (r *VerificationCodeRepo) Get(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error) {
	data, err := r.client.Get(ctx, codeKey(email, purpose)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var code entity.VerificationCode
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification code: %w", err)
	}
	return &code, nil
}

// ConsumeMatching atomically deletes the pair's record if its digits match.
func (r *VerificationCodeRepo) ConsumeMatching(ctx context.Context, email string, purpose entity.VerificationPurpose, code string) (bool, error) {
	result, err := consumeMatchingScript.Run(ctx, r.client, []string{codeKey(email, purpose)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume script failed: %w", err)
	}
	return result == 1, nil
}

// Delete removes the live record for the pair, if any.
func (r *VerificationCodeRepo) Delete(ctx context.Context, email string, purpose entity.VerificationPurpose) error {
	return r.client.Del(ctx, codeKey(email, purpose)).Err()
}
