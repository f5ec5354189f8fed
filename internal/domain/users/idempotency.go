package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// idempotencyLockTTL bounds how long a crashed request keeps its key.
const idempotencyLockTTL = time.Minute

// requestFingerprint hashes everything that shapes the created user.
func requestFingerprint(input CreateUserInput) string {
	payload, _ := json.Marshal(struct {
		Email    string
		Password string
		Name     string
		Role     string
		Attributes
	}{
		Email:      strings.ToLower(input.Email),
		Password:   input.Password,
		Name:       input.Name,
		Role:       strings.ToLower(input.Role),
		Attributes: input.Attributes,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// claimKey returns a stored result to replay, or claimed=true when this
// request now owns the key. A store failure is logged and the request runs
// without deduplication.
func (s *Service) claimKey(ctx context.Context, key, fingerprint string) (*CreateUserResult, bool, error) {
	entry, claimed, err := s.idempotency.Reserve(ctx, key, fingerprint, idempotencyLockTTL)
	switch {
	case err != nil:
		s.log.Warn("users.create: idempotency reserve failed", "err", err)
		return nil, false, nil
	case claimed:
		return nil, true, nil
	case entry.Fingerprint != fingerprint:
		return nil, false, &ValidationError{Message: ErrIdempotencyKeyReused.Error()}
	case entry.Result == nil:
		return nil, false, &ValidationError{Message: ErrIdempotencyInFlight.Error()}
	}
	result := *entry.Result
	return &result, false, nil
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if err := s.idempotency.Release(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn("users.create: idempotency release failed", "err", err)
	}
}
