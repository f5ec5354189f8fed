package inmemory

import (
	"context"
	"sync"
	"time"

	usersdomain "hotlunchhub/internal/domain/users"
)

// IdempotencyStore remembers create-user idempotency entries for a single
// process. Used when Redis is not configured.
type IdempotencyStore struct {
	mu    sync.Mutex
	items map[string]idempotencyItem
	now   func() time.Time
}

type idempotencyItem struct {
	entry     usersdomain.IdempotencyEntry
	expiresAt time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		items: make(map[string]idempotencyItem),
		now:   time.Now,
	}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, fingerprint string, ttl time.Duration) (*usersdomain.IdempotencyEntry, bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[key]; ok {
		if item.expiresAt.After(now) {
			entry := item.entry
			return &entry, false, nil
		}
		delete(s.items, key)
	}

	s.items[key] = idempotencyItem{
		entry:     usersdomain.IdempotencyEntry{Fingerprint: fingerprint},
		expiresAt: now.Add(ttl),
	}
	return nil, true, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, entry usersdomain.IdempotencyEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Release(ctx, key)
	}

	s.mu.Lock()
	s.items[key] = idempotencyItem{
		entry:     entry,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
