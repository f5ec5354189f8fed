// Package redis holds the Redis-backed stores.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hotlunchhub/internal/config"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

const (
	pingTimeout       = 2 * time.Second
	idempotencyPrefix = "hotlunchhub:idempotency:create-user:"
)

// NewClient connects to Redis. It returns nil when no address is configured
// or the server does not answer, and callers fall back to in-process stores.
func NewClient(cfg config.RedisConfig, log logger.Logger) *goredis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis: ping failed, falling back to in-memory stores", "addr", cfg.Addr, "err", err)
		_ = client.Close()
		return nil
	}

	log.Info("redis: connected", "addr", cfg.Addr, "db", cfg.DB)
	return client
}

// IdempotencyStore keeps create-user idempotency entries in Redis. Reserve
// uses SET NX so concurrent requests with one key see a single winner.
type IdempotencyStore struct {
	client *goredis.Client
}

func NewIdempotencyStore(client *goredis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*usersdomain.IdempotencyEntry, bool, error) {
	data, err := json.Marshal(usersdomain.IdempotencyEntry{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, fmt.Errorf("encode idempotency entry: %w", err)
	}

	// the holder may expire between SETNX and GET; one retry covers that
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, data, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return nil, true, nil
		}

		entry, found, err := s.get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if found {
			return entry, false, nil
		}
	}
	return nil, false, fmt.Errorf("redis reserve %q: key churned", key)
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, entry usersdomain.IdempotencyEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Release(ctx, key)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode idempotency entry: %w", err)
	}
	if err := s.client.Set(ctx, idempotencyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) get(ctx context.Context, key string) (*usersdomain.IdempotencyEntry, bool, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entry usersdomain.IdempotencyEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode idempotency entry: %w", err)
	}
	return &entry, true, nil
}
