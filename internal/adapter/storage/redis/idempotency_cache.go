package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache using Redis. It is a
// fast path only: the database check inside the posting transaction stays
// authoritative, so a cache wipe never breaks replay semantics.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{
		client: client,
		prefix: "idempotency:",
	}
}

// Get retrieves the batch id previously posted under key.
// Returns nil, nil if the key does not exist.
func (c *IdempotencyCache) Get(ctx context.Context, key string) (*uuid.UUID, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return nil, fmt.Errorf("redis idempotency parse %q: %w", val, err)
	}
	return &id, nil
}

// Set records the batch id posted under key with TTL.
func (c *IdempotencyCache) Set(ctx context.Context, key string, batchID uuid.UUID, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, batchID.String(), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}
