package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// JobLock implements ports.JobLockStore using Redis SET NX. It keeps the
// scheduled jobs (close, reconcile, settle) from running concurrently when
// more than one worker instance is deployed.
type JobLock struct {
	client *goredis.Client
	prefix string
}

// NewJobLock creates a new Redis-backed job lock store.
func NewJobLock(client *goredis.Client) *JobLock {
	return &JobLock{
		client: client,
		prefix: "joblock:",
	}
}

// Acquire attempts to take the named lock. Returns true when this caller
// won; false means another instance holds it.
func (l *JobLock) Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.prefix+job, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis job lock acquire: %w", err)
	}
	return ok, nil
}

// Release drops the named lock. Releasing a lock that expired is a no-op.
func (l *JobLock) Release(ctx context.Context, job string) error {
	if err := l.client.Del(ctx, l.prefix+job).Err(); err != nil {
		return fmt.Errorf("redis job lock release: %w", err)
	}
	return nil
}
