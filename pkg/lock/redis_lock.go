// Package lock provides the Redis lock that keeps replicas from running the same background job at once.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agentconsole/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	DefaultTTL         = 30 * time.Second
	lockAcquireTimeout = 5 * time.Second
)

// Only the owner may release the lock
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker is a non-blocking mutual exclusion lock
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	IsHeld() bool
}

// RedisLock SET NX lock with a TTL. A nil client degrades to single-instance mode and always succeeds.
type RedisLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration

	mu     sync.Mutex
	isHeld bool
}

var _ Locker = (*RedisLock)(nil)

// NewRedisLock creates a lock on key. ttl bounds how long a crashed holder blocks others.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLock{
		client: client,
		key:    key,
		value:  uuid.NewString(),
		ttl:    ttl,
	}
}

// TryLock acquires the lock without waiting
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client == nil {
		l.isHeld = true
		return true, nil
	}

	acquireCtx, cancel := context.WithTimeout(ctx, lockAcquireTimeout)
	defer cancel()

	acquired, err := l.client.SetNX(acquireCtx, l.key, l.value, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	l.isHeld = acquired
	if !acquired {
		logger.DebugCtx(ctx, "lock %s already held by another instance", l.key)
	}
	return acquired, nil
}

// Unlock releases the lock if this instance still owns it
func (l *RedisLock) Unlock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isHeld {
		return nil
	}
	l.isHeld = false
	if l.client == nil {
		return nil
	}

	released, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	if released == 0 {
		logger.WarnCtx(ctx, "lock %s expired or was taken over before release", l.key)
	}
	return nil
}

// IsHeld reports whether this instance holds the lock
func (l *RedisLock) IsHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isHeld
}
