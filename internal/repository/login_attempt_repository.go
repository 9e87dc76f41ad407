package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "acervo:login_attempts:"

// redisCounter is the subset of *redis.Client used for attempt counters.
type redisCounter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginAttemptRepository counts failed logins per email in Redis.
type LoginAttemptRepository struct {
	client redisCounter
}

// NewLoginAttemptRepository constructs the repository. A nil client disables counting.
func NewLoginAttemptRepository(client redisCounter) *LoginAttemptRepository {
	return &LoginAttemptRepository{client: client}
}

func attemptKey(email string) string {
	return loginAttemptPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Count returns the failed attempts recorded in the current window.
func (r *LoginAttemptRepository) Count(ctx context.Context, email string) (int, error) {
	if r.client == nil {
		return 0, nil
	}
	key := attemptKey(email)
	n, err := r.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return n, nil
}

// Increment records a failed attempt. The window starts with the first failure.
func (r *LoginAttemptRepository) Increment(ctx context.Context, email string, window time.Duration) (int, error) {
	if r.client == nil {
		return 0, nil
	}
	key := attemptKey(email)
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return int(n), fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return int(n), nil
}

// Reset clears the counter after a successful login.
func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	if r.client == nil {
		return nil
	}
	key := attemptKey(email)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
