package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per key. The key combines the
// presented identifier with the client address so one attacker cannot
// lock everyone out and one address cannot spray identifiers.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NoopLimiter allows everything. Used when redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisLoginLimiter counts attempts in a fixed window. The counter key
// expires with the window, so there is nothing to clean up.
type RedisLoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLoginLimiter(client *redis.Client, limit int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "login_attempts:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("auth: rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("auth: rate limit expire: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}
