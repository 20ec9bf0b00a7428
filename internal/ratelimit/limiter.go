// Package ratelimit implements a fixed one-minute window request limiter on redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Result describes the state of a key's window after a request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RedisLimiter counts requests per key in one-minute windows.
type RedisLimiter struct {
	rdb               redis.Cmdable
	requestsPerMinute int
	now               func() time.Time
}

// NewRedisLimiter creates a limiter allowing requestsPerMinute per key.
func NewRedisLimiter(rdb redis.Cmdable, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		rdb:               rdb,
		requestsPerMinute: requestsPerMinute,
		now:               time.Now,
	}
}

// Allow records one request for key and reports whether it fits the window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	windowStart := l.now().Truncate(time.Minute)
	fullKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, windowStart.Unix())

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Result{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incr.Val()
	remaining := l.requestsPerMinute - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.requestsPerMinute),
		Limit:     l.requestsPerMinute,
		Remaining: remaining,
		Reset:     windowStart.Add(time.Minute),
	}, nil
}

