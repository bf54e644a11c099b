package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// noExpiry is what TTL reports for a key that exists but never expires.
const noExpiry = time.Duration(-1)

// Counter is the Redis surface used by RedisLimiter. *redis.Client satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisLimiter is a fixed-window counter shared by every API replica.
type RedisLimiter struct {
	client Counter
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter builds a limiter allowing limit submissions per window.
func NewRedisLimiter(client Counter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow increments the counter for key. The window starts on the first submission.
// A blocked key found without a TTL gets one, so a lost EXPIRE costs at most one window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, eris.Wrap(err, "ratelimit: incr")
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, eris.Wrap(err, "ratelimit: expire")
		}
	}

	if count > int64(l.limit) {
		retryAfter, err := l.client.TTL(ctx, redisKey).Result()
		if err == nil && retryAfter == noExpiry {
			// A counter without a TTL would block the key forever.
			if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
				return Decision{}, eris.Wrap(err, "ratelimit: restore expire")
			}
		}
		if err != nil || retryAfter < 0 {
			retryAfter = l.window
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - int(count)}, nil
}
