package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the shared-store fixed-window counter. The bucket number
// is part of the key, so one pipelined INCR+EXPIRE round trip is the whole
// check; there is no read-modify-write race across instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rate"
	}
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if key == "" {
		key = "unknown"
	}

	now := l.now().UTC()
	// Bucket arithmetic in nanoseconds so sub-second windows work too.
	bucket := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	var incr *redis.IntCmd
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		// TTL is cleanup only; the bucket in the key keeps the window fixed.
		pipe.Expire(ctx, redisKey, 2*l.window)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	windowEnd := time.Unix(0, (bucket+1)*int64(l.window))
	return decide(incr.Val(), l.limit, windowEnd.Sub(now)), nil
}

// Ping probes the shared store. Used by the fallback switch to decide when
// to upgrade back to shared mode.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
