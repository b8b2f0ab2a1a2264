package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindow counts hits per key in fixed time windows backed by Redis.
// Key format: <prefix>:<key>:<window_index>
type FixedWindow struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewFixedWindow creates a FixedWindow counter wrapping the given Redis client.
func NewFixedWindow(client *redis.Client, prefix string) *FixedWindow {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &FixedWindow{client: client, prefix: prefix, now: time.Now}
}

// Hit records one request for key in the current window and returns the
// running count plus the time left until the window resets.
func (f *FixedWindow) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		return 0, 0, fmt.Errorf("ratelimit: window must be positive")
	}

	now := f.now()
	index := now.UnixNano() / int64(window)
	resetAt := time.Unix(0, (index+1)*int64(window))
	redisKey := fmt.Sprintf("%s:%s:%d", f.prefix, key, index)

	pipe := f.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("ratelimit hit: %w", err)
	}

	return incr.Val(), resetAt.Sub(now), nil
}
