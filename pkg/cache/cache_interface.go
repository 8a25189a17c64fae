package cache

import (
	"context"
	"time"
)

// Cache là contract chung cho Redis và memory cache.
// Values được encode JSON; Get trả found=false khi miss và không đụng vào dest.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern nhận glob kiểu Redis ("girl:slug:*")
	DeletePattern(ctx context.Context, pattern string) error

	// Counters (login throttle)
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
}
