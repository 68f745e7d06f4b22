// Package cache provides the shared counter store behind the auth rate
// limiter. Redis backs production so limits hold across instances; the
// in-memory implementation serves tests and instances started without
// Redis.
package cache

import (
	"context"
	"time"
)

// Counter is a fixed-window hit counter.
type Counter interface {
	// Get returns the current count for key, zero when absent or expired.
	Get(ctx context.Context, key string) (int64, error)
	// Incr adds one to key and returns the new count. The ttl is applied on
	// the first increment only and left untouched afterwards, which is what
	// gives each window its fixed length.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
