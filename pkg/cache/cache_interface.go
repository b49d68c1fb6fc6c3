package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer.
// Implementations: Redis (internal/infrastructure/cache) and Nop.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false on a miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Incr atomically adds one to an integer key, creating it at 1.
	// The stored value reads back through Get as a JSON number.
	Incr(ctx context.Context, key string) (int64, error)

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern such as "books:*".
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
