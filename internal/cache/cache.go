package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache: key not found")

// Cache is a minimal key/value cache interface (e.g. Redis).
type Cache interface {
	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// SetNX stores a value only if the key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	// Get retrieves a value by key, returning ErrMiss if missing.
	Get(ctx context.Context, key string) (string, error)

	// Del removes a key. No-op if the key does not exist.
	Del(ctx context.Context, key string) error

	// Incr atomically increments a numeric value and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}
