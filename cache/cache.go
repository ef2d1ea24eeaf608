package cache

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract the services depend on.
// Implementations must be safe for concurrent use. Misses are reported
// as ErrMiss so callers can tell them apart from transport errors.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss in a typed way.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
