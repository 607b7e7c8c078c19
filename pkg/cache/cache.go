// Package cache provides the response cache used by the API client.
//
// A [Cache] stores opaque byte payloads under string keys with an optional
// TTL. Three backends exist:
//
//   - [FileCache]: one JSON file per entry, used by the CLI by default
//   - [RedisCache]: shared cache for several explorer instances
//   - [NullCache]: caching disabled (--no-cache)
//
// Keys are produced by a [Keyer] so that every backend agrees on the key
// layout. Keys carry a type prefix ("graph:", "discoveries:", "topics:")
// that [Instrument] reports to the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads under string keys.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A zero TTL in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
