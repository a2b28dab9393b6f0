// Package cache provides the byte cache that sits in front of board storage.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the server
//
// Values are opaque bytes. Keys come from a [Keyer] so that the layout of the
// key space lives in one place.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
