// Package cache stores raw PokeAPI response bodies keyed by request path.
//
// PokeAPI data is effectively static, so entries never expire unless a TTL
// is configured; callers clear the cache explicitly.
package cache

import (
	"context"
	"time"
)

// Store is a key/value store for response bodies.
type Store interface {
	// Get returns the body stored under key. ok is false on a miss.
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)

	// Put stores body under key, replacing any previous value.
	Put(ctx context.Context, key string, body []byte) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Stats reports the number of entries and their total size.
	Stats(ctx context.Context) (Stats, error)

	// Close releases resources held by the store.
	Close() error
}

// Stats summarizes a store's contents.
type Stats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Config holds configuration for cache behavior.
type Config struct {
	// TTL is the time-to-live for cached entries.
	// Zero means entries never expire.
	TTL time.Duration
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{TTL: 0}
}

func (c Config) expired(storedAt time.Time, now time.Time) bool {
	return c.TTL > 0 && now.Sub(storedAt) > c.TTL
}
