package driven

import (
	"context"
	"time"
)

// CacheStore provides tag-invalidated caching of serialised values.
// Implementations must be safe for concurrent use; the core adds no
// locking of its own. Any error from the store is treated as a miss.
type CacheStore interface {
	// Get returns the value stored under key, or domain.ErrNotFound
	// when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key with the given TTL and tags.
	// Tags must be non-empty; entries are evicted by TTL expiry or
	// by tag invalidation.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error

	// InvalidateByTags removes every entry carrying any of the tags.
	// It returns the number of entries removed.
	InvalidateByTags(ctx context.Context, tags []string) (int, error)

	// Close releases resources.
	Close() error
}
