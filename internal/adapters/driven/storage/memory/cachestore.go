package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// cacheEntry is one stored value with its expiry and tags.
type cacheEntry struct {
	value   []byte
	expires time.Time
	tags    []string
}

// CacheStore is an in-memory implementation of driven.CacheStore.
// Expired entries are purged lazily on access.
type CacheStore struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Useful for TTL tests.
func (s *CacheStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the value stored under key, or domain.ErrNotFound when
// the key is absent or expired.
func (s *CacheStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.now().After(e.expires) {
		delete(s.entries, key)
		return nil, domain.ErrNotFound
	}

	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, nil
}

// Set stores a value under key with the given TTL and tags.
func (s *CacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	s.entries[key] = cacheEntry{
		value:   stored,
		expires: s.now().Add(ttl),
		tags:    append([]string(nil), tags...),
	}
	return nil
}

// InvalidateByTags removes every entry carrying any of the tags and
// returns the number of entries removed.
func (s *CacheStore) InvalidateByTags(_ context.Context, tags []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}

	var removed int
	for key, e := range s.entries {
		for _, t := range e.tags {
			if want[t] {
				delete(s.entries, key)
				removed++
				break
			}
		}
	}
	return removed, nil
}

// Len returns the number of live entries. Useful for tests.
func (s *CacheStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases resources.
func (s *CacheStore) Close() error {
	return nil
}
