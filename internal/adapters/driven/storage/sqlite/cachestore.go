package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// cacheStore implements driven.CacheStore over the cache_entries and
// cache_tags tables. Expired entries are purged lazily on read.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// Get returns the value stored under key, or domain.ErrNotFound when
// the key is absent or expired.
func (s *cacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE key = ?
	`, key)

	var value []byte
	var expiresAt time.Time
	if err := row.Scan(&value, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if !expiresAt.After(time.Now().UTC()) {
		if _, err := s.store.db.ExecContext(ctx,
			"DELETE FROM cache_entries WHERE key = ?", key); err != nil {
			return nil, fmt.Errorf("purging expired entry: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	return value, nil
}

// Set stores a value under key with the given TTL and tags. An existing
// entry under the same key is replaced along with its tags.
func (s *cacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	if key == "" || len(tags) == 0 {
		return domain.ErrCacheUnavailable
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	expiresAt := time.Now().UTC().Add(ttl)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, key, value, expiresAt); err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cache_tags WHERE key = ?", key); err != nil {
		return fmt.Errorf("clearing cache tags: %w", err)
	}

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cache_tags (key, tag) VALUES (?, ?)
			ON CONFLICT(key, tag) DO NOTHING
		`, key, tag); err != nil {
			return fmt.Errorf("saving cache tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// InvalidateByTags removes every entry carrying any of the tags and
// returns the number of entries removed.
func (s *cacheStore) InvalidateByTags(ctx context.Context, tags []string) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	args := make([]any, len(tags))
	for i, tag := range tags {
		args[i] = tag
	}

	res, err := s.store.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM cache_entries WHERE key IN (
			SELECT DISTINCT key FROM cache_tags WHERE tag IN (%s)
		)
	`, placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("invalidating cache entries: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed entries: %w", err)
	}
	return int(removed), nil
}

// Close is a no-op; the underlying database is owned by the Store.
func (s *cacheStore) Close() error {
	return nil
}
