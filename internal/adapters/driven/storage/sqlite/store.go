package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quillframe/contexta/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// taxonomy and cache store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.contexta/data/contexta.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".contexta", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contexta.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TaxonomyStore returns a TaxonomyStore interface backed by this store.
func (s *Store) TaxonomyStore() driven.TaxonomyStore {
	return &taxonomyStore{store: s}
}

// CacheStore returns a CacheStore interface backed by this store.
func (s *Store) CacheStore() driven.CacheStore {
	return &cacheStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ImportTaxonomy loads a taxonomy bundle into the store. Existing rows
// with the same identifiers are replaced. The bundle is written in one
// transaction so a partial import never becomes visible.
func (s *Store) ImportTaxonomy(ctx context.Context, bundle domain.StructuredContentBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, c := range bundle.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, description)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description
		`, c.ID, c.Name, c.Description); err != nil {
			return fmt.Errorf("saving category %s: %w", c.ID, err)
		}
	}

	for _, th := range bundle.Themes {
		tagsJSON, err := marshalTags(th.Tags)
		if err != nil {
			return fmt.Errorf("marshalling tags for theme %s: %w", th.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO themes (id, category_id, name, description, tags)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				category_id = excluded.category_id,
				name = excluded.name,
				description = excluded.description,
				tags = excluded.tags
		`, th.ID, th.CategoryID, th.Name, th.Description, tagsJSON); err != nil {
			return fmt.Errorf("saving theme %s: %w", th.ID, err)
		}
	}

	for _, g := range bundle.Goals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO goals (id, theme_id, name, description, complexity)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				theme_id = excluded.theme_id,
				name = excluded.name,
				description = excluded.description,
				complexity = excluded.complexity
		`, g.ID, g.ThemeID, g.Name, g.Description, g.Complexity.String()); err != nil {
			return fmt.Errorf("saving goal %s: %w", g.ID, err)
		}
	}

	for _, ind := range bundle.Indicators {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO indicators (id, goal_id, name, description, complexity, unit)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				goal_id = excluded.goal_id,
				name = excluded.name,
				description = excluded.description,
				complexity = excluded.complexity,
				unit = excluded.unit
		`, ind.ID, ind.GoalID, ind.Name, ind.Description, ind.Complexity.String(), ind.Unit); err != nil {
			return fmt.Errorf("saving indicator %s: %w", ind.ID, err)
		}
	}

	for _, r := range bundle.Requirements {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO requirements (id, indicator_id, name, description)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				indicator_id = excluded.indicator_id,
				name = excluded.name,
				description = excluded.description
		`, r.ID, r.IndicatorID, r.Name, r.Description); err != nil {
			return fmt.Errorf("saving requirement %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RecordHistory stores a user's goal and indicator selections.
// Selections accumulate; recording the same pair twice is a no-op.
func (s *Store) RecordHistory(ctx context.Context, history domain.UserHistory) error {
	if history.UserID == "" {
		return domain.ErrInvalidQuery
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, goalID := range history.GoalIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_goals (user_id, goal_id) VALUES (?, ?)
			ON CONFLICT(user_id, goal_id) DO NOTHING
		`, history.UserID, goalID); err != nil {
			return fmt.Errorf("recording goal selection: %w", err)
		}
	}

	for _, indicatorID := range history.IndicatorIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_indicators (user_id, indicator_id) VALUES (?, ?)
			ON CONFLICT(user_id, indicator_id) DO NOTHING
		`, history.UserID, indicatorID); err != nil {
			return fmt.Errorf("recording indicator selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
