// Package sqlite provides SQLite-backed implementations of the taxonomy
// and cache store interfaces. A single database file holds the content
// taxonomy, user selection history, and the tag-invalidated context cache.
package sqlite
