package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery indicates a content query failed validation.
	// Queries are rejected before any retrieval is attempted.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSourceUnavailable indicates a retrieval source failed or timed out.
	// Source failures are isolated: the assembly continues with the
	// remaining sources.
	ErrSourceUnavailable = errors.New("retrieval source unavailable")

	// ErrAssemblyFailed indicates an unexpected failure while merging or
	// rendering an assembled context. This is the only retrieval-stage
	// error that propagates to callers.
	ErrAssemblyFailed = errors.New("context assembly failed")

	// ErrCacheUnavailable indicates the cache store failed.
	// Cache failures are never fatal; the engine recomputes instead.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrSearchUnavailable indicates the search backend is not configured.
	ErrSearchUnavailable = errors.New("search backend unavailable")

	// ErrTaxonomyUnavailable indicates the taxonomy store is not configured.
	ErrTaxonomyUnavailable = errors.New("taxonomy store unavailable")
)
