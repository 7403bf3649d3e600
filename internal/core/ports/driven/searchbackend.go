package driven

import (
	"context"

	"github.com/quillframe/contexta/internal/core/domain"
)

// SearchBackend provides semantic/keyword search over indexed content.
// Backed by a local bleve index or a remote search service. The backend
// is opaque to the core: it may fail, and its failures trigger the
// fallback chain rather than failing the assembly.
type SearchBackend interface {
	// Search performs a relevance-ranked search and returns scored hits.
	// Scores are normalised to [0,1].
	Search(ctx context.Context, query domain.NormalisedQuery) ([]SearchHit, error)

	// HybridSearch performs a combined semantic+metadata search.
	// It is the first fallback stage when Search errors.
	HybridSearch(ctx context.Context, query domain.NormalisedQuery) ([]SearchHit, error)

	// Close releases resources.
	Close() error
}

// SearchHit represents a single result from the search backend.
type SearchHit struct {
	// ID is the matched entity identifier.
	ID string

	// ContentType is the entity type ("goal", "indicator", ...).
	ContentType string

	// Name is the entity display name.
	Name string

	// Description is the entity description text.
	Description string

	// Score is the relevance score in [0,1].
	Score float64
}
