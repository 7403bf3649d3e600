package driving

import (
	"context"

	"github.com/quillframe/contexta/internal/core/domain"
)

// AssemblyService provides context assembly to external actors.
type AssemblyService interface {
	// Assemble validates the query, checks the cache, retrieves from
	// all sources, and returns the merged context. Callers always
	// receive either a structurally valid context (possibly with no
	// chunks) or an error wrapping domain.ErrInvalidQuery or
	// domain.ErrAssemblyFailed.
	Assemble(ctx context.Context, query domain.ContentQuery) (*domain.AssembledContext, error)

	// Format renders an assembled context as a deterministic text block.
	Format(assembled *domain.AssembledContext) string

	// InvalidateUser evicts all cached contexts for a user. Called when
	// the user's underlying data changes externally.
	InvalidateUser(ctx context.Context, userID string) (int, error)

	// InvalidateAll evicts every cached context.
	InvalidateAll(ctx context.Context) (int, error)
}
