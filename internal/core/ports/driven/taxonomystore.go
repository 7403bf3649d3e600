package driven

import (
	"context"

	"github.com/quillframe/contexta/internal/core/domain"
)

// TraversalFilter bounds a taxonomy traversal.
type TraversalFilter struct {
	// FocusAreas restricts themes to those carrying a matching tag.
	// Empty means no restriction.
	FocusAreas []string

	// Complexity restricts goals and indicators to levels at or below
	// the reader's level.
	Complexity domain.Complexity

	// MaxPerLevel bounds the fan-out at each taxonomy level.
	MaxPerLevel int
}

// TaxonomyStore provides read-only queries over the content taxonomy and
// a user's historical selections. Backed by SQLite or an in-memory fixture.
type TaxonomyStore interface {
	// Traverse walks category → theme → goal → indicator → requirement,
	// applying the filter at each level.
	Traverse(ctx context.Context, filter TraversalFilter) (domain.StructuredContentBundle, error)

	// GoalsByIDs returns the goals with the given identifiers.
	GoalsByIDs(ctx context.Context, ids []string) ([]domain.StrategicGoal, error)

	// GoalsByTheme returns all goals under a theme.
	GoalsByTheme(ctx context.Context, themeID string) ([]domain.StrategicGoal, error)

	// IndicatorsByGoal returns all indicators under a goal.
	IndicatorsByGoal(ctx context.Context, goalID string) ([]domain.Indicator, error)

	// SearchText performs a case-insensitive substring match over goal
	// and indicator names and descriptions. It is the basic-text stage
	// of the fallback chain.
	SearchText(ctx context.Context, text string, limit int) ([]SearchHit, error)

	// UserHistory returns the user's recorded goal and indicator
	// selections. A user with no history returns an empty history,
	// not an error.
	UserHistory(ctx context.Context, userID string) (domain.UserHistory, error)
}
