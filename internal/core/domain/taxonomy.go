package domain

// The taxonomy is a five-level graph:
//
//	Category → Theme → StrategicGoal → Indicator → DataRequirement
//
// All taxonomy types are read-only projections of the underlying store.

// Category is a top-level content grouping.
type Category struct {
	// ID is the unique identifier.
	ID string

	// Name is the display name.
	Name string

	// Description explains the category's scope.
	Description string
}

// Theme is a topic within a category.
type Theme struct {
	// ID is the unique identifier.
	ID string

	// CategoryID links to the parent category.
	CategoryID string

	// Name is the display name.
	Name string

	// Description explains the theme.
	Description string

	// Tags are focus-area labels used for query filtering.
	Tags []string
}

// StrategicGoal is an outcome a user can work towards within a theme.
type StrategicGoal struct {
	// ID is the unique identifier.
	ID string

	// ThemeID links to the parent theme.
	ThemeID string

	// Name is the display name.
	Name string

	// Description explains the goal.
	Description string

	// Complexity is the content level of the goal.
	Complexity Complexity
}

// Indicator is a measurable signal for a strategic goal.
type Indicator struct {
	// ID is the unique identifier.
	ID string

	// GoalID links to the parent strategic goal.
	GoalID string

	// Name is the display name.
	Name string

	// Description explains what the indicator measures.
	Description string

	// Complexity is the content level of the indicator.
	Complexity Complexity

	// Unit is the measurement unit, if any.
	Unit string
}

// DataRequirement describes data needed to compute an indicator.
type DataRequirement struct {
	// ID is the unique identifier.
	ID string

	// IndicatorID links to the parent indicator.
	IndicatorID string

	// Name is the display name.
	Name string

	// Description explains the required data.
	Description string
}

// StructuredContentBundle is the result of a taxonomy traversal, bounded
// by the traversal's fan-out limits and filtered by the query context.
type StructuredContentBundle struct {
	// Categories matched by the traversal.
	Categories []Category

	// Themes matched by the traversal.
	Themes []Theme

	// Goals matched by the traversal.
	Goals []StrategicGoal

	// Indicators matched by the traversal.
	Indicators []Indicator

	// Requirements matched by the traversal.
	Requirements []DataRequirement
}

// IsEmpty returns true when the bundle holds no entities at all.
func (b StructuredContentBundle) IsEmpty() bool {
	return len(b.Categories) == 0 && len(b.Themes) == 0 &&
		len(b.Goals) == 0 && len(b.Indicators) == 0 && len(b.Requirements) == 0
}

// UserHistory records which taxonomy entities a user has already adopted.
// Recommendations surface related-but-unused entities.
type UserHistory struct {
	// UserID identifies the user.
	UserID string

	// GoalIDs are strategic goals the user already tracks.
	GoalIDs []string

	// IndicatorIDs are indicators the user already tracks.
	IndicatorIDs []string
}

// IsEmpty returns true when the user has no recorded selections.
func (h UserHistory) IsEmpty() bool {
	return len(h.GoalIDs) == 0 && len(h.IndicatorIDs) == 0
}
