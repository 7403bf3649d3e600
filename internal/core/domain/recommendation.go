package domain

// RecommendationSet is personalised guidance derived from a user's
// selection history, or a curated default when no history exists.
type RecommendationSet struct {
	// TopGoals are related-but-unused strategic goals, capped by
	// configuration.
	TopGoals []StrategicGoal

	// SuggestedIndicators match the user's complexity level and
	// exclude indicators already in use.
	SuggestedIndicators []Indicator

	// ImplementationGuidance is an ordered list of guidance steps.
	ImplementationGuidance []string
}

// IsEmpty returns true when the set carries no recommendations.
func (r RecommendationSet) IsEmpty() bool {
	return len(r.TopGoals) == 0 && len(r.SuggestedIndicators) == 0 &&
		len(r.ImplementationGuidance) == 0
}
