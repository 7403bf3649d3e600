package services

import (
	"context"
	"fmt"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/logger"
)

// recommend derives a RecommendationSet for the user. With history it
// traverses shared-theme relationships from the user's goals to surface
// related-but-unused ones; without history it returns a curated default
// drawn from the taxonomy. Suggested indicators match the user's
// complexity level and exclude indicators already in use.
func (s *AssemblyService) recommend(ctx context.Context, user domain.UserContext) (domain.RecommendationSet, error) {
	if s.taxonomy == nil {
		return domain.RecommendationSet{}, domain.ErrTaxonomyUnavailable
	}

	history, err := s.taxonomy.UserHistory(ctx, user.UserID)
	if err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("user history: %w", err)
	}

	var goals []domain.StrategicGoal
	if history.IsEmpty() {
		logger.Debug("Recommendations: no history for user %q, using curated defaults", user.UserID)
		goals, err = s.defaultGoals(ctx, user)
	} else {
		goals, err = s.relatedGoals(ctx, history)
	}
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	if len(goals) > s.config.MaxTopGoals {
		goals = goals[:s.config.MaxTopGoals]
	}

	indicators, err := s.suggestIndicators(ctx, goals, history, user.Complexity)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	return domain.RecommendationSet{
		TopGoals:               goals,
		SuggestedIndicators:    indicators,
		ImplementationGuidance: guidanceFor(history.IsEmpty(), user.Complexity),
	}, nil
}

// defaultGoals is the curated list for users without history: the
// taxonomy traversal filtered by the user's focus areas and level.
func (s *AssemblyService) defaultGoals(ctx context.Context, user domain.UserContext) ([]domain.StrategicGoal, error) {
	bundle, err := s.taxonomy.Traverse(ctx, driven.TraversalFilter{
		FocusAreas:  user.FocusAreas,
		Complexity:  user.Complexity,
		MaxPerLevel: s.config.MaxTopGoals,
	})
	if err != nil {
		return nil, fmt.Errorf("default goals: %w", err)
	}
	return bundle.Goals, nil
}

// relatedGoals surfaces goals sharing a theme with the user's existing
// goals, excluding the goals already in use.
func (s *AssemblyService) relatedGoals(ctx context.Context, history domain.UserHistory) ([]domain.StrategicGoal, error) {
	used := make(map[string]bool, len(history.GoalIDs))
	for _, id := range history.GoalIDs {
		used[id] = true
	}

	owned, err := s.taxonomy.GoalsByIDs(ctx, history.GoalIDs)
	if err != nil {
		return nil, fmt.Errorf("goals by ids: %w", err)
	}

	seenTheme := make(map[string]bool)
	seenGoal := make(map[string]bool)
	var related []domain.StrategicGoal

	for _, g := range owned {
		if seenTheme[g.ThemeID] {
			continue
		}
		seenTheme[g.ThemeID] = true

		themed, err := s.taxonomy.GoalsByTheme(ctx, g.ThemeID)
		if err != nil {
			return nil, fmt.Errorf("goals by theme %s: %w", g.ThemeID, err)
		}
		for _, candidate := range themed {
			if used[candidate.ID] || seenGoal[candidate.ID] {
				continue
			}
			seenGoal[candidate.ID] = true
			related = append(related, candidate)
		}
	}

	return related, nil
}

// suggestIndicators collects indicators under the recommended goals that
// match the user's complexity level, excluding ones already in use.
func (s *AssemblyService) suggestIndicators(
	ctx context.Context, goals []domain.StrategicGoal, history domain.UserHistory, level domain.Complexity,
) ([]domain.Indicator, error) {
	used := make(map[string]bool, len(history.IndicatorIDs))
	for _, id := range history.IndicatorIDs {
		used[id] = true
	}

	var suggested []domain.Indicator
	for _, g := range goals {
		indicators, err := s.taxonomy.IndicatorsByGoal(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("indicators by goal %s: %w", g.ID, err)
		}
		for _, ind := range indicators {
			if used[ind.ID] || !ind.Complexity.Matches(level) {
				continue
			}
			suggested = append(suggested, ind)
			if len(suggested) >= s.config.MaxSuggestedIndicators {
				return suggested, nil
			}
		}
	}

	return suggested, nil
}

// guidanceFor composes implementation guidance from a rule table keyed
// by whether the user has history and their complexity level.
func guidanceFor(historyEmpty bool, level domain.Complexity) []string {
	if historyEmpty {
		switch level {
		case domain.ComplexityBasic:
			return []string{
				"Start with one strategic goal and a single indicator you can measure today.",
				"Collect baseline data before setting targets.",
				"Review progress monthly and adjust the indicator if collection proves too costly.",
			}
		case domain.ComplexityAdvanced:
			return []string{
				"Map candidate goals against your theory of change before selecting.",
				"Pair each outcome indicator with a data-quality requirement.",
				"Plan for counterfactual comparison where the methodology allows it.",
			}
		default:
			return []string{
				"Select two or three goals aligned with your focus areas.",
				"Choose indicators with data you already collect, then extend.",
				"Schedule a quarterly review of indicator coverage.",
			}
		}
	}

	switch level {
	case domain.ComplexityBasic:
		return []string{
			"Extend your current goals with one related goal from the same theme.",
			"Reuse existing collection processes for any new indicator.",
		}
	case domain.ComplexityAdvanced:
		return []string{
			"Check the recommended goals for overlap with your current measurement frame.",
			"Consider retiring indicators with persistently poor data quality before adding more.",
			"Align new indicators with your existing reporting periods.",
		}
	default:
		return []string{
			"Adopt recommended goals incrementally, one reporting cycle at a time.",
			"Prefer indicators that share data requirements with ones you already track.",
		}
	}
}
