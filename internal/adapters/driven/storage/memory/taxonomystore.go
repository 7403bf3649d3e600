package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Ensure TaxonomyStore implements the interface.
var _ driven.TaxonomyStore = (*TaxonomyStore)(nil)

// TaxonomyStore is an in-memory implementation of driven.TaxonomyStore.
// Entities keep insertion order so traversals are deterministic.
type TaxonomyStore struct {
	mu           sync.RWMutex
	categories   []domain.Category
	themes       []domain.Theme
	goals        []domain.StrategicGoal
	indicators   []domain.Indicator
	requirements []domain.DataRequirement
	histories    map[string]domain.UserHistory
}

// NewTaxonomyStore creates a new in-memory taxonomy store.
func NewTaxonomyStore() *TaxonomyStore {
	return &TaxonomyStore{
		histories: make(map[string]domain.UserHistory),
	}
}

// AddCategory registers a category.
func (s *TaxonomyStore) AddCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

// AddTheme registers a theme.
func (s *TaxonomyStore) AddTheme(t domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes = append(s.themes, t)
}

// AddGoal registers a strategic goal.
func (s *TaxonomyStore) AddGoal(g domain.StrategicGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
}

// AddIndicator registers an indicator.
func (s *TaxonomyStore) AddIndicator(i domain.Indicator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators = append(s.indicators, i)
}

// AddRequirement registers a data requirement.
func (s *TaxonomyStore) AddRequirement(r domain.DataRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements = append(s.requirements, r)
}

// SetUserHistory records a user's selections.
func (s *TaxonomyStore) SetUserHistory(h domain.UserHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[h.UserID] = h
}

// Traverse walks category → theme → goal → indicator → requirement,
// applying the filter at each level.
func (s *TaxonomyStore) Traverse(_ context.Context, filter driven.TraversalFilter) (domain.StructuredContentBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.MaxPerLevel
	if limit <= 0 {
		limit = len(s.categories) + len(s.themes) + len(s.goals) + len(s.indicators) + len(s.requirements)
	}

	var bundle domain.StructuredContentBundle

	catIDs := make(map[string]bool)
	for _, c := range s.categories {
		if len(bundle.Categories) >= limit {
			break
		}
		bundle.Categories = append(bundle.Categories, c)
		catIDs[c.ID] = true
	}

	themeIDs := make(map[string]bool)
	for _, t := range s.themes {
		if len(bundle.Themes) >= limit {
			break
		}
		if !catIDs[t.CategoryID] || !themeMatchesFocus(t, filter.FocusAreas) {
			continue
		}
		bundle.Themes = append(bundle.Themes, t)
		themeIDs[t.ID] = true
	}

	goalIDs := make(map[string]bool)
	for _, g := range s.goals {
		if len(bundle.Goals) >= limit {
			break
		}
		if !themeIDs[g.ThemeID] || !g.Complexity.Matches(filter.Complexity) {
			continue
		}
		bundle.Goals = append(bundle.Goals, g)
		goalIDs[g.ID] = true
	}

	indicatorIDs := make(map[string]bool)
	for _, ind := range s.indicators {
		if len(bundle.Indicators) >= limit {
			break
		}
		if !goalIDs[ind.GoalID] || !ind.Complexity.Matches(filter.Complexity) {
			continue
		}
		bundle.Indicators = append(bundle.Indicators, ind)
		indicatorIDs[ind.ID] = true
	}

	for _, r := range s.requirements {
		if len(bundle.Requirements) >= limit {
			break
		}
		if !indicatorIDs[r.IndicatorID] {
			continue
		}
		bundle.Requirements = append(bundle.Requirements, r)
	}

	return bundle, nil
}

// GoalsByIDs returns the goals with the given identifiers.
func (s *TaxonomyStore) GoalsByIDs(_ context.Context, ids []string) ([]domain.StrategicGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var goals []domain.StrategicGoal
	for _, g := range s.goals {
		if want[g.ID] {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

// GoalsByTheme returns all goals under a theme.
func (s *TaxonomyStore) GoalsByTheme(_ context.Context, themeID string) ([]domain.StrategicGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var goals []domain.StrategicGoal
	for _, g := range s.goals {
		if g.ThemeID == themeID {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

// IndicatorsByGoal returns all indicators under a goal.
func (s *TaxonomyStore) IndicatorsByGoal(_ context.Context, goalID string) ([]domain.Indicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var indicators []domain.Indicator
	for _, ind := range s.indicators {
		if ind.GoalID == goalID {
			indicators = append(indicators, ind)
		}
	}
	return indicators, nil
}

// SearchText performs a case-insensitive substring match over goal and
// indicator names and descriptions.
func (s *TaxonomyStore) SearchText(_ context.Context, text string, limit int) ([]driven.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" || limit <= 0 {
		return nil, nil
	}

	var hits []driven.SearchHit
	for _, g := range s.goals {
		if len(hits) >= limit {
			return hits, nil
		}
		if containsFold(g.Name, needle) || containsFold(g.Description, needle) {
			hits = append(hits, driven.SearchHit{
				ID:          g.ID,
				ContentType: "goal",
				Name:        g.Name,
				Description: g.Description,
			})
		}
	}
	for _, ind := range s.indicators {
		if len(hits) >= limit {
			return hits, nil
		}
		if containsFold(ind.Name, needle) || containsFold(ind.Description, needle) {
			hits = append(hits, driven.SearchHit{
				ID:          ind.ID,
				ContentType: "indicator",
				Name:        ind.Name,
				Description: ind.Description,
			})
		}
	}
	return hits, nil
}

// UserHistory returns the user's recorded selections. Unknown users get
// an empty history, not an error.
func (s *TaxonomyStore) UserHistory(_ context.Context, userID string) (domain.UserHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[userID]
	if !ok {
		return domain.UserHistory{UserID: userID}, nil
	}
	return h, nil
}

// themeMatchesFocus reports whether the theme carries any of the focus
// tags. An empty focus list matches everything.
func themeMatchesFocus(t domain.Theme, focus []string) bool {
	if len(focus) == 0 {
		return true
	}
	for _, tag := range t.Tags {
		tag = strings.ToLower(tag)
		for _, f := range focus {
			if tag == f {
				return true
			}
		}
	}
	return false
}

// containsFold reports whether haystack contains needle, ignoring case.
// The needle must already be lowercased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
