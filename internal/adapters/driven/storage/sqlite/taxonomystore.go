package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// taxonomyStore implements driven.TaxonomyStore.
type taxonomyStore struct {
	store *Store
}

var _ driven.TaxonomyStore = (*taxonomyStore)(nil)

// Traverse walks category → theme → goal → indicator → requirement,
// applying the filter at each level. Rows are ordered by identifier so
// repeated traversals with the same filter return the same bundle.
func (s *taxonomyStore) Traverse(ctx context.Context, filter driven.TraversalFilter) (domain.StructuredContentBundle, error) {
	var bundle domain.StructuredContentBundle

	limit := filter.MaxPerLevel
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description FROM categories ORDER BY id LIMIT ?
	`, limit)
	if err != nil {
		return bundle, fmt.Errorf("querying categories: %w", err)
	}
	catIDs := make(map[string]bool)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			rows.Close()
			return bundle, fmt.Errorf("scanning category: %w", err)
		}
		bundle.Categories = append(bundle.Categories, c)
		catIDs[c.ID] = true
	}
	if err := closeRows(rows, "categories"); err != nil {
		return bundle, err
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT id, category_id, name, description, tags FROM themes ORDER BY id
	`)
	if err != nil {
		return bundle, fmt.Errorf("querying themes: %w", err)
	}
	themeIDs := make(map[string]bool)
	for rows.Next() {
		if limit > 0 && len(bundle.Themes) >= limit {
			break
		}
		var th domain.Theme
		var tagsJSON string
		if err := rows.Scan(&th.ID, &th.CategoryID, &th.Name, &th.Description, &tagsJSON); err != nil {
			rows.Close()
			return bundle, fmt.Errorf("scanning theme: %w", err)
		}
		if th.Tags, err = unmarshalTags(tagsJSON); err != nil {
			rows.Close()
			return bundle, fmt.Errorf("unmarshalling tags for theme %s: %w", th.ID, err)
		}
		if !catIDs[th.CategoryID] || !themeMatchesFocus(th, filter.FocusAreas) {
			continue
		}
		bundle.Themes = append(bundle.Themes, th)
		themeIDs[th.ID] = true
	}
	if err := closeRows(rows, "themes"); err != nil {
		return bundle, err
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT id, theme_id, name, description, complexity FROM goals ORDER BY id
	`)
	if err != nil {
		return bundle, fmt.Errorf("querying goals: %w", err)
	}
	goalIDs := make(map[string]bool)
	for rows.Next() {
		if limit > 0 && len(bundle.Goals) >= limit {
			break
		}
		g, err := scanGoal(rows)
		if err != nil {
			rows.Close()
			return bundle, err
		}
		if !themeIDs[g.ThemeID] || !g.Complexity.Matches(filter.Complexity) {
			continue
		}
		bundle.Goals = append(bundle.Goals, g)
		goalIDs[g.ID] = true
	}
	if err := closeRows(rows, "goals"); err != nil {
		return bundle, err
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT id, goal_id, name, description, complexity, unit FROM indicators ORDER BY id
	`)
	if err != nil {
		return bundle, fmt.Errorf("querying indicators: %w", err)
	}
	indicatorIDs := make(map[string]bool)
	for rows.Next() {
		if limit > 0 && len(bundle.Indicators) >= limit {
			break
		}
		ind, err := scanIndicator(rows)
		if err != nil {
			rows.Close()
			return bundle, err
		}
		if !goalIDs[ind.GoalID] || !ind.Complexity.Matches(filter.Complexity) {
			continue
		}
		bundle.Indicators = append(bundle.Indicators, ind)
		indicatorIDs[ind.ID] = true
	}
	if err := closeRows(rows, "indicators"); err != nil {
		return bundle, err
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT id, indicator_id, name, description FROM requirements ORDER BY id
	`)
	if err != nil {
		return bundle, fmt.Errorf("querying requirements: %w", err)
	}
	for rows.Next() {
		if limit > 0 && len(bundle.Requirements) >= limit {
			break
		}
		var r domain.DataRequirement
		if err := rows.Scan(&r.ID, &r.IndicatorID, &r.Name, &r.Description); err != nil {
			rows.Close()
			return bundle, fmt.Errorf("scanning requirement: %w", err)
		}
		if !indicatorIDs[r.IndicatorID] {
			continue
		}
		bundle.Requirements = append(bundle.Requirements, r)
	}
	if err := closeRows(rows, "requirements"); err != nil {
		return bundle, err
	}

	return bundle, nil
}

// GoalsByIDs returns the goals with the given identifiers.
func (s *taxonomyStore) GoalsByIDs(ctx context.Context, ids []string) ([]domain.StrategicGoal, error) {
	var goals []domain.StrategicGoal
	for _, id := range ids {
		row := s.store.db.QueryRowContext(ctx, `
			SELECT id, theme_id, name, description, complexity FROM goals WHERE id = ?
		`, id)

		var g domain.StrategicGoal
		var complexity string
		err := row.Scan(&g.ID, &g.ThemeID, &g.Name, &g.Description, &complexity)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		g.Complexity = domain.ParseComplexity(complexity)
		goals = append(goals, g)
	}
	return goals, nil
}

// GoalsByTheme returns all goals under a theme.
func (s *taxonomyStore) GoalsByTheme(ctx context.Context, themeID string) ([]domain.StrategicGoal, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, theme_id, name, description, complexity
		FROM goals WHERE theme_id = ? ORDER BY id
	`, themeID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.StrategicGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

// IndicatorsByGoal returns all indicators under a goal.
func (s *taxonomyStore) IndicatorsByGoal(ctx context.Context, goalID string) ([]domain.Indicator, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, goal_id, name, description, complexity, unit
		FROM indicators WHERE goal_id = ? ORDER BY id
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("querying indicators: %w", err)
	}
	defer rows.Close()

	var indicators []domain.Indicator
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, ind)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating indicators: %w", err)
	}
	return indicators, nil
}

// SearchText performs a case-insensitive substring match over goal and
// indicator names and descriptions.
func (s *taxonomyStore) SearchText(ctx context.Context, text string, limit int) ([]driven.SearchHit, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" || limit <= 0 {
		return nil, nil
	}
	pattern := "%" + escapeLike(needle) + "%"

	var hits []driven.SearchHit

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description FROM goals
		WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'
		ORDER BY id LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching goals: %w", err)
	}
	for rows.Next() {
		hit := driven.SearchHit{ContentType: "goal"}
		if err := rows.Scan(&hit.ID, &hit.Name, &hit.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning goal hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := closeRows(rows, "goal hits"); err != nil {
		return nil, err
	}

	if len(hits) >= limit {
		return hits[:limit], nil
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT id, name, description FROM indicators
		WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'
		ORDER BY id LIMIT ?
	`, pattern, pattern, limit-len(hits))
	if err != nil {
		return nil, fmt.Errorf("searching indicators: %w", err)
	}
	for rows.Next() {
		hit := driven.SearchHit{ContentType: "indicator"}
		if err := rows.Scan(&hit.ID, &hit.Name, &hit.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning indicator hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := closeRows(rows, "indicator hits"); err != nil {
		return nil, err
	}

	return hits, nil
}

// UserHistory returns the user's recorded selections. Unknown users get
// an empty history, not an error.
func (s *taxonomyStore) UserHistory(ctx context.Context, userID string) (domain.UserHistory, error) {
	history := domain.UserHistory{UserID: userID}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT goal_id FROM user_goals WHERE user_id = ? ORDER BY goal_id
	`, userID)
	if err != nil {
		return history, fmt.Errorf("querying user goals: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return history, fmt.Errorf("scanning user goal: %w", err)
		}
		history.GoalIDs = append(history.GoalIDs, id)
	}
	if err := closeRows(rows, "user goals"); err != nil {
		return history, err
	}

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT indicator_id FROM user_indicators WHERE user_id = ? ORDER BY indicator_id
	`, userID)
	if err != nil {
		return history, fmt.Errorf("querying user indicators: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return history, fmt.Errorf("scanning user indicator: %w", err)
		}
		history.IndicatorIDs = append(history.IndicatorIDs, id)
	}
	if err := closeRows(rows, "user indicators"); err != nil {
		return history, err
	}

	return history, nil
}

// scanGoal scans a goal from *sql.Rows.
func scanGoal(rows *sql.Rows) (domain.StrategicGoal, error) {
	var g domain.StrategicGoal
	var complexity string
	if err := rows.Scan(&g.ID, &g.ThemeID, &g.Name, &g.Description, &complexity); err != nil {
		return g, fmt.Errorf("scanning goal: %w", err)
	}
	g.Complexity = domain.ParseComplexity(complexity)
	return g, nil
}

// scanIndicator scans an indicator from *sql.Rows.
func scanIndicator(rows *sql.Rows) (domain.Indicator, error) {
	var ind domain.Indicator
	var complexity string
	if err := rows.Scan(&ind.ID, &ind.GoalID, &ind.Name, &ind.Description, &complexity, &ind.Unit); err != nil {
		return ind, fmt.Errorf("scanning indicator: %w", err)
	}
	ind.Complexity = domain.ParseComplexity(complexity)
	return ind, nil
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

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// closeRows closes a result set and surfaces any iteration error.
func closeRows(rows *sql.Rows, what string) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating %s: %w", what, err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", what, err)
	}
	return nil
}

// marshalTags serialises theme tags for storage.
func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalTags deserialises stored theme tags.
func unmarshalTags(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
