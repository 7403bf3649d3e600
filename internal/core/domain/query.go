package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Query bounds and defaults.
const (
	// MaxQueryLength is the maximum accepted query length in runes.
	MaxQueryLength = 1000

	// DefaultMaxResults is applied when a query does not set a limit.
	DefaultMaxResults = 15

	// MaxResultsCeiling is the hard upper bound on requested results.
	MaxResultsCeiling = 50

	// DefaultIntent is applied when a query does not declare an intent.
	DefaultIntent = "general"
)

// UserContext identifies the caller and their content preferences.
type UserContext struct {
	// UserID identifies the requesting user. Used for cache scoping
	// and recommendation history lookups.
	UserID string

	// OrganisationID identifies the user's organisation.
	OrganisationID string

	// Complexity is the user's preferred content level.
	Complexity Complexity

	// FocusAreas restricts structured content to matching theme tags.
	FocusAreas []string

	// Industry is an optional industry hint.
	Industry string
}

// ContentQuery is a raw content-retrieval request as supplied by a caller.
// It must be normalised before retrieval.
type ContentQuery struct {
	// Query is the free-text query.
	Query string

	// Intent tags what the caller wants the content for
	// (e.g. "general", "get_recommendations").
	Intent string

	// User is the caller context.
	User UserContext

	// MaxResults bounds the merged chunk list. Zero means default.
	MaxResults int
}

// NormalisedQuery is the canonical form of a ContentQuery. Two semantically
// identical queries (modulo case, whitespace and focus-area order) normalise
// to the same value and therefore share a cache key.
type NormalisedQuery struct {
	// Query is the trimmed, lowercased query text.
	Query string

	// Intent is the defaulted intent tag.
	Intent string

	// User is the caller context with defaults applied and focus
	// areas lowercased, deduplicated and sorted.
	User UserContext

	// MaxResults is the defaulted and clamped result limit.
	MaxResults int
}

// Normalise validates the query and produces its canonical form.
// It returns an error wrapping ErrInvalidQuery when the trimmed query is
// empty or exceeds MaxQueryLength runes.
func (q ContentQuery) Normalise() (NormalisedQuery, error) {
	text := strings.TrimSpace(q.Query)
	if text == "" {
		return NormalisedQuery{}, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return NormalisedQuery{}, fmt.Errorf("%w: query exceeds %d characters", ErrInvalidQuery, MaxQueryLength)
	}

	intent := strings.TrimSpace(q.Intent)
	if intent == "" {
		intent = DefaultIntent
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if limit > MaxResultsCeiling {
		limit = MaxResultsCeiling
	}

	user := q.User
	if !user.Complexity.IsValid() {
		user.Complexity = DefaultComplexity
	}
	user.FocusAreas = canonicalFocusAreas(user.FocusAreas)

	return NormalisedQuery{
		Query:      strings.ToLower(text),
		Intent:     strings.ToLower(intent),
		User:       user,
		MaxResults: limit,
	}, nil
}

// CacheKey returns a stable hash of the fields that determine the
// assembly result. Identical normalised queries hash identically.
func (n NormalisedQuery) CacheKey() string {
	h := sha256.New()
	fmt.Fprintf(h, "q=%s\n", n.Query)
	fmt.Fprintf(h, "i=%s\n", n.Intent)
	fmt.Fprintf(h, "u=%s\n", n.User.UserID)
	fmt.Fprintf(h, "c=%s\n", n.User.Complexity)
	fmt.Fprintf(h, "f=%s\n", strings.Join(n.User.FocusAreas, ","))
	fmt.Fprintf(h, "n=%d\n", n.MaxResults)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalFocusAreas lowercases, deduplicates and sorts focus area tags.
func canonicalFocusAreas(areas []string) []string {
	if len(areas) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(areas))
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
