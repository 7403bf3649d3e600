package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/core/ports/driving"
	"github.com/quillframe/contexta/internal/logger"
)

// Ensure AssemblyService implements the interface.
var _ driving.AssemblyService = (*AssemblyService)(nil)

// Cache tags. Every entry carries the content tag plus a user-scoped tag.
const contentTag = "content"

// userTag returns the cache tag scoping entries to one user.
func userTag(userID string) string {
	return "user:" + userID
}

// AssemblyService coordinates retrieval, merging, recommendation and
// caching into a single context-assembly pipeline.
type AssemblyService struct {
	taxonomy driven.TaxonomyStore
	search   driven.SearchBackend
	cache    driven.CacheStore
	config   EngineConfig
}

// NewAssemblyService creates a new assembly service.
// The search and cache parameters are optional (can be nil): without a
// search backend the semantic branch degrades through the fallback
// chain, and without a cache every request recomputes.
func NewAssemblyService(
	taxonomy driven.TaxonomyStore,
	search driven.SearchBackend,
	cache driven.CacheStore,
	config EngineConfig,
) *AssemblyService {
	return &AssemblyService{
		taxonomy: taxonomy,
		search:   search,
		cache:    cache,
		config:   config,
	}
}

// Assemble validates the query, consults the cache, and on a miss fans
// out to all retrieval sources, merges the results and caches the
// assembled context.
func (s *AssemblyService) Assemble(ctx context.Context, query domain.ContentQuery) (*domain.AssembledContext, error) {
	logger.Section("Context Assembly")

	q, err := query.Normalise()
	if err != nil {
		logger.Debug("Query rejected: %v", err)
		return nil, err
	}
	logger.Debug("Query: %q (intent=%s, complexity=%s, limit=%d)",
		q.Query, q.Intent, q.User.Complexity, q.MaxResults)

	key := q.CacheKey()
	if cached := s.cacheGet(ctx, key); cached != nil {
		logger.Info("Cache hit for key %.12s", key)
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.AssemblyTimeout)
	defer cancel()

	retrieved := s.retrieve(ctx, q)

	chunks := mergeChunks(s.config.MinRelevanceScore, q.MaxResults,
		retrieved.semantic, retrieved.structured)

	assembled, err := s.assemble(q, chunks, retrieved.bundle, retrieved.recs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssemblyFailed, err)
	}

	s.cacheSet(ctx, key, q.User.UserID, assembled)

	return assembled, nil
}

// assemble builds the final context from the merged parts and computes
// the aggregate relevance and summary.
func (s *AssemblyService) assemble(
	q domain.NormalisedQuery,
	chunks []domain.ContentChunk,
	bundle domain.StructuredContentBundle,
	recs domain.RecommendationSet,
) (*domain.AssembledContext, error) {
	for _, c := range chunks {
		if c.RelevanceScore < 0 || c.RelevanceScore > 1 {
			return nil, fmt.Errorf("chunk %s/%s has score %f outside [0,1]",
				c.ContentType, c.ID, c.RelevanceScore)
		}
	}

	assembled := &domain.AssembledContext{
		Query:               q,
		Chunks:              chunks,
		Structured:          bundle,
		Recommendations:     recs,
		ContextSummary:      buildSummary(chunks, bundle),
		TotalRelevanceScore: domain.AverageRelevance(chunks),
	}
	return assembled, nil
}

// buildSummary describes the bundle contents: chunk count, counts by
// content type (sorted for determinism), average relevance and the
// structured bundle size. No side effects.
func buildSummary(chunks []domain.ContentChunk, bundle domain.StructuredContentBundle) string {
	if len(chunks) == 0 {
		return fmt.Sprintf("No content chunks matched; structured bundle holds %d goals and %d indicators.",
			len(bundle.Goals), len(bundle.Indicators))
	}

	counts := make(map[string]int)
	for _, c := range chunks {
		counts[c.ContentType]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%d %s", counts[t], t)
	}

	return fmt.Sprintf("%d content chunks (%s), average relevance %.2f; structured bundle holds %d goals and %d indicators.",
		len(chunks), strings.Join(parts, ", "), domain.AverageRelevance(chunks),
		len(bundle.Goals), len(bundle.Indicators))
}

// cacheGet returns the cached context for key, or nil on miss or any
// cache failure. Cache errors are logged and never propagated.
func (s *AssemblyService) cacheGet(ctx context.Context, key string) *domain.AssembledContext {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Cache get failed, recomputing: %v", err)
		}
		return nil
	}

	var assembled domain.AssembledContext
	if err := json.Unmarshal(data, &assembled); err != nil {
		logger.Warn("Cache entry corrupt, recomputing: %v", err)
		return nil
	}
	return &assembled
}

// cacheSet stores the assembled context tagged for content-wide and
// per-user invalidation. Failures are logged and swallowed.
func (s *AssemblyService) cacheSet(ctx context.Context, key, userID string, assembled *domain.AssembledContext) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(assembled)
	if err != nil {
		logger.Warn("Cache encode failed: %v", err)
		return
	}

	tags := []string{contentTag, userTag(userID)}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL, tags); err != nil {
		logger.Warn("Cache set failed: %v", err)
		return
	}
	logger.Debug("Cached key %.12s with tags %v (ttl %s)", key, tags, s.config.CacheTTL)
}

// InvalidateUser evicts all cached contexts for a user.
func (s *AssemblyService) InvalidateUser(ctx context.Context, userID string) (int, error) {
	if s.cache == nil {
		return 0, domain.ErrCacheUnavailable
	}

	n, err := s.cache.InvalidateByTags(ctx, []string{userTag(userID)})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	logger.Info("Invalidated %d cached contexts for user %q", n, userID)
	return n, nil
}

// InvalidateAll evicts every cached context.
func (s *AssemblyService) InvalidateAll(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, domain.ErrCacheUnavailable
	}

	n, err := s.cache.InvalidateByTags(ctx, []string{contentTag})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	logger.Info("Invalidated %d cached contexts", n)
	return n, nil
}
