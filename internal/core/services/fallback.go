package services

import (
	"context"
	"fmt"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/logger"
)

// fallbackStage is one stage of the ordered degradation chain for the
// semantic source. Stages are attempted strictly in sequence; the next
// stage runs only when the previous one returned an error, never on
// empty results.
type fallbackStage struct {
	name string
	run  func(ctx context.Context, q domain.NormalisedQuery) ([]domain.ContentChunk, error)
}

// fallbackStages returns the chain: hybrid search, basic text search,
// empty result. The final stage cannot fail, so the chain as a whole
// always yields a (possibly empty) chunk list.
func (s *AssemblyService) fallbackStages() []fallbackStage {
	return []fallbackStage{
		{name: "hybrid_search", run: s.hybridSearch},
		{name: "basic_text_search", run: s.basicTextSearch},
		{name: "empty_result", run: func(context.Context, domain.NormalisedQuery) ([]domain.ContentChunk, error) {
			return nil, nil
		}},
	}
}

// runFallback walks the chain after the semantic source failed with
// cause. Every stage transition is logged with the triggering error.
func (s *AssemblyService) runFallback(ctx context.Context, q domain.NormalisedQuery, cause error) []domain.ContentChunk {
	err := cause
	for _, stage := range s.fallbackStages() {
		logger.Warn("Fallback: entering stage %q after error: %v", stage.name, err)

		chunks, stageErr := stage.run(ctx, q)
		if stageErr == nil {
			logger.Info("Fallback: stage %q produced %d chunks", stage.name, len(chunks))
			return chunks
		}
		err = stageErr
	}

	// Unreachable: the empty_result stage never fails.
	return nil
}

// hybridSearch is the first fallback stage: a combined semantic+metadata
// query against the search backend.
func (s *AssemblyService) hybridSearch(ctx context.Context, q domain.NormalisedQuery) ([]domain.ContentChunk, error) {
	if s.search == nil {
		return nil, domain.ErrSearchUnavailable
	}

	hits, err := s.search.HybridSearch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	chunks := make([]domain.ContentChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.ContentChunk{
			ID:             hit.ID,
			ContentType:    hit.ContentType,
			Name:           hit.Name,
			Body:           hit.Description,
			RelevanceScore: domain.ClampScore(hit.Score),
			Explanation:    fmt.Sprintf("Matched hybrid search for %q", q.Query),
			Source:         domain.SourceFallback,
			Metadata:       domain.ChunkMetadata{SourceEntityID: hit.ID},
		}
	}
	return chunks, nil
}

// basicTextSearch is the second fallback stage: case-insensitive
// substring matching over goal and indicator names and descriptions in
// the taxonomy store. Hits carry the fixed fallback source score.
func (s *AssemblyService) basicTextSearch(ctx context.Context, q domain.NormalisedQuery) ([]domain.ContentChunk, error) {
	if s.taxonomy == nil {
		return nil, domain.ErrTaxonomyUnavailable
	}

	hits, err := s.taxonomy.SearchText(ctx, q.Query, q.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("basic text search: %w", err)
	}

	chunks := make([]domain.ContentChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.ContentChunk{
			ID:             hit.ID,
			ContentType:    hit.ContentType,
			Name:           hit.Name,
			Body:           hit.Description,
			RelevanceScore: s.config.FallbackSourceScore,
			Explanation:    fmt.Sprintf("Name or description contains %q", q.Query),
			Source:         domain.SourceFallback,
			Metadata:       domain.ChunkMetadata{SourceEntityID: hit.ID},
		}
	}
	return chunks, nil
}
