package services

import (
	"context"
	"fmt"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/logger"
)

// retrievalResult collects the contributions of the three retrieval
// branches. Any branch may be missing after a failure or timeout.
type retrievalResult struct {
	semantic   []domain.ContentChunk
	structured []domain.ContentChunk
	bundle     domain.StructuredContentBundle
	recs       domain.RecommendationSet
}

// branchOutcome carries one branch's contribution back to the join point.
type branchOutcome struct {
	name   string
	chunks []domain.ContentChunk
	bundle *domain.StructuredContentBundle
	recs   *domain.RecommendationSet
}

// retrieve fans out to the semantic, structured and recommendation
// branches concurrently and joins on all three or on the outer context.
// Each branch runs under its own timeout; one branch's failure never
// cancels the others. Branch failures degrade to empty contributions,
// except a semantic *error* which is replaced by the fallback chain.
// Late results after outer cancellation are discarded, never applied.
func (s *AssemblyService) retrieve(ctx context.Context, q domain.NormalisedQuery) retrievalResult {
	logger.Section("Retrieval Fan-Out")

	// Buffered so late branches never block after the join returns.
	outcomes := make(chan branchOutcome, 3)

	go func() {
		outcomes <- s.semanticBranch(ctx, q)
	}()
	go func() {
		outcomes <- s.structuredBranch(ctx, q)
	}()
	go func() {
		outcomes <- s.recommendationBranch(ctx, q)
	}()

	var result retrievalResult
	for i := 0; i < 3; i++ {
		select {
		case o := <-outcomes:
			logger.Debug("Branch %q completed with %d chunks", o.name, len(o.chunks))
			switch o.name {
			case "semantic":
				result.semantic = o.chunks
			case "structured":
				result.structured = o.chunks
				if o.bundle != nil {
					result.bundle = *o.bundle
				}
			case "recommendations":
				if o.recs != nil {
					result.recs = *o.recs
				}
			}
		case <-ctx.Done():
			logger.Warn("Retrieval: assembly timeout, proceeding with %d of 3 branches", i)
			return result
		}
	}

	return result
}

// semanticBranch queries the search backend. A backend error (not merely
// empty results) hands control to the fallback chain in place of this
// source's contribution.
func (s *AssemblyService) semanticBranch(ctx context.Context, q domain.NormalisedQuery) branchOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
	defer cancel()

	if s.search == nil {
		logger.Debug("Semantic: backend not configured, using fallback chain")
		return branchOutcome{
			name:   "semantic",
			chunks: s.runFallback(ctx, q, domain.ErrSearchUnavailable),
		}
	}

	hits, err := s.search.Search(ctx, q)
	if err != nil {
		logger.Warn("Semantic: search failed: %v", err)
		return branchOutcome{name: "semantic", chunks: s.runFallback(ctx, q, err)}
	}

	logger.Debug("Semantic: %d hits", len(hits))

	chunks := make([]domain.ContentChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.ContentChunk{
			ID:             hit.ID,
			ContentType:    hit.ContentType,
			Name:           hit.Name,
			Body:           hit.Description,
			RelevanceScore: domain.ClampScore(hit.Score),
			Explanation:    fmt.Sprintf("Matched semantic search for %q", q.Query),
			Source:         domain.SourceSemantic,
			Metadata:       domain.ChunkMetadata{SourceEntityID: hit.ID},
		}
	}
	return branchOutcome{name: "semantic", chunks: chunks}
}

// structuredBranch walks the taxonomy with the query's filters. Items
// carry the fixed structured source score: the traversal has no notion
// of semantic ranking. Failures degrade silently to an empty bundle.
func (s *AssemblyService) structuredBranch(ctx context.Context, q domain.NormalisedQuery) branchOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
	defer cancel()

	if s.taxonomy == nil {
		logger.Warn("Structured: taxonomy store not configured")
		return branchOutcome{name: "structured"}
	}

	bundle, err := s.taxonomy.Traverse(ctx, driven.TraversalFilter{
		FocusAreas:  q.User.FocusAreas,
		Complexity:  q.User.Complexity,
		MaxPerLevel: s.config.TraversalFanOut,
	})
	if err != nil {
		logger.Warn("Structured: traversal failed: %v", err)
		return branchOutcome{name: "structured"}
	}

	logger.Debug("Structured: %d goals, %d indicators", len(bundle.Goals), len(bundle.Indicators))

	var chunks []domain.ContentChunk
	for _, g := range bundle.Goals {
		chunks = append(chunks, domain.ContentChunk{
			ID:             g.ID,
			ContentType:    "goal",
			Name:           g.Name,
			Body:           g.Description,
			RelevanceScore: s.config.StructuredSourceScore,
			Explanation:    "Selected by taxonomy traversal",
			Source:         domain.SourceStructured,
			Metadata: domain.ChunkMetadata{
				SourceEntityID: g.ID,
				Complexity:     g.Complexity,
			},
		})
	}
	for _, ind := range bundle.Indicators {
		chunks = append(chunks, domain.ContentChunk{
			ID:             ind.ID,
			ContentType:    "indicator",
			Name:           ind.Name,
			Body:           ind.Description,
			RelevanceScore: s.config.StructuredSourceScore,
			Explanation:    "Selected by taxonomy traversal",
			Source:         domain.SourceStructured,
			Metadata: domain.ChunkMetadata{
				SourceEntityID: ind.ID,
				Complexity:     ind.Complexity,
			},
		})
	}

	return branchOutcome{name: "structured", chunks: chunks, bundle: &bundle}
}

// recommendationBranch derives personalised recommendations. Failures
// degrade silently to an empty set.
func (s *AssemblyService) recommendationBranch(ctx context.Context, q domain.NormalisedQuery) branchOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.config.SourceTimeout)
	defer cancel()

	recs, err := s.recommend(ctx, q.User)
	if err != nil {
		logger.Warn("Recommendations: derivation failed: %v", err)
		return branchOutcome{name: "recommendations"}
	}

	logger.Debug("Recommendations: %d goals, %d indicators",
		len(recs.TopGoals), len(recs.SuggestedIndicators))

	return branchOutcome{name: "recommendations", recs: &recs}
}
