package services

import (
	"sort"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/logger"
)

// mergeChunks combines per-source chunk lists into one ranked list.
// It discards chunks below the relevance threshold, deduplicates by
// (content type, id) keeping the highest-scoring occurrence, sorts
// descending by score with deterministic tie-breaking, and truncates
// to limit.
func mergeChunks(minScore float64, limit int, lists ...[]domain.ContentChunk) []domain.ContentChunk {
	best := make(map[domain.ChunkKey]domain.ContentChunk)
	var total int

	for _, list := range lists {
		total += len(list)
		for _, c := range list {
			c.RelevanceScore = domain.ClampScore(c.RelevanceScore)
			if c.RelevanceScore < minScore {
				continue
			}
			prev, ok := best[c.Key()]
			if !ok || betterChunk(c, prev) {
				best[c.Key()] = c
			}
		}
	}

	merged := make([]domain.ContentChunk, 0, len(best))
	for _, c := range best {
		merged = append(merged, c)
	}

	sort.Slice(merged, func(i, j int) bool {
		return chunkLess(merged[i], merged[j])
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	logger.Debug("Merge: %d raw -> %d deduplicated -> %d returned (threshold %.2f, limit %d)",
		total, len(best), len(merged), minScore, limit)

	return merged
}

// betterChunk reports whether a should replace b for the same key.
// Higher score wins; on equal score the higher-priority source wins.
func betterChunk(a, b domain.ContentChunk) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	return a.Source.Priority() < b.Source.Priority()
}

// chunkLess orders chunks: score descending, then source priority,
// then content type and id ascending for determinism.
func chunkLess(a, b domain.ContentChunk) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	if a.Source.Priority() != b.Source.Priority() {
		return a.Source.Priority() < b.Source.Priority()
	}
	if a.ContentType != b.ContentType {
		return a.ContentType < b.ContentType
	}
	return a.ID < b.ID
}
