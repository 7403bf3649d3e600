package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillframe/contexta/internal/core/domain"
)

func chunk(id, ctype string, score float64, source domain.ContentSource) domain.ContentChunk {
	return domain.ContentChunk{
		ID:             id,
		ContentType:    ctype,
		RelevanceScore: score,
		Source:         source,
	}
}

func TestMergeChunks_ThresholdFilter(t *testing.T) {
	merged := mergeChunks(0.3, 10,
		[]domain.ContentChunk{
			chunk("a", "goal", 0.29, domain.SourceSemantic),
			chunk("b", "goal", 0.3, domain.SourceSemantic),
			chunk("c", "goal", 0.9, domain.SourceSemantic),
		})

	ids := make([]string, len(merged))
	for i, c := range merged {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"c", "b"}, ids)
}

func TestMergeChunks_DeduplicatesKeepingHighest(t *testing.T) {
	merged := mergeChunks(0.3, 10,
		[]domain.ContentChunk{chunk("a", "goal", 0.5, domain.SourceStructured)},
		[]domain.ContentChunk{chunk("a", "goal", 0.8, domain.SourceSemantic)},
		[]domain.ContentChunk{chunk("a", "indicator", 0.6, domain.SourceSemantic)},
	)

	require.Len(t, merged, 2, "same id under different content types is not a duplicate")

	for _, c := range merged {
		if c.ContentType == "goal" {
			assert.InDelta(t, 0.8, c.RelevanceScore, 1e-9)
			assert.Equal(t, domain.SourceSemantic, c.Source)
		}
	}
}

func TestMergeChunks_TieBreakBySourcePriority(t *testing.T) {
	merged := mergeChunks(0.3, 10,
		[]domain.ContentChunk{chunk("b", "goal", 0.6, domain.SourceFallback)},
		[]domain.ContentChunk{chunk("a", "goal", 0.6, domain.SourceSemantic)},
		[]domain.ContentChunk{chunk("c", "goal", 0.6, domain.SourceStructured)},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, domain.SourceSemantic, merged[0].Source)
	assert.Equal(t, domain.SourceStructured, merged[1].Source)
	assert.Equal(t, domain.SourceFallback, merged[2].Source)
}

func TestMergeChunks_TruncatesToLimit(t *testing.T) {
	var list []domain.ContentChunk
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		list = append(list, chunk(id, "goal", 0.5, domain.SourceSemantic))
	}

	merged := mergeChunks(0.3, 3, list)
	assert.Len(t, merged, 3)
}

func TestMergeChunks_ClampsScores(t *testing.T) {
	merged := mergeChunks(0.3, 10,
		[]domain.ContentChunk{chunk("a", "goal", 1.7, domain.SourceSemantic)})

	require.Len(t, merged, 1)
	assert.Equal(t, 1.0, merged[0].RelevanceScore)
}

func TestMergeChunks_Deterministic(t *testing.T) {
	lists := [][]domain.ContentChunk{
		{
			chunk("b", "goal", 0.6, domain.SourceSemantic),
			chunk("a", "goal", 0.6, domain.SourceSemantic),
		},
		{
			chunk("c", "indicator", 0.6, domain.SourceSemantic),
			chunk("a", "indicator", 0.6, domain.SourceSemantic),
		},
	}

	first := mergeChunks(0.3, 10, lists...)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mergeChunks(0.3, 10, lists...))
	}
}
