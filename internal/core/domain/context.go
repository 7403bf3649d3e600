package domain

// AssembledContext is the final bundle produced by the assembly pipeline.
// It is JSON-serialisable so cached entries round-trip bit-identically.
type AssembledContext struct {
	// Query is the normalised query the context answers.
	Query NormalisedQuery `json:"query"`

	// Chunks are the merged, ranked content chunks. Never longer than
	// Query.MaxResults, sorted descending by relevance.
	Chunks []ContentChunk `json:"chunks"`

	// Structured is the taxonomy traversal result.
	Structured StructuredContentBundle `json:"structured"`

	// Recommendations is the personalised recommendation set.
	Recommendations RecommendationSet `json:"recommendations"`

	// ContextSummary is a short description of the bundle contents.
	ContextSummary string `json:"contextSummary"`

	// TotalRelevanceScore is the mean chunk relevance in [0,1].
	// Zero exactly when Chunks is empty.
	TotalRelevanceScore float64 `json:"totalRelevanceScore"`
}

// AverageRelevance computes the mean relevance of a chunk list,
// returning 0 for an empty list.
func AverageRelevance(chunks []ContentChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, c := range chunks {
		sum += c.RelevanceScore
	}
	return sum / float64(len(chunks))
}
