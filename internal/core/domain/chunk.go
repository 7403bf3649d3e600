package domain

// ContentSource identifies which retrieval branch produced a chunk.
// Sources also define merge priority: when two chunks tie on relevance,
// the chunk from the higher-priority source wins.
type ContentSource string

// Retrieval sources in priority order.
const (
	// SourceSemantic is the semantic/keyword search backend.
	SourceSemantic ContentSource = "semantic"

	// SourceStructured is the taxonomy traversal.
	SourceStructured ContentSource = "structured"

	// SourceFallback is any stage of the fallback chain.
	SourceFallback ContentSource = "fallback"
)

// Priority returns the merge priority of the source (lower wins ties).
func (s ContentSource) Priority() int {
	switch s {
	case SourceSemantic:
		return 0
	case SourceStructured:
		return 1
	default:
		return 2
	}
}

// ChunkKey uniquely identifies a chunk within a merged result set.
// No two chunks in an assembled context share a key.
type ChunkKey struct {
	// ContentType is the taxonomy entity type ("goal", "indicator", ...).
	ContentType string

	// ID is the entity identifier.
	ID string
}

// ChunkMetadata carries provenance and quality scores for a chunk.
type ChunkMetadata struct {
	// SourceEntityID references the taxonomy entity the chunk came from.
	SourceEntityID string

	// Complexity is the content level of the chunk.
	Complexity Complexity

	// Completeness scores how fully the entity is described, in [0,1].
	Completeness float64

	// Clarity scores how readable the content is, in [0,1].
	Clarity float64

	// Actionability scores how directly usable the content is, in [0,1].
	Actionability float64
}

// ContentChunk is a scored unit of retrieved content.
type ContentChunk struct {
	// ID is the entity identifier.
	ID string

	// ContentType is the kind of entity ("goal", "indicator",
	// "theme", "requirement").
	ContentType string

	// Name is the human-readable entity name.
	Name string

	// Body is the content text.
	Body string

	// RelevanceScore is the normalised query match strength in [0,1].
	RelevanceScore float64

	// Explanation states why the chunk was retrieved.
	Explanation string

	// Source is the retrieval branch that produced the chunk.
	Source ContentSource

	// Metadata carries provenance and quality scores.
	Metadata ChunkMetadata
}

// Key returns the deduplication key for the chunk.
func (c ContentChunk) Key() ChunkKey {
	return ChunkKey{ContentType: c.ContentType, ID: c.ID}
}

// ClampScore forces a relevance score into [0,1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
