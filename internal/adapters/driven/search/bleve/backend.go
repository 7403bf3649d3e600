// Package bleve provides a local full-text search backend over the
// content taxonomy using an in-memory bleve index.
package bleve

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.SearchBackend = (*Backend)(nil)

// defaultSize bounds result sets when the query does not.
const defaultSize = 10

// contentDoc is the indexed representation of a taxonomy entity.
type contentDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
}

// Backend is a bleve-backed implementation of driven.SearchBackend.
// Goals and indicators are indexed by name and description; scores are
// normalised against the top hit so the best match scores 1.0.
type Backend struct {
	index bleve.Index
}

// NewMemoryBackend creates a backend over a fresh in-memory index.
func NewMemoryBackend() (*Backend, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &Backend{index: idx}, nil
}

// buildMapping builds the index mapping. content_type is indexed as a
// single keyword token so type filters match exactly.
func buildMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()

	typeField := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	doc.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())
	doc.AddFieldMappingsAt("content_type", typeField)

	m.DefaultMapping = doc
	return m
}

// IndexTaxonomy indexes every goal and indicator in the bundle.
// Document identifiers are "<type>/<id>" so the two namespaces cannot
// collide.
func (b *Backend) IndexTaxonomy(bundle domain.StructuredContentBundle) error {
	batch := b.index.NewBatch()

	for _, g := range bundle.Goals {
		doc := contentDoc{Name: g.Name, Description: g.Description, ContentType: "goal"}
		if err := batch.Index("goal/"+g.ID, doc); err != nil {
			return fmt.Errorf("indexing goal %s: %w", g.ID, err)
		}
	}
	for _, ind := range bundle.Indicators {
		doc := contentDoc{Name: ind.Name, Description: ind.Description, ContentType: "indicator"}
		if err := batch.Index("indicator/"+ind.ID, doc); err != nil {
			return fmt.Errorf("indexing indicator %s: %w", ind.ID, err)
		}
	}

	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Search performs a relevance-ranked match over names and descriptions.
func (b *Backend) Search(ctx context.Context, query domain.NormalisedQuery) ([]driven.SearchHit, error) {
	nameQuery := bleve.NewMatchQuery(query.Query)
	nameQuery.SetField("name")
	nameQuery.SetBoost(2.0)

	descQuery := bleve.NewMatchQuery(query.Query)
	descQuery.SetField("description")

	return b.run(ctx, bleve.NewDisjunctionQuery(nameQuery, descQuery), query.MaxResults)
}

// HybridSearch widens the match with prefix and fuzzy variants, used as
// the first fallback stage when the primary search fails.
func (b *Backend) HybridSearch(ctx context.Context, query domain.NormalisedQuery) ([]driven.SearchHit, error) {
	nameQuery := bleve.NewMatchQuery(query.Query)
	nameQuery.SetField("name")
	nameQuery.SetBoost(2.0)

	descQuery := bleve.NewMatchQuery(query.Query)
	descQuery.SetField("description")

	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(query.Query))
	prefixQuery.SetField("name")

	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(query.Query))
	fuzzyQuery.SetField("name")
	fuzzyQuery.SetFuzziness(1)

	disjunction := bleve.NewDisjunctionQuery(nameQuery, descQuery, prefixQuery, fuzzyQuery)
	return b.run(ctx, disjunction, query.MaxResults)
}

// Close releases the index.
func (b *Backend) Close() error {
	return b.index.Close()
}

// run executes a query and converts the result into normalised hits.
func (b *Backend) run(ctx context.Context, q query.Query, size int) ([]driven.SearchHit, error) {
	if size <= 0 {
		size = defaultSize
	}

	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.Fields = []string{"name", "description", "content_type"}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}

	// Normalise against the top hit so scores land in [0,1].
	top := res.Hits[0].Score
	if top <= 0 {
		top = 1
	}

	hits := make([]driven.SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		contentType, id := splitDocID(h.ID)
		hits = append(hits, driven.SearchHit{
			ID:          id,
			ContentType: contentType,
			Name:        fieldString(h.Fields, "name"),
			Description: fieldString(h.Fields, "description"),
			Score:       domain.ClampScore(h.Score / top),
		})
	}
	return hits, nil
}

// splitDocID separates a "<type>/<id>" document identifier.
func splitDocID(docID string) (contentType, id string) {
	if i := strings.IndexByte(docID, '/'); i >= 0 {
		return docID[:i], docID[i+1:]
	}
	return "", docID
}

// fieldString extracts a stored string field from a hit.
func fieldString(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
