// Package remote provides a search backend adapter over an HTTP search
// service. Requests are rate limited so a burst of assemblies cannot
// overwhelm the remote endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.SearchBackend = (*Backend)(nil)

// Default configuration values.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultRateLimit   = 10 // requests per second
	DefaultBurst       = 5
	searchEndpoint     = "/v1/search"
	hybridEndpoint     = "/v1/search/hybrid"
	headerContentType  = "Content-Type"
	contentTypeJSON    = "application/json"
	headerAuthBearer   = "Authorization"
	bearerScheme       = "Bearer "
	headerRequestID    = "X-Request-ID"
)

// Config holds configuration for the remote search backend.
type Config struct {
	// BaseURL is the search service base URL (required).
	BaseURL string

	// APIKey authenticates requests, if the service requires it.
	APIKey string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration

	// RateLimit is the sustained request rate per second (default: 10).
	RateLimit float64

	// Burst is the rate limiter burst size (default: 5).
	Burst int
}

// Backend queries a remote search service over HTTP.
type Backend struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// searchRequest is the remote API request format.
type searchRequest struct {
	Query      string   `json:"query"`
	Intent     string   `json:"intent,omitempty"`
	FocusAreas []string `json:"focusAreas,omitempty"`
	Complexity string   `json:"complexity,omitempty"`
	MaxResults int      `json:"maxResults"`
}

// searchResponse is the remote API response format.
type searchResponse struct {
	Hits []struct {
		ID          string  `json:"id"`
		ContentType string  `json:"contentType"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Score       float64 `json:"score"`
	} `json:"hits"`
	Error string `json:"error,omitempty"`
}

// NewBackend creates a new remote search backend.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &Backend{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}, nil
}

// Search performs a relevance-ranked search against the remote service.
func (b *Backend) Search(ctx context.Context, query domain.NormalisedQuery) ([]driven.SearchHit, error) {
	return b.post(ctx, searchEndpoint, query)
}

// HybridSearch performs a combined semantic+metadata search.
func (b *Backend) HybridSearch(ctx context.Context, query domain.NormalisedQuery) ([]driven.SearchHit, error) {
	return b.post(ctx, hybridEndpoint, query)
}

// Close releases resources.
func (b *Backend) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// post sends a search request and decodes the hits. It blocks on the
// rate limiter first, so a cancelled context never reaches the wire.
func (b *Backend) post(ctx context.Context, endpoint string, query domain.NormalisedQuery) ([]driven.SearchHit, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := searchRequest{
		Query:      query.Query,
		Intent:     query.Intent,
		FocusAreas: query.User.FocusAreas,
		Complexity: query.User.Complexity.String(),
		MaxResults: query.MaxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.baseURL+endpoint,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerRequestID, uuid.NewString())
	if b.apiKey != "" {
		req.Header.Set(headerAuthBearer, bearerScheme+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if searchResp.Error != "" {
		return nil, fmt.Errorf("remote error: %s", searchResp.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote error (status %d): %s", resp.StatusCode, string(body))
	}

	hits := make([]driven.SearchHit, 0, len(searchResp.Hits))
	for _, h := range searchResp.Hits {
		hits = append(hits, driven.SearchHit{
			ID:          h.ID,
			ContentType: h.ContentType,
			Name:        h.Name,
			Description: h.Description,
			Score:       domain.ClampScore(h.Score),
		})
	}
	return hits, nil
}
