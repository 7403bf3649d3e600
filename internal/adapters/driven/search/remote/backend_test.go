package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillframe/contexta/internal/core/domain"
)

func testQuery() domain.NormalisedQuery {
	return domain.NormalisedQuery{
		Query:  "literacy",
		Intent: "general",
		User: domain.UserContext{
			UserID:     "u1",
			Complexity: domain.ComplexityBasic,
			FocusAreas: []string{"education"},
		},
		MaxResults: 10,
	}
}

func TestSearch_DecodesHits(t *testing.T) {
	var gotPath string
	var gotReq searchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":[
			{"id":"goal-1","contentType":"goal","name":"Improve literacy","description":"Raise literacy","score":0.9},
			{"id":"ind-1","contentType":"indicator","name":"Literacy rate","score":0.7}
		]}`))
	}))
	defer server.Close()

	backend, err := NewBackend(Config{BaseURL: server.URL})
	require.NoError(t, err)

	hits, err := backend.Search(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, "/v1/search", gotPath)
	assert.Equal(t, "literacy", gotReq.Query)
	assert.Equal(t, "basic", gotReq.Complexity)
	assert.Equal(t, []string{"education"}, gotReq.FocusAreas)

	require.Len(t, hits, 2)
	assert.Equal(t, "goal-1", hits[0].ID)
	assert.Equal(t, "goal", hits[0].ContentType)
	assert.InDelta(t, 0.9, hits[0].Score, 1e-9)
}

func TestHybridSearch_UsesHybridEndpoint(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	defer server.Close()

	backend, err := NewBackend(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = backend.HybridSearch(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, "/v1/search/hybrid", gotPath)
}

func TestSearch_ClampsScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[{"id":"goal-1","contentType":"goal","score":1.8}]}`))
	}))
	defer server.Close()

	backend, err := NewBackend(Config{BaseURL: server.URL})
	require.NoError(t, err)

	hits, err := backend.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1.0, hits[0].Score)
}

func TestSearch_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"index unavailable"}`))
	}))
	defer server.Close()

	backend, err := NewBackend(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = backend.Search(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index unavailable")
}

func TestSearch_SendsAPIKey(t *testing.T) {
	var gotAuth, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	defer server.Close()

	backend, err := NewBackend(Config{BaseURL: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	_, err = backend.Search(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries a request id")
}

func TestNewBackend_RequiresBaseURL(t *testing.T) {
	_, err := NewBackend(Config{})
	assert.Error(t, err)
}

func TestSearch_RateLimited(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	defer server.Close()

	// One request per second with no burst headroom beyond the first.
	backend, err := NewBackend(Config{BaseURL: server.URL, RateLimit: 1, Burst: 1})
	require.NoError(t, err)

	_, err = backend.Search(context.Background(), testQuery())
	require.NoError(t, err)

	// The second request must wait for a token; a short deadline cancels it.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = backend.Search(ctx, testQuery())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "rate-limited request never reached the server")
}
