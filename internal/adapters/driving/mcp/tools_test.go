package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillframe/contexta/internal/core/domain"
)

func TestServer_handleAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("returns assembled context", func(t *testing.T) {
		mockAssembly := &mockAssemblyService{
			assembled: &domain.AssembledContext{
				Chunks: []domain.ContentChunk{
					{
						ID:             "goal-1",
						ContentType:    "goal",
						Name:           "Improve literacy",
						Body:           "Raise adult literacy rates",
						RelevanceScore: 0.9,
						Explanation:    "matches query terms",
						Source:         domain.SourceSemantic,
					},
					{
						ID:             "ind-1",
						ContentType:    "indicator",
						Name:           "Attendance rate",
						RelevanceScore: 0.6,
						Source:         domain.SourceStructured,
					},
				},
				ContextSummary:      "2 relevant items for literacy",
				TotalRelevanceScore: 1.5,
			},
			formatted: "== Context Summary ==",
		}

		ports := &Ports{Assembly: mockAssembly}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AssembleInput{Query: "literacy programmes", UserID: "user-1"}
		_, output, err := server.handleAssemble(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "== Context Summary ==", output.Formatted)
		assert.Equal(t, "2 relevant items for literacy", output.Summary)
		assert.InDelta(t, 1.5, output.Score, 0.0001)
		require.Len(t, output.Chunks, 2)
		assert.Equal(t, "goal-1", output.Chunks[0].ID)
		assert.Equal(t, "goal", output.Chunks[0].ContentType)
		assert.Equal(t, "matches query terms", output.Chunks[0].Explanation)
		assert.Equal(t, string(domain.SourceSemantic), output.Chunks[0].Source)
		assert.Equal(t, string(domain.SourceStructured), output.Chunks[1].Source)
	})

	t.Run("passes query through to the service", func(t *testing.T) {
		mockAssembly := &mockAssemblyService{
			assembled: &domain.AssembledContext{},
		}

		ports := &Ports{Assembly: mockAssembly}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AssembleInput{
			Query:      "biodiversity",
			Intent:     "reporting",
			UserID:     "user-2",
			Complexity: "basic",
			FocusAreas: []string{"climate", "environment"},
			MaxResults: 3,
		}
		_, _, err = server.handleAssemble(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "biodiversity", mockAssembly.lastQuery.Query)
		assert.Equal(t, "reporting", mockAssembly.lastQuery.Intent)
		assert.Equal(t, "user-2", mockAssembly.lastQuery.User.UserID)
		assert.Equal(t, domain.ComplexityBasic, mockAssembly.lastQuery.User.Complexity)
		assert.Equal(t, []string{"climate", "environment"}, mockAssembly.lastQuery.User.FocusAreas)
		assert.Equal(t, 3, mockAssembly.lastQuery.MaxResults)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		wantErr := errors.New("assembly failed")
		mockAssembly := &mockAssemblyService{err: wantErr}

		ports := &Ports{Assembly: mockAssembly}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AssembleInput{Query: "anything"}
		_, output, err := server.handleAssemble(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, wantErr)
		assert.Empty(t, output.Chunks)
	})
}

func TestServer_handleInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts a user's cached contexts", func(t *testing.T) {
		mockAssembly := &mockAssemblyService{removed: 3}

		ports := &Ports{Assembly: mockAssembly}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleInvalidate(ctx, nil, InvalidateInput{UserID: "user-1"})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Removed)
		assert.Equal(t, "user-1", mockAssembly.lastUserID)
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		ports := &Ports{Assembly: &mockAssemblyService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleInvalidate(ctx, nil, InvalidateInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		wantErr := errors.New("cache unavailable")
		mockAssembly := &mockAssemblyService{err: wantErr}

		ports := &Ports{Assembly: mockAssembly}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleInvalidate(ctx, nil, InvalidateInput{UserID: "user-1"})

		assert.ErrorIs(t, err, wantErr)
	})
}
