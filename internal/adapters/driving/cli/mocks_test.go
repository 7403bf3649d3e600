package cli

import (
	"context"
	"errors"

	"github.com/quillframe/contexta/internal/core/domain"
)

// mockAssemblyService is a mock implementation of driving.AssemblyService.
type mockAssemblyService struct {
	assembled *domain.AssembledContext
	formatted string
	removed   int
	err       error

	lastQuery  domain.ContentQuery
	lastUserID string
}

func (m *mockAssemblyService) Assemble(
	_ context.Context,
	query domain.ContentQuery,
) (*domain.AssembledContext, error) {
	m.lastQuery = query
	return m.assembled, m.err
}

func (m *mockAssemblyService) Format(_ *domain.AssembledContext) string {
	return m.formatted
}

func (m *mockAssemblyService) InvalidateUser(_ context.Context, userID string) (int, error) {
	m.lastUserID = userID
	return m.removed, m.err
}

func (m *mockAssemblyService) InvalidateAll(_ context.Context) (int, error) {
	return m.removed, m.err
}

// mockAssemblyServiceError always fails.
type mockAssemblyServiceError struct {
	mockAssemblyService
}

func (m *mockAssemblyServiceError) Assemble(
	_ context.Context,
	_ domain.ContentQuery,
) (*domain.AssembledContext, error) {
	return nil, errors.New("assembly backend unavailable")
}

// setupTestServices injects a mock assembly service and returns a cleanup
// function restoring the previous wiring.
func setupTestServices() func() {
	oldService := assemblyService
	assemblyService = &mockAssemblyService{
		assembled: &domain.AssembledContext{
			Chunks: []domain.ContentChunk{
				{
					ID:             "goal-1",
					ContentType:    "goal",
					Name:           "Improve literacy",
					RelevanceScore: 0.9,
					Source:         domain.SourceSemantic,
				},
			},
			ContextSummary:      "1 relevant item",
			TotalRelevanceScore: 0.9,
		},
		formatted: "== Context Summary ==\n1 relevant item\n",
	}
	return func() {
		assemblyService = oldService
	}
}
