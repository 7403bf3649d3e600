package mcp

import (
	"context"

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
