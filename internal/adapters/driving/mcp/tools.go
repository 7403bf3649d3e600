package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillframe/contexta/internal/core/domain"
)

// AssembleInput is the input schema for the assemble_context tool.
type AssembleInput struct {
	Query      string   `json:"query" jsonschema:"the free-text query to assemble content for"`
	Intent     string   `json:"intent,omitempty" jsonschema:"what the content is for (default general)"`
	UserID     string   `json:"user_id,omitempty" jsonschema:"user identifier for history and cache scoping"`
	Complexity string   `json:"complexity,omitempty" jsonschema:"content level: basic, intermediate or advanced"`
	FocusAreas []string `json:"focus_areas,omitempty" jsonschema:"focus areas restricting structured content"`
	MaxResults int      `json:"max_results,omitempty" jsonschema:"maximum number of content chunks (default 15)"`
}

// AssembleOutput is the output schema for the assemble_context tool.
type AssembleOutput struct {
	Formatted string        `json:"formatted"`
	Chunks    []ChunkOutput `json:"chunks"`
	Summary   string        `json:"summary"`
	Score     float64       `json:"total_relevance_score"`
}

// ChunkOutput represents a single content chunk.
type ChunkOutput struct {
	ID          string  `json:"id"`
	ContentType string  `json:"content_type"`
	Name        string  `json:"name"`
	Body        string  `json:"body,omitempty"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
	Source      string  `json:"source"`
}

// InvalidateInput is the input schema for the invalidate_user tool.
type InvalidateInput struct {
	UserID string `json:"user_id" jsonschema:"the user whose cached contexts should be evicted"`
}

// InvalidateOutput is the output schema for the invalidate_user tool.
type InvalidateOutput struct {
	Removed int `json:"removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assemble_context",
		Description: "Assemble relevant impact-measurement content for a query",
	}, s.handleAssemble)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "invalidate_user",
		Description: "Evict all cached contexts for a user after their data changed",
	}, s.handleInvalidate)
}

// handleAssemble handles the assemble_context tool invocation.
func (s *Server) handleAssemble(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssembleInput,
) (*mcp.CallToolResult, AssembleOutput, error) {
	query := domain.ContentQuery{
		Query:  input.Query,
		Intent: input.Intent,
		User: domain.UserContext{
			UserID:     input.UserID,
			Complexity: domain.ParseComplexity(input.Complexity),
			FocusAreas: input.FocusAreas,
		},
		MaxResults: input.MaxResults,
	}

	assembled, err := s.ports.Assembly.Assemble(ctx, query)
	if err != nil {
		return nil, AssembleOutput{}, err
	}

	output := AssembleOutput{
		Formatted: s.ports.Assembly.Format(assembled),
		Chunks:    make([]ChunkOutput, len(assembled.Chunks)),
		Summary:   assembled.ContextSummary,
		Score:     assembled.TotalRelevanceScore,
	}

	for i := range assembled.Chunks {
		c := assembled.Chunks[i]
		output.Chunks[i] = ChunkOutput{
			ID:          c.ID,
			ContentType: c.ContentType,
			Name:        c.Name,
			Body:        c.Body,
			Score:       c.RelevanceScore,
			Explanation: c.Explanation,
			Source:      string(c.Source),
		}
	}

	return nil, output, nil
}

// handleInvalidate handles the invalidate_user tool invocation.
func (s *Server) handleInvalidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InvalidateInput,
) (*mcp.CallToolResult, InvalidateOutput, error) {
	if input.UserID == "" {
		return nil, InvalidateOutput{}, domain.ErrInvalidQuery
	}

	removed, err := s.ports.Assembly.InvalidateUser(ctx, input.UserID)
	if err != nil {
		return nil, InvalidateOutput{}, err
	}

	return nil, InvalidateOutput{Removed: removed}, nil
}
