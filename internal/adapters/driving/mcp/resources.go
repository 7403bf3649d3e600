package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillframe/contexta/internal/core/domain"
	"github.com/quillframe/contexta/internal/core/ports/driven"
)

const (
	// uriScheme is the custom URI scheme for Contexta resources.
	uriScheme = "contexta://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the full taxonomy.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "taxonomy",
		Name:        "taxonomy",
		Description: "The full content taxonomy: categories, themes, goals, indicators and data requirements",
		MIMEType:    "application/json",
	}, s.handleTaxonomyResource)

	// Template for a goal's indicators.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "goals/{goalId}/indicators",
		Name:        "goal-indicators",
		Description: "Indicators measuring a specific strategic goal",
		MIMEType:    "application/json",
	}, s.handleIndicatorsResource)
}

// handleTaxonomyResource returns the full taxonomy tree.
func (s *Server) handleTaxonomyResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Taxonomy == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	bundle, err := s.ports.Taxonomy.Traverse(ctx, driven.TraversalFilter{
		Complexity: domain.ComplexityAdvanced,
	})
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling taxonomy: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleIndicatorsResource returns the indicators for one goal.
func (s *Server) handleIndicatorsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Taxonomy == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	goalID := extractGoalID(req.Params.URI)
	if goalID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	indicators, err := s.ports.Taxonomy.IndicatorsByGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing indicators: %w", err)
	}

	// Build simplified indicator list.
	type indicatorInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Complexity  string `json:"complexity"`
		Unit        string `json:"unit,omitempty"`
	}

	infos := make([]indicatorInfo, len(indicators))
	for i, ind := range indicators {
		infos[i] = indicatorInfo{
			ID:          ind.ID,
			Name:        ind.Name,
			Description: ind.Description,
			Complexity:  ind.Complexity.String(),
			Unit:        ind.Unit,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling indicators: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractGoalID extracts the goal ID from a URI like contexta://goals/{goalId}/indicators.
func extractGoalID(uri string) string {
	const prefix = uriScheme + "goals/"
	const suffix = "/indicators"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
