package mcp

import (
	"github.com/quillframe/contexta/internal/core/ports/driven"
	"github.com/quillframe/contexta/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assembly provides context assembly and cache invalidation.
	Assembly driving.AssemblyService

	// Taxonomy backs the taxonomy browsing resources. Optional.
	Taxonomy driven.TaxonomyStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assembly == nil {
		return ErrMissingAssemblyService
	}
	// Taxonomy is optional; without it the resources return empty lists
	return nil
}
