// Package tui provides an interactive terminal user interface for Contexta.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/quillframe/contexta/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assembly assembles contexts for queries.
	Assembly driving.AssemblyService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(assembly driving.AssemblyService) *Ports {
	return &Ports{
		Assembly: assembly,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Assembly == nil {
		return ErrMissingAssemblyService
	}
	return nil
}
