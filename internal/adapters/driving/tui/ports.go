// Package tui provides an interactive terminal user interface for clinirag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Sessions holds conversation memory.
	Sessions driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(query driving.QueryService, sessions driving.SessionService) *Ports {
	return &Ports{
		Query:    query,
		Sessions: sessions,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
