package mcp

import (
	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Sessions scopes conversation memory per client session.
	Sessions driving.SessionService

	// Report describes the loaded corpus. Optional.
	Report *domain.IngestReport
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
