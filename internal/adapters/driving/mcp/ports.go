package mcp

import (
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Memoir lists, searches and reads stored memoirs.
	Memoir driving.MemoirService

	// Ask answers questions. Optional: without it ask_memoir reports an error.
	Ask driving.AskService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Memoir == nil {
		return ErrMissingMemoirService
	}
	return nil
}
