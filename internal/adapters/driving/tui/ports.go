// Package tui provides an interactive terminal user interface for asking
// questions about memoirs. It implements a driving adapter following
// hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Memoir lists the memoirs offered in the picker.
	Memoir driving.MemoirService

	// Ask answers questions in the chat view.
	Ask driving.AskService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Memoir == nil {
		return ErrMissingMemoirService
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
