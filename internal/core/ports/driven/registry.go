package driven

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a source file by its
// extension, falling back to plain text.
type NormaliserRegistry interface {
	// Normalise converts data using the normaliser matching name.
	Normalise(ctx context.Context, name string, data []byte) (*domain.SourceText, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all registered extensions, sorted.
	SupportedExtensions() []string
}
