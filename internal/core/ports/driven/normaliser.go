package driven

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// Normaliser turns a memoir source file into plain text.
// Each normaliser handles specific file formats (e.g., Markdown, DOCX).
type Normaliser interface {
	// Format names the handled format.
	Format() string

	// Extensions returns the lower-case file extensions handled, with the
	// leading dot.
	Extensions() []string

	// Normalise extracts the memoir text from data. name is the source file
	// name and may be empty.
	Normalise(ctx context.Context, name string, data []byte) (*domain.SourceText, error)
}
