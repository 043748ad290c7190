package driving

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// MemoirService browses and maintains stored memoirs.
type MemoirService interface {
	// List returns every memoir with chunk statistics.
	List(ctx context.Context) ([]domain.MemoirStats, error)

	// Get retrieves a memoir by ID.
	Get(ctx context.Context, id string) (*domain.Memoir, error)

	// Find returns the earliest memoir with this title and author.
	Find(ctx context.Context, title, author string) (*domain.Memoir, error)

	// Chunks returns the memoir's chunks ordered by ordinal.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)

	// Search ranks the memoir's chunks against the words of query
	// without any remote call.
	Search(ctx context.Context, id, query string, opts domain.SearchOptions) ([]domain.RankedChunk, error)

	// Delete removes a memoir with its chunks and index postings.
	Delete(ctx context.Context, id string) error

	// Reindex regenerates the memoir's index postings.
	Reindex(ctx context.Context, id string) error

	// SetImage sets or clears the image reference of the chunk at ordinal.
	SetImage(ctx context.Context, id string, ordinal int, imageRef string) error
}
