package driven

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// MemoirStore persists memoirs and their ordered chunks.
// It is the source of truth; the SearchIndex is derived from it.
type MemoirStore interface {
	// CreateMemoir stores a new memoir and returns its ID.
	// Duplicate title and author pairs are permitted.
	CreateMemoir(ctx context.Context, title, author string) (string, error)

	// AppendChunks stores contents as chunks of the memoir, in order, and
	// indexes them. Ordinals continue from the memoir's next free ordinal.
	// The chunks and their index postings commit together or not at all.
	AppendChunks(ctx context.Context, memoirID string, contents []string) ([]string, error)

	// GetChunks returns the memoir's chunks ordered by ordinal.
	GetChunks(ctx context.Context, memoirID string) ([]domain.Chunk, error)

	// FindMemoir returns the ID of the earliest memoir with this title and author.
	// Returns domain.ErrNotFound when none exists.
	FindMemoir(ctx context.Context, title, author string) (string, error)

	// GetMemoir retrieves a memoir by ID.
	GetMemoir(ctx context.Context, id string) (*domain.Memoir, error)

	// ListMemoirs returns every memoir with chunk statistics.
	ListMemoirs(ctx context.Context) ([]domain.MemoirStats, error)

	// DeleteMemoir removes a memoir with its chunks and postings.
	DeleteMemoir(ctx context.Context, id string) error

	// SetChunkAnnotation stores a derived annotation on a chunk.
	SetChunkAnnotation(ctx context.Context, chunkID, key, value string) error

	// SetChunkImage sets or clears a chunk's image reference.
	SetChunkImage(ctx context.Context, chunkID, imageRef string) error
}
