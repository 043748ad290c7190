package driven

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// SearchIndex provides ranked full-text lookup scoped to one memoir.
// Backed by SQLite FTS5 (bm25) or an in-memory BM25 index.
type SearchIndex interface {
	// Query returns chunks of the memoir matching any of the terms, ordered
	// by descending score with ties broken by ascending ordinal.
	// Engine failures are wrapped with domain.ErrIndexQuery.
	Query(ctx context.Context, memoirID string, terms []string, opts domain.SearchOptions) ([]domain.RankedChunk, error)

	// IndexChunks adds postings for stored chunks.
	IndexChunks(ctx context.Context, memoirID string, chunks []domain.Chunk) error

	// Rebuild drops and regenerates the memoir's postings from stored chunks.
	Rebuild(ctx context.Context, memoirID string) error
}
