package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Ensure MemoirService implements the interface.
var _ driving.MemoirService = (*MemoirService)(nil)

// MemoirService browses and maintains stored memoirs.
type MemoirService struct {
	store driven.MemoirStore
	index driven.SearchIndex
}

// NewMemoirService creates a new memoir service.
func NewMemoirService(store driven.MemoirStore, index driven.SearchIndex) *MemoirService {
	return &MemoirService{store: store, index: index}
}

// List returns every memoir with chunk statistics.
func (s *MemoirService) List(ctx context.Context) ([]domain.MemoirStats, error) {
	return s.store.ListMemoirs(ctx)
}

// Get retrieves a memoir by ID.
func (s *MemoirService) Get(ctx context.Context, id string) (*domain.Memoir, error) {
	return s.store.GetMemoir(ctx, id)
}

// Find returns the earliest memoir with this title and author.
func (s *MemoirService) Find(ctx context.Context, title, author string) (*domain.Memoir, error) {
	id, err := s.store.FindMemoir(ctx, title, author)
	if err != nil {
		return nil, err
	}
	return s.store.GetMemoir(ctx, id)
}

// Chunks returns the memoir's chunks ordered by ordinal.
func (s *MemoirService) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	return s.store.GetChunks(ctx, id)
}

// Search sanitises query into terms and ranks the memoir's chunks.
func (s *MemoirService) Search(
	ctx context.Context, id, query string, opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	if _, err := s.store.GetMemoir(ctx, id); err != nil {
		return nil, err
	}
	terms := SanitizeTerms(query)
	if len(terms) == 0 {
		return nil, domain.ErrNoValidQueryTerms
	}
	logger.Debug("Searching memoir %s for %v", id, terms)
	return s.index.Query(ctx, id, terms, opts)
}

// Delete removes a memoir with its chunks and postings.
func (s *MemoirService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteMemoir(ctx, id)
}

// Reindex regenerates the memoir's postings from its stored chunks.
func (s *MemoirService) Reindex(ctx context.Context, id string) error {
	return s.index.Rebuild(ctx, id)
}

// SetImage sets or clears the image reference of the chunk at ordinal.
func (s *MemoirService) SetImage(ctx context.Context, id string, ordinal int, imageRef string) error {
	chunks, err := s.store.GetChunks(ctx, id)
	if err != nil {
		return err
	}
	for i := range chunks {
		if chunks[i].Ordinal == ordinal {
			return s.store.SetChunkImage(ctx, chunks[i].ID, imageRef)
		}
	}
	return fmt.Errorf("chunk %d of memoir %s: %w", ordinal, id, domain.ErrNotFound)
}
