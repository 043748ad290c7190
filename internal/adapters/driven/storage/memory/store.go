package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MemoirStore = (*Store)(nil)

// Store is an in-memory implementation of driven.MemoirStore with a BM25
// search index. Chunks and postings share one lock so appends are atomic.
type Store struct {
	mu      sync.RWMutex
	memoirs map[string]domain.Memoir
	order   []string
	chunks  map[string][]domain.Chunk
	byChunk map[string]chunkRef
	indexes map[string]*postings
}

type chunkRef struct {
	memoirID string
	pos      int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		memoirs: make(map[string]domain.Memoir),
		chunks:  make(map[string][]domain.Chunk),
		byChunk: make(map[string]chunkRef),
		indexes: make(map[string]*postings),
	}
}

// SearchIndex returns the search index over this store's chunks.
func (s *Store) SearchIndex() *SearchIndex {
	return &SearchIndex{store: s}
}

// CreateMemoir stores a new memoir and returns its ID.
func (s *Store) CreateMemoir(ctx context.Context, title, author string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.memoirs[id] = domain.Memoir{ID: id, Title: title, Author: author, CreatedAt: time.Now().UTC()}
	s.order = append(s.order, id)
	s.indexes[id] = newPostings()
	return id, nil
}

// AppendChunks stores and indexes contents as the memoir's next chunks.
// Nothing is written unless every content is valid.
func (s *Store) AppendChunks(ctx context.Context, memoirID string, contents []string) ([]string, error) {
	for i, content := range contents {
		if content == "" {
			return nil, fmt.Errorf("%w: chunk %d is empty", domain.ErrInvalidInput, i)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memoirs[memoirID]; !ok {
		return nil, fmt.Errorf("memoir %s: %w", memoirID, domain.ErrNotFound)
	}

	existing := s.chunks[memoirID]
	next := len(existing)
	ids := make([]string, len(contents))
	for i, content := range contents {
		chunk := domain.Chunk{
			ID:       uuid.New().String(),
			MemoirID: memoirID,
			Ordinal:  next + i,
			Content:  content,
		}
		existing = append(existing, chunk)
		s.byChunk[chunk.ID] = chunkRef{memoirID: memoirID, pos: chunk.Ordinal}
		s.indexes[memoirID].add(chunk)
		ids[i] = chunk.ID
	}
	s.chunks[memoirID] = existing
	return ids, nil
}

// GetChunks returns copies of the memoir's chunks ordered by ordinal.
func (s *Store) GetChunks(ctx context.Context, memoirID string) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.memoirs[memoirID]; !ok {
		return nil, fmt.Errorf("memoir %s: %w", memoirID, domain.ErrNotFound)
	}

	stored := s.chunks[memoirID]
	result := make([]domain.Chunk, len(stored))
	for i, chunk := range stored {
		result[i] = chunk
		if chunk.Annotations != nil {
			result[i].Annotations = make(map[string]string, len(chunk.Annotations))
			for k, v := range chunk.Annotations {
				result[i].Annotations[k] = v
			}
		}
	}
	return result, nil
}

// FindMemoir returns the earliest memoir with this title and author.
func (s *Store) FindMemoir(ctx context.Context, title, author string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		m := s.memoirs[id]
		if m.Title == title && m.Author == author {
			return id, nil
		}
	}
	return "", fmt.Errorf("memoir %q by %q: %w", title, author, domain.ErrNotFound)
}

// GetMemoir retrieves a memoir by ID.
func (s *Store) GetMemoir(_ context.Context, id string) (*domain.Memoir, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memoirs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// ListMemoirs returns every memoir in creation order with chunk statistics.
func (s *Store) ListMemoirs(ctx context.Context) ([]domain.MemoirStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]domain.MemoirStats, 0, len(s.order))
	for _, id := range s.order {
		st := domain.MemoirStats{Memoir: s.memoirs[id]}
		for _, chunk := range s.chunks[id] {
			st.ChunkCount++
			st.TotalChars += len([]rune(chunk.Content))
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// DeleteMemoir removes a memoir with its chunks and postings.
func (s *Store) DeleteMemoir(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memoirs[id]; !ok {
		return domain.ErrNotFound
	}
	for _, chunk := range s.chunks[id] {
		delete(s.byChunk, chunk.ID)
	}
	delete(s.chunks, id)
	delete(s.indexes, id)
	delete(s.memoirs, id)
	s.order = removeID(s.order, id)
	return nil
}

// SetChunkAnnotation stores or replaces an annotation on a chunk.
func (s *Store) SetChunkAnnotation(_ context.Context, chunkID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunk, err := s.chunkLocked(chunkID)
	if err != nil {
		return err
	}
	if chunk.Annotations == nil {
		chunk.Annotations = make(map[string]string)
	}
	chunk.Annotations[key] = value
	return nil
}

// SetChunkImage sets or clears a chunk's image reference.
func (s *Store) SetChunkImage(_ context.Context, chunkID, imageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunk, err := s.chunkLocked(chunkID)
	if err != nil {
		return err
	}
	chunk.ImageRef = imageRef
	return nil
}

func (s *Store) chunkLocked(chunkID string) (*domain.Chunk, error) {
	ref, ok := s.byChunk[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s.chunks[ref.memoirID][ref.pos], nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
