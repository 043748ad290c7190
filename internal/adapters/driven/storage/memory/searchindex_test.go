package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

func TestSearchIndex_UniqueTermRanksFirst(t *testing.T) {
	store := NewStore()
	id := createMemoirWithChunks(t, store, "T",
		"Wedding plans in June and the summer heat.",
		"The motorcycle accident on a rainy road near the fence.",
		"Moving to Colorado in the summer.",
	)

	hits, err := store.SearchIndex().Query(context.Background(), id, []string{"motorcycle", "accident"}, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Ordinal)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestSearchIndex_OrdersByScore(t *testing.T) {
	store := NewStore()
	id := createMemoirWithChunks(t, store, "T",
		"rain once",
		"rain rain rain and more rain",
		"nothing relevant here",
	)

	hits, err := store.SearchIndex().Query(context.Background(), id, []string{"rain"}, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Ordinal)
	assert.Equal(t, 0, hits[1].Ordinal)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestSearchIndex_TiesBreakByOrdinal(t *testing.T) {
	store := NewStore()
	id := createMemoirWithChunks(t, store, "T", "other", "same words", "same words", "same words")

	hits, err := store.SearchIndex().Query(context.Background(), id, []string{"same"}, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{hits[0].Ordinal, hits[1].Ordinal, hits[2].Ordinal})
}

func TestSearchIndex_ScopedToMemoir(t *testing.T) {
	store := NewStore()
	a := createMemoirWithChunks(t, store, "A", "apple orchard")
	b := createMemoirWithChunks(t, store, "B", "apple pie", "apple tart")

	hits, err := store.SearchIndex().Query(context.Background(), a, []string{"apple"}, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "apple orchard", hits[0].Content)

	hits, err = store.SearchIndex().Query(context.Background(), b, []string{"apple"}, domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchIndex_AnyTermMatches(t *testing.T) {
	store := NewStore()
	id := createMemoirWithChunks(t, store, "T", "cats", "dogs", "birds")

	hits, err := store.SearchIndex().Query(context.Background(), id, []string{"cats", "DOGS", "fish"}, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchIndex_EmptyTerms(t *testing.T) {
	store := NewStore()
	id := createMemoirWithChunks(t, store, "T", "cats")

	_, err := store.SearchIndex().Query(context.Background(), id, []string{" ", "?!"}, domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchIndex_UnknownMemoirHasNoHits(t *testing.T) {
	hits, err := NewStore().SearchIndex().Query(context.Background(), "missing", []string{"x"}, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	id := createMemoirWithChunks(t, store, "T", "lighthouse keeper", "harbour")
	store.indexes[id] = newPostings()

	hits, err := store.SearchIndex().Query(ctx, id, []string{"lighthouse"}, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, store.SearchIndex().Rebuild(ctx, id))
	hits, err = store.SearchIndex().Query(ctx, id, []string{"lighthouse"}, domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Ordinal)

	assert.ErrorIs(t, store.SearchIndex().Rebuild(ctx, "missing"), domain.ErrNotFound)
}

func TestSearchIndex_IndexChunks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	id := createMemoirWithChunks(t, store, "T", "first")
	chunks, err := store.GetChunks(ctx, id)
	require.NoError(t, err)

	// Re-indexing replaces postings rather than duplicating them.
	require.NoError(t, store.SearchIndex().IndexChunks(ctx, id, chunks))
	hits, err := store.SearchIndex().Query(ctx, id, []string{"first"}, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	foreign := domain.Chunk{ID: "c", MemoirID: "other", Content: "x"}
	assert.ErrorIs(t, store.SearchIndex().IndexChunks(ctx, id, []domain.Chunk{foreign}), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SearchIndex().IndexChunks(ctx, "missing", nil), domain.ErrNotFound)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, tokenize("Hello, WORLD! 42"))
	assert.Empty(t, tokenize("?!-"))
}
