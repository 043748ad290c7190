package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

func newAnnotateFixture(t *testing.T) (*memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	id, err := store.CreateMemoir(ctx, "T", "Ann")
	require.NoError(t, err)
	_, err = store.AppendChunks(ctx, id, []string{"one", "two", "three"})
	require.NoError(t, err)
	return store, id
}

func TestAnnotate_StoresQuestions(t *testing.T) {
	store, id := newAnnotateFixture(t)
	gen := &mockGenerator{}
	svc := NewAnnotationService(store, gen)
	var progress []int

	result, err := svc.Annotate(context.Background(), id, driving.AnnotateOptions{
		Progress: func(done, _ int) { progress = append(progress, done) },
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Annotated)
	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.Equal(t, []string{"Ann", "Ann", "Ann"}, gen.authors)
	assert.Equal(t, []int{DefaultQuestionCount, DefaultQuestionCount, DefaultQuestionCount}, gen.counts)

	chunks, err := store.GetChunks(context.Background(), id)
	require.NoError(t, err)
	for _, chunk := range chunks {
		assert.Equal(t, "1. What happened?\n2. Why?", chunk.Annotations[domain.AnnotationQuestions])
	}
}

func TestAnnotate_SkipsExistingUnlessOverwrite(t *testing.T) {
	store, id := newAnnotateFixture(t)
	ctx := context.Background()
	chunks, err := store.GetChunks(ctx, id)
	require.NoError(t, err)
	require.NoError(t, store.SetChunkAnnotation(ctx, chunks[0].ID, domain.AnnotationQuestions, "kept"))

	gen := &mockGenerator{}
	result, err := NewAnnotationService(store, gen).Annotate(ctx, id, driving.AnnotateOptions{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Annotated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []int{3, 3}, gen.counts)

	result, err = NewAnnotationService(store, gen).Annotate(ctx, id, driving.AnnotateOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Annotated)
}

func TestAnnotate_StopsOnFailure(t *testing.T) {
	store, id := newAnnotateFixture(t)
	gen := &mockGenerator{failAt: 2}

	result, err := NewAnnotationService(store, gen).Annotate(context.Background(), id, driving.AnnotateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1")
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Annotated)
}

func TestAnnotate_UnknownMemoir(t *testing.T) {
	_, err := NewAnnotationService(memory.NewStore(), &mockGenerator{}).
		Annotate(context.Background(), "missing", driving.AnnotateOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
