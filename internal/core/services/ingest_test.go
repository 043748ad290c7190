package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/normalisers"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/memoir-cli/internal/normalisers/plaintext"
	"github.com/custodia-labs/memoir-cli/internal/segmenter"
)

func newIngestService(t *testing.T) (*IngestService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seg, err := segmenter.New()
	require.NoError(t, err)
	return NewIngestService(store, seg), store
}

func TestIngest_ScenarioA_TwoChunks(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: scenarioText})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Len(t, result.ChunkIDs, 2)

	chunks, err := store.GetChunks(ctx, result.MemoirID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.Equal(t, "Section 1 - A\nHello world.", chunks[0].Content)
	assert.Equal(t, 1, chunks[1].Ordinal)
	assert.Equal(t, "Section 2 - B\nGoodbye world.", chunks[1].Content)

	id, err := store.FindMemoir(ctx, "T", "X")
	require.NoError(t, err)
	assert.Equal(t, result.MemoirID, id)
}

func TestIngest_Validation(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, driving.IngestRequest{Title: " ", Author: "X", Text: "words"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: "  \n"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stats, err := store.ListMemoirs(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestIngest_DuplicatesWithoutAppend(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: "one"})
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: "two"})
	require.NoError(t, err)

	assert.NotEqual(t, first.MemoirID, second.MemoirID)
	id, err := store.FindMemoir(ctx, "T", "X")
	require.NoError(t, err)
	assert.Equal(t, first.MemoirID, id, "earliest memoir wins")
}

func TestIngest_AppendContinuesOrdinals(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: scenarioText, Append: true})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Ingest(ctx, driving.IngestRequest{
		Title: "T", Author: "X", Text: "Section 3 - C\nLater.", Append: true,
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.MemoirID, second.MemoirID)

	chunks, err := store.GetChunks(ctx, first.MemoirID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 2, chunks[2].Ordinal)
	assert.Equal(t, "Section 3 - C\nLater.", chunks[2].Content)
}

func TestIngest_FailedAppendRemovesNewMemoir(t *testing.T) {
	mem := memory.NewStore()
	store := &countingStore{MemoirStore: mem, appendErr: errors.New("disk full")}
	svc := NewIngestService(store, &mockSegmenter{chunks: []string{"a"}})

	_, err := svc.Ingest(context.Background(), driving.IngestRequest{Title: "T", Author: "X", Text: "a"})

	require.Error(t, err)
	stats, err := mem.ListMemoirs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestIngest_NoWaitWhileBusy(t *testing.T) {
	mem := memory.NewStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store := &countingStore{MemoirStore: mem, appendHook: func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}}
	svc := NewIngestService(store, &mockSegmenter{chunks: []string{"a"}})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: "a", Append: true})
		done <- err
	}()
	<-entered

	_, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: "a", Append: true, NoWait: true})
	assert.ErrorIs(t, err, domain.ErrIngestInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestIngest_ConcurrentAppendsKeepOrdinalsUnique(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Text: scenarioText, Append: true})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := store.ListMemoirs(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1, "appends share one memoir")

	chunks, err := store.GetChunks(ctx, stats[0].Memoir.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 20)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Ordinal)
	}
}

func TestIngest_SourceNormalised(t *testing.T) {
	svc, store := newIngestService(t)
	svc.WithNormalisers(normalisers.NewRegistry(plaintext.New(), markdown.New()))
	ctx := context.Background()

	src := "# Brooklyn Days\n\n## Section 1 - A\nHello **world**.\n\n## Section 2 - B\nGoodbye world.\n"
	result, err := svc.Ingest(ctx, driving.IngestRequest{
		Author:   "X",
		Source:   []byte(src),
		Filename: "brooklyn.md",
	})

	require.NoError(t, err)
	assert.Equal(t, "markdown", result.Format)

	memoir, err := store.GetMemoir(ctx, result.MemoirID)
	require.NoError(t, err)
	assert.Equal(t, "Brooklyn Days", memoir.Title)

	chunks, err := store.GetChunks(ctx, result.MemoirID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Section 1 - A\nHello world.", chunks[0].Content)
}

func TestIngest_SourceWithoutRegistry(t *testing.T) {
	svc, store := newIngestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, driving.IngestRequest{Title: "T", Author: "X", Source: []byte(scenarioText)})

	require.NoError(t, err)
	chunks, err := store.GetChunks(ctx, result.MemoirID)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestIngest_SourceConversionError(t *testing.T) {
	svc, _ := newIngestService(t)
	svc.WithNormalisers(normalisers.NewRegistry(plaintext.New()))

	_, err := svc.Ingest(context.Background(), driving.IngestRequest{
		Title: "T", Author: "X", Source: []byte{0xff, 0xfe}, Filename: "bad.txt",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
