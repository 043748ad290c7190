package mcp

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// mockMemoirService is a mock implementation of driving.MemoirService.
type mockMemoirService struct {
	stats   []domain.MemoirStats
	chunks  []domain.Chunk
	results []domain.RankedChunk
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockMemoirService) List(_ context.Context) ([]domain.MemoirStats, error) {
	return m.stats, m.err
}

func (m *mockMemoirService) Get(_ context.Context, id string) (*domain.Memoir, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Memoir{ID: id}, nil
}

func (m *mockMemoirService) Find(_ context.Context, _, _ string) (*domain.Memoir, error) {
	return nil, domain.ErrNotFound
}

func (m *mockMemoirService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockMemoirService) Search(
	_ context.Context,
	_, query string,
	opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockMemoirService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockMemoirService) Reindex(_ context.Context, _ string) error {
	return m.err
}

func (m *mockMemoirService) SetImage(_ context.Context, _ string, _ int, _ string) error {
	return m.err
}

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer domain.Answer
	err    error
	last   domain.Question
}

func (m *mockAskService) Ask(_ context.Context, q domain.Question) (domain.Answer, error) {
	m.last = q
	return m.answer, m.err
}
