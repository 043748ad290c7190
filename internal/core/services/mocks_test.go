package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// mockClassifier returns a fixed classification and records questions.
type mockClassifier struct {
	mu      sync.Mutex
	verdict domain.Classification
	err     error
	calls   []string
}

func (m *mockClassifier) Classify(_ context.Context, question string) (domain.Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, question)
	if m.err != nil {
		return domain.Classification{}, m.err
	}
	if m.verdict.Verdict == "" {
		return domain.Classification{Verdict: domain.VerdictSafe}, nil
	}
	return m.verdict, nil
}

// unsafeFor classifies listed questions as unsafe and everything else as safe.
type unsafeFor struct {
	questions map[string]string
	calls     int
}

func (u *unsafeFor) Classify(_ context.Context, question string) (domain.Classification, error) {
	u.calls++
	if category, ok := u.questions[question]; ok {
		return domain.Classification{Verdict: domain.VerdictUnsafe, Category: category}, nil
	}
	return domain.Classification{Verdict: domain.VerdictSafe}, nil
}

// mockExtractor returns fixed keywords.
type mockExtractor struct {
	keywords string
	err      error
	calls    int
	seeds    []*int64
}

func (m *mockExtractor) Extract(_ context.Context, _ string, seed *int64) (string, error) {
	m.calls++
	m.seeds = append(m.seeds, seed)
	return m.keywords, m.err
}

// mockSynthesizer records every request and echoes a fixed reply.
type mockSynthesizer struct {
	reply    string
	err      error
	requests []driven.SynthesisRequest
}

func (m *mockSynthesizer) Synthesize(_ context.Context, req driven.SynthesisRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// mockIndex wraps a real index and can fail or count queries.
type mockIndex struct {
	driven.SearchIndex
	err     error
	queries int
}

func (m *mockIndex) Query(
	ctx context.Context, memoirID string, terms []string, opts domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	if m.SearchIndex == nil {
		return nil, nil
	}
	return m.SearchIndex.Query(ctx, memoirID, terms, opts)
}

// countingStore wraps a real store and counts GetChunks calls.
type countingStore struct {
	driven.MemoirStore
	getChunks  int
	appendErr  error
	appendHook func()
}

func (c *countingStore) GetChunks(ctx context.Context, memoirID string) ([]domain.Chunk, error) {
	c.getChunks++
	return c.MemoirStore.GetChunks(ctx, memoirID)
}

func (c *countingStore) AppendChunks(ctx context.Context, memoirID string, contents []string) ([]string, error) {
	if c.appendHook != nil {
		c.appendHook()
	}
	if c.appendErr != nil {
		return nil, c.appendErr
	}
	return c.MemoirStore.AppendChunks(ctx, memoirID, contents)
}

// mockGenerator returns numbered questions and can fail after n calls.
type mockGenerator struct {
	calls   int
	failAt  int
	authors []string
	counts  []int
}

func (m *mockGenerator) GenerateQuestions(_ context.Context, author, _ string, count int) (string, error) {
	m.calls++
	m.authors = append(m.authors, author)
	m.counts = append(m.counts, count)
	if m.failAt > 0 && m.calls == m.failAt {
		return "", errors.New("generation failed")
	}
	return "  1. What happened?\n2. Why?  ", nil
}

// mockAsker returns scripted answers keyed by question.
type mockAsker struct {
	answers map[string]domain.Answer
	errs    map[string]error
}

func (m *mockAsker) Ask(_ context.Context, q domain.Question) (domain.Answer, error) {
	return m.answers[q.Text], m.errs[q.Text]
}

// mockSegmenter splits on a fixed separator.
type mockSegmenter struct {
	chunks []string
}

func (m *mockSegmenter) Segment(_ string) []string {
	return m.chunks
}

// mockValidator records validation calls.
type mockValidator struct {
	llmCalls int
	modCalls int
	err      error
}

func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.err
}

func (m *mockValidator) ValidateModeration(_ *domain.ModerationSettings, _ *domain.LLMSettings) error {
	m.modCalls++
	return m.err
}
