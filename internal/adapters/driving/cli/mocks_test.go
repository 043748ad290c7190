package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

var testMemoir = domain.Memoir{
	ID:        "m-1",
	Title:     "Brooklyn Days",
	Author:    "Sal Romano",
	CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
}

var testChunks = []domain.Chunk{
	{ID: "c-0", MemoirID: "m-1", Ordinal: 0, Content: "Section 1 - We lived above the bakery on Court Street."},
	{
		ID: "c-1", MemoirID: "m-1", Ordinal: 1, Content: "Section 2 - Summers at Coney Island.",
		ImageRef:    "img/coney.jpg",
		Annotations: map[string]string{domain.AnnotationQuestions: "Where did the family spend summers?"},
	},
}

// setupTestServices installs mock services and returns a func restoring
// the previous ones.
func setupTestServices() func() {
	old := Services{
		Ingest:     ingestService,
		Ask:        askService,
		Memoir:     memoirService,
		Annotation: annotationService,
		Eval:       evalService,
		Settings:   settingsService,
		AIError:    aiError,
	}
	SetServices(&Services{
		Ingest:     &mockIngestService{},
		Ask:        &mockAskService{},
		Memoir:     &mockMemoirService{},
		Annotation: &mockAnnotationService{},
		Eval:       &mockEvalService{},
		Settings:   &mockSettingsService{},
	})
	return func() { SetServices(&old) }
}

type mockIngestService struct {
	last   driving.IngestRequest
	format string
	err    error
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestResult{MemoirID: "m-1", ChunkIDs: []string{"c-0", "c-1"}, Created: !req.Append, Format: m.format}, nil
}

type mockAskService struct {
	answer *domain.Answer
	err    error
	last   domain.Question
}

func (m *mockAskService) Ask(_ context.Context, q domain.Question) (domain.Answer, error) {
	m.last = q
	if m.answer != nil {
		return *m.answer, m.err
	}
	return domain.Answer{
		Outcome:         domain.OutcomeAnswered,
		Text:            "They lived above the bakery.",
		Keywords:        "bakery, lived",
		Terms:           []string{"bakery", "lived"},
		ContextChunkIDs: []string{"c-0"},
	}, m.err
}

type mockMemoirService struct {
	empty   bool
	err     error
	deleted []string
	image   struct {
		ordinal int
		ref     string
	}
}

func (m *mockMemoirService) List(context.Context) ([]domain.MemoirStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return nil, nil
	}
	return []domain.MemoirStats{{Memoir: testMemoir, ChunkCount: 2, TotalChars: 90}}, nil
}

func (m *mockMemoirService) Get(_ context.Context, id string) (*domain.Memoir, error) {
	if id != testMemoir.ID {
		return nil, domain.ErrNotFound
	}
	memoir := testMemoir
	return &memoir, nil
}

func (m *mockMemoirService) Find(_ context.Context, title, author string) (*domain.Memoir, error) {
	if title != testMemoir.Title || author != testMemoir.Author {
		return nil, domain.ErrNotFound
	}
	memoir := testMemoir
	return &memoir, nil
}

func (m *mockMemoirService) Chunks(_ context.Context, id string) ([]domain.Chunk, error) {
	if id != testMemoir.ID {
		return nil, domain.ErrNotFound
	}
	return testChunks, nil
}

func (m *mockMemoirService) Search(
	_ context.Context, id, _ string, _ domain.SearchOptions,
) ([]domain.RankedChunk, error) {
	if id != testMemoir.ID {
		return nil, domain.ErrNotFound
	}
	if m.empty {
		return nil, nil
	}
	return []domain.RankedChunk{{ChunkID: "c-1", Ordinal: 1, Content: testChunks[1].Content, Score: 2.5}}, nil
}

func (m *mockMemoirService) Delete(_ context.Context, id string) error {
	if id != testMemoir.ID {
		return domain.ErrNotFound
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockMemoirService) Reindex(_ context.Context, id string) error {
	if id != testMemoir.ID {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mockMemoirService) SetImage(_ context.Context, id string, ordinal int, ref string) error {
	if id != testMemoir.ID {
		return domain.ErrNotFound
	}
	if ordinal >= len(testChunks) {
		return domain.ErrNotFound
	}
	m.image.ordinal = ordinal
	m.image.ref = ref
	return nil
}

type mockAnnotationService struct {
	last driving.AnnotateOptions
}

func (m *mockAnnotationService) Annotate(
	_ context.Context, memoirID string, opts driving.AnnotateOptions,
) (*driving.AnnotateResult, error) {
	m.last = opts
	if memoirID != testMemoir.ID {
		return nil, domain.ErrNotFound
	}
	if opts.Progress != nil {
		opts.Progress(1, 2)
		opts.Progress(2, 2)
	}
	return &driving.AnnotateResult{Annotated: 2}, nil
}

type mockEvalService struct {
	memoirID string
	seed     *int64
}

func (m *mockEvalService) Run(
	_ context.Context, memoirID string, cases []domain.EvalCase, seed *int64,
) (*domain.EvalReport, error) {
	m.memoirID = memoirID
	m.seed = seed
	report := &domain.EvalReport{}
	for _, c := range cases {
		answer := domain.Answer{Outcome: domain.OutcomeAnswered, Text: "bakery on Court Street"}
		if c.Unsafe {
			answer = domain.Answer{Outcome: domain.OutcomeRejected}
		}
		score, matched := domain.ScoreAnswer(c, answer)
		report.Results = append(report.Results, domain.EvalResult{Case: c, Answer: answer, Matched: matched, Score: score})
	}
	return report, nil
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	setKey      string
	setValue    string
	apiKey      string
	moderation  bool
	validateErr error
}

func (m *mockSettingsService) current() *domain.AppSettings {
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		m.settings = &s
	}
	return m.settings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := *m.current()
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	s := *settings
	m.settings = &s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if key == "bogus" {
		return domain.ErrInvalidInput
	}
	m.setKey = key
	m.setValue = value
	return nil
}

func (m *mockSettingsService) SetAPIKey(key string, moderation bool) error {
	m.apiKey = key
	m.moderation = moderation
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.model", "llm.provider"}
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateModerationConfig() error {
	return m.validateErr
}

var errBoom = errors.New("boom")
