package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Ensure AnnotationService implements the interface.
var _ driving.AnnotationService = (*AnnotationService)(nil)

// DefaultQuestionCount is the number of questions generated per chunk.
const DefaultQuestionCount = 2

// AnnotationService stores generated questions on chunks.
type AnnotationService struct {
	store     driven.MemoirStore
	generator driven.QuestionGenerator
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(store driven.MemoirStore, generator driven.QuestionGenerator) *AnnotationService {
	return &AnnotationService{store: store, generator: generator}
}

// Annotate generates questions for every chunk of the memoir. Chunks that
// already carry questions are skipped unless Overwrite is set. On failure
// the chunks annotated so far are kept and reported.
func (s *AnnotationService) Annotate(
	ctx context.Context, memoirID string, opts driving.AnnotateOptions,
) (*driving.AnnotateResult, error) {
	logger.Section("Annotate")

	count := opts.Count
	if count <= 0 {
		count = DefaultQuestionCount
	}

	memoir, err := s.store.GetMemoir(ctx, memoirID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.GetChunks(ctx, memoirID)
	if err != nil {
		return nil, err
	}

	result := &driving.AnnotateResult{}
	for i := range chunks {
		chunk := &chunks[i]
		if _, ok := chunk.Annotations[domain.AnnotationQuestions]; ok && !opts.Overwrite {
			result.Skipped++
		} else {
			questions, err := s.generator.GenerateQuestions(ctx, memoir.Author, chunk.Content, count)
			if err != nil {
				return result, fmt.Errorf("chunk %d: %w", chunk.Ordinal, err)
			}
			questions = strings.TrimSpace(questions)
			if err := s.store.SetChunkAnnotation(ctx, chunk.ID, domain.AnnotationQuestions, questions); err != nil {
				return result, fmt.Errorf("chunk %d: %w", chunk.Ordinal, err)
			}
			logger.Debug("Annotated chunk %d", chunk.Ordinal)
			result.Annotated++
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(chunks))
		}
	}
	return result, nil
}
