package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Ensure EvalService implements the interface.
var _ driving.EvalService = (*EvalService)(nil)

// EvalService scores the answer pipeline against a question suite.
type EvalService struct {
	asker driving.AskService
}

// NewEvalService creates a new evaluation service.
func NewEvalService(asker driving.AskService) *EvalService {
	return &EvalService{asker: asker}
}

// Run asks every case in order. A failed question scores zero and the run
// continues; a missing memoir or an ended context stops the run.
func (s *EvalService) Run(
	ctx context.Context, memoirID string, cases []domain.EvalCase, seed *int64,
) (*domain.EvalReport, error) {
	logger.Section("Evaluation")

	report := &domain.EvalReport{Results: make([]domain.EvalResult, 0, len(cases))}
	for _, c := range cases {
		answer, err := s.asker.Ask(ctx, domain.Question{MemoirID: memoirID, Text: c.Question, Seed: seed})
		if errors.Is(err, domain.ErrNotFound) {
			return report, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}

		score, matched := domain.ScoreAnswer(c, answer)
		if err != nil {
			score, matched = 0, nil
		}
		logger.Debug("Scored %.1f for %q", score, c.Question)
		report.Results = append(report.Results, domain.EvalResult{
			Case:    c,
			Answer:  answer,
			Matched: matched,
			Score:   score,
			Err:     err,
		})
	}
	return report, nil
}
