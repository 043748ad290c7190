package driving

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// EvalService scores the answer pipeline against a question suite.
type EvalService interface {
	// Run asks every case against the memoir and scores the answers.
	// Individual failures are recorded per result; the run continues.
	Run(ctx context.Context, memoirID string, cases []domain.EvalCase, seed *int64) (*domain.EvalReport, error)
}
