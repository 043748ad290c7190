package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure ModerationClassifier implements the interface.
var _ driven.SafetyClassifier = (*ModerationClassifier)(nil)

// ModerationClassifier labels questions with a provider moderation endpoint.
type ModerationClassifier struct {
	svc driven.ModerationService
}

// NewModerationClassifier creates a classifier backed by svc.
func NewModerationClassifier(svc driven.ModerationService) *ModerationClassifier {
	return &ModerationClassifier{svc: svc}
}

// Classify labels the question; flagged text is unsafe.
func (c *ModerationClassifier) Classify(ctx context.Context, question string) (domain.Classification, error) {
	result, err := c.svc.Moderate(ctx, question)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}
	if !result.Flagged {
		return domain.Classification{Verdict: domain.VerdictSafe}, nil
	}
	return domain.Classification{
		Verdict:  domain.VerdictUnsafe,
		Category: strings.Join(result.Categories, ", "),
	}, nil
}
