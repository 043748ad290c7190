package ai

import (
	"context"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure PhraseClassifier implements the interface.
var _ driven.SafetyClassifier = (*PhraseClassifier)(nil)

// PhraseCategory is reported for questions rejected by the phrase list.
const PhraseCategory = "storytelling request"

// DefaultBlockedPhrases ask the assistant to invent rather than recall.
var DefaultBlockedPhrases = []string{"tell me", "make up", "create a story", "imagine"}

// PhraseClassifier rejects questions containing a blocked phrase.
// It runs locally and never fails.
type PhraseClassifier struct {
	phrases []string
}

// NewPhraseClassifier creates a classifier over the defaults plus extra phrases.
func NewPhraseClassifier(extra ...string) *PhraseClassifier {
	phrases := make([]string, 0, len(DefaultBlockedPhrases)+len(extra))
	for _, p := range append(append([]string{}, DefaultBlockedPhrases...), extra...) {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	return &PhraseClassifier{phrases: phrases}
}

// Classify matches phrases case-insensitively.
func (c *PhraseClassifier) Classify(_ context.Context, question string) (domain.Classification, error) {
	lower := strings.ToLower(question)
	for _, p := range c.phrases {
		if strings.Contains(lower, p) {
			return domain.Classification{Verdict: domain.VerdictUnsafe, Category: PhraseCategory}, nil
		}
	}
	return domain.Classification{Verdict: domain.VerdictSafe}, nil
}
