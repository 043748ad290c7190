package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure KeywordExtractor implements the interfaces.
var (
	_ driven.KeywordExtractor = (*KeywordExtractor)(nil)
	_ driven.PromptStoreAware = (*KeywordExtractor)(nil)
)

// KeywordExtractor asks the LLM to reduce a question to search keywords.
type KeywordExtractor struct {
	promptSource
	llm driven.LLMService
}

// NewKeywordExtractor creates a keyword extractor.
func NewKeywordExtractor(llm driven.LLMService) *KeywordExtractor {
	return &KeywordExtractor{llm: llm}
}

// Extract returns the model's space-joined keywords, trimmed.
// An empty result is returned as-is.
func (e *KeywordExtractor) Extract(ctx context.Context, question string, seed *int64) (string, error) {
	keywords, err := e.llm.Complete(ctx, driven.CompletionRequest{
		System: e.render(driven.PromptKeywordExtract),
		User:   question,
		Seed:   seed,
	})
	if err != nil {
		return "", fmt.Errorf("extract keywords: %w", err)
	}
	return strings.TrimSpace(keywords), nil
}
