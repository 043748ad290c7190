package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure QuestionGenerator implements the interfaces.
var (
	_ driven.QuestionGenerator = (*QuestionGenerator)(nil)
	_ driven.PromptStoreAware  = (*QuestionGenerator)(nil)
)

// QuestionGenerator writes questions a chunk can answer.
type QuestionGenerator struct {
	promptSource
	llm driven.LLMService
}

// NewQuestionGenerator creates a question generator.
func NewQuestionGenerator(llm driven.LLMService) *QuestionGenerator {
	return &QuestionGenerator{llm: llm}
}

// GenerateQuestions returns count questions, one per line.
func (g *QuestionGenerator) GenerateQuestions(ctx context.Context, author, content string, count int) (string, error) {
	questions, err := g.llm.Complete(ctx, driven.CompletionRequest{
		System: g.render(driven.PromptChunkQuestions, author, count),
		User:   content,
	})
	if err != nil {
		return "", fmt.Errorf("generate questions: %w", err)
	}
	return strings.TrimSpace(questions), nil
}
