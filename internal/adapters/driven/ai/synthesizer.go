package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure Synthesizer implements the interfaces.
var (
	_ driven.AnswerSynthesizer = (*Synthesizer)(nil)
	_ driven.PromptStoreAware  = (*Synthesizer)(nil)
)

// Synthesizer answers a question from memoir text with the LLM.
type Synthesizer struct {
	promptSource
	llm driven.LLMService
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(llm driven.LLMService) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Synthesize produces the final answer. The system prompt tells the model
// to say the memoir does not address the question when it cannot.
func (s *Synthesizer) Synthesize(ctx context.Context, req driven.SynthesisRequest) (string, error) {
	answer, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System: s.render(driven.PromptAnswerSystem, req.Author),
		User:   fmt.Sprintf("Memoir text: %s\n\nUser's question: %s", req.Context, req.Question),
		Seed:   req.Seed,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
