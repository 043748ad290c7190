package driven

import (
	"context"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// KeywordExtractor reduces a question to space-joined search keywords.
// An empty or whitespace result is valid output, not an error.
type KeywordExtractor interface {
	Extract(ctx context.Context, question string, seed *int64) (string, error)
}

// SafetyClassifier labels a question safe or unsafe.
type SafetyClassifier interface {
	Classify(ctx context.Context, question string) (domain.Classification, error)
}

// AnswerSynthesizer produces the final answer from memoir context.
// Implementations instruct the model to say so when the context does not
// address the question.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}

// SynthesisRequest carries everything the synthesiser needs.
type SynthesisRequest struct {
	Context  string
	Question string
	Author   string
	Seed     *int64
}

// QuestionGenerator writes questions answerable from a chunk.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, author, content string, count int) (string, error)
}
