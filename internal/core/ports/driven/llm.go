package driven

import "context"

// LLMService provides text completion against a chat model.
//
// Implementations may include:
//   - Groq (OpenAI-compatible)
//   - OpenAI
//   - Ollama (local, OpenAI-compatible)
//
// Failures must be reported as *domain.ServiceError so callers can tell
// transient from fatal conditions.
type LLMService interface {
	// Complete sends a system and user prompt and returns the reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName returns the default model used when a request names none.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest is a single-turn chat completion.
type CompletionRequest struct {
	// System is the system prompt (may be empty).
	System string

	// User is the user prompt.
	User string

	// Model overrides the service's default model.
	Model string

	// Seed requests deterministic sampling when supported.
	Seed *int64

	// Temperature controls randomness (0 = provider default).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate (0 = provider default).
	MaxTokens int
}

// ModerationService classifies text with a provider moderation model.
type ModerationService interface {
	// Moderate returns whether the text was flagged and the flagged categories.
	Moderate(ctx context.Context, text string) (ModerationResult, error)

	// Close releases resources.
	Close() error
}

// ModerationResult is the provider's raw verdict.
type ModerationResult struct {
	Flagged    bool
	Categories []string
}
