// Package openai provides LLM and moderation adapters for OpenAI-compatible APIs.
//
// Groq and Ollama expose the same chat completions protocol, so one client
// serves all three providers by switching the base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second

	// localAPIKey is sent to servers that ignore authentication.
	localAPIKey = "ollama"
)

// LLMConfig holds configuration for the LLM service.
type LLMConfig struct {
	// APIKey is the provider API key. Required unless Local is set.
	APIKey string

	// BaseURL is the API base URL (default: the OpenAI endpoint).
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout bounds a single HTTP request (default: 120s).
	Timeout time.Duration

	// Local marks a server that needs no API key.
	Local bool
}

// LLMService provides chat completions through the openai-go client.
type LLMService struct {
	client openaisdk.Client
	model  string
}

// NewLLMService creates a new LLM service.
// The client never retries; retry policy belongs to the caller.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		if !cfg.Local {
			return nil, fmt.Errorf("openai: API key is required")
		}
		apiKey = localAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: openaisdk.NewClient(clientOptions(apiKey, cfg.BaseURL, cfg.Timeout)...),
		model:  cfg.Model,
	}, nil
}

func clientOptions(apiKey, baseURL string, timeout time.Duration) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return opts
}

// Complete sends a single-turn chat completion and returns the reply text.
func (s *LLMService) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = s.model
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openaisdk.SystemMessage(req.System))
	}
	messages = append(messages, openaisdk.UserMessage(req.User))

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.Seed != nil {
		params.Seed = openaisdk.Int(*req.Seed)
	}
	if req.Temperature > 0 {
		params.Temperature = openaisdk.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapError("complete", err)
	}
	if len(completion.Choices) == 0 {
		return "", domain.NewServiceError("complete", domain.ServiceInvalidRequest,
			errors.New("no response choices returned"))
	}

	return completion.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
// This validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return mapError("ping", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
