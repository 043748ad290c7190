// Package ai builds the remote capabilities the answer pipeline depends on:
// keyword extraction, the safety gate, answer synthesis and question
// generation, all bounded by a shared retry and rate-limit policy.
package ai

import (
	"context"
	"fmt"
	"time"

	openaillm "github.com/custodia-labs/memoir-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the constructed capabilities. Callers own its lifecycle.
type Services struct {
	LLM         driven.LLMService
	Moderation  driven.ModerationService // nil unless the OpenAI moderation endpoint is used
	Extractor   driven.KeywordExtractor
	Classifier  driven.SafetyClassifier
	Synthesizer driven.AnswerSynthesizer
	Questions   driven.QuestionGenerator
}

// Close releases all resources held by Services.
func (s *Services) Close() {
	if s.Moderation != nil {
		s.Moderation.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices builds every capability from settings. Remote calls share one
// retrier so retries and pacing apply across the whole pipeline.
func NewServices(settings domain.AppSettings, prompts driven.PromptStore) (*Services, error) {
	base, err := CreateLLMService(&settings.LLM, settings.Remote.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'memoir settings set-key' to fix", domain.ErrLLMUnavailable, err)
	}

	retrier := NewRetrier(settings.Remote)
	llm := NewRetryingLLM(base, retrier)
	svc := &Services{LLM: llm}

	classifier, moderation, err := createClassifier(settings, llm, retrier)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.Classifier = classifier
	svc.Moderation = moderation

	extractor := NewKeywordExtractor(llm)
	synth := NewSynthesizer(llm)
	questions := NewQuestionGenerator(llm)
	if prompts != nil {
		for _, aware := range []driven.PromptStoreAware{extractor, synth, questions} {
			aware.SetPromptStore(prompts)
		}
		if guard, ok := classifier.(driven.PromptStoreAware); ok {
			guard.SetPromptStore(prompts)
		}
	}
	svc.Extractor = extractor
	svc.Synthesizer = synth
	svc.Questions = questions

	return svc, nil
}

func createClassifier(
	settings domain.AppSettings,
	llm driven.LLMService,
	retrier *Retrier,
) (driven.SafetyClassifier, driven.ModerationService, error) {
	mod := settings.Moderation
	switch mod.Provider {
	case domain.ModerationGuard, "":
		return NewGuardClassifier(llm, mod.EffectiveModel(settings.LLM.Provider)), nil, nil

	case domain.ModerationOpenAI:
		base, err := CreateModerationService(&mod, &settings.LLM)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", domain.ErrModerationUnavailable, err)
		}
		svc := NewRetryingModeration(base, retrier)
		return NewModerationClassifier(svc), svc, nil

	case domain.ModerationKeyword:
		return NewPhraseClassifier(mod.BlockedPhrases...), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: unsupported moderation provider: %s",
			domain.ErrModerationUnavailable, mod.Provider)
	}
}

// CreateLLMService creates the provider client for settings.
func CreateLLMService(settings *domain.LLMSettings, timeout time.Duration) (driven.LLMService, error) {
	if settings == nil || !settings.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported LLM provider")
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires an API key (%s)", settings.Provider, settings.Provider.APIKeyEnv())
	}

	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.EffectiveBaseURL(),
		Model:   settings.EffectiveModel(),
		Timeout: timeout,
		Local:   settings.Provider.IsLocal(),
	})
}

// CreateModerationService creates the OpenAI moderation client.
func CreateModerationService(mod *domain.ModerationSettings, llm *domain.LLMSettings) (driven.ModerationService, error) {
	return openaillm.NewModerationService(openaillm.ModerationConfig{
		APIKey: mod.EffectiveAPIKey(*llm),
		Model:  mod.EffectiveModel(llm.Provider),
	})
}

// ValidateLLMConfig creates a service for settings and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings, pingTimeout)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateModerationConfig checks that the safety gate can be built and,
// for the moderation endpoint, reached.
func ValidateModerationConfig(mod *domain.ModerationSettings, llm *domain.LLMSettings) error {
	switch mod.Provider {
	case domain.ModerationKeyword:
		return nil
	case domain.ModerationGuard:
		return ValidateLLMConfig(llm)
	case domain.ModerationOpenAI:
		svc, err := CreateModerationService(mod, llm)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		_, err = svc.Moderate(ctx, "ping")
		return err
	default:
		return fmt.Errorf("unsupported moderation provider: %s", mod.Provider)
	}
}

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(config)
}

// ValidateModeration validates the safety gate configuration.
func (v *ConfigValidator) ValidateModeration(config *domain.ModerationSettings, llm *domain.LLMSettings) error {
	return ValidateModerationConfig(config, llm)
}
