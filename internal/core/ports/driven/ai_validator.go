package driven

import "github.com/custodia-labs/memoir-cli/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateModeration validates the safety gate configuration.
	// Local providers always validate.
	ValidateModeration(config *domain.ModerationSettings, llm *domain.LLMSettings) error
}
