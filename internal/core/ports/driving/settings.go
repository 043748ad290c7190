package driving

import "github.com/custodia-labs/memoir-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set stores a single setting by key after validating its value.
	Set(key, value string) error

	// SetAPIKey stores the API key for the LLM provider, or for the
	// moderation endpoint when moderation is true.
	SetAPIKey(key string, moderation bool) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// Validate checks that the configured providers are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// ValidateModerationConfig validates the safety gate configuration.
	ValidateModerationConfig() error
}
