package services

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider        = "llm.provider"
	KeyLLMModel           = "llm.model"
	KeyLLMBaseURL         = "llm.base_url"
	KeyLLMAPIKey          = "llm.api_key"
	KeyModerationProvider = "moderation.provider"
	KeyModerationModel    = "moderation.model"
	KeyModerationAPIKey   = "moderation.api_key"
	KeyBlockedPhrases     = "moderation.blocked_phrases"
	KeyRemoteTimeout      = "remote.timeout"
	KeyRemoteMaxRetries   = "remote.max_retries"
	KeyRemoteBackoff      = "remote.backoff"
	KeyRemoteRPS          = "remote.requests_per_second"
	KeyRemoteBurst        = "remote.burst"
	KeyWindowSize         = "segment.window_size"
	KeyHeadingPattern     = "segment.heading_pattern"
	KeyAskSeed            = "ask.seed"
	KeyAskQueryLimit      = "ask.query_limit"
)

type settingKind int

const (
	kindString settingKind = iota
	kindSecret
	kindInt
	kindFloat
	kindDuration
	kindList
	kindLLMProvider
	kindModerationProvider
	kindPattern
)

var settingKinds = map[string]settingKind{
	KeyLLMProvider:        kindLLMProvider,
	KeyLLMModel:           kindString,
	KeyLLMBaseURL:         kindString,
	KeyLLMAPIKey:          kindSecret,
	KeyModerationProvider: kindModerationProvider,
	KeyModerationModel:    kindString,
	KeyModerationAPIKey:   kindSecret,
	KeyBlockedPhrases:     kindList,
	KeyRemoteTimeout:      kindDuration,
	KeyRemoteMaxRetries:   kindInt,
	KeyRemoteBackoff:      kindDuration,
	KeyRemoteRPS:          kindFloat,
	KeyRemoteBurst:        kindInt,
	KeyWindowSize:         kindInt,
	KeyHeadingPattern:     kindPattern,
	KeyAskSeed:            kindInt,
	KeyAskQueryLimit:      kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(defaults.LLM.Provider),
			Model:    s.configStore.GetString(KeyLLMModel),
			BaseURL:  s.configStore.GetString(KeyLLMBaseURL),
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
		},
		Moderation: domain.ModerationSettings{
			Provider:       s.getModerationProvider(defaults.Moderation.Provider),
			Model:          s.configStore.GetString(KeyModerationModel),
			BlockedPhrases: s.configStore.GetStringSlice(KeyBlockedPhrases),
			APIKey:         s.configStore.GetString(KeyModerationAPIKey),
		},
		Remote: domain.RemoteSettings{
			Timeout:           s.getDuration(KeyRemoteTimeout, defaults.Remote.Timeout),
			MaxRetries:        s.getIntAllowZero(KeyRemoteMaxRetries, defaults.Remote.MaxRetries),
			Backoff:           s.getDuration(KeyRemoteBackoff, defaults.Remote.Backoff),
			RequestsPerSecond: s.getFloat(KeyRemoteRPS, defaults.Remote.RequestsPerSecond),
			Burst:             s.getInt(KeyRemoteBurst, defaults.Remote.Burst),
		},
		Segment: domain.SegmentSettings{
			WindowSize:     s.getInt(KeyWindowSize, defaults.Segment.WindowSize),
			HeadingPattern: s.configStore.GetString(KeyHeadingPattern),
		},
		Ask: domain.AskSettings{
			QueryLimit: s.getInt(KeyAskQueryLimit, defaults.Ask.QueryLimit),
		},
	}

	if _, ok := s.configStore.Get(KeyAskSeed); ok {
		seed := int64(s.configStore.GetInt(KeyAskSeed))
		settings.Ask.Seed = &seed
	}

	return settings, nil
}

// Save persists application settings. Empty optional values are removed.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		KeyLLMProvider:        settings.LLM.Provider.String(),
		KeyLLMModel:           settings.LLM.Model,
		KeyLLMBaseURL:         settings.LLM.BaseURL,
		KeyLLMAPIKey:          settings.LLM.APIKey,
		KeyModerationProvider: string(settings.Moderation.Provider),
		KeyModerationModel:    settings.Moderation.Model,
		KeyModerationAPIKey:   settings.Moderation.APIKey,
		KeyRemoteTimeout:      settings.Remote.Timeout.String(),
		KeyRemoteMaxRetries:   settings.Remote.MaxRetries,
		KeyRemoteBackoff:      settings.Remote.Backoff.String(),
		KeyRemoteRPS:          settings.Remote.RequestsPerSecond,
		KeyRemoteBurst:        settings.Remote.Burst,
		KeyWindowSize:         settings.Segment.WindowSize,
		KeyHeadingPattern:     settings.Segment.HeadingPattern,
		KeyAskQueryLimit:      settings.Ask.QueryLimit,
	}
	if settings.Ask.Seed != nil {
		values[KeyAskSeed] = *settings.Ask.Seed
	} else {
		values[KeyAskSeed] = nil
	}
	if len(settings.Moderation.BlockedPhrases) > 0 {
		values[KeyBlockedPhrases] = settings.Moderation.BlockedPhrases
	} else {
		values[KeyBlockedPhrases] = nil
	}

	for _, key := range sortedKeys(values) {
		value := values[key]
		if value == nil || value == "" {
			if err := s.configStore.Unset(key); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set validates and stores a single setting. An empty value removes it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return s.configStore.Unset(key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, parsed)
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer")
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("expected a positive duration such as 30s")
		}
		return d.String(), nil
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	case kindLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return nil, fmt.Errorf("unsupported provider %q", value)
		}
		return value, nil
	case kindModerationProvider:
		if !domain.ModerationProvider(value).IsValid() {
			return nil, fmt.Errorf("unsupported moderation provider %q", value)
		}
		return value, nil
	case kindPattern:
		if _, err := regexp.Compile(value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return value, nil
	}
}

// SetAPIKey stores the LLM key, or the moderation key when moderation is set.
func (s *SettingsService) SetAPIKey(key string, moderation bool) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidInput)
	}
	if moderation {
		return s.configStore.Set(KeyModerationAPIKey, key)
	}
	return s.configStore.Set(KeyLLMAPIKey, key)
}

// Keys returns the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsSecret reports whether a setting holds a credential.
func IsSecret(key string) bool {
	return settingKinds[key] == kindSecret
}

// Validate checks that the configured providers are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.effective()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured (set %s or run 'memoir settings set-key')",
			settings.LLM.Provider, settings.LLM.Provider.APIKeyEnv())
	}
	if settings.Moderation.Provider == domain.ModerationOpenAI &&
		settings.Moderation.EffectiveAPIKey(settings.LLM) == "" {
		return fmt.Errorf("OpenAI moderation requires an API key (run 'memoir settings set-key --moderation')")
	}
	if settings.Segment.HeadingPattern != "" {
		if _, err := regexp.Compile(settings.Segment.HeadingPattern); err != nil {
			return fmt.Errorf("invalid heading pattern: %w", err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.effective()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ValidateModerationConfig validates the safety gate configuration.
func (s *SettingsService) ValidateModerationConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.effective()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateModeration(&settings.Moderation, &settings.LLM)
}

// effective returns the stored settings with API keys filled from the
// environment. It is never saved.
func (s *SettingsService) effective() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	settings.FillKeysFromEnv(os.Getenv)
	return settings, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(KeyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getModerationProvider(defaultVal domain.ModerationProvider) domain.ModerationProvider {
	provider := domain.ModerationProvider(s.configStore.GetString(KeyModerationProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
