package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a text-generation provider. All supported providers
// speak the OpenAI chat completions protocol.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGroq is the Groq cloud API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGroq, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGroq || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the environment variable that may hold the provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderGroq:
		return "GROQ_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// ModerationProvider selects how the safety gate classifies questions.
type ModerationProvider string

// Available moderation providers.
const (
	// ModerationGuard asks a guard model (Llama Guard style) through the LLM provider.
	ModerationGuard ModerationProvider = "guard"

	// ModerationOpenAI uses the OpenAI moderation endpoint.
	ModerationOpenAI ModerationProvider = "openai"

	// ModerationKeyword applies a local phrase list and needs no remote service.
	ModerationKeyword ModerationProvider = "keyword"
)

// IsValid returns true if the moderation provider is recognised.
func (m ModerationProvider) IsValid() bool {
	switch m {
	case ModerationGuard, ModerationOpenAI, ModerationKeyword:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the provider calls an external service.
func (m ModerationProvider) IsRemote() bool {
	return m == ModerationGuard || m == ModerationOpenAI
}

// Description returns a human-readable description of the provider.
func (m ModerationProvider) Description() string {
	switch m {
	case ModerationGuard:
		return "Guard model via LLM provider"
	case ModerationOpenAI:
		return "OpenAI moderation endpoint"
	case ModerationKeyword:
		return "Local phrase list"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey is the API key (for Groq/OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EffectiveModel returns the configured model or the provider default.
func (l LLMSettings) EffectiveModel() string {
	if l.Model != "" {
		return l.Model
	}
	return DefaultLLMModels()[l.Provider]
}

// EffectiveBaseURL returns the configured base URL or the provider default.
func (l LLMSettings) EffectiveBaseURL() string {
	if l.BaseURL != "" {
		return l.BaseURL
	}
	return DefaultBaseURLs()[l.Provider]
}

// ModerationSettings holds safety gate configuration.
type ModerationSettings struct {
	// Provider selects the classifier implementation.
	Provider ModerationProvider

	// Model is the guard or moderation model name.
	Model string

	// BlockedPhrases extends the keyword classifier's phrase list.
	BlockedPhrases []string

	// APIKey authenticates the OpenAI moderation endpoint. When empty and
	// the LLM provider is OpenAI, the LLM key is used.
	APIKey string
}

// EffectiveAPIKey returns the moderation key, borrowing the LLM key when
// both use OpenAI.
func (m ModerationSettings) EffectiveAPIKey(llm LLMSettings) string {
	if m.APIKey != "" {
		return m.APIKey
	}
	if llm.Provider == AIProviderOpenAI {
		return llm.APIKey
	}
	return ""
}

// EffectiveModel returns the configured model or the default for the
// moderation provider and LLM provider pair.
func (m ModerationSettings) EffectiveModel(llm AIProvider) string {
	if m.Model != "" {
		return m.Model
	}
	switch m.Provider {
	case ModerationOpenAI:
		return "omni-moderation-latest"
	case ModerationGuard:
		return DefaultGuardModels()[llm]
	default:
		return ""
	}
}

// RemoteSettings bounds calls to remote services.
type RemoteSettings struct {
	// Timeout is the per-attempt deadline.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt
	// for transient failures.
	MaxRetries int

	// Backoff is the delay before the first retry; it doubles per retry.
	Backoff time.Duration

	// RequestsPerSecond paces all remote calls (0 disables pacing).
	RequestsPerSecond float64

	// Burst is the rate limiter bucket size.
	Burst int
}

// SegmentSettings configures the segmenter.
type SegmentSettings struct {
	// WindowSize is the target window length in characters when the text
	// has no section headings.
	WindowSize int

	// HeadingPattern overrides the section heading regular expression.
	HeadingPattern string
}

// AskSettings configures the retrieval pipeline.
type AskSettings struct {
	// Seed is passed to the provider for reproducible generation.
	Seed *int64

	// QueryLimit is the number of ranked chunks fetched from the index.
	QueryLimit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM        LLMSettings
	Moderation ModerationSettings
	Remote     RemoteSettings
	Segment    SegmentSettings
	Ask        AskSettings
}

// Default values for settings.
const (
	DefaultWindowSize        = 2000
	DefaultRemoteTimeout     = 60 * time.Second
	DefaultMaxRetries        = 2
	DefaultBackoff           = 500 * time.Millisecond
	DefaultRequestsPerSecond = 2.0
	DefaultBurst             = 4
)

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderGroq,
		},
		Moderation: ModerationSettings{
			Provider: ModerationGuard,
		},
		Remote: RemoteSettings{
			Timeout:           DefaultRemoteTimeout,
			MaxRetries:        DefaultMaxRetries,
			Backoff:           DefaultBackoff,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		Segment: SegmentSettings{
			WindowSize: DefaultWindowSize,
		},
		Ask: AskSettings{
			QueryLimit: DefaultQueryLimit,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// AllModerationProviders returns every moderation provider.
func AllModerationProviders() []ModerationProvider {
	return []ModerationProvider{
		ModerationGuard,
		ModerationOpenAI,
		ModerationKeyword,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "llama3-8b-8192",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderOllama: "llama3.2",
	}
}

// DefaultGuardModels returns default guard models for each LLM provider.
func DefaultGuardModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "llama-guard-3-8b",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderOllama: "llama-guard3",
	}
}

// DefaultBaseURLs returns the OpenAI-compatible endpoint for each provider.
// OpenAI uses the SDK default.
func DefaultBaseURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "https://api.groq.com/openai/v1/",
		AIProviderOllama: "http://localhost:11434/v1/",
	}
}

// FillKeysFromEnv sets empty API keys from the provider environment
// variables using getenv.
func (s *AppSettings) FillKeysFromEnv(getenv func(string) string) {
	if s.LLM.APIKey == "" {
		if env := s.LLM.Provider.APIKeyEnv(); env != "" {
			s.LLM.APIKey = getenv(env)
		}
	}
	if s.Moderation.Provider == ModerationOpenAI && s.Moderation.APIKey == "" {
		s.Moderation.APIKey = getenv(AIProviderOpenAI.APIKeyEnv())
	}
}
