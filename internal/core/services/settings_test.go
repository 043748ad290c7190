package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Moderation.Provider, settings.Moderation.Provider)
	assert.Equal(t, defaults.Remote, settings.Remote)
	assert.Equal(t, defaults.Segment.WindowSize, settings.Segment.WindowSize)
	assert.Equal(t, defaults.Ask.QueryLimit, settings.Ask.QueryLimit)
	assert.Nil(t, settings.Ask.Seed)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyLLMProvider:        "openai",
		KeyLLMModel:           "gpt-4o",
		KeyLLMAPIKey:          "sk-test",
		KeyModerationProvider: "keyword",
		KeyBlockedPhrases:     []any{"make up"},
		KeyRemoteTimeout:      "15s",
		KeyRemoteMaxRetries:   int64(0),
		KeyRemoteRPS:          0.5,
		KeyWindowSize:         int64(500),
		KeyAskSeed:            int64(42),
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Equal(t, domain.ModerationKeyword, settings.Moderation.Provider)
	assert.Equal(t, []string{"make up"}, settings.Moderation.BlockedPhrases)
	assert.Equal(t, 15*time.Second, settings.Remote.Timeout)
	assert.Zero(t, settings.Remote.MaxRetries)
	assert.InDelta(t, 0.5, settings.Remote.RequestsPerSecond, 1e-9)
	assert.Equal(t, 500, settings.Segment.WindowSize)
	require.NotNil(t, settings.Ask.Seed)
	assert.Equal(t, int64(42), *settings.Ask.Seed)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyLLMProvider:        "anthropic",
		KeyModerationProvider: "magic",
		KeyRemoteTimeout:      "soon",
		KeyWindowSize:         int64(-5),
	})

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Moderation.Provider, settings.Moderation.Provider)
	assert.Equal(t, defaults.Remote.Timeout, settings.Remote.Timeout)
	assert.Equal(t, defaults.Segment.WindowSize, settings.Segment.WindowSize)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	seed := int64(7)

	settings := domain.DefaultAppSettings()
	settings.LLM.Provider = domain.AIProviderOllama
	settings.LLM.Model = "llama3.2"
	settings.Ask.Seed = &seed
	settings.Moderation.BlockedPhrases = []string{"imagine"}
	require.NoError(t, service.Save(&settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, loaded.LLM.Provider)
	assert.Equal(t, "llama3.2", loaded.LLM.Model)
	assert.Equal(t, int64(7), *loaded.Ask.Seed)
	assert.Equal(t, []string{"imagine"}, loaded.Moderation.BlockedPhrases)
	assert.Equal(t, settings.Remote, loaded.Remote)

	_, hasKey := store.Get(KeyLLMAPIKey)
	assert.False(t, hasKey, "empty values are not stored")

	settings.Ask.Seed = nil
	require.NoError(t, service.Save(&settings))
	loaded, err = service.Get()
	require.NoError(t, err)
	assert.Nil(t, loaded.Ask.Seed)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{KeyLLMProvider, "ollama", "ollama", false},
		{KeyLLMProvider, "anthropic", nil, true},
		{KeyModerationProvider, "openai", "openai", false},
		{KeyModerationProvider, "none", nil, true},
		{KeyRemoteMaxRetries, "3", 3, false},
		{KeyRemoteMaxRetries, "three", nil, true},
		{KeyRemoteRPS, "1.5", 1.5, false},
		{KeyRemoteTimeout, "90s", "1m30s", false},
		{KeyRemoteTimeout, "-1s", nil, true},
		{KeyBlockedPhrases, "tell me, make up ,", []string{"tell me", "make up"}, false},
		{KeyHeadingPattern, `(?m)^Part \d+`, `(?m)^Part \d+`, false},
		{KeyHeadingPattern, "(", nil, true},
		{"search.mode", "hybrid", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store, nil).Set(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			got, _ := store.Get(tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetEmptyUnsets(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyLLMModel: "x"})

	require.NoError(t, NewSettingsService(store, nil).Set(KeyLLMModel, " "))

	_, ok := store.Get(KeyLLMModel)
	assert.False(t, ok)
}

func TestSettingsService_SetAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetAPIKey(" gsk-1 ", false))
	require.NoError(t, service.SetAPIKey("sk-2", true))
	assert.ErrorIs(t, service.SetAPIKey("", false), domain.ErrInvalidInput)

	assert.Equal(t, "gsk-1", store.GetString(KeyLLMAPIKey))
	assert.Equal(t, "sk-2", store.GetString(KeyModerationAPIKey))
	assert.True(t, IsSecret(KeyLLMAPIKey))
	assert.False(t, IsSecret(KeyLLMModel))
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore(), nil).Keys()

	assert.Contains(t, keys, KeyLLMProvider)
	assert.Contains(t, keys, KeyAskSeed)
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("missing groq key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "")
		err := NewSettingsService(memory.NewConfigStore(), nil).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GROQ_API_KEY")
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{KeyLLMProvider: "ollama"})
		assert.NoError(t, NewSettingsService(store, nil).Validate())
	})

	t.Run("openai moderation borrows llm key", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{
			KeyLLMProvider: "openai", KeyLLMAPIKey: "sk", KeyModerationProvider: "openai",
		})
		assert.NoError(t, NewSettingsService(store, nil).Validate())
	})

	t.Run("groq key from environment", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "gsk_env")
		assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).Validate())
	})

	t.Run("openai moderation without key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		store := memory.NewConfigStore(map[string]any{
			KeyLLMProvider: "ollama", KeyModerationProvider: "openai",
		})
		assert.Error(t, NewSettingsService(store, nil).Validate())
	})
}

func TestSettingsService_ValidateConfigs(t *testing.T) {
	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateLLMConfig())

	validator := &mockValidator{err: errors.New("unreachable")}
	service := NewSettingsService(memory.NewConfigStore(), validator)

	assert.Error(t, service.ValidateLLMConfig())
	assert.Error(t, service.ValidateModerationConfig())
	assert.Equal(t, 1, validator.llmCalls)
	assert.Equal(t, 1, validator.modCalls)
}
