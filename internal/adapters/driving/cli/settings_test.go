package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "Groq (cloud)")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "[Moderation]")
	assert.Contains(t, out, "Retries: 2")
	assert.Contains(t, out, "Window size: 2000")
	assert.Contains(t, out, "Seed: (none)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = &mockSettingsService{validateErr: errors.New("GROQ_API_KEY is not set")}

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: GROQ_API_KEY is not set")
}

func TestSettingsSetCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	svc := &mockSettingsService{}
	settingsService = svc

	out, err := executeCommand("settings", "set", "llm.model", "llama-3.1-8b-instant")
	require.NoError(t, err)
	assert.Contains(t, out, "Set llm.model = llama-3.1-8b-instant")
	assert.Equal(t, "llm.model", svc.setKey)

	out, err = executeCommand("settings", "set", "llm.api_key", "gsk_1234567890abcd")
	require.NoError(t, err)
	assert.Contains(t, out, "Set llm.api_key = gsk_...abcd")

	out, err = executeCommand("settings", "set", "ask.seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed ask.seed")

	_, err = executeCommand("settings", "set", "bogus", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsKeysCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "keys")

	require.NoError(t, err)
	assert.Equal(t, "llm.model\nllm.provider\n", out)
}

func TestSettingsSetKeyCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	svc := &mockSettingsService{}
	settingsService = svc
	defer func() { settingsModeration = false }()

	rootCmd.SetIn(strings.NewReader("sk-abcdefghijkl\n"))
	defer rootCmd.SetIn(nil)

	out, err := executeCommand("settings", "set-key", "--moderation")

	require.NoError(t, err)
	assert.Contains(t, out, "API key stored: sk-a...ijkl")
	assert.Equal(t, "sk-abcdefghijkl", svc.apiKey)
	assert.True(t, svc.moderation)
}

func TestSettingsLLMCmd_Interactive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	svc := &mockSettingsService{}
	settingsService = svc

	// Ollama, default model.
	rootCmd.SetIn(strings.NewReader("3\n\n"))
	defer rootCmd.SetIn(nil)

	out, err := executeCommand("settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Equal(t, domain.AIProviderOllama, svc.settings.LLM.Provider)
	assert.Equal(t, "llama3.2", svc.settings.LLM.Model)
}

func TestSettingsModerationCmd_ValidationFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	svc := &mockSettingsService{validateErr: errBoom}
	settingsService = svc

	rootCmd.SetIn(strings.NewReader("3\n"))
	defer rootCmd.SetIn(nil)

	out, err := executeCommand("settings", "moderation")

	require.Error(t, err)
	assert.Contains(t, out, "FAILED: boom")
	assert.Equal(t, domain.ModerationKeyword, svc.settings.Moderation.Provider)
}
