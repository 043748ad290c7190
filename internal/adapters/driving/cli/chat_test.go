package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat [memoir-id]", chatCmd.Use)
}

func TestChatCmd_AskUnavailable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	askService = nil
	aiError = errors.New("OPENAI_API_KEY is not set")

	_, err := executeCommand("chat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ask unavailable")
}

func TestChatCmd_UnknownMemoir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("chat", "missing")

	assert.EqualError(t, err, "memoir missing not found")
}
