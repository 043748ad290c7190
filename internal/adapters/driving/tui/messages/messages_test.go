package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "picker", ViewPicker.String())
	assert.Equal(t, "chat", ViewChat.String())
	assert.Equal(t, "unknown", ViewType(42).String())
}
