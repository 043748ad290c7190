package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("esc", km.Back))
	assert.True(t, Matches("enter", km.Ask))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("down", km.Down))
	assert.False(t, Matches("q", km.Quit), "q must stay typeable in questions")
}

func TestKeyMap_HelpSets(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ChatHelp(), 3)
	assert.Len(t, km.PickerHelp(), 4)
	assert.Equal(t, "ask", km.ChatHelp()[0].Help().Desc)
}

func TestMatches_UnknownKey(t *testing.T) {
	assert.False(t, Matches("x", DefaultKeyMap().Select))
}
