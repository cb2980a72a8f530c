package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "esc")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_SendBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"enter"}, km.Send.Keys())
}

func TestDefaultKeyMap_ResetBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"ctrl+r"}, km.Reset.Keys())
}

func TestDefaultKeyMap_NoPrintableKeys(t *testing.T) {
	km := DefaultKeyMap()

	// Letters must reach the question input.
	for _, b := range []key.Binding{km.Quit, km.Help, km.Send, km.Reset, km.ScrollUp, km.ScrollDown} {
		for _, k := range b.Keys() {
			assert.Greater(t, len(k), 1, "binding %q would swallow typed text", k)
		}
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 3)
	assert.Equal(t, km.Send, bindings[0])
	assert.Equal(t, km.Quit, bindings[2])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 3)    // 3 groups
	assert.Len(t, bindings[0], 2) // Send, Reset
	assert.Len(t, bindings[1], 2) // ScrollUp, ScrollDown
	assert.Len(t, bindings[2], 2) // Help, Quit
}

func TestMatches_True(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("esc", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("ctrl+r", km.Reset))
	assert.True(t, Matches("pgup", km.ScrollUp))
}

func TestMatches_False(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("r", km.Reset))
	assert.False(t, Matches("down", km.ScrollUp))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Send", km.Send},
		{"Reset", km.Reset},
		{"ScrollUp", km.ScrollUp},
		{"ScrollDown", km.ScrollDown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
			assert.NotEmpty(t, help.Desc, "binding should have help description")
		})
	}
}
