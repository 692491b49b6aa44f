package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okutsenko/flashwords/internal/service/session"
)

func TestBuildKeyboard_ChoicesBeforeCommands(t *testing.T) {
	t.Parallel()

	kb := buildKeyboard([]string{"Вода", "Машина", "Молоко"})

	var labels []string
	for _, row := range kb.Keyboard {
		require.LessOrEqual(t, len(row), buttonsPerRow)
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}

	want := append([]string{"Вода", "Машина", "Молоко"}, session.Commands()...)
	assert.Equal(t, want, labels)
}

func TestBuildKeyboard_NoChoices(t *testing.T) {
	t.Parallel()

	kb := buildKeyboard(nil)

	var labels []string
	for _, row := range kb.Keyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}

	assert.Equal(t, session.Commands(), labels)
}
