package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(m confirmModel, k tea.KeyMsg) (confirmModel, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(confirmModel), cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestConfirmModel_Keys(t *testing.T) {
	m := confirmModel{prompt: "Disable Color #7?"}

	got, cmd := press(m, runes("y"))
	assert.True(t, got.yes)
	assert.True(t, got.done)
	assert.NotNil(t, cmd)

	got, cmd = press(m, runes("n"))
	assert.False(t, got.yes)
	assert.True(t, got.done)
	assert.NotNil(t, cmd)

	got, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, got.yes)
	assert.True(t, got.done)
}

func TestConfirmModel_EnterKeepsDefaultNo(t *testing.T) {
	m := confirmModel{prompt: "Save?"}
	got, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, got.done)
	assert.False(t, got.yes)
	assert.NotNil(t, cmd)
}

func TestConfirmModel_ToggleThenEnter(t *testing.T) {
	m := confirmModel{prompt: "Save?"}
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	assert.True(t, m.yes)
	assert.False(t, m.done)
	assert.Contains(t, m.View(), "Save?")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.yes)
	assert.Empty(t, m.View())
}

func TestConfirmModel_IgnoresOtherMessages(t *testing.T) {
	m := confirmModel{prompt: "Save?"}
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, m, next)
	assert.Nil(t, cmd)
}

func TestTeaConfirmer_AssumeYes(t *testing.T) {
	ok, err := (&TeaConfirmer{AssumeYes: true}).Confirm(context.Background(), "Save?")
	require.NoError(t, err)
	assert.True(t, ok)
}
