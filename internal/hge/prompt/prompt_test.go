package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/greeddj/go-hge/internal/hge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	return m
}

func press(t *testing.T, m model, key tea.KeyType) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(model), cmd
}

func TestModelCollectsBothAnswers(t *testing.T) {
	t.Parallel()
	m := newModel(nil)
	m = typeText(t, m, "Jameson")
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, fieldAPIKey, m.idx)
	assert.NotContains(t, m.View(), "Jameson")

	m = typeText(t, m, "secret")
	assert.NotContains(t, m.View(), "secret", "api key is masked")
	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Empty(t, m.View())
	assert.Equal(t, &config.Profile{Commander: "Jameson", APIKey: "secret"}, m.profile())
}

func TestModelRequiresAnswer(t *testing.T) {
	t.Parallel()
	m := newModel(nil)
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, fieldCommander, m.idx)
	assert.False(t, m.done)
}

func TestModelPrefilled(t *testing.T) {
	t.Parallel()
	m := newModel(&config.Profile{Commander: "Jameson", APIKey: "old"})
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter)
	assert.True(t, m.done)
	assert.Equal(t, "old", m.profile().APIKey)
}

func TestModelCancel(t *testing.T) {
	t.Parallel()
	m := newModel(nil)
	m, cmd := press(t, m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.False(t, m.done)
}
