package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfold/feedbook/internal/domain"
)

func testItems() []domain.Item {
	return []domain.Item{
		{Title: "First", Link: "https://x/1"},
		{Title: "Second", Link: "https://x/2"},
		{Title: "Third", Link: "https://x/3"},
	}
}

func press(t *testing.T, m model, key string) model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}

	next, _ := m.Update(msg)
	updated, ok := next.(model)
	require.True(t, ok)
	return updated
}

func TestModelStartsFullySelected(t *testing.T) {
	m := newModel(testItems())
	assert.Len(t, m.chosen(), 3)
}

func TestModelToggleAndChoose(t *testing.T) {
	m := newModel(testItems())

	m = press(t, m, "down")  // cursor on Second
	m = press(t, m, " ")     // deselect Second
	m = press(t, m, "enter") // confirm

	assert.True(t, m.done)
	chosen := m.chosen()
	require.Len(t, chosen, 2)
	assert.Equal(t, "First", chosen[0].Title)
	assert.Equal(t, "Third", chosen[1].Title)
}

func TestModelToggleAll(t *testing.T) {
	m := newModel(testItems())

	m = press(t, m, "a")
	assert.Empty(t, m.chosen())

	m = press(t, m, "a")
	assert.Len(t, m.chosen(), 3)
}

func TestModelAbortKeepsEverything(t *testing.T) {
	m := newModel(testItems())

	m = press(t, m, " ") // deselect First
	m = press(t, m, "esc")

	assert.True(t, m.aborted)
}

func TestModelCursorBounds(t *testing.T) {
	m := newModel(testItems())

	m = press(t, m, "up")
	assert.Equal(t, 0, m.cursor)

	for range 5 {
		m = press(t, m, "down")
	}
	assert.Equal(t, 2, m.cursor)
}

func TestModelViewListsItems(t *testing.T) {
	m := newModel(testItems())

	view := m.View()
	assert.Contains(t, view, "First")
	assert.Contains(t, view, "Third")
	assert.Contains(t, view, "3/3")
}
