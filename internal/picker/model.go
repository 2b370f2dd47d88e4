package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkfold/feedbook/internal/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Abort   key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ")),
	All:     key.NewBinding(key.WithKeys("a")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Abort:   key.NewBinding(key.WithKeys("esc", "ctrl+c", "q")),
}

// model is the multi-select prompt over one feed's items. Every item starts
// selected, matching the identity default of the selection contract.
type model struct {
	items    []domain.Item
	selected map[int]struct{}
	cursor   int
	aborted  bool
	done     bool
}

func newModel(items []domain.Item) model {
	selected := make(map[int]struct{}, len(items))
	for i := range items {
		selected[i] = struct{}{}
	}
	return model{items: items, selected: selected}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Toggle):
		if _, on := m.selected[m.cursor]; on {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = struct{}{}
		}
	case key.Matches(keyMsg, keys.All):
		if len(m.selected) == len(m.items) {
			m.selected = make(map[int]struct{})
		} else {
			for i := range m.items {
				m.selected[i] = struct{}{}
			}
		}
	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Abort):
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Select articles (%d/%d)", len(m.selected), len(m.items))))
	sb.WriteString("\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		mark := "[ ]"
		line := item.Title
		if _, on := m.selected[i]; on {
			mark = selectedStyle.Render("[x]")
		} else {
			line = dimStyle.Render(line)
		}

		sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, line))
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("space toggle · a all · enter confirm · esc keep all"))
	sb.WriteString("\n")
	return sb.String()
}

// chosen returns the selected items in their original order.
func (m model) chosen() []domain.Item {
	out := make([]domain.Item, 0, len(m.selected))
	for i, item := range m.items {
		if _, on := m.selected[i]; on {
			out = append(out, item)
		}
	}
	return out
}
