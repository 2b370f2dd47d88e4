package picker

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
)

// Picker is the interactive selection collaborator: it shows a feed's deduped
// item list and lets the user choose the subset to extract. When the terminal
// cannot run the prompt, it degrades to selecting everything.
type Picker struct {
	log logger.Logger
}

// New creates a picker.
func New(log logger.Logger) *Picker {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Picker{log: log}
}

// Select prompts for a subset of items, preserving their order. It satisfies
// the crawler's SelectFunc contract.
func (p *Picker) Select(items []domain.Item) []domain.Item {
	if len(items) == 0 {
		return items
	}

	program := tea.NewProgram(newModel(items))
	final, err := program.Run()
	if err != nil {
		p.log.WarnObj("interactive selection unavailable, keeping all items", "picker_failed", map[string]any{
			"error": err.Error(),
		})
		return items
	}

	m, ok := final.(model)
	if !ok || m.aborted {
		return items
	}
	return m.chosen()
}
