// Package tui is the interactive review screen: it walks through the
// store's uncategorized transactions, offers ranked suggestions, and
// collects the category assignments to write back.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/centavo-dev/centavo/internal/model"
)

// mode is the input mode of the review screen.
type mode int

const (
	modeBrowse mode = iota
	modeEdit
)

// reviewItem pairs one uncategorized transaction with its ranked
// suggestions and the reviewer's choice so far.
type reviewItem struct {
	txn         model.Transaction
	suggestions []string
	chosen      string
}

// Model holds the review screen state.
type Model struct {
	input    textinput.Model
	help     help.Model
	keymap   KeyMap
	items    []reviewItem
	index    int
	width    int
	height   int
	mode     mode
	quitting bool
}

// newModel builds the review model for a set of items.
func newModel(items []reviewItem) Model {
	input := textinput.New()
	input.Placeholder = "category"
	input.CharLimit = 64
	input.Width = 32

	return Model{
		items:  items,
		keymap: DefaultKeyMap(),
		input:  input,
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// updateBrowse handles keys while navigating the list.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keymap

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.index > 0 {
			m.index--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.index < len(m.items)-1 {
			m.index++
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		if len(m.items) == 0 {
			return m, nil
		}
		m.mode = modeEdit
		m.input.SetValue(m.items[m.index].chosen)
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.Clear):
		if len(m.items) > 0 {
			m.items[m.index].chosen = ""
		}
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Digits pick a suggestion and advance to the next transaction.
	if n, err := strconv.Atoi(msg.String()); err == nil && len(m.items) > 0 {
		item := &m.items[m.index]
		if n >= 1 && n <= len(item.suggestions) {
			item.chosen = item.suggestions[n-1]
			m.advance()
		}
	}
	return m, nil
}

// updateEdit handles keys while typing a category by hand.
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Accept):
		if value := strings.TrimSpace(m.input.Value()); value != "" {
			m.items[m.index].chosen = value
			m.advance()
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// advance moves to the next unreviewed transaction, if any.
func (m *Model) advance() {
	if m.index < len(m.items)-1 {
		m.index++
	}
}

// Updates returns the category assignments collected so far.
func (m Model) Updates() []model.CategoryUpdate {
	var updates []model.CategoryUpdate
	for _, item := range m.items {
		if item.chosen != "" {
			updates = append(updates, model.CategoryUpdate{
				Hash:     item.txn.Hash,
				Category: item.chosen,
			})
		}
	}
	return updates
}

// reviewed counts items that already have a chosen category.
func (m Model) reviewed() int {
	count := 0
	for _, item := range m.items {
		if item.chosen != "" {
			count++
		}
	}
	return count
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.items) == 0 {
		return emptyStyle.Render("Nothing to review — every transaction is categorized. 🎉") + "\n"
	}

	var b strings.Builder
	item := m.items[m.index]

	b.WriteString(titleStyle.Render("Review uncategorized transactions"))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d/%d · %d chosen", m.index+1, len(m.items), m.reviewed())))
	b.WriteString("\n\n")

	b.WriteString(renderTransaction(item.txn))
	b.WriteString("\n")

	if item.chosen != "" {
		b.WriteString(chosenStyle.Render("→ " + item.chosen))
		b.WriteString("\n")
	}

	if len(item.suggestions) > 0 {
		b.WriteString(subtleStyle.Render("Suggestions:"))
		b.WriteString("\n")
		for i, s := range item.suggestions {
			line := fmt.Sprintf("  %d. %s", i+1, s)
			if s == item.chosen {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.mode == modeEdit {
		b.WriteString("\n")
		b.WriteString("Category: " + m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	b.WriteString("\n")

	return b.String()
}

// renderTransaction formats the transaction under review.
func renderTransaction(txn model.Transaction) string {
	amount := amountStyle(txn).Render(txn.Amount.StringFixed(2) + " " + txn.Currency)
	lines := []string{
		descStyle.Render(txn.Description),
		fmt.Sprintf("%s  %s", txn.Date.Format("2006-01-02"), amount),
		subtleStyle.Render(fmt.Sprintf("%s · %s", txn.Source, txn.Account)),
	}
	if txn.CategoryHint != "" {
		lines = append(lines, subtleStyle.Render("statement says: "+txn.CategoryHint))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
