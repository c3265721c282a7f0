package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/centavo-dev/centavo/internal/model"
)

// Suggester ranks category candidates for a description. Satisfied by
// categorize.Suggester.
type Suggester interface {
	Suggest(desc string, max int) []string
}

// ReviewConfig configures one review session.
type ReviewConfig struct {
	// Suggester may be nil; the reviewer then types every category.
	Suggester Suggester
	// Transactions are the uncategorized rows to walk through.
	Transactions []model.Transaction
	// MaxSuggestions caps the ranked list per transaction (default 5).
	MaxSuggestions int
}

// Review runs the interactive review screen and returns the category
// assignments the reviewer made. An empty slice means nothing was chosen;
// that is not an error.
func Review(ctx context.Context, cfg ReviewConfig) ([]model.CategoryUpdate, error) {
	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}

	items := make([]reviewItem, 0, len(cfg.Transactions))
	for _, txn := range cfg.Transactions {
		item := reviewItem{txn: txn}
		if cfg.Suggester != nil {
			item.suggestions = cfg.Suggester.Suggest(txn.Description, maxSuggestions)
		}
		items = append(items, item)
	}

	program := tea.NewProgram(newModel(items), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("review screen failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("review screen returned unexpected model %T", final)
	}
	return m.Updates(), nil
}
