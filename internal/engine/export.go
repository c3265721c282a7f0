package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/model"
)

// exportColumns is the CSV layout of an export.
var exportColumns = []string{"Date", "Description", "Amount", "Category", "Account", "Source", "Who"}

// ExportOptions filter which stored transactions get exported.
type ExportOptions struct {
	From     time.Time
	To       time.Time
	Category string
	Source   string
}

// Export writes store history as CSV: one row per transaction, Brazilian
// money formatting, and a closing TOTAL row. Returns the number of
// transactions written.
func (e *Engine) Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error) {
	history, err := e.History(ctx)
	if err != nil {
		return 0, err
	}

	selected := make([]model.Transaction, 0, len(history))
	for _, txn := range history {
		if !opts.From.IsZero() && txn.Date.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && txn.Date.After(opts.To) {
			continue
		}
		if opts.Category != "" && txn.Category != opts.Category {
			continue
		}
		if opts.Source != "" && txn.Source != opts.Source {
			continue
		}
		selected = append(selected, txn)
	}

	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].Date.Equal(selected[j].Date) {
			return selected[i].Date.Before(selected[j].Date)
		}
		return selected[i].Description < selected[j].Description
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}

	total := decimal.Zero
	for _, txn := range selected {
		total = total.Add(txn.Amount)
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			model.FormatBRL(txn.Amount),
			txn.Category,
			txn.Account,
			txn.Source,
			txn.Who,
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	totalRow := []string{"", "TOTAL", model.FormatBRL(total), "", "", "", ""}
	if err := cw.Write(totalRow); err != nil {
		return 0, fmt.Errorf("failed to write export total: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}

	return len(selected), nil
}
