package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/categorize"
	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively categorize what the rules could not",
		Long: `Walk through the spreadsheet's uncategorized transactions in an
interactive screen. Each transaction comes with ranked suggestions learned
from your categorized history; pick one with a digit, or type a category
by hand. Choices are written back to the spreadsheet when you quit.

Nothing is ever auto-applied: a transaction you skip stays uncategorized.`,
		RunE: runReview,
	}

	cmd.Flags().Int("limit", 0, "review at most this many transactions (0 = all)")
	cmd.Flags().Int("suggestions", 5, "ranked suggestions per transaction")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	maxSuggestions, _ := cmd.Flags().GetInt("suggestions")

	eng, led, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	history, err := eng.History(ctx)
	if err != nil {
		return err
	}

	pending := filterUncategorized(history)
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	if len(pending) == 0 {
		fmt.Println(cli.FormatSuccess("Nothing to review — every transaction is categorized."))
		return nil
	}

	// The suggester needs history with at least two categories; without
	// it the review screen still works, just without suggestions.
	var suggester tui.Suggester
	if s, sErr := categorize.NewSuggester(history); sErr == nil {
		suggester = s
	} else {
		slog.Debug("Suggestions unavailable", "reason", sErr)
	}

	updates, err := tui.Review(ctx, tui.ReviewConfig{
		Transactions:   pending,
		Suggester:      suggester,
		MaxSuggestions: maxSuggestions,
	})
	if err != nil {
		return err
	}

	if len(updates) == 0 {
		fmt.Println(cli.FormatInfo("No categories chosen; spreadsheet unchanged."))
		return nil
	}

	if err := eng.ApplyCategories(ctx, updates); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Updated %d transactions.", len(updates))))
	return nil
}

// filterUncategorized keeps the rows still waiting for a category.
func filterUncategorized(history []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, txn := range history {
		if !txn.IsCategorized() {
			out = append(out, txn)
		}
	}
	return out
}
