package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/engine"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate statement files without importing",
		Long: `Parse and reconcile statement files without touching the spreadsheet
or the ledger. With --online the spreadsheet history is read so the report
also previews how many transactions the rules would categorize.

Examples:
  centavo check ~/Downloads/nubank-2024-03.csv
  centavo check --online ~/Downloads/statements/`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().String("source", "", "force a source parser instead of detecting from content")
	cmd.Flags().String("who", "", "spender attribution (affects nothing in a check)")
	cmd.Flags().Float64("threshold", 0, "fuzzy category match threshold (0..1, 0 = default)")
	cmd.Flags().Bool("use-source-hints", false, "fall back to the statement's own category column")
	cmd.Flags().Bool("skip-reconcile", false, "skip checking parsed sums against declared totals")
	cmd.Flags().Bool("force", false, "check files the ledger has already seen")
	cmd.Flags().Bool("online", false, "read spreadsheet history to preview categorization")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	online, _ := cmd.Flags().GetBool("online")

	eng := initOfflineEngine()
	if online {
		var err error
		var closeLedger func() error
		eng, closeLedger, err = onlineEngine(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = closeLedger() }()
	}

	opts, err := importOptions(cmd)
	if err != nil {
		return err
	}

	summary, err := eng.Check(ctx, args, opts)
	if summary != nil {
		cli.RenderImportSummary(os.Stdout, summary)
	}
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(summary.Files))
	}
	return nil
}

// onlineEngine wires an engine with store and ledger for checks that want
// a categorization preview.
func onlineEngine(ctx context.Context) (*engine.Engine, func() error, error) {
	eng, led, err := initEngine(ctx)
	if err != nil {
		return nil, nil, err
	}
	return eng, led.Close, nil
}
