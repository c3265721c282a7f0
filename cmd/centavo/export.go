package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/engine"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the spreadsheet's transactions as CSV",
		Long: `Export stored transactions as CSV: one row per transaction plus a
closing TOTAL row. Dates filter on the transaction date, inclusive.

Examples:
  centavo export --out 2024-03.csv --from 2024-03-01 --to 2024-03-31
  centavo export --category Groceries`,
		RunE: runExport,
	}

	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	cmd.Flags().String("from", "", "only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only transactions on or before this date (YYYY-MM-DD)")
	cmd.Flags().String("category", "", "only transactions with this category")
	cmd.Flags().String("source", "", "only transactions from this source")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts, err := exportOptions(cmd)
	if err != nil {
		return err
	}

	eng, led, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	var w io.Writer = os.Stdout
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, createErr := os.Create(outPath) //nolint:gosec // user-chosen output path
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	count, err := eng.Export(ctx, w, opts)
	if err != nil {
		return err
	}

	if outPath != "" {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", count, outPath)))
	}
	return nil
}

func exportOptions(cmd *cobra.Command) (engine.ExportOptions, error) {
	opts := engine.ExportOptions{}

	from, _ := cmd.Flags().GetString("from")
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return opts, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		opts.From = t
	}

	to, _ := cmd.Flags().GetString("to")
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return opts, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		opts.To = t
	}

	opts.Category, _ = cmd.Flags().GetString("category")
	opts.Source, _ = cmd.Flags().GetString("source")

	return opts, nil
}
