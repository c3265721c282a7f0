package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
)

func importsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "Show the import ledger's history",
		Long: `List past import runs from the local ledger: which files were
ingested, when, and how many transactions each contributed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			records, err := led.ListImports(ctx)
			if err != nil {
				return err
			}

			cli.RenderImportsTable(os.Stdout, records)
			return nil
		},
	}
}
