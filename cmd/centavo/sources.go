package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/parser"
)

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the statement sources centavo can parse",
		Run: func(_ *cobra.Command, _ []string) {
			cli.RenderSourcesTable(os.Stdout, parser.DefaultRegistry())
		},
	}
}
