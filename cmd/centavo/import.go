package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/engine"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import statement files into the spreadsheet",
		Long: `Import one or more statement files: parse, reconcile against the
statement's own total, normalize, skip transactions already imported, and
categorize from the spreadsheet's history before appending.

Files can be given directly, as glob patterns, or as directories.
A file that fails to parse fails that file only; the run continues and
the summary reports it.

Examples:
  # Import a single statement
  centavo import ~/Downloads/nubank-2024-03.csv

  # Import everything in a directory, attributed to one spender
  centavo import --who alice ~/Downloads/statements/

  # Force a parser instead of detecting from content
  centavo import --source chase ~/Downloads/export.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("source", "", "force a source parser instead of detecting from content")
	cmd.Flags().String("who", "", "spender attribution stamped on every imported transaction")
	cmd.Flags().Float64("threshold", 0, "fuzzy category match threshold (0..1, 0 = default)")
	cmd.Flags().Bool("use-source-hints", false, "fall back to the statement's own category column")
	cmd.Flags().Bool("skip-reconcile", false, "skip checking parsed sums against declared totals")
	cmd.Flags().BoolP("dry-run", "d", false, "run the whole pipeline but write nothing")
	cmd.Flags().Bool("force", false, "re-process files the ledger has already seen")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, !dryRun)

	eng, led, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	opts, err := importOptions(cmd)
	if err != nil {
		return err
	}
	opts.DryRun = dryRun

	files, err := engine.ExpandPaths(args)
	if err != nil {
		return err
	}

	bar := newFileProgressBar(len(files), "Importing statements...")
	opts.Progress = func(result engine.FileResult) {
		bar.Describe(fmt.Sprintf("[cyan]%s[reset]", filepath.Base(result.Path)))
		_ = bar.Add(1)
	}

	summary, err := eng.Import(ctx, files, opts)
	_ = bar.Finish()
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

// importOptions reads the flags shared by import and check.
func importOptions(cmd *cobra.Command) (engine.ImportOptions, error) {
	source, _ := cmd.Flags().GetString("source")
	who, _ := cmd.Flags().GetString("who")
	useHints, _ := cmd.Flags().GetBool("use-source-hints")
	skipReconcile, _ := cmd.Flags().GetBool("skip-reconcile")
	force, _ := cmd.Flags().GetBool("force")

	threshold := viper.GetFloat64("categorize.threshold")
	if cmd.Flags().Changed("threshold") {
		threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if threshold < 0 || threshold > 1 {
		return engine.ImportOptions{}, fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
	}

	return engine.ImportOptions{
		Source:         source,
		Who:            who,
		Threshold:      threshold,
		UseSourceHints: useHints,
		SkipReconcile:  skipReconcile,
		Force:          force,
	}, nil
}

// newFileProgressBar builds the per-file progress bar for a run.
func newFileProgressBar(files int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(files,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
