package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/cli"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and sync the category rules learned from history",
		Long: `Category rules are derived from the spreadsheet's history: every
description key that a human categorized becomes a rule, majority wins
when history disagrees.

  list   print the derived rules and any conflicts
  sync   write the rules to the reference worksheet`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesSyncCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the derived category rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, led, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			rules, conflicts, err := eng.DeriveRules(ctx)
			if err != nil {
				return err
			}

			cli.RenderRulesTable(os.Stdout, rules, conflicts)
			return nil
		},
	}
}

func rulesSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Write the derived rules to the reference worksheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				ok, err := confirm(ctx, "This clears and rewrites the reference worksheet. Continue? [y/N]")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Sync canceled."))
					return nil
				}
			}

			eng, led, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			count, err := eng.SyncRules(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d rules to the reference worksheet.", count)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// confirm asks a yes/no question on stdin, honoring context cancellation.
func confirm(ctx context.Context, question string) (bool, error) {
	fmt.Print(cli.FormatPrompt(question))

	reader := cli.NewNonBlockingReader(os.Stdin)
	answer, err := reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
			return false, nil
		}
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
