package main

import (
	"context"

	"github.com/aretw0/druide/internal/cli"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect saved reports",
	Long:  `Lists, shows and deletes reports saved with 'druide run --save'.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved report IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, _ := cmd.Flags().GetBool("summary")
		return withStore(cmd, func(ctx context.Context, store ports.ReportStore) error {
			return cli.ListReports(ctx, store, cmd.OutOrStdout(), summary)
		})
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		styled := cli.IsTerminal(out)
		return withStore(cmd, func(ctx context.Context, store ports.ReportStore) error {
			return cli.ShowReport(ctx, store, args[0], out, styled)
		})
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store ports.ReportStore) error {
			return cli.DeleteReport(ctx, store, args[0], cmd.OutOrStdout())
		})
	},
}

func withStore(cmd *cobra.Command, fn func(context.Context, ports.ReportStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, closeStore, err := cli.NewStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd, reportShowCmd, reportDeleteCmd)

	reportListCmd.Flags().Bool("summary", false, "Print the summary of each report")
}
