package main

import (
	"github.com/aretw0/druide/internal/cli"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in evaluator checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.SelfTest(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}
