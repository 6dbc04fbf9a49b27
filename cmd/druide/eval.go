package main

import (
	"github.com/aretw0/druide/internal/cli"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression | tokens...>",
	Short: "Evaluate a single expression",
	Long: `Evaluates one expression and prints its value.

The expression may be given as one quoted argument ("3 5 +") or as separate
tokens (3 5 +). Use -- before tokens that start with '-', e.g. eval -- -2 3 *.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng := cli.NewEngine(cfg, cli.NewLogger(cfg.Verbose), nil)
		return cli.Eval(cmd.Context(), eng, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
