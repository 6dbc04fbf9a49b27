package main

import (
	"github.com/aretw0/druide/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Evaluate every expression of a file",
	Long: `Evaluates each line of the file as an RPN expression and prints
"Line N: <expression> => <value>" or "Error line N: <message>".

A failing line never stops the run. With --strict the exit status is 2 when
any line failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runE,
}

func runE(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	strict, _ := flags.GetBool("strict")
	save, _ := flags.GetBool("save")
	summary, _ := flags.GetBool("summary")

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	_, err = cli.Run(ctx, cli.RunOptions{
		Path:    args[0],
		Config:  cfg,
		Strict:  strict,
		Save:    save,
		Summary: summary,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
	return err
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.IntP("workers", "w", 1, "Number of concurrent evaluators (0 = one per CPU)")
	fs.StringP("format", "f", "text", "Output format: text or json")
	fs.String("color", "auto", "Colour output: auto, always or never")
	fs.Bool("strict", false, "Exit with status 2 when any expression fails")
	fs.Bool("save", false, "Save the report to the configured store")
	fs.Bool("summary", false, "Print a summary after the results")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())

	// 'druide <file>' is 'druide run <file>'.
	addRunFlags(rootCmd.Flags())
	rootCmd.RunE = runE
}
