package main

import (
	"fmt"
	"os"

	"github.com/aretw0/druide/internal/cli"
	"github.com/aretw0/druide/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "druide [file]",
	Short: "Druide evaluates Reverse Polish Notation expressions",
	Long: `Druide reads arithmetic expressions in Reverse Polish Notation (postfix),
one per line, and prints the value or the error of each line.

Blank lines and lines starting with '#' are ignored. Use '-' to read from
standard input.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a druide.yaml or druide.json file (default ./druide.yaml if present)")
	pf.BoolP("verbose", "v", false, "Log every stack operation to stderr")
	pf.String("store", "", "Report store: memory, file, redis or bolt")
	pf.String("store-path", "", "Directory (file) or database file (bolt) of the report store")
	pf.String("redis-addr", "", "Redis address for the redis store")
}

// loadConfig reads the configuration file and applies explicit flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("store-path") {
		cfg.Store.Path, _ = flags.GetString("store-path")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.RedisAddr, _ = flags.GetString("redis-addr")
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		cfg.Format, _ = flags.GetString("format")
	}
	if f := flags.Lookup("color"); f != nil && f.Changed {
		cfg.Color, _ = flags.GetString("color")
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		cfg.HTTP.Port, _ = flags.GetInt("port")
	}
	return cfg, cfg.Validate()
}
