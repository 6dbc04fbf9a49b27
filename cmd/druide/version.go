package main

import (
	"fmt"

	"github.com/aretw0/druide"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of druide",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "druide version %s\n", druide.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
