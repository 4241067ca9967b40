// Package main provides the entry point for the rfdict CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rfdict/cmd/rfdict/commands"
	"github.com/Sumatoshi-tech/rfdict/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "rfdict",
		Short: "rfdict - ordered string dictionary tool",
		Long: `rfdict builds an ordered key/value dictionary from word lists and
answers key lookups with optional case folding and US-ASCII translation.

Commands:
  lookup    Load a word list and look up keys
  verify    Load a word list and check tree structure invariants`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewLookupCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "rfdict %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
