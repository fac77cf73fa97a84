// Package commands provides the CLI commands for the matchc tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matchc",
	Short: "Structural pattern compiler and checker",
	Long: `matchc parses, normalizes and validates structural match patterns.

This tool provides:
  - Parsing patterns to their normalized tree form
  - Checking patterns against a JSON type spec
  - Version information

Usage:
  matchc parse "<pattern>"               Print the parsed pattern tree
  matchc check -t types.json "<pattern>" Validate a pattern against a type
  matchc version                         Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("unknown command %q for \"matchc\"\nRun 'matchc --help' for usage", args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
