package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden at release time via -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		out := "matchc " + Version
		if GitCommit != "" {
			out += " (" + GitCommit
			if BuildDate != "" {
				out += ", " + BuildDate
			}
			out += ")"
		}
		fmt.Println(out)
	},
}
