package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, injected through -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build and version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vidtrace %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
