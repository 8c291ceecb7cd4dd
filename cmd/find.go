package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

// findCmd is the explicit form of the root command
var findCmd = &cobra.Command{
	Use:   "find [snippet]",
	Short: "Find the video and timestamp a snippet was spoken in",
	Example: `  # Find where a quote was said
  vidtrace find "the first habit is to wake up early every single day"

  # Consider more candidate videos
  vidtrace find "premature optimization" --max-results 25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, args[0])
	},
}

func init() {
	internal.AddResolveFlags(findCmd)
	rootCmd.AddCommand(findCmd)
}
