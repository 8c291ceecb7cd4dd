package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

// cpCmd copies the timestamped watch URL to the system clipboard instead of
// printing the full report.
var cpCmd = &cobra.Command{
	Use:   "cp [snippet]",
	Short: "Resolve a snippet and copy the timestamped URL to the clipboard",
	Example: `  # Copy a link that starts playback where the quote was said
  vidtrace cp "the first habit is to wake up early every single day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateResolveRequirements(config); err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		result, err := app.ResolveSnippet(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		url := result.TimestampedURL()
		if err := clipboard.WriteAll(url); err != nil {
			return fmt.Errorf("copying URL to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Printf("Copied %s (confidence %.0f%%)\n", url, result.Confidence*100)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
