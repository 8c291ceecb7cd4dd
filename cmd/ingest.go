package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

// ingestCmd indexes a video's transcript for later offline lookups
var ingestCmd = &cobra.Command{
	Use:   "ingest [URL or ID]...",
	Short: "Fetch and index video transcripts",
	Example: `  # Index a single video
  vidtrace ingest "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vidtrace ingest tAP1eZYEuKA

  # Index several videos at once
  vidtrace ingest tAP1eZYEuKA dQw4w9WgXcQ`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateResolveRequirements(config); err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		var failed int
		for _, arg := range args {
			videoID, err := app.IngestVideo(cmd.Context(), arg)
			if err != nil {
				fmt.Printf("Failed: %s (%v)\n", arg, err)
				failed++
				continue
			}
			if !config.Quiet {
				fmt.Printf("Indexed %s\n", videoID)
			}
		}

		if failed == len(args) {
			return fmt.Errorf("no videos could be indexed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
