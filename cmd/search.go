package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

// searchCmd queries already-indexed transcripts without going online
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search already-indexed transcripts",
	Example: `  # Semantic search across everything indexed
  vidtrace search "compound interest explanation"

  # Scope to one video
  vidtrace search "compound interest" --video tAP1eZYEuKA

  # More hits, as JSON
  vidtrace search "compound interest" --top-k 20 --json`,
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

		video, _ := cmd.Flags().GetString("video")
		topK, _ := cmd.Flags().GetInt("top-k")

		matches, err := app.SearchCorpus(cmd.Context(), args[0], video, topK)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return printMatches(matches, asJSON)
	},
}

func init() {
	searchCmd.Flags().String("video", "", "Restrict the search to one video URL or ID")
	searchCmd.Flags().IntP("top-k", "k", 0, "Maximum matches to return")
	searchCmd.Flags().Bool("json", false, "Print matches as JSON")
	rootCmd.AddCommand(searchCmd)
}
