package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

// statsCmd reports the state of the transcript store
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transcript store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		stats := app.Stats()

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding stats: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Collection:      %s\n", stats.CollectionName)
		fmt.Printf("Total chunks:    %d\n", stats.TotalChunks)
		fmt.Printf("Embedding model: %s\n", stats.EmbeddingModel)
		if stats.Note != "" {
			fmt.Printf("Note:            %s\n", stats.Note)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print stats as JSON")
	rootCmd.AddCommand(statsCmd)
}
