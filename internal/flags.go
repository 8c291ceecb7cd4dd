package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddResolveFlags adds flags shared by commands that resolve snippets
func AddResolveFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().IntP("max-results", "n", 0, "Maximum candidate videos to consider")
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// HandleMaxResultsFlag processes the --max-results flag to update config
func HandleMaxResultsFlag(cmd *cobra.Command, config *Config) error {
	maxResults, err := cmd.Flags().GetInt("max-results")
	if err != nil {
		return fmt.Errorf("failed to get max-results flag: %w", err)
	}
	if maxResults > 0 {
		config.MaxSearchResults = maxResults
	}
	return nil
}

// ValidateResolveRequirements checks the credentials resolution depends on
func ValidateResolveRequirements(config *Config) error {
	// Embeddings are mandatory; discovery and transcript providers degrade
	// to keyless fallbacks.
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}
	return nil
}
