package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidtrace/vidtrace/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vidtrace [snippet]",
	Short: "Find the YouTube video a quote came from",
	Long: `Vidtrace locates the YouTube video and timestamp where a text
snippet was spoken.

It searches already-indexed transcripts first, then discovers candidate
videos online, fetches their transcripts, and matches the snippet against
them semantically. When no transcript contains the snippet it falls back
to matching video titles and descriptions.`,
	Example: `  # Find where a quote was said
  vidtrace "the first habit is to wake up early every single day"

  # Print the result as JSON
  vidtrace "premature optimization is the root of all evil" --json

  # Index a video up front so later lookups stay offline
  vidtrace ingest "https://www.youtube.com/watch?v=tAP1eZYEuKA"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, args[0])
	},
}

// runResolve is shared by the root command and the find subcommand
func runResolve(cmd *cobra.Command, snippet string) error {
	if err := internal.ValidateResolveRequirements(config); err != nil {
		return err
	}
	if err := internal.HandleMaxResultsFlag(cmd, config); err != nil {
		return err
	}

	app, err := internal.NewApp(config)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result, err := app.ResolveSnippet(cmd.Context(), snippet)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printResult(result, asJSON)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir, config.SubtitleDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddResolveFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/vidtrace/config.toml)")
}
