package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vidtrace/vidtrace/internal"
)

// printResult writes a match result to stdout, rendered as markdown on a
// terminal and as plain text or JSON otherwise.
func printResult(result *internal.MatchResult, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	content := formatResult(result)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(content)
		return nil
	}

	rendered, err := internal.RenderMarkdown(content)
	if err != nil {
		// Fall back to plain output when the renderer is unavailable
		fmt.Print(content)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

// formatResult builds the markdown report for a match
func formatResult(result *internal.MatchResult) string {
	var sb strings.Builder

	if result.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", result.Title))
	} else {
		sb.WriteString(fmt.Sprintf("# Video %s\n\n", result.VideoID))
	}

	sb.WriteString(fmt.Sprintf("**Found at** %s - %s (confidence %.0f%%)\n\n",
		result.StartTimestamp(), result.EndTimestamp(), result.Confidence*100))
	sb.WriteString(fmt.Sprintf("**Watch:** %s\n\n", result.TimestampedURL()))
	sb.WriteString(fmt.Sprintf("**Method:** %s\n\n", result.Method))

	if result.TranscriptSnippet != "" {
		sb.WriteString(fmt.Sprintf("> %s\n", strings.ReplaceAll(result.TranscriptSnippet, "\n", "\n> ")))
	}
	if result.Note != "" {
		sb.WriteString(fmt.Sprintf("\n_%s_\n", result.Note))
	}
	return sb.String()
}

// printMatches writes corpus search hits to stdout
func printMatches(matches []internal.ChunkMatch, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding matches: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		fmt.Println("No matches found in indexed transcripts")
		return nil
	}

	for _, match := range matches {
		fmt.Printf("%s at %s (confidence %.2f)\n", match.VideoID, internal.SecondsToTimestamp(match.StartSeconds), match.Confidence)
		fmt.Println(match.Text)
		fmt.Println()
	}
	return nil
}
