package internal

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// WatchURL builds the canonical watch URL for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ParseVideoArg normalizes a YouTube video ID or URL into (url, id)
func ParseVideoArg(arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)

	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		videoID := extractVideoID(arg)
		if videoID == "" {
			return "", "", fmt.Errorf("could not extract video ID from URL: %s", arg)
		}
		return WatchURL(videoID), videoID, nil
	}

	if !IsValidYouTubeID(arg) {
		return "", "", fmt.Errorf("not a valid YouTube video ID or URL: %s", arg)
	}
	return WatchURL(arg), arg, nil
}

// extractVideoID pulls an 11-character video ID out of a YouTube URL,
// returning "" when the URL carries none.
func extractVideoID(youtubeURL string) string {
	u, err := url.Parse(strings.TrimSpace(youtubeURL))
	if err != nil {
		return ""
	}

	switch u.Host {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); IsValidYouTubeID(v) {
			return v
		}
		// Shorts and embed paths end in the video ID
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) > 0 && IsValidYouTubeID(parts[len(parts)-1]) {
			return parts[len(parts)-1]
		}
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if IsValidYouTubeID(id) {
			return id
		}
	}
	return ""
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}
