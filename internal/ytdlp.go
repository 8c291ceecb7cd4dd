package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLPFetcher fetches transcripts by downloading subtitle tracks with
// yt-dlp and parsing the timed SRT output. It is the fallback when the
// SearchAPI source is unavailable or unconfigured.
type YTDLPFetcher struct {
	cacheDir string
	ui       UIManager
}

// NewYTDLPFetcher creates a yt-dlp backed transcript fetcher that stores
// intermediate subtitle files under cacheDir.
func NewYTDLPFetcher(cacheDir string, ui UIManager) *YTDLPFetcher {
	return &YTDLPFetcher{cacheDir: cacheDir, ui: ui}
}

func (f *YTDLPFetcher) Name() string { return "yt-dlp" }

// Fetch downloads subtitles for videoID and parses them into timed segments
func (f *YTDLPFetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]Segment, error) {
	if err := EnsureDirs(f.cacheDir); err != nil {
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("creating cache directory: %w", err))
	}

	subLangs := strings.Join(languages, ",")
	if subLangs == "" {
		subLangs = "en"
	}

	outputPath := filepath.Join(f.cacheDir, "%(id)s")
	dl := ytdlp.New().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(subLangs).
		ConvertSubs("srt").
		SkipDownload().
		Output(outputPath)

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		f.ui.Verbose("yt-dlp subtitle download failed for %s: %v\n%s\n", videoID, err, stderr)
		if strings.Contains(stderr, "Video unavailable") || strings.Contains(stderr, "Subtitles are disabled") {
			return nil, NewFetchError(FetchErrorPermanent, fmt.Errorf("subtitles unavailable for %s: %w", videoID, err))
		}
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("yt-dlp failed for %s: %w", videoID, err))
	}

	srtPath, err := f.findSubtitleFile(videoID)
	if err != nil {
		return nil, NewFetchError(FetchErrorPermanent, err)
	}

	content, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("reading subtitle file: %w", err))
	}

	// Subtitle files are intermediate; the store keeps the durable copy.
	if err := os.Remove(srtPath); err != nil {
		f.ui.Verbose("Warning: failed to remove subtitle file %s: %v\n", srtPath, err)
	}

	segments := ParseSRT(string(content))
	if len(segments) == 0 {
		return nil, NewFetchError(FetchErrorPermanent, fmt.Errorf("no usable subtitle content for %s", videoID))
	}

	f.ui.Verbose("yt-dlp transcript for %s: %d segments\n", videoID, len(segments))
	return segments, nil
}

// findSubtitleFile locates the downloaded SRT file for a video
func (f *YTDLPFetcher) findSubtitleFile(videoID string) (string, error) {
	entries, err := os.ReadDir(f.cacheDir)
	if err != nil {
		return "", fmt.Errorf("reading cache directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, videoID) && strings.HasSuffix(name, ".srt") {
			return filepath.Join(f.cacheDir, name), nil
		}
	}
	return "", fmt.Errorf("no subtitle file found for %s", videoID)
}
