package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, fetcher TranscriptFetcher, provider *stubProvider) *App {
	t.Helper()
	config := newTestConfig(t)
	config.Quiet = true
	finder, _ := newTestFinder(t, config, fetcher, provider)

	app, err := NewApp(config, WithFinder(finder))
	require.NoError(t, err)
	return app
}

func TestAppResolveSnippet(t *testing.T) {
	fetcher := &stubFetcher{segments: map[string][]Segment{
		"habitvid001": testSegments("wake up early every day and make it a habit"),
	}}
	provider := &stubProvider{name: "Serper", candidates: []VideoCandidate{
		{VideoID: "habitvid001", Title: "Morning Habits", Provider: "Serper"},
	}}
	app := newTestApp(t, fetcher, provider)

	result, err := app.ResolveSnippet(context.Background(), "wake up early habit")
	require.NoError(t, err)
	assert.Equal(t, "habitvid001", result.VideoID)
}

func TestAppResolveSnippetNoMatch(t *testing.T) {
	fetcher := &stubFetcher{segments: map[string][]Segment{}}
	provider := &stubProvider{name: "Serper"}
	app := newTestApp(t, fetcher, provider)

	_, err := app.ResolveSnippet(context.Background(), "anything")
	assert.Error(t, err)
}

func TestAppIngestVideo(t *testing.T) {
	fetcher := &stubFetcher{segments: map[string][]Segment{
		"tAP1eZYEuKA": testSegments("some spoken words"),
	}}
	app := newTestApp(t, fetcher, &stubProvider{name: "Serper"})
	ctx := context.Background()

	t.Run("accepts urls", func(t *testing.T) {
		videoID, err := app.IngestVideo(ctx, "https://youtu.be/tAP1eZYEuKA")
		require.NoError(t, err)
		assert.Equal(t, "tAP1eZYEuKA", videoID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := app.IngestVideo(ctx, "definitely not a video")
		assert.Error(t, err)
	})

	t.Run("errors when no transcript", func(t *testing.T) {
		_, err := app.IngestVideo(ctx, "missingvid1")
		assert.Error(t, err)
	})
}

func TestAppSearchCorpus(t *testing.T) {
	fetcher := &stubFetcher{segments: map[string][]Segment{
		"habitvid001": testSegments("wake up early every day"),
	}}
	app := newTestApp(t, fetcher, &stubProvider{name: "Serper"})
	ctx := context.Background()

	_, err := app.IngestVideo(ctx, "habitvid001")
	require.NoError(t, err)

	matches, err := app.SearchCorpus(ctx, "waking early", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "habitvid001", matches[0].VideoID)

	_, err = app.SearchCorpus(ctx, "waking early", "bad arg here", 5)
	assert.Error(t, err)
}

func TestAppStats(t *testing.T) {
	app := newTestApp(t, &stubFetcher{}, &stubProvider{name: "Serper"})

	stats := app.Stats()
	assert.Equal(t, "youtube_transcripts", stats.CollectionName)
	assert.Equal(t, int64(0), stats.TotalChunks)
}
