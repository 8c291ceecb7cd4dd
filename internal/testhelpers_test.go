package internal

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testVocabulary drives the stub embedder: each vector dimension is 1 when
// the text contains the corresponding term, so cosine similarity measures
// term overlap deterministically.
var testVocabulary = []string{"habit", "early", "wake", "compound", "interest", "banana", "quantum"}

type stubEmbedder struct {
	calls int
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vector := make([]float32, len(testVocabulary))
		for j, term := range testVocabulary {
			if strings.Contains(lower, term) {
				vector[j] = 1
			}
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *stubEmbedder) ModelName() string { return "stub-embedding" }

// stubFetcher returns canned segments or a scripted sequence of errors
type stubFetcher struct {
	segments map[string][]Segment
	errs     []error
	calls    int
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]Segment, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	segments, ok := f.segments[videoID]
	if !ok {
		return nil, NewFetchError(FetchErrorPermanent, errNoTranscript)
	}
	return segments, nil
}

var errNoTranscript = NewFetchError(FetchErrorPermanent, nil)

// stubProvider returns canned candidates and counts its invocations
type stubProvider struct {
	name       string
	candidates []VideoCandidate
	err        error
	calls      int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]VideoCandidate, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		EmbeddingModel:         "stub-embedding",
		ChunkSize:              500,
		ChunkOverlap:           100,
		ExactMatchThreshold:    0.6,
		FallbackScoreThreshold: 2.0,
		MaxSearchResults:       15,
		TopKResults:            10,
		CandidateTopK:          3,
		FetchRetryAttempts:     3,
		Languages:              []string{"en"},
		CollectionName:         "youtube_transcripts",
		FetchTimeout:           5 * time.Second,
		SearchTimeout:          5 * time.Second,
		DataDir:                dir,
		CacheDir:               dir,
		SubtitleDir:            filepath.Join(dir, "subtitles"),
		DatabasePath:           filepath.Join(dir, "chunks.db"),
	}
}

func newTestStore(t *testing.T, config *Config, fetcher TranscriptFetcher) (*TranscriptStore, *stubEmbedder) {
	t.Helper()
	ui := NewUIManager(false, true)
	db, err := OpenChunkDB(config.DatabasePath, nil, ui)
	require.NoError(t, err)

	embedder := &stubEmbedder{}
	store := NewTranscriptStore(db, embedder, fetcher, config, ui)
	store.sleep = func(time.Duration) {}
	return store, embedder
}

func testSegments(texts ...string) []Segment {
	segments := make([]Segment, len(texts))
	for i, text := range texts {
		segments[i] = Segment{Start: float64(i * 10), Duration: 10, Text: text}
	}
	return segments
}
