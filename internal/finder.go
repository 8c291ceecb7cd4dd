package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// MatchResult is the final answer for a resolved snippet. Timestamps are
// kept as seconds internally and serialized as HH:MM:SS text.
type MatchResult struct {
	VideoID           string  `json:"video_id"`
	Title             string  `json:"title,omitempty"`
	URL               string  `json:"url"`
	TimestampStart    float64 `json:"-"`
	TimestampEnd      float64 `json:"-"`
	Confidence        float64 `json:"confidence"`
	TranscriptSnippet string  `json:"transcript_snippet"`
	Method            string  `json:"method"`
	Note              string  `json:"note,omitempty"`
}

// MarshalJSON emits the timestamps in HH:MM:SS form
func (r *MatchResult) MarshalJSON() ([]byte, error) {
	type plain MatchResult
	return json.Marshal(&struct {
		*plain
		TimestampStart string `json:"timestamp_start"`
		TimestampEnd   string `json:"timestamp_end"`
	}{
		plain:          (*plain)(r),
		TimestampStart: r.StartTimestamp(),
		TimestampEnd:   r.EndTimestamp(),
	})
}

// StartTimestamp formats the start of the match as HH:MM:SS
func (r *MatchResult) StartTimestamp() string {
	return SecondsToTimestamp(r.TimestampStart)
}

// EndTimestamp formats the end of the match as HH:MM:SS
func (r *MatchResult) EndTimestamp() string {
	return SecondsToTimestamp(r.TimestampEnd)
}

// TimestampedURL returns a watch URL that starts playback at the match
func (r *MatchResult) TimestampedURL() string {
	return fmt.Sprintf("%s&t=%ds", r.URL, int(r.TimestampStart))
}

// Finder resolves text snippets to the video and timestamp they were spoken
// in. It tries the local corpus first, then discovers candidates online and
// ingests their transcripts, then falls back to content analysis.
type Finder struct {
	store     *TranscriptStore
	discovery *Discovery
	matcher   *ContentMatcher
	config    *Config
	ui        UIManager
	sleep     func(time.Duration)
}

// FinderOption customizes a Finder
type FinderOption func(*Finder)

// WithSleep overrides the inter-candidate delay function
func WithSleep(sleep func(time.Duration)) FinderOption {
	return func(f *Finder) { f.sleep = sleep }
}

// NewFinder wires a resolution pipeline over its three stages
func NewFinder(store *TranscriptStore, discovery *Discovery, matcher *ContentMatcher, config *Config, ui UIManager, opts ...FinderOption) *Finder {
	f := &Finder{
		store:     store,
		discovery: discovery,
		matcher:   matcher,
		config:    config,
		ui:        ui,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve finds the video and timestamp a snippet was spoken in. It returns
// nil only when no candidate videos can be discovered at all; any discovered
// candidate yields at least a low-confidence fallback result.
func (f *Finder) Resolve(ctx context.Context, snippet string) *MatchResult {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return nil
	}

	// Already-indexed videos answer without any network traffic.
	if result := f.searchCorpus(ctx, snippet); result != nil {
		return result
	}

	keywords := ExtractKeywords(snippet)
	query := BuildSearchQuery(keywords, 5)
	f.ui.Verbose("Searching for candidates with query: %s\n", query)

	candidates := f.discovery.Search(ctx, query, f.config.MaxSearchResults)
	if len(candidates) == 0 {
		f.ui.Verbose("No candidate videos found\n")
		return nil
	}

	if result := f.searchCandidateTranscripts(ctx, snippet, candidates); result != nil {
		return result
	}

	if result := f.matchByContent(snippet, candidates); result != nil {
		return result
	}

	return f.blindFallback(snippet, candidates[0])
}

// searchCorpus looks for an exact transcript match among already-ingested
// videos.
func (f *Finder) searchCorpus(ctx context.Context, snippet string) *MatchResult {
	matches := f.store.Search(ctx, snippet, "", f.config.TopKResults)
	for _, match := range matches {
		if match.Confidence >= f.config.ExactMatchThreshold {
			f.ui.Verbose("Corpus hit in %s at %.0fs (confidence %.2f)\n", match.VideoID, match.StartSeconds, match.Confidence)
			return f.resultFromChunk(snippet, match, "Exact Transcript Match", "", "")
		}
	}
	return nil
}

// searchCandidateTranscripts ingests each candidate's transcript and searches
// it for the snippet, keeping the single best chunk across all candidates. A
// randomized delay between candidates avoids hammering transcript sources.
func (f *Finder) searchCandidateTranscripts(ctx context.Context, snippet string, candidates []VideoCandidate) *MatchResult {
	var best *ChunkMatch
	var bestCandidate *VideoCandidate

	bar := f.ui.NewProgressBar(len(candidates), "Checking candidate transcripts")
	defer bar.Finish()

	for i := range candidates {
		candidate := &candidates[i]
		bar.Set(i)
		if i > 0 {
			f.sleep(time.Duration((0.5 + rand.Float64()) * float64(time.Second)))
		}

		if !f.store.Ingest(ctx, candidate.VideoID) {
			continue
		}

		matches := f.store.Search(ctx, snippet, candidate.VideoID, f.config.CandidateTopK)
		for j := range matches {
			// Zero-similarity chunks must not win; the content fallback
			// handles candidates whose transcripts say nothing relevant.
			if matches[j].Confidence <= 0 {
				continue
			}
			if best == nil || matches[j].Confidence > best.Confidence {
				best = &matches[j]
				bestCandidate = candidate
			}
		}
	}

	if best == nil {
		return nil
	}
	f.ui.Verbose("Best transcript match in %s at %.0fs (confidence %.2f)\n", best.VideoID, best.StartSeconds, best.Confidence)
	method := fmt.Sprintf("%s Transcript", bestCandidate.Provider)
	return f.resultFromChunk(snippet, *best, method, bestCandidate.Title, "")
}

// matchByContent scores candidates on title and description overlap
func (f *Finder) matchByContent(snippet string, candidates []VideoCandidate) *MatchResult {
	candidate, confidence := f.matcher.Match(snippet, candidates)
	if candidate == nil {
		return nil
	}
	start, end := EstimateWindow(snippet)
	return &MatchResult{
		VideoID:           candidate.VideoID,
		Title:             candidate.Title,
		URL:               candidate.URL,
		TimestampStart:    start,
		TimestampEnd:      end,
		Confidence:        confidence,
		TranscriptSnippet: contentMatchSnippet(snippet),
		Method:            "Content-based matching",
	}
}

// blindFallback returns the first discovered candidate with fixed low
// confidence so callers always get a lead to verify manually.
func (f *Finder) blindFallback(snippet string, candidate VideoCandidate) *MatchResult {
	start, end := EstimateWindow(snippet)
	return &MatchResult{
		VideoID:           candidate.VideoID,
		Title:             candidate.Title,
		URL:               candidate.URL,
		TimestampStart:    start,
		TimestampEnd:      end,
		Confidence:        0.4,
		TranscriptSnippet: contentMatchSnippet(snippet),
		Method:            "Content-based video matching (fallback)",
		Note:              "No transcript match found; timestamp is estimated from the snippet text",
	}
}

// resultFromChunk builds a result from a transcript chunk hit, estimating the
// end when the chunk carries no end time.
func (f *Finder) resultFromChunk(snippet string, match ChunkMatch, method, title, note string) *MatchResult {
	end := match.EndSeconds
	if end <= match.StartSeconds {
		end = calculateEndTimestamp(match.StartSeconds, match.Text)
	}
	return &MatchResult{
		VideoID:           match.VideoID,
		Title:             title,
		URL:               WatchURL(match.VideoID),
		TimestampStart:    match.StartSeconds,
		TimestampEnd:      end,
		Confidence:        match.Confidence,
		TranscriptSnippet: match.Text,
		Method:            method,
		Note:              note,
	}
}

// calculateEndTimestamp estimates when a chunk ends assuming 150 spoken words
// per minute plus a small pause buffer.
func calculateEndTimestamp(start float64, text string) float64 {
	words := len(strings.Fields(text))
	return start + float64(words)/150*60 + 10
}

// contentMatchSnippet labels a result that carries no transcript text
func contentMatchSnippet(snippet string) string {
	const maxLen = 100
	if len(snippet) > maxLen {
		snippet = snippet[:maxLen]
	}
	return fmt.Sprintf("Content-matched location: '%s...'", snippet)
}

// IngestVideo indexes one video's transcript into the store
func (f *Finder) IngestVideo(ctx context.Context, videoID string) bool {
	return f.store.Ingest(ctx, videoID)
}

// Stats reports the state of the transcript store
func (f *Finder) Stats() StoreStats {
	return f.store.Stats()
}

// SearchCorpus searches already-ingested transcripts without any discovery
func (f *Finder) SearchCorpus(ctx context.Context, query, videoID string, topK int) []ChunkMatch {
	return f.store.Search(ctx, query, videoID, topK)
}
