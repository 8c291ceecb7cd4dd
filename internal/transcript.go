package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Segment is one timed span of spoken text from a video transcript
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// End returns the end time of the segment in seconds
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// FetchErrorKind classifies transcript fetch failures so callers can decide
// structurally whether a retry is worthwhile.
type FetchErrorKind int

const (
	// FetchErrorTransient covers rate limits and network blips; retry-worthy
	FetchErrorTransient FetchErrorKind = iota
	// FetchErrorPermanent covers missing or disabled transcripts; never retried
	FetchErrorPermanent
)

// String returns a human-readable representation of the error kind
func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrorTransient:
		return "transient"
	case FetchErrorPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// FetchError wraps a transcript fetch failure with its kind
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("transcript fetch (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError of the given kind
func NewFetchError(kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// IsPermanentFetchError reports whether err is a permanent fetch failure
func IsPermanentFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchErrorPermanent
}

// TranscriptFetcher retrieves timed transcript segments for a video
type TranscriptFetcher interface {
	// Fetch returns the transcript segments for videoID, trying the preferred
	// languages in order. Failures are reported as *FetchError.
	Fetch(ctx context.Context, videoID string, languages []string) ([]Segment, error)
	// Name identifies the fetcher in logs and stats
	Name() string
}

// SearchAPIFetcher fetches transcripts through the SearchAPI.io
// youtube_transcripts engine, which avoids direct-IP blocking.
type SearchAPIFetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	ui      UIManager
}

// DefaultSearchAPIBaseURL is the SearchAPI.io search endpoint
const DefaultSearchAPIBaseURL = "https://www.searchapi.io/api/v1/search"

// NewSearchAPIFetcher creates a SearchAPI-backed transcript fetcher
func NewSearchAPIFetcher(apiKey string, timeout time.Duration, ui UIManager) *SearchAPIFetcher {
	return &SearchAPIFetcher{
		apiKey:  apiKey,
		baseURL: DefaultSearchAPIBaseURL,
		client:  &http.Client{Timeout: timeout},
		ui:      ui,
	}
}

func (f *SearchAPIFetcher) Name() string { return "SearchAPI" }

// searchAPIResponse is the subset of the SearchAPI payload we consume
type searchAPIResponse struct {
	Transcripts        []Segment `json:"transcripts"`
	AvailableLanguages []struct {
		Lang string `json:"lang"`
	} `json:"available_languages"`
}

// Fetch tries each preferred language in order and returns the first
// transcript found.
func (f *SearchAPIFetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]Segment, error) {
	if f.apiKey == "" {
		return nil, NewFetchError(FetchErrorPermanent, errors.New("SearchAPI key not configured"))
	}

	var lastErr error
	for _, lang := range languages {
		segments, err := f.fetchLanguage(ctx, videoID, lang)
		if err == nil && len(segments) > 0 {
			f.ui.Verbose("SearchAPI transcript for %s in %s: %d segments\n", videoID, lang, len(segments))
			return segments, nil
		}
		if err != nil {
			// A transient failure aborts the language loop so the caller can
			// retry the whole fetch; a permanent one just moves to the next
			// language.
			if !IsPermanentFetchError(err) {
				return nil, err
			}
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, NewFetchError(FetchErrorPermanent,
		fmt.Errorf("no transcript for %s in any preferred language", videoID))
}

func (f *SearchAPIFetcher) fetchLanguage(ctx context.Context, videoID, lang string) ([]Segment, error) {
	params := url.Values{}
	params.Set("engine", "youtube_transcripts")
	params.Set("video_id", videoID)
	params.Set("lang", lang)
	params.Set("api_key", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, NewFetchError(FetchErrorPermanent, fmt.Errorf("building request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("requesting transcript: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// handled below
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("rate limited (status %d)", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewFetchError(FetchErrorPermanent, fmt.Errorf("video %s not found", videoID))
	case resp.StatusCode >= 500:
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("server error (status %d)", resp.StatusCode))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewFetchError(FetchErrorPermanent,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	var payload searchAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewFetchError(FetchErrorTransient, fmt.Errorf("decoding response: %w", err))
	}

	if len(payload.Transcripts) > 0 {
		return payload.Transcripts, nil
	}

	if len(payload.AvailableLanguages) > 0 {
		f.ui.Verbose("Language %s not available for %s (%d others available)\n",
			lang, videoID, len(payload.AvailableLanguages))
		return nil, NewFetchError(FetchErrorPermanent,
			fmt.Errorf("language %s not available for %s", lang, videoID))
	}

	return nil, NewFetchError(FetchErrorPermanent,
		fmt.Errorf("transcript disabled or missing for %s", videoID))
}

// FetcherChain tries each fetcher in order and returns the first transcript
// obtained. A permanent failure from one source does not prevent trying the
// next; the last error is returned when all sources fail.
type FetcherChain []TranscriptFetcher

func (c FetcherChain) Name() string { return "chain" }

func (c FetcherChain) Fetch(ctx context.Context, videoID string, languages []string) ([]Segment, error) {
	if len(c) == 0 {
		return nil, NewFetchError(FetchErrorPermanent, errors.New("no transcript fetchers configured"))
	}

	var lastErr error
	for _, fetcher := range c {
		segments, err := fetcher.Fetch(ctx, videoID, languages)
		if err == nil && len(segments) > 0 {
			return segments, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
