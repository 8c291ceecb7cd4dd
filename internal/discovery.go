package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// VideoCandidate is a discovered video that may contain the quoted snippet
type VideoCandidate struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Provider    string `json:"provider"`
}

// SearchProvider finds candidate videos for a keyword query
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]VideoCandidate, error)
	Name() string
}

// Discovery runs providers in order and returns the first non-empty result
// set. Provider errors are logged and fall through to the next provider.
type Discovery struct {
	providers []SearchProvider
	ui        UIManager
}

// NewDiscovery builds a provider chain from available API keys. Serper is
// preferred, then Tavily, then page scraping which needs no key.
func NewDiscovery(config *Config, ui UIManager) *Discovery {
	var providers []SearchProvider
	if config.SerperAPIKey != "" {
		providers = append(providers, NewSerperProvider(config.SerperAPIKey, config.SearchTimeout))
	}
	if config.TavilyAPIKey != "" {
		providers = append(providers, NewTavilyProvider(config.TavilyAPIKey, config.SearchTimeout))
	}
	providers = append(providers, NewScrapeProvider(config.SearchTimeout))
	return &Discovery{providers: providers, ui: ui}
}

// Search queries each provider in order until one returns candidates
func (d *Discovery) Search(ctx context.Context, query string, maxResults int) []VideoCandidate {
	for _, provider := range d.providers {
		candidates, err := provider.Search(ctx, query, maxResults)
		if err != nil {
			d.ui.Verbose("%s search failed: %v\n", provider.Name(), err)
			continue
		}
		if len(candidates) > 0 {
			d.ui.Verbose("%s returned %d candidates\n", provider.Name(), len(candidates))
			return candidates
		}
	}
	return nil
}

// videoIDPattern matches an 11-character YouTube video id
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// SerperProvider queries the Serper YouTube search API
type SerperProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// DefaultSerperBaseURL is the Serper YouTube search endpoint
const DefaultSerperBaseURL = "https://google.serper.dev/videos"

// NewSerperProvider creates a Serper-backed video search provider
func NewSerperProvider(apiKey string, timeout time.Duration) *SerperProvider {
	return &SerperProvider{
		apiKey:  apiKey,
		baseURL: DefaultSerperBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in result methods
func (p *SerperProvider) Name() string { return "Serper" }

type serperVideo struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Videos []serperVideo `json:"videos"`
}

// Search posts the query to Serper and extracts YouTube candidates
func (p *SerperProvider) Search(ctx context.Context, query string, maxResults int) ([]VideoCandidate, error) {
	payload, err := json.Marshal(map[string]any{
		"q":   query + " site:youtube.com",
		"num": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var result serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding serper response: %w", err)
	}

	var candidates []VideoCandidate
	for _, video := range result.Videos {
		videoID := extractVideoID(video.Link)
		if videoID == "" {
			continue
		}
		candidates = append(candidates, VideoCandidate{
			VideoID:     videoID,
			Title:       video.Title,
			Description: video.Snippet,
			URL:         WatchURL(videoID),
			Provider:    p.Name(),
		})
		if len(candidates) >= maxResults {
			break
		}
	}
	return candidates, nil
}

// TavilyProvider queries the Tavily web search API scoped to YouTube
type TavilyProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// DefaultTavilyBaseURL is the Tavily search endpoint
const DefaultTavilyBaseURL = "https://api.tavily.com/search"

// NewTavilyProvider creates a Tavily-backed video search provider
func NewTavilyProvider(apiKey string, timeout time.Duration) *TavilyProvider {
	return &TavilyProvider{
		apiKey:  apiKey,
		baseURL: DefaultTavilyBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in result methods
func (p *TavilyProvider) Name() string { return "Tavily" }

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search posts the query to Tavily and keeps only YouTube watch links
func (p *TavilyProvider) Search(ctx context.Context, query string, maxResults int) ([]VideoCandidate, error) {
	payload, err := json.Marshal(map[string]any{
		"api_key":     p.apiKey,
		"query":       query + " site:youtube.com",
		"max_results": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned status %d", resp.StatusCode)
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding tavily response: %w", err)
	}

	var candidates []VideoCandidate
	for _, item := range result.Results {
		videoID := extractVideoID(item.URL)
		if videoID == "" {
			continue
		}
		candidates = append(candidates, VideoCandidate{
			VideoID:     videoID,
			Title:       item.Title,
			Description: item.Content,
			URL:         WatchURL(videoID),
			Provider:    p.Name(),
		})
		if len(candidates) >= maxResults {
			break
		}
	}
	return candidates, nil
}

// ScrapeProvider extracts video ids from the YouTube results page. It needs
// no API key so it always terminates the chain.
type ScrapeProvider struct {
	baseURL string
	client  *http.Client
}

// DefaultScrapeBaseURL is the YouTube search results page
const DefaultScrapeBaseURL = "https://www.youtube.com/results"

// scrapeIDPattern matches serialized video ids inside the results page
var scrapeIDPattern = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)

// NewScrapeProvider creates a scraping fallback provider
func NewScrapeProvider(timeout time.Duration) *ScrapeProvider {
	return &ScrapeProvider{
		baseURL: DefaultScrapeBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in result methods
func (p *ScrapeProvider) Name() string { return "YouTube Scrape" }

// Search fetches the results page and collects unique video ids. Scraped
// candidates carry placeholder titles since the page markup exposes only ids
// reliably.
func (p *ScrapeProvider) Search(ctx context.Context, query string, maxResults int) ([]VideoCandidate, error) {
	searchURL := p.baseURL + "?search_query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building scrape request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; vidtrace)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading results page: %w", err)
	}

	seen := make(map[string]bool)
	var candidates []VideoCandidate
	for _, match := range scrapeIDPattern.FindAllSubmatch(body, -1) {
		videoID := string(match[1])
		if seen[videoID] {
			continue
		}
		seen[videoID] = true
		candidates = append(candidates, VideoCandidate{
			VideoID:  videoID,
			Title:    "Video " + videoID,
			URL:      WatchURL(videoID),
			Provider: p.Name(),
		})
		if len(candidates) >= maxResults {
			break
		}
	}
	return candidates, nil
}
