package internal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerperProviderSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		fmt.Fprint(w, `{"videos": [
			{"title": "Atomic Habits Summary", "link": "https://www.youtube.com/watch?v=abcdefghijk", "snippet": "habits explained"},
			{"title": "Not a video", "link": "https://example.com/page"},
			{"title": "Another", "link": "https://youtu.be/AAAAAAAAAAA", "snippet": "short form"}
		]}`)
	}))
	defer server.Close()

	provider := NewSerperProvider("test-key", time.Second)
	provider.baseURL = server.URL

	candidates, err := provider.Search(context.Background(), "atomic habits", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "abcdefghijk", candidates[0].VideoID)
	assert.Equal(t, "Atomic Habits Summary", candidates[0].Title)
	assert.Equal(t, "habits explained", candidates[0].Description)
	assert.Equal(t, "Serper", candidates[0].Provider)
	assert.Equal(t, "AAAAAAAAAAA", candidates[1].VideoID)
}

func TestTavilyProviderSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [
			{"title": "Habits Talk", "url": "https://www.youtube.com/watch?v=abcdefghijk", "content": "a talk about habits"},
			{"title": "Blog post", "url": "https://blog.example.com/habits"}
		]}`)
	}))
	defer server.Close()

	provider := NewTavilyProvider("test-key", time.Second)
	provider.baseURL = server.URL

	candidates, err := provider.Search(context.Background(), "habits talk", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "abcdefghijk", candidates[0].VideoID)
	assert.Equal(t, "Tavily", candidates[0].Provider)
}

func TestScrapeProviderSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "atomic habits", r.URL.Query().Get("search_query"))
		fmt.Fprint(w, `var data = {"videoId":"abcdefghijk"} {"videoId":"abcdefghijk"} {"videoId":"AAAAAAAAAAA"}`)
	}))
	defer server.Close()

	provider := NewScrapeProvider(time.Second)
	provider.baseURL = server.URL

	candidates, err := provider.Search(context.Background(), "atomic habits", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "duplicate ids are collapsed")
	assert.Equal(t, "abcdefghijk", candidates[0].VideoID)
	assert.Equal(t, "Video abcdefghijk", candidates[0].Title)
}

func TestProviderErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	serper := NewSerperProvider("bad-key", time.Second)
	serper.baseURL = server.URL
	_, err := serper.Search(context.Background(), "query", 5)
	assert.Error(t, err)

	tavily := NewTavilyProvider("bad-key", time.Second)
	tavily.baseURL = server.URL
	_, err = tavily.Search(context.Background(), "query", 5)
	assert.Error(t, err)
}

func TestDiscoveryChainFallsThrough(t *testing.T) {
	failing := &stubProvider{name: "Failing", err: fmt.Errorf("boom")}
	empty := &stubProvider{name: "Empty"}
	working := &stubProvider{name: "Working", candidates: []VideoCandidate{
		{VideoID: "abcdefghijk", Title: "Found it", Provider: "Working"},
	}}

	discovery := &Discovery{
		providers: []SearchProvider{failing, empty, working},
		ui:        NewUIManager(false, true),
	}

	candidates := discovery.Search(context.Background(), "query", 5)
	require.Len(t, candidates, 1)
	assert.Equal(t, "abcdefghijk", candidates[0].VideoID)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, working.calls)
}

func TestDiscoveryChainAllFail(t *testing.T) {
	failing := &stubProvider{name: "Failing", err: fmt.Errorf("boom")}
	discovery := &Discovery{
		providers: []SearchProvider{failing},
		ui:        NewUIManager(false, true),
	}

	assert.Nil(t, discovery.Search(context.Background(), "query", 5))
}

func TestNewDiscoveryProviderOrder(t *testing.T) {
	config := newTestConfig(t)
	config.SerperAPIKey = "sk"
	config.TavilyAPIKey = "tk"

	discovery := NewDiscovery(config, NewUIManager(false, true))
	require.Len(t, discovery.providers, 3)
	assert.Equal(t, "Serper", discovery.providers[0].Name())
	assert.Equal(t, "Tavily", discovery.providers[1].Name())
	assert.Equal(t, "YouTube Scrape", discovery.providers[2].Name())
}
