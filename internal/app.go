package internal

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// App holds the application state and dependencies
type App struct {
	finder *Finder
	config *Config
	ui     UIManager
	db     *gorm.DB
}

// AppOption customizes App creation
type AppOption func(*App)

// WithFinder sets a custom resolution pipeline
func WithFinder(finder *Finder) AppOption {
	return func(a *App) {
		a.finder = finder
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	app := &App{
		config: config,
		ui:     NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	if app.finder == nil {
		db, err := OpenChunkDB(config.DatabasePath, nil, app.ui)
		if err != nil {
			return nil, fmt.Errorf("opening transcript store: %w", err)
		}
		app.db = db

		embedder := NewOpenAIEmbedder(config.OpenAIAPIKey, config.EmbeddingModel, config.EmbeddingDimensions)

		var fetchers FetcherChain
		if config.SearchAPIKey != "" {
			fetchers = append(fetchers, NewSearchAPIFetcher(config.SearchAPIKey, config.FetchTimeout, app.ui))
		}
		fetchers = append(fetchers, NewYTDLPFetcher(config.SubtitleDir, app.ui))

		store := NewTranscriptStore(db, embedder, fetchers, config, app.ui)
		discovery := NewDiscovery(config, app.ui)
		matcher := NewContentMatcher(config.FallbackScoreThreshold, app.ui)
		app.finder = NewFinder(store, discovery, matcher, config, app.ui)
	}

	return app, nil
}

// Close releases the underlying database handle
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	sqlDB, err := app.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ResolveSnippet finds the video and timestamp a snippet was spoken in
func (app *App) ResolveSnippet(ctx context.Context, snippet string) (*MatchResult, error) {
	spinner := app.ui.NewSpinner("Searching indexed transcripts...")

	result := app.finder.Resolve(ctx, snippet)

	spinner.Finish()
	if result == nil {
		return nil, fmt.Errorf("no matching video found for the given snippet")
	}
	return result, nil
}

// IngestVideo indexes one video's transcript into the store
func (app *App) IngestVideo(ctx context.Context, arg string) (string, error) {
	_, videoID, err := ParseVideoArg(arg)
	if err != nil {
		return "", err
	}

	spinner := app.ui.NewSpinner(fmt.Sprintf("Ingesting transcript for %s...", videoID))
	ok := app.finder.IngestVideo(ctx, videoID)
	spinner.Finish()

	if !ok {
		return "", fmt.Errorf("no transcript could be fetched for %s", videoID)
	}
	return videoID, nil
}

// SearchCorpus searches already-ingested transcripts without any discovery
func (app *App) SearchCorpus(ctx context.Context, query, videoArg string, topK int) ([]ChunkMatch, error) {
	videoID := ""
	if videoArg != "" {
		_, id, err := ParseVideoArg(videoArg)
		if err != nil {
			return nil, err
		}
		videoID = id
	}
	return app.finder.SearchCorpus(ctx, query, videoID, topK), nil
}

// Stats reports the state of the transcript store
func (app *App) Stats() StoreStats {
	return app.finder.Stats()
}
