package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	EmbeddingModel         string
	EmbeddingDimensions    int
	ChunkSize              int
	ChunkOverlap           int
	ExactMatchThreshold    float64
	FallbackScoreThreshold float64
	MinConfidence          float64
	MaxSearchResults       int
	TopKResults            int
	CandidateTopK          int
	FetchRetryAttempts     int
	Languages              []string
	CollectionName         string
	FetchTimeout           time.Duration
	SearchTimeout          time.Duration
	Verbose                bool
	Quiet                  bool
	MCPLogEnabled          bool

	// API keys
	OpenAIAPIKey string
	SerperAPIKey string
	TavilyAPIKey string
	SearchAPIKey string

	// Fixed XDG paths (not configurable)
	ConfigDir    string
	DataDir      string
	CacheDir     string
	SubtitleDir  string
	DatabasePath string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed for the subtitle fallback fetcher
	ytdlp.MustInstall(context.Background(), nil)

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "vidtrace")
	dataDir := filepath.Join(xdg.DataHome, "vidtrace")
	cacheDir := filepath.Join(xdg.CacheHome, "vidtrace")

	subtitleDir := filepath.Join(cacheDir, "subtitles")
	databasePath := filepath.Join(dataDir, "chunks.db")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("embedding_dimensions", 1536)
	v.SetDefault("chunk_size", 500)
	v.SetDefault("chunk_overlap", 100)
	v.SetDefault("exact_match_threshold", 0.6)
	v.SetDefault("fallback_score_threshold", 2.0)
	v.SetDefault("min_confidence", 0.0)
	v.SetDefault("max_search_results", 15)
	v.SetDefault("top_k_results", 10)
	v.SetDefault("candidate_top_k", 3)
	v.SetDefault("fetch_retry_attempts", 3)
	v.SetDefault("languages", []string{"en", "pt", "es"})
	v.SetDefault("collection_name", "youtube_transcripts")
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("search_timeout", 20*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log_enabled", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("VIDTRACE")
	v.AutomaticEnv()

	// API keys come from their conventional environment variables
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("serper_api_key", "SERPER_API_KEY")
	_ = v.BindEnv("tavily_api_key", "TAVILY_API_KEY")
	_ = v.BindEnv("searchapi_api_key", "SEARCHAPI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		EmbeddingModel:         v.GetString("embedding_model"),
		EmbeddingDimensions:    v.GetInt("embedding_dimensions"),
		ChunkSize:              v.GetInt("chunk_size"),
		ChunkOverlap:           v.GetInt("chunk_overlap"),
		ExactMatchThreshold:    v.GetFloat64("exact_match_threshold"),
		FallbackScoreThreshold: v.GetFloat64("fallback_score_threshold"),
		MinConfidence:          v.GetFloat64("min_confidence"),
		MaxSearchResults:       v.GetInt("max_search_results"),
		TopKResults:            v.GetInt("top_k_results"),
		CandidateTopK:          v.GetInt("candidate_top_k"),
		FetchRetryAttempts:     v.GetInt("fetch_retry_attempts"),
		Languages:              v.GetStringSlice("languages"),
		CollectionName:         v.GetString("collection_name"),
		FetchTimeout:           v.GetDuration("fetch_timeout"),
		SearchTimeout:          v.GetDuration("search_timeout"),
		Verbose:                v.GetBool("verbose"),
		Quiet:                  v.GetBool("quiet"),
		MCPLogEnabled:          v.GetBool("mcp_log_enabled"),

		// API keys
		OpenAIAPIKey: v.GetString("openai_api_key"),
		SerperAPIKey: v.GetString("serper_api_key"),
		TavilyAPIKey: v.GetString("tavily_api_key"),
		SearchAPIKey: v.GetString("searchapi_api_key"),

		// Fixed XDG paths
		ConfigDir:    configDir,
		DataDir:      dataDir,
		CacheDir:     cacheDir,
		SubtitleDir:  subtitleDir,
		DatabasePath: databasePath,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
