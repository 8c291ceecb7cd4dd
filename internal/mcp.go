package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"vidtrace-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	// find_video_source tool
	s.mcpServer.AddTool(mcp.NewTool("find_video_source",
		mcp.WithDescription("Find the YouTube video and timestamp where a text snippet was spoken. Searches already-indexed transcripts first, then discovers candidate videos online and indexes their transcripts. Returns the video URL, start/end timestamps, the matched transcript text, a confidence score, and the method used."),
		mcp.WithString("snippet",
			mcp.Description("The quoted or paraphrased text to locate"),
			mcp.Required(),
		),
	), s.handleFindVideoSource)

	// ingest_video tool
	s.mcpServer.AddTool(mcp.NewTool("ingest_video",
		mcp.WithDescription("Fetch a video's transcript and index it for future snippet searches. Accepts a YouTube URL or 11-character video ID. Idempotent: already-indexed videos are not re-fetched."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or video ID"),
			mcp.Required(),
		),
	), s.handleIngestVideo)

	// search_videos tool
	s.mcpServer.AddTool(mcp.NewTool("search_videos",
		mcp.WithDescription("Semantically search already-indexed transcripts for a query. Does not search online; use find_video_source for full resolution. Optionally scope the search to a single video."),
		mcp.WithString("query",
			mcp.Description("Text to search for"),
			mcp.Required(),
		),
		mcp.WithString("video",
			mcp.Description("Optional YouTube video URL or ID to scope the search to"),
		),
	), s.handleSearchVideos)

	// database_stats tool
	s.mcpServer.AddTool(mcp.NewTool("database_stats",
		mcp.WithDescription("Report how many transcript chunks are indexed and which embedding model built them."),
	), s.handleDatabaseStats)
}

// handleFindVideoSource implements the find_video_source tool
func (s *MCPServer) handleFindVideoSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snippet, err := request.RequireString("snippet")
	if err != nil {
		return mcp.NewToolResultError("snippet parameter is required and must be a string"), nil
	}

	result, err := s.app.ResolveSnippet(ctx, snippet)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("resolution failed", err), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding result", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

// handleIngestVideo implements the ingest_video tool
func (s *MCPServer) handleIngestVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}

	videoID, err := s.app.IngestVideo(ctx, video)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("ingestion failed", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Indexed transcript for video %s", videoID))},
	}, nil
}

// handleSearchVideos implements the search_videos tool
func (s *MCPServer) handleSearchVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required and must be a string"), nil
	}
	video := request.GetString("video", "")

	matches, err := s.app.SearchCorpus(ctx, query, video, 0)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("search failed", err), nil
	}
	if len(matches) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No matches found in indexed transcripts")},
		}, nil
	}

	var buf strings.Builder
	for _, match := range matches {
		buf.WriteString(fmt.Sprintf("%s at %s (confidence %.2f)\n", match.VideoID, SecondsToTimestamp(match.StartSeconds), match.Confidence))
		buf.WriteString(match.Text)
		buf.WriteString("\n\n")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleDatabaseStats implements the database_stats tool
func (s *MCPServer) handleDatabaseStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.app.Stats()

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Collection: %s\n", stats.CollectionName))
	buf.WriteString(fmt.Sprintf("Total chunks: %d\n", stats.TotalChunks))
	buf.WriteString(fmt.Sprintf("Embedding model: %s\n", stats.EmbeddingModel))
	if stats.Note != "" {
		buf.WriteString(fmt.Sprintf("Note: %s\n", stats.Note))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
