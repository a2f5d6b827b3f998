package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/showtime/internal/core"
)

// Catalog is the movie catalog the tools read from. *tmdb.Client satisfies it.
type Catalog interface {
	PopularMovies(ctx context.Context, page int, language string) (core.PopularCollection, error)
	MovieDetail(ctx context.Context, id int) (core.Movie, error)
	ImageData(ctx context.Context, path string) ([]byte, error)
	ImageURL(path string) string
}

// Server wraps an MCP SDK server with ShowTime tool handlers.
type Server struct {
	server  *mcpsdk.Server
	catalog Catalog
	logger  *slog.Logger
}

// NewServer creates an MCP server with all catalog tools registered.
func NewServer(catalog Catalog, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "showtime",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, catalog: catalog, logger: logger}
	srv.registerTools()
	return srv
}

// Name implements core.Frontend.
func (s *Server) Name() string { return "mcp" }

// Start implements core.Frontend by serving over stdin/stdout.
func (s *Server) Start(ctx context.Context) error {
	return s.ServeStdio(ctx)
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(popularMoviesTool(), s.handlePopularMovies)
	s.server.AddTool(movieDetailsTool(), s.handleMovieDetails)
	s.server.AddTool(movieImageTool(), s.handleMovieImage)
}

// Tool definitions.

func popularMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "popular_movies",
		Description: "List one page of currently popular movies with their TMDb IDs, titles and poster URLs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number, starting at 1 (default 1)",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Language tag such as en-US (default from configuration)",
				},
			},
		},
	}
}

func movieDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movie_details",
		Description: "Get details of a movie by its TMDb ID: overview, runtime, genres, rating and image URLs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tmdb_id": map[string]any{
					"type":        "integer",
					"description": "The TMDb ID of the movie",
				},
			},
			"required": []any{"tmdb_id"},
		},
	}
}

func movieImageTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "movie_image",
		Description: "Fetch a poster or backdrop image by the path returned in poster_path or backdrop_path.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Image path such as /abc123.jpg",
				},
			},
			"required": []any{"path"},
		},
	}
}

// Tool results.

type movieResult struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	PosterPath   string   `json:"poster_path,omitempty"`
	PosterURL    string   `json:"poster_url,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Runtime      *int     `json:"runtime_minutes,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	BackdropURL  string   `json:"backdrop_url,omitempty"`
}

type popularResult struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	IsLast     bool          `json:"is_last"`
	Movies     []movieResult `json:"movies"`
}

func (s *Server) toMovieResult(m core.Movie) movieResult {
	return movieResult{
		ID:           m.ID,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		PosterURL:    s.catalog.ImageURL(m.PosterPath),
		Rating:       m.Rating,
		Runtime:      m.Runtime,
		Genres:       m.Genres,
		Overview:     m.Overview,
		BackdropPath: m.BackdropPath,
		BackdropURL:  s.catalog.ImageURL(m.BackdropPath),
	}
}

// Tool handlers.

func (s *Server) handlePopularMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.catalog == nil {
		return toolError("movie catalog is not configured"), nil
	}
	var args struct {
		Page     *int   `json:"page"`
		Language string `json:"language"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}
	page := 1
	if args.Page != nil {
		page = *args.Page
	}
	if page < 1 {
		return toolError("page must be at least 1"), nil
	}

	collection, err := s.catalog.PopularMovies(ctx, page, args.Language)
	if err != nil {
		s.logger.Warn("popular_movies failed", slog.Int("page", page), slog.String("error", err.Error()))
		return toolError(fmt.Sprintf("load popular movies failed: %v", err)), nil
	}

	out := popularResult{
		Page:       collection.Page,
		TotalPages: collection.TotalPages,
		IsLast:     collection.IsLast(),
		Movies:     make([]movieResult, 0, len(collection.Items)),
	}
	for _, m := range collection.Items {
		out.Movies = append(out.Movies, s.toMovieResult(m))
	}
	return toolJSON(out)
}

func (s *Server) handleMovieDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.catalog == nil {
		return toolError("movie catalog is not configured"), nil
	}
	tmdbID, err := extractIntFromArgs(req.Params.Arguments, "tmdb_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if tmdbID <= 0 {
		return toolError("tmdb_id must be positive"), nil
	}

	movie, err := s.catalog.MovieDetail(ctx, tmdbID)
	if err != nil {
		s.logger.Warn("movie_details failed", slog.Int("tmdb_id", tmdbID), slog.String("error", err.Error()))
		return toolError(fmt.Sprintf("load movie %d failed: %v", tmdbID, err)), nil
	}
	return toolJSON(s.toMovieResult(movie))
}

func (s *Server) handleMovieImage(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.catalog == nil {
		return toolError("movie catalog is not configured"), nil
	}
	path, err := extractStringFromArgs(req.Params.Arguments, "path")
	if err != nil {
		return toolError(err.Error()), nil
	}

	data, err := s.catalog.ImageData(ctx, path)
	if err != nil {
		return toolError(fmt.Sprintf("load image failed: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.ImageContent{
			Data:     data,
			MIMEType: http.DetectContentType(data),
		}},
	}, nil
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}

// extractStringFromArgs extracts a string argument from raw JSON arguments.
func extractStringFromArgs(raw json.RawMessage, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}

	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}
