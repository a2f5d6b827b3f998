package tmdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/httpclient"
)

// Config selects the TMDb hosts and default language.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	Language     string
}

// Client bundles the TMDb loaders behind blocking, context-aware calls for
// callers that do not drive a UI (CLI, MCP).
type Client struct {
	endpoint     *Endpoint
	imageBaseURL string
	language     string
	popular      *PopularMoviesLoader
	detail       *MovieDetailLoader
	images       *ImageDataLoader
	logger       *slog.Logger
}

// New creates a TMDb client. api must sign requests with the API key;
// images is used for the image host and is typically unsigned.
func New(cfg Config, api, images httpclient.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint, err := NewEndpoint(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = core.DefaultLanguage
	}

	return &Client{
		endpoint:     endpoint,
		imageBaseURL: cfg.ImageBaseURL,
		language:     cfg.Language,
		popular:      NewPopularMoviesLoader(api, endpoint.PopularMoviesRequest, logger),
		detail:       NewMovieDetailLoader(api, endpoint.MovieDetailRequest, logger),
		images:       NewImageDataLoader(images, logger),
		logger:       logger,
	}, nil
}

// PopularLoader returns the asynchronous popular list loader.
func (c *Client) PopularLoader() *PopularMoviesLoader { return c.popular }

// DetailLoader returns the asynchronous movie detail loader.
func (c *Client) DetailLoader() *MovieDetailLoader { return c.detail }

// ImageLoader returns the asynchronous image loader.
func (c *Client) ImageLoader() *ImageDataLoader { return c.images }

// Language returns the configured default language.
func (c *Client) Language() string { return c.language }

// PopularMovies fetches one page of popular movies. An empty language
// selects the configured default.
func (c *Client) PopularMovies(ctx context.Context, page int, language string) (core.PopularCollection, error) {
	if language == "" {
		language = c.language
	}
	req := core.PopularMoviesRequest{Page: page, Language: language}
	collection, err := core.Await[core.PopularMoviesRequest, core.PopularCollection](ctx, c.popular, req)
	if err != nil {
		return core.PopularCollection{}, fmt.Errorf("popular movies page %d: %w", page, err)
	}
	return collection, nil
}

// MovieDetail fetches full details for a movie by TMDb ID.
func (c *Client) MovieDetail(ctx context.Context, id int) (core.Movie, error) {
	movie, err := core.Await[int, core.Movie](ctx, c.detail, id)
	if err != nil {
		return core.Movie{}, fmt.Errorf("movie %d: %w", id, err)
	}
	return movie, nil
}

// ImageData fetches a poster or backdrop by its TMDb path.
func (c *Client) ImageData(ctx context.Context, path string) ([]byte, error) {
	data, err := core.Await[string, []byte](ctx, c.images, c.ImageURL(path))
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	return data, nil
}

// ImageURL returns the absolute URL of a poster or backdrop path.
func (c *Client) ImageURL(path string) string {
	return ImageURL(c.imageBaseURL, path)
}

// Close releases the loaders. Completions still in flight are dropped.
func (c *Client) Close() {
	c.popular.Release()
	c.detail.Release()
	c.images.Release()
}
