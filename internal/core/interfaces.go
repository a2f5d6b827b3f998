package core

import (
	"context"

	"github.com/vadimtrunov/showtime/internal/task"
)

// Loader loads a Res for a Req asynchronously.
// The completion is invoked at most once, and never after the returned
// task has been cancelled.
type Loader[Req, Res any] interface {
	Load(req Req, completion func(Res, error)) task.Task
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc[Req, Res any] func(req Req, completion func(Res, error)) task.Task

// Load calls f.
func (f LoaderFunc[Req, Res]) Load(req Req, completion func(Res, error)) task.Task {
	return f(req, completion)
}

// PopularMoviesLoader loads one page of the popular movies collection.
type PopularMoviesLoader = Loader[PopularMoviesRequest, PopularCollection]

// MovieDetailLoader loads a single movie by its TMDb ID.
type MovieDetailLoader = Loader[int, Movie]

// ImageDataLoader loads raw image bytes from an absolute URL.
type ImageDataLoader = Loader[string, []byte]

// Frontend defines the interface for user-facing frontends (TUI, Telegram, MCP)
type Frontend interface {
	// Start runs the frontend until ctx is canceled or it fails
	Start(ctx context.Context) error

	// Name returns the frontend name (e.g., "tui", "telegram", "mcp")
	Name() string
}
