package tmdb

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/httpclient"
	"github.com/vadimtrunov/showtime/internal/task"
)

// RemoteLoader loads a Res over HTTP: makeRequest builds the request,
// client performs it and mapper validates the response.
//
// Transport failures surface as core.ErrConnectivity; mapper results are
// passed through unchanged. After Release no completion is delivered.
type RemoteLoader[Req, Res any] struct {
	client      httpclient.Client
	makeRequest func(Req) (*http.Request, error)
	mapper      func(body []byte, status int) (Res, error)
	scope       task.Scope
	logger      *slog.Logger
}

var _ core.Loader[int, core.Movie] = (*MovieDetailLoader)(nil)

// NewRemoteLoader creates a RemoteLoader.
func NewRemoteLoader[Req, Res any](
	client httpclient.Client,
	makeRequest func(Req) (*http.Request, error),
	mapper func(body []byte, status int) (Res, error),
	logger *slog.Logger,
) *RemoteLoader[Req, Res] {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteLoader[Req, Res]{
		client:      client,
		makeRequest: makeRequest,
		mapper:      mapper,
		logger:      logger,
	}
}

// Load issues one transport request for req. Every call is independent.
func (l *RemoteLoader[Req, Res]) Load(req Req, completion func(Res, error)) task.Task {
	var zero Res
	h := task.NewHandle(task.Guard(&l.scope, completion))

	httpReq, err := l.makeRequest(req)
	if err != nil {
		l.logger.Debug("request build failed", slog.String("error", err.Error()))
		h.Complete(zero, fmt.Errorf("%w: %w", core.ErrConnectivity, err))
		return h
	}

	h.Wrap(l.client.Do(httpReq, func(resp httpclient.Response, err error) {
		if err != nil {
			h.Complete(zero, fmt.Errorf("%w: %w", core.ErrConnectivity, err))
			return
		}
		v, err := l.mapper(resp.Body, resp.StatusCode)
		if err != nil {
			l.logger.Debug("response rejected",
				slog.String("url", httpclient.RedactURL(httpReq.URL)),
				slog.String("error", err.Error()),
			)
		}
		h.Complete(v, err)
	}))
	return h
}

// Release drops every completion not yet delivered. Outstanding transport
// work is left to finish or be cancelled by its task.
func (l *RemoteLoader[Req, Res]) Release() {
	l.scope.Release()
}

// PopularMoviesLoader loads pages of the popular movies list.
type PopularMoviesLoader = RemoteLoader[core.PopularMoviesRequest, core.PopularCollection]

// MovieDetailLoader loads one movie by TMDb ID.
type MovieDetailLoader = RemoteLoader[int, core.Movie]

// ImageDataLoader loads image bytes from an absolute URL.
type ImageDataLoader = RemoteLoader[string, []byte]

// NewPopularMoviesLoader creates a popular list loader.
func NewPopularMoviesLoader(
	client httpclient.Client,
	makeRequest func(core.PopularMoviesRequest) (*http.Request, error),
	logger *slog.Logger,
) *PopularMoviesLoader {
	return NewRemoteLoader(client, makeRequest, MapPopularMovies, logger)
}

// NewMovieDetailLoader creates a movie detail loader.
func NewMovieDetailLoader(
	client httpclient.Client,
	makeRequest func(int) (*http.Request, error),
	logger *slog.Logger,
) *MovieDetailLoader {
	return NewRemoteLoader(client, makeRequest, MapMovieDetail, logger)
}

// NewImageDataLoader creates an image loader issuing plain GETs.
func NewImageDataLoader(client httpclient.Client, logger *slog.Logger) *ImageDataLoader {
	return NewRemoteLoader(client, ImageRequest, MapImageData, logger)
}
