package presentation

import (
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

// MovieImageAdapter loads the poster of one list row.
type MovieImageAdapter[Image any] struct {
	movie     core.Movie
	loader    core.ImageDataLoader
	imageURL  func(path string) string
	presenter *MovieImagePresenter[Image]

	current task.Task
	token   uint64
}

// NewMovieImageAdapter creates an adapter for movie's poster.
func NewMovieImageAdapter[Image any](
	movie core.Movie,
	loader core.ImageDataLoader,
	imageURL func(path string) string,
	presenter *MovieImagePresenter[Image],
) *MovieImageAdapter[Image] {
	return &MovieImageAdapter[Image]{movie: movie, loader: loader, imageURL: imageURL, presenter: presenter}
}

// Movie returns the row's movie.
func (a *MovieImageAdapter[Image]) Movie() core.Movie {
	return a.movie
}

// RequestImage loads the poster, cancelling a previous request. Movies
// without a poster are skipped.
func (a *MovieImageAdapter[Image]) RequestImage() {
	if a.movie.PosterPath == "" {
		return
	}
	a.CancelImageRequest()

	token := a.token
	a.presenter.DidStartLoading()
	t := a.loader.Load(a.imageURL(a.movie.PosterPath), func(data []byte, err error) {
		if token != a.token {
			return
		}
		a.current = nil
		a.token++
		if err != nil {
			a.presenter.DidFinishLoadingWithError(err)
			return
		}
		a.presenter.DidFinishLoading(data)
	})
	if token == a.token {
		a.current = t
	}
}

// CancelImageRequest abandons the outstanding request, if any.
func (a *MovieImageAdapter[Image]) CancelImageRequest() {
	a.token++
	if a.current != nil {
		a.current.Cancel()
		a.current = nil
	}
}
