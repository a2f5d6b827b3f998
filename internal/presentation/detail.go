package presentation

import (
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

// DetailAdapter loads one movie and then its backdrop.
//
// A failed detail load deliberately emits a {ShouldRetry: true} state after
// loading stops instead of going silent, so frontends can offer a retry.
type DetailAdapter[Image any] struct {
	movieID   int
	details   core.MovieDetailLoader
	images    core.ImageDataLoader
	imageURL  func(path string) string
	presenter *DetailPresenter[Image]

	loading    bool
	detail     task.Task
	backdrop   task.Task
	generation uint64
	closed     bool
}

// NewDetailAdapter creates an adapter for movieID. imageURL turns a backdrop
// path into an absolute URL.
func NewDetailAdapter[Image any](
	movieID int,
	details core.MovieDetailLoader,
	images core.ImageDataLoader,
	imageURL func(path string) string,
	presenter *DetailPresenter[Image],
) *DetailAdapter[Image] {
	return &DetailAdapter[Image]{
		movieID:   movieID,
		details:   details,
		images:    images,
		imageURL:  imageURL,
		presenter: presenter,
	}
}

// RequestDetail loads the movie. It is ignored while a load is outstanding
// and may be called again after a failure to retry.
func (a *DetailAdapter[Image]) RequestDetail() {
	if a.closed || a.loading {
		return
	}
	a.cancel()

	gen := a.generation
	a.loading = true
	a.presenter.DidStartLoading()

	t := a.details.Load(a.movieID, func(movie core.Movie, err error) {
		if gen != a.generation {
			return
		}
		a.loading = false
		a.detail = nil

		if err != nil {
			a.presenter.DidFinishLoadingDetailWithError(err)
			return
		}
		a.presenter.DidFinishLoadingDetail(movie)
		a.loadBackdrop(gen, movie)
	})
	if a.loading && gen == a.generation {
		a.detail = t
	}
}

func (a *DetailAdapter[Image]) loadBackdrop(gen uint64, movie core.Movie) {
	if movie.BackdropPath == "" {
		return
	}
	a.backdrop = a.images.Load(a.imageURL(movie.BackdropPath), func(data []byte, err error) {
		if gen != a.generation || err != nil {
			return
		}
		a.backdrop = nil
		a.presenter.DidFinishLoadingImage(data, movie)
	})
}

// IsLoading reports whether the detail load is outstanding.
func (a *DetailAdapter[Image]) IsLoading() bool {
	return a.loading
}

// Close cancels outstanding loads. Later requests are ignored.
func (a *DetailAdapter[Image]) Close() {
	a.closed = true
	a.cancel()
}

func (a *DetailAdapter[Image]) cancel() {
	a.generation++
	a.loading = false
	for _, t := range []task.Task{a.detail, a.backdrop} {
		if t != nil {
			t.Cancel()
		}
	}
	a.detail, a.backdrop = nil, nil
}
