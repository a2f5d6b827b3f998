package presentation

import (
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

// CollectionAdapter loads pages of the popular list and keeps the rendered
// list. At most one page load is outstanding.
type CollectionAdapter struct {
	loader    core.PopularMoviesLoader
	language  string
	presenter *CollectionPresenter

	movies   []core.Movie
	loading  bool
	current  task.Task
	inflight uint64
	closed   bool
}

// NewCollectionAdapter creates an adapter requesting pages in language.
func NewCollectionAdapter(loader core.PopularMoviesLoader, language string, presenter *CollectionPresenter) *CollectionAdapter {
	if language == "" {
		language = core.DefaultLanguage
	}
	return &CollectionAdapter{loader: loader, language: language, presenter: presenter}
}

// RequestPage loads page. While a load is outstanding, requests for later
// pages are ignored; a request for page 1 abandons the outstanding load and
// starts over.
func (a *CollectionAdapter) RequestPage(page int) {
	if a.closed || (a.loading && page != 1) {
		return
	}
	a.cancelCurrent()

	a.inflight++
	token := a.inflight
	a.loading = true
	a.presenter.DidStartLoading()

	t := a.loader.Load(core.PopularMoviesRequest{Page: page, Language: a.language}, func(c core.PopularCollection, err error) {
		if token != a.inflight {
			return
		}
		a.loading = false
		a.current = nil

		if err != nil {
			a.presenter.DidFinishLoadingWithError(err)
			return
		}
		if c.Page == 1 {
			a.movies = append([]core.Movie(nil), c.Items...)
		} else {
			a.movies = append(a.movies, c.Items...)
		}
		a.presenter.DidFinishLoading(a.movies, c)
	})
	if a.loading && token == a.inflight {
		a.current = t
	}
}

// IsLoading reports whether a page load is outstanding.
func (a *CollectionAdapter) IsLoading() bool {
	return a.loading
}

// Movies returns the list rendered so far.
func (a *CollectionAdapter) Movies() []core.Movie {
	return a.movies
}

// Close cancels the outstanding load. Later requests are ignored.
func (a *CollectionAdapter) Close() {
	a.closed = true
	a.cancelCurrent()
}

func (a *CollectionAdapter) cancelCurrent() {
	if a.current != nil {
		a.current.Cancel()
		a.current = nil
	}
	a.inflight++
	a.loading = false
}
