// Package presentation turns loader results into UI-agnostic view-states.
//
// Adapters drive loaders and enforce loading invariants, presenters map
// results to view-states, and views are implemented by frontends. None of the
// types here are safe for concurrent use: they expect every call, including
// loader completions, to happen on one execution context (see package
// dispatch).
package presentation

import "github.com/vadimtrunov/showtime/internal/core"

// CollectionTitle is the heading of the popular movies list.
const CollectionTitle = "Popular"

// CollectionViewState is the full list rendered so far.
type CollectionViewState struct {
	Movies []core.Movie
	Page   int
}

// LoadingViewState toggles the list loading indicator.
type LoadingViewState struct {
	IsLoading bool
}

// PagingViewState describes the last page received.
type PagingViewState struct {
	IsLast     bool
	PageNumber int
}

// NextPage returns the page after this one, or false on the last page.
func (s PagingViewState) NextPage() (int, bool) {
	if s.IsLast {
		return 0, false
	}
	return s.PageNumber + 1, true
}

// DetailViewState is the movie detail screen.
type DetailViewState[Image any] struct {
	Title       string
	Meta        string
	Overview    string
	Image       *Image
	IsLoading   bool
	ShouldRetry bool
}

// MovieImageViewState is the image slot of one list row.
type MovieImageViewState[Image any] struct {
	Image       *Image
	IsLoading   bool
	ShouldRetry bool
}

// CollectionView renders the movie list.
type CollectionView interface {
	DisplayCollection(CollectionViewState)
}

// LoadingView renders the list loading indicator.
type LoadingView interface {
	DisplayLoading(LoadingViewState)
}

// PagingView receives paging updates.
type PagingView interface {
	DisplayPaging(PagingViewState)
}

// DetailView renders the movie detail screen.
type DetailView[Image any] interface {
	DisplayDetail(DetailViewState[Image])
}

// MovieImageView renders one row image.
type MovieImageView[Image any] interface {
	DisplayImage(MovieImageViewState[Image])
}

// pagingViews fans paging updates out to several views in order.
type pagingViews []PagingView

func (v pagingViews) DisplayPaging(s PagingViewState) {
	for _, view := range v {
		if view != nil {
			view.DisplayPaging(s)
		}
	}
}
