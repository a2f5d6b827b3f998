package presentation

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vadimtrunov/showtime/internal/core"
)

// CollectionPresenter maps list load events to view-states.
type CollectionPresenter struct {
	collection CollectionView
	loading    LoadingView
	paging     PagingView
}

// NewCollectionPresenter creates a CollectionPresenter.
func NewCollectionPresenter(collection CollectionView, loading LoadingView, paging PagingView) *CollectionPresenter {
	return &CollectionPresenter{collection: collection, loading: loading, paging: paging}
}

// DidStartLoading shows the loading indicator.
func (p *CollectionPresenter) DidStartLoading() {
	p.loading.DisplayLoading(LoadingViewState{IsLoading: true})
}

// DidFinishLoading renders movies, hides the indicator and publishes the
// paging position of page.
func (p *CollectionPresenter) DidFinishLoading(movies []core.Movie, page core.PopularCollection) {
	p.collection.DisplayCollection(CollectionViewState{Movies: slices.Clone(movies), Page: page.Page})
	p.loading.DisplayLoading(LoadingViewState{IsLoading: false})
	p.paging.DisplayPaging(PagingViewState{IsLast: page.IsLast(), PageNumber: page.Page})
}

// DidFinishLoadingWithError hides the indicator and leaves the list as is.
func (p *CollectionPresenter) DidFinishLoadingWithError(error) {
	p.loading.DisplayLoading(LoadingViewState{IsLoading: false})
}

// DetailPresenter maps detail load events to view-states. transform turns
// image bytes into the frontend's image type and reports false for data it
// cannot use.
type DetailPresenter[Image any] struct {
	view      DetailView[Image]
	transform func([]byte) (Image, bool)
}

// NewDetailPresenter creates a DetailPresenter.
func NewDetailPresenter[Image any](view DetailView[Image], transform func([]byte) (Image, bool)) *DetailPresenter[Image] {
	return &DetailPresenter[Image]{view: view, transform: transform}
}

func (p *DetailPresenter[Image]) DidStartLoading() {
	p.view.DisplayDetail(DetailViewState[Image]{IsLoading: true})
}

func (p *DetailPresenter[Image]) DidFinishLoadingDetail(movie core.Movie) {
	p.view.DisplayDetail(detailState[Image](movie))
}

// DidFinishLoadingImage re-renders movie with its backdrop. Data the
// transformer rejects leaves the view unchanged.
func (p *DetailPresenter[Image]) DidFinishLoadingImage(data []byte, movie core.Movie) {
	img, ok := p.transform(data)
	if !ok {
		return
	}
	s := detailState[Image](movie)
	s.Image = &img
	p.view.DisplayDetail(s)
}

func (p *DetailPresenter[Image]) DidFinishLoadingDetailWithError(error) {
	p.view.DisplayDetail(DetailViewState[Image]{ShouldRetry: true})
}

func detailState[Image any](movie core.Movie) DetailViewState[Image] {
	return DetailViewState[Image]{
		Title:    movie.Title,
		Meta:     FormatMeta(movie.Runtime, movie.Genres),
		Overview: movie.Overview,
	}
}

// MovieImagePresenter maps row image load events to view-states.
type MovieImagePresenter[Image any] struct {
	view      MovieImageView[Image]
	transform func([]byte) (Image, bool)
}

// NewMovieImagePresenter creates a MovieImagePresenter.
func NewMovieImagePresenter[Image any](view MovieImageView[Image], transform func([]byte) (Image, bool)) *MovieImagePresenter[Image] {
	return &MovieImagePresenter[Image]{view: view, transform: transform}
}

func (p *MovieImagePresenter[Image]) DidStartLoading() {
	p.view.DisplayImage(MovieImageViewState[Image]{IsLoading: true})
}

// DidFinishLoading shows the image, or the retry state when the data cannot
// be turned into one.
func (p *MovieImagePresenter[Image]) DidFinishLoading(data []byte) {
	img, ok := p.transform(data)
	if !ok {
		p.DidFinishLoadingWithError(nil)
		return
	}
	p.view.DisplayImage(MovieImageViewState[Image]{Image: &img})
}

func (p *MovieImagePresenter[Image]) DidFinishLoadingWithError(error) {
	p.view.DisplayImage(MovieImageViewState[Image]{ShouldRetry: true})
}

// FormatMeta renders "2h 19m | Drama, Crime". Missing parts are omitted.
func FormatMeta(runtime *int, genres []string) string {
	var parts []string
	if runtime != nil && *runtime > 0 {
		parts = append(parts, formatRuntime(*runtime))
	}
	if len(genres) > 0 {
		names := make([]string, len(genres))
		for i, g := range genres {
			names[i] = capitalize(g)
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}

func formatRuntime(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return strconv.Itoa(m) + "m"
	case m == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
