package presentation

import (
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

// loaderSpy records loads and lets tests complete them by index.
type loaderSpy[Req, Res any] struct {
	requests    []Req
	completions []func(Res, error)
	cancelled   []int
}

func (s *loaderSpy[Req, Res]) Load(req Req, completion func(Res, error)) task.Task {
	i := len(s.requests)
	s.requests = append(s.requests, req)
	s.completions = append(s.completions, completion)
	return task.Func(func() { s.cancelled = append(s.cancelled, i) })
}

func (s *loaderSpy[Req, Res]) complete(i int, v Res) {
	s.completions[i](v, nil)
}

func (s *loaderSpy[Req, Res]) fail(i int, err error) {
	var zero Res
	s.completions[i](zero, err)
}

// viewSpy records every view-state it is asked to display, in order.
type viewSpy struct {
	events []any
}

func (v *viewSpy) DisplayCollection(s CollectionViewState) { v.events = append(v.events, s) }
func (v *viewSpy) DisplayLoading(s LoadingViewState) { v.events = append(v.events, s) }
func (v *viewSpy) DisplayPaging(s PagingViewState) { v.events = append(v.events, s) }
func (v *viewSpy) DisplayDetail(s DetailViewState[string]) { v.events = append(v.events, s) }
func (v *viewSpy) DisplayImage(s MovieImageViewState[string]) { v.events = append(v.events, s) }

// stringImage accepts any non-empty data as an image.
func stringImage(data []byte) (string, bool) {
	if len(data) == 0 || string(data) == "invalid" {
		return "", false
	}
	return string(data), true
}

func movie(id int, title string) core.Movie {
	return core.Movie{ID: id, Title: title, PosterPath: "/poster-" + title + ".jpg"}
}

func page(n, total int, items ...core.Movie) core.PopularCollection {
	if items == nil {
		items = []core.Movie{}
	}
	return core.PopularCollection{Items: items, Page: n, TotalPages: total}
}

func imageURL(path string) string {
	return "https://image.example.com" + path
}
