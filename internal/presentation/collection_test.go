package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

type popularLoaderSpy = loaderSpy[core.PopularMoviesRequest, core.PopularCollection]

func makeCollectionSUT(t *testing.T) (*Collection, *popularLoaderSpy, *viewSpy) {
	t.Helper()
	loader := &popularLoaderSpy{}
	view := &viewSpy{}
	sut := NewCollection(loader, "en-US", CollectionViews{Collection: view, Loading: view, Paging: view})
	return sut, loader, view
}

func TestCollection_DoesNotLoadOnInit(t *testing.T) {
	t.Parallel()

	_, loader, view := makeCollectionSUT(t)
	assert.Empty(t, loader.requests)
	assert.Empty(t, view.events)
}

func TestCollection_RefreshRequestsFirstPage(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	sut.Paging.Refresh()

	assert.Equal(t, []core.PopularMoviesRequest{{Page: 1, Language: "en-US"}}, loader.requests)
	assert.Equal(t, []any{LoadingViewState{IsLoading: true}}, view.events)
	assert.True(t, sut.Adapter.IsLoading())
}

func TestCollection_FirstPageSuccessRendersInOrder(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	a, b := movie(1, "a"), movie(2, "b")

	sut.Paging.Refresh()
	loader.complete(0, page(1, 3, a, b))

	assert.Equal(t, []any{
		LoadingViewState{IsLoading: true},
		CollectionViewState{Movies: []core.Movie{a, b}, Page: 1},
		LoadingViewState{IsLoading: false},
		PagingViewState{IsLast: false, PageNumber: 1},
	}, view.events)
	assert.False(t, sut.Adapter.IsLoading())

	state, ok := sut.Paging.State()
	require.True(t, ok)
	assert.Equal(t, PagingViewState{IsLast: false, PageNumber: 1}, state)
}

func TestCollection_NextPageAppends(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	a, b, c := movie(1, "a"), movie(2, "b"), movie(3, "c")

	sut.Paging.Refresh()
	loader.complete(0, page(1, 2, a, b))
	sut.Paging.LoadNextPage()

	require.Len(t, loader.requests, 2)
	assert.Equal(t, 2, loader.requests[1].Page)

	loader.complete(1, page(2, 2, c))
	assert.Equal(t, CollectionViewState{Movies: []core.Movie{a, b, c}, Page: 2}, view.events[len(view.events)-3])
	assert.Equal(t, PagingViewState{IsLast: true, PageNumber: 2}, view.events[len(view.events)-1])
	assert.Equal(t, []core.Movie{a, b, c}, sut.Adapter.Movies())
}

func TestCollection_DuplicateNextPageIntentsIssueOneRequest(t *testing.T) {
	t.Parallel()

	sut, loader, _ := makeCollectionSUT(t)

	sut.Paging.Refresh()
	loader.complete(0, page(1, 5, movie(1, "a")))

	sut.Paging.LoadNextPage()
	sut.Paging.LoadNextPage()
	sut.Adapter.RequestPage(2)

	assert.Len(t, loader.requests, 2)
}

func TestCollection_FailureOnlyStopsLoading(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	a := movie(1, "a")

	sut.Paging.Refresh()
	loader.complete(0, page(1, 2, a))
	sut.Paging.LoadNextPage()
	before := len(view.events)

	loader.fail(1, core.ErrConnectivity)

	assert.Equal(t, []any{LoadingViewState{IsLoading: false}}, view.events[before:])
	assert.Equal(t, []core.Movie{a}, sut.Adapter.Movies())

	state, ok := sut.Paging.State()
	require.True(t, ok)
	assert.Equal(t, 1, state.PageNumber, "failed page must not move the cursor")

	sut.Paging.LoadNextPage()
	require.Len(t, loader.requests, 3)
	assert.Equal(t, 2, loader.requests[2].Page, "retry requests the same page")
}

func TestCollection_RefreshReplacesList(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	a, b := movie(1, "a"), movie(2, "b")

	sut.Paging.Refresh()
	loader.complete(0, page(1, 2, a))

	sut.Paging.Refresh()
	_, ok := sut.Paging.State()
	assert.False(t, ok, "refresh clears the cursor")

	loader.complete(1, page(1, 2, b))
	assert.Equal(t, CollectionViewState{Movies: []core.Movie{b}, Page: 1}, view.events[len(view.events)-3])
}

func TestCollection_RefreshWhileLoadingCancelsOutstandingLoad(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	sut.Paging.Refresh()
	loader.complete(0, page(1, 3, movie(1, "a")))
	sut.Paging.LoadNextPage()

	sut.Paging.Refresh()
	require.Len(t, loader.requests, 3)
	assert.Equal(t, []int{1}, loader.cancelled)

	before := len(view.events)
	loader.complete(1, page(2, 3, movie(2, "stale")))
	assert.Len(t, view.events, before, "stale completion ignored")

	loader.complete(2, page(1, 3, movie(3, "fresh")))
	assert.Equal(t, []core.Movie{movie(3, "fresh")}, sut.Adapter.Movies())
}

func TestCollection_LoadNextPageIsNoopBeforeFirstPageAndOnLastPage(t *testing.T) {
	t.Parallel()

	sut, loader, _ := makeCollectionSUT(t)
	sut.Paging.LoadNextPage()
	assert.Empty(t, loader.requests)

	sut.Paging.Refresh()
	loader.complete(0, page(1, 1))
	sut.Paging.LoadNextPage()
	assert.Len(t, loader.requests, 1)
}

func TestCollection_CloseCancelsAndIgnoresRequests(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	sut.Paging.Refresh()
	sut.Close()

	assert.Equal(t, []int{0}, loader.cancelled)
	before := len(view.events)
	loader.complete(0, page(1, 1, movie(1, "a")))
	sut.Paging.Refresh()

	assert.Len(t, view.events, before)
	assert.Len(t, loader.requests, 1)
}

func TestCollection_SynchronousCompletion(t *testing.T) {
	t.Parallel()

	view := &viewSpy{}
	loader := core.LoaderFunc[core.PopularMoviesRequest, core.PopularCollection](
		func(req core.PopularMoviesRequest, completion func(core.PopularCollection, error)) task.Task {
			completion(page(req.Page, 2, movie(req.Page, "m")), nil)
			return task.Noop
		})
	sut := NewCollection(loader, "", CollectionViews{Collection: view, Loading: view})

	sut.Paging.Refresh()
	sut.Paging.LoadNextPage()
	sut.Paging.LoadNextPage()

	assert.Len(t, sut.Adapter.Movies(), 2)
	assert.False(t, sut.Adapter.IsLoading())
}

func TestCollectionViewStateIsACopy(t *testing.T) {
	t.Parallel()

	sut, loader, view := makeCollectionSUT(t)
	sut.Paging.Refresh()
	loader.complete(0, page(1, 2, movie(1, "a")))

	rendered := view.events[1].(CollectionViewState)
	rendered.Movies[0].Title = "mutated"
	assert.Equal(t, "a", sut.Adapter.Movies()[0].Title)
}
