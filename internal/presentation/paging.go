package presentation

import "github.com/vadimtrunov/showtime/internal/core"

// PagingController tracks the paging cursor. Its state changes only through
// DisplayPaging, so it never diverges from what the adapter delivered.
type PagingController struct {
	request func(page int)
	state   *PagingViewState
}

var _ PagingView = (*PagingController)(nil)

// NewPagingController creates a controller that requests pages via request.
func NewPagingController(request func(page int)) *PagingController {
	return &PagingController{request: request}
}

// Refresh forgets the cursor and requests page 1.
func (p *PagingController) Refresh() {
	p.state = nil
	p.request(1)
}

// LoadNextPage requests the page after the last one received. It does
// nothing before the first page arrives or after the last page.
func (p *PagingController) LoadNextPage() {
	if p.state == nil {
		return
	}
	if next, ok := p.state.NextPage(); ok {
		p.request(next)
	}
}

// DisplayPaging implements PagingView.
func (p *PagingController) DisplayPaging(s PagingViewState) {
	p.state = &s
}

// State returns the last paging state, or false when no page has loaded.
func (p *PagingController) State() (PagingViewState, bool) {
	if p.state == nil {
		return PagingViewState{}, false
	}
	return *p.state, true
}

// Collection wires a CollectionAdapter and its PagingController.
type Collection struct {
	Adapter *CollectionAdapter
	Paging  *PagingController
}

// CollectionViews are the views a Collection renders into. Paging is
// optional; the controller always receives paging updates first.
type CollectionViews struct {
	Collection CollectionView
	Loading    LoadingView
	Paging     PagingView
}

// NewCollection builds the popular list presentation stack.
func NewCollection(loader core.PopularMoviesLoader, language string, views CollectionViews) *Collection {
	c := &Collection{}
	c.Paging = NewPagingController(func(page int) { c.Adapter.RequestPage(page) })
	presenter := NewCollectionPresenter(views.Collection, views.Loading, pagingViews{c.Paging, views.Paging})
	c.Adapter = NewCollectionAdapter(loader, language, presenter)
	return c
}

// Close cancels outstanding work.
func (c *Collection) Close() {
	c.Adapter.Close()
}
