package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/dispatch"
	"github.com/vadimtrunov/showtime/internal/presentation"
)

// Config holds the loaders the browser reads from.
type Config struct {
	Popular  core.PopularMoviesLoader
	Details  core.MovieDetailLoader
	Images   core.ImageDataLoader
	ImageURL func(path string) string
	Language string
	Logger   *slog.Logger
}

type screen int

const (
	screenList screen = iota
	screenDetail
)

// refreshMsg asks the model to load the first page.
type refreshMsg struct{}

// Model is the Bubble Tea model of the browser. It is the view of every
// presentation adapter it owns, and all adapter calls happen in Update.
type Model struct {
	exec       *Executor
	collection *presentation.Collection
	details    core.MovieDetailLoader
	images     core.ImageDataLoader
	imageURL   func(path string) string
	logger     *slog.Logger

	spinner  spinner.Model
	viewport viewport.Model
	ticking  bool
	width    int
	height   int
	ready    bool
	screen   screen

	// list
	movies  []core.Movie
	loading bool
	paging  *presentation.PagingViewState
	cursor  int
	offset  int

	// selected row poster
	row      *presentation.MovieImageAdapter[Poster]
	rowImage presentation.MovieImageViewState[Poster]

	// detail
	detail      *presentation.DetailAdapter[Poster]
	detailMovie core.Movie
	detailState presentation.DetailViewState[Poster]
}

var (
	_ presentation.CollectionView         = (*Model)(nil)
	_ presentation.LoadingView            = (*Model)(nil)
	_ presentation.PagingView             = (*Model)(nil)
	_ presentation.DetailView[Poster]     = (*Model)(nil)
	_ presentation.MovieImageView[Poster] = (*Model)(nil)
)

// New creates a browser model. Loader completions are routed through the
// model's executor so they run inside Update.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	imageURL := cfg.ImageURL
	if imageURL == nil {
		imageURL = func(path string) string { return path }
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	exec := NewExecutor()
	m := &Model{
		exec:     exec,
		details:  dispatch.NewLoader(cfg.Details, exec),
		images:   dispatch.NewLoader(cfg.Images, exec),
		imageURL: imageURL,
		logger:   logger,
		spinner:  s,
	}
	m.collection = presentation.NewCollection(dispatch.NewLoader(cfg.Popular, exec), cfg.Language, presentation.CollectionViews{
		Collection: m,
		Loading:    m,
		Paging:     m,
	})
	return m
}

// Init starts the executor pump and loads the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.exec.Wait(), func() tea.Msg { return refreshMsg{} })
}

// Update handles incoming messages and user input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case refreshMsg:
		m.collection.Paging.Refresh()

	case workMsg:
		for _, fn := range msg {
			fn()
		}
		cmds = append(cmds, m.exec.Wait())

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, cmd
		}
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		if !m.busy() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.busy() && !m.ticking {
		m.ticking = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// Close cancels outstanding loads and stops the executor.
func (m *Model) Close() {
	m.closeDetail()
	if m.row != nil {
		m.row.CancelImageRequest()
		m.row = nil
	}
	m.collection.Close()
	m.exec.Close()
}

func (m *Model) busy() bool {
	if m.screen == screenDetail {
		return m.detailState.IsLoading
	}
	return m.loading || m.rowImage.IsLoading
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	vpHeight := max(m.height-4, 1)
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.viewport.SetContent(m.renderDetailBody())
	m.scrollToCursor()
}

// handleKey dispatches key events. quit reports that cmd ends the program.
func (m *Model) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, quit bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.screen == screenDetail {
		return m.handleDetailKey(msg), false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "enter":
		if m.cursor < len(m.movies) {
			m.openDetail(m.movies[m.cursor])
		}
	case "r":
		m.collection.Paging.Refresh()
	case "n":
		m.collection.Paging.LoadNextPage()
	case "i":
		if m.row != nil && m.rowImage.ShouldRetry {
			m.row.RequestImage()
		}
	}
	return nil, false
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.closeDetail()
		m.screen = screenList
		return nil
	case "r":
		if m.detailState.ShouldRetry {
			m.detail.RequestDetail()
		}
		return nil
	}
	if !m.ready {
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) moveCursor(delta int) {
	if len(m.movies) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.movies)-1)
	m.scrollToCursor()
	m.selectRow()
	if m.cursor == len(m.movies)-1 {
		m.collection.Paging.LoadNextPage()
	}
}

func (m *Model) scrollToCursor() {
	rows := m.visibleRows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// selectRow loads the poster of the highlighted movie.
func (m *Model) selectRow() {
	if m.cursor >= len(m.movies) {
		return
	}
	movie := m.movies[m.cursor]
	if m.row != nil {
		if m.row.Movie().ID == movie.ID {
			return
		}
		m.row.CancelImageRequest()
	}
	m.rowImage = presentation.MovieImageViewState[Poster]{}
	presenter := presentation.NewMovieImagePresenter[Poster](m, DecodePoster)
	m.row = presentation.NewMovieImageAdapter(movie, m.images, m.imageURL, presenter)
	m.row.RequestImage()
}

func (m *Model) openDetail(movie core.Movie) {
	m.closeDetail()
	m.screen = screenDetail
	m.detailMovie = movie
	m.detailState = presentation.DetailViewState[Poster]{Title: movie.Title}
	presenter := presentation.NewDetailPresenter[Poster](m, DecodePoster)
	m.detail = presentation.NewDetailAdapter(movie.ID, m.details, m.images, m.imageURL, presenter)
	m.logger.Debug("opening movie", slog.Int("id", movie.ID))
	m.detail.RequestDetail()
}

func (m *Model) closeDetail() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.detailState = presentation.DetailViewState[Poster]{}
}

// DisplayCollection implements presentation.CollectionView.
func (m *Model) DisplayCollection(s presentation.CollectionViewState) {
	m.movies = s.Movies
	if s.Page <= 1 {
		m.cursor, m.offset = 0, 0
	}
	if m.cursor >= len(m.movies) {
		m.cursor = max(len(m.movies)-1, 0)
	}
	m.selectRow()
}

// DisplayLoading implements presentation.LoadingView.
func (m *Model) DisplayLoading(s presentation.LoadingViewState) {
	m.loading = s.IsLoading
}

// DisplayPaging implements presentation.PagingView.
func (m *Model) DisplayPaging(s presentation.PagingViewState) {
	m.paging = &s
}

// DisplayImage implements presentation.MovieImageView.
func (m *Model) DisplayImage(s presentation.MovieImageViewState[Poster]) {
	m.rowImage = s
}

// DisplayDetail implements presentation.DetailView.
func (m *Model) DisplayDetail(s presentation.DetailViewState[Poster]) {
	m.detailState = s
	if m.ready {
		m.viewport.SetContent(m.renderDetailBody())
		m.viewport.GotoTop()
	}
}

// Browser runs the model as a core.Frontend.
type Browser struct {
	model *Model
	opts  []tea.ProgramOption
}

var _ core.Frontend = (*Browser)(nil)

// NewBrowser wraps model. opts are passed to tea.NewProgram.
func NewBrowser(model *Model, opts ...tea.ProgramOption) *Browser {
	return &Browser{model: model, opts: opts}
}

// Name implements core.Frontend.
func (b *Browser) Name() string { return "tui" }

// Start runs the program until the user quits or ctx is canceled.
func (b *Browser) Start(ctx context.Context) error {
	defer b.model.Close()

	p := tea.NewProgram(b.model, b.opts...)

	// Bridge context cancellation into the Bubble Tea event loop.
	stop := context.AfterFunc(ctx, func() { p.Send(tea.Quit()) })
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
