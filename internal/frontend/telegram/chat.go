package telegram

import (
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/dispatch"
	"github.com/vadimtrunov/showtime/internal/presentation"
)

const (
	loadListFailedMsg   = "Could not load popular movies."
	loadMovieFailedMsg  = "Could not load this movie."
	emptyListMsg        = "No popular movies right now."
	callbackPopular     = "popular"
	backdropNamePrefix  = "backdrop."
	defaultBackdropName = "backdrop"
)

// chatSession is the presentation state of one chat. Every method except
// close must run on exec.
type chatSession struct {
	chatID   int64
	exec     dispatch.Executor
	stop     func()
	out      *messenger
	details  core.MovieDetailLoader
	images   core.ImageDataLoader
	imageURL func(path string) string

	collection *presentation.Collection
	detail     *presentation.DetailAdapter[tgbotapi.FileBytes]
}

// run schedules fn on the session's execution context.
func (s *chatSession) run(fn func()) {
	s.exec.Execute(fn)
}

func (s *chatSession) showPopular() {
	s.collection.Paging.Refresh()
}

// showMore loads the next page, or the first one when nothing has loaded.
func (s *chatSession) showMore() {
	if _, ok := s.collection.Paging.State(); !ok {
		s.collection.Paging.Refresh()
		return
	}
	s.collection.Paging.LoadNextPage()
}

func (s *chatSession) showMovie(id int) {
	if s.detail != nil {
		s.detail.Close()
	}
	view := &detailView{out: s.out, chatID: s.chatID, movieID: id}
	presenter := presentation.NewDetailPresenter[tgbotapi.FileBytes](view, decodePhoto)
	s.detail = presentation.NewDetailAdapter(id, s.details, s.images, s.imageURL, presenter)
	s.detail.RequestDetail()
}

// close cancels outstanding loads and stops the executor.
func (s *chatSession) close() {
	s.run(func() {
		s.collection.Close()
		if s.detail != nil {
			s.detail.Close()
		}
	})
	s.stop()
}

// listView renders the popular list as one message per page.
type listView struct {
	out     *messenger
	chatID  int64
	sent    int
	pending []core.Movie
	loaded  bool
}

var (
	_ presentation.CollectionView = (*listView)(nil)
	_ presentation.LoadingView    = (*listView)(nil)
	_ presentation.PagingView     = (*listView)(nil)
)

func (v *listView) DisplayCollection(s presentation.CollectionViewState) {
	v.loaded = true
	if s.Page <= 1 {
		v.sent = 0
	}
	if v.sent > len(s.Movies) {
		v.sent = 0
	}
	v.pending = s.Movies[v.sent:]
}

// DisplayLoading shows a typing indicator. A load that ends without a
// collection update has failed.
func (v *listView) DisplayLoading(s presentation.LoadingViewState) {
	if s.IsLoading {
		v.loaded = false
		v.out.typing(v.chatID)
		return
	}
	if v.loaded {
		return
	}
	retry := callbackMore
	if v.sent == 0 {
		retry = callbackPopular
	}
	v.out.sendWithKeyboard(v.chatID, loadListFailedMsg, retryKeyboard(retry))
}

// DisplayPaging sends the movies received since the last page.
func (v *listView) DisplayPaging(s presentation.PagingViewState) {
	if len(v.pending) == 0 {
		if v.sent == 0 {
			v.out.sendText(v.chatID, emptyListMsg)
		}
		return
	}
	first := v.sent + 1
	text := FormatMovieList(s.PageNumber, first, v.pending)
	v.out.sendMarkdown(v.chatID, text, movieKeyboard(first, v.pending, !s.IsLast))
	v.sent += len(v.pending)
	v.pending = nil
}

// detailView renders one movie.
type detailView struct {
	out     *messenger
	chatID  int64
	movieID int
}

var _ presentation.DetailView[tgbotapi.FileBytes] = (*detailView)(nil)

func (v *detailView) DisplayDetail(s presentation.DetailViewState[tgbotapi.FileBytes]) {
	switch {
	case s.IsLoading:
		v.out.typing(v.chatID)
	case s.ShouldRetry:
		v.out.sendWithKeyboard(v.chatID, loadMovieFailedMsg, retryKeyboard(callbackMovie+strconv.Itoa(v.movieID)))
	case s.Image != nil:
		v.out.sendPhoto(v.chatID, *s.Image, s.Title)
	default:
		v.out.sendMarkdown(v.chatID, FormatDetail(s), nil)
	}
}

// decodePhoto accepts data Telegram can show as a photo.
func decodePhoto(data []byte) (tgbotapi.FileBytes, bool) {
	if len(data) == 0 {
		return tgbotapi.FileBytes{}, false
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return tgbotapi.FileBytes{}, false
	}
	name := defaultBackdropName
	if ext := strings.TrimPrefix(ct, "image/"); ext != "" {
		name = backdropNamePrefix + ext
	}
	return tgbotapi.FileBytes{Name: name, Bytes: data}, true
}
