// Package telegram is the Telegram frontend: a popular movies list with
// inline buttons and per-movie detail messages.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/dispatch"
	"github.com/vadimtrunov/showtime/internal/presentation"
)

// Sender is the part of the Telegram API the bot writes to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Deps are the loaders every chat session reads from.
type Deps struct {
	Popular  core.PopularMoviesLoader
	Details  core.MovieDetailLoader
	Images   core.ImageDataLoader
	ImageURL func(path string) string
	Language string
}

// Bot is the Telegram frontend for ShowTime.
// It implements the core.Frontend interface.
type Bot struct {
	api         *tgbotapi.BotAPI
	out         *messenger
	sessions    *sessionManager
	deps        Deps
	newExecutor func() (dispatch.Executor, func())
	logger      *slog.Logger
}

// compile-time check.
var _ core.Frontend = (*Bot)(nil)

// New creates a new Telegram Bot.
func New(token string, allowedUserIDs []int64, deps Deps, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := newBot(api, allowedUserIDs, deps, logger)
	b.api = api
	return b, nil
}

// newBot creates a bot that writes to sender. Each chat gets a serial queue.
func newBot(sender Sender, allowedUserIDs []int64, deps Deps, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.ImageURL == nil {
		deps.ImageURL = func(path string) string { return path }
	}
	return &Bot{
		out:      &messenger{sender: sender, logger: logger},
		sessions: newSessionManager(allowedUserIDs),
		deps:     deps,
		newExecutor: func() (dispatch.Executor, func()) {
			q := dispatch.NewQueue(logger)
			return q, q.Close
		},
		logger: logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("telegram bot has no API connection")
	}
	defer b.sessions.closeAll()

	b.logger.Info("telegram bot started",
		slog.String("username", b.api.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update. Handlers only parse
// and schedule work on the chat's session, so they never block polling.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

// session returns the chat's session, creating it on first use.
func (b *Bot) session(chatID int64) *chatSession {
	return b.sessions.getOrCreate(chatID, b.newSession)
}

func (b *Bot) newSession(chatID int64) *chatSession {
	exec, stop := b.newExecutor()
	s := &chatSession{
		chatID:   chatID,
		exec:     exec,
		stop:     stop,
		out:      b.out,
		details:  dispatch.NewLoader(b.deps.Details, exec),
		images:   dispatch.NewLoader(b.deps.Images, exec),
		imageURL: b.deps.ImageURL,
	}
	list := &listView{out: b.out, chatID: chatID}
	s.collection = presentation.NewCollection(dispatch.NewLoader(b.deps.Popular, exec), b.deps.Language, presentation.CollectionViews{
		Collection: list,
		Loading:    list,
		Paging:     list,
	})
	b.logger.Debug("chat session created", slog.Int64("chat_id", chatID))
	return s
}
