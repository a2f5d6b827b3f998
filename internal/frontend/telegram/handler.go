package telegram

import (
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	welcomeMsg      = "Welcome to ShowTime! Use /popular to browse popular movies or /movie <id> to open one."
	movieUsageMsg   = "Usage: /movie <tmdb id>, for example /movie 550"
	unknownMsg      = "Unknown command. Try /popular or /movie <id>."
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.out.sendText(chatID, unauthorizedMsg)
		return
	}

	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}
	// Commands in groups carry the bot name: /popular@showtime_bot.
	command, _, _ := strings.Cut(fields[0], "@")

	switch command {
	case "/start", "/help":
		b.out.sendText(chatID, welcomeMsg)
	case "/popular":
		s := b.session(chatID)
		s.run(s.showPopular)
	case "/movie":
		if len(fields) < 2 {
			b.out.sendText(chatID, movieUsageMsg)
			return
		}
		id, ok := parseMovieID(fields[1])
		if !ok {
			b.out.sendText(chatID, movieUsageMsg)
			return
		}
		s := b.session(chatID)
		s.run(func() { s.showMovie(id) })
	default:
		b.out.sendText(chatID, unknownMsg)
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	b.out.ack(cq.ID)

	if !b.sessions.isAllowed(userID) {
		return
	}

	switch {
	case cq.Data == callbackMore:
		s := b.session(chatID)
		s.run(s.showMore)
	case cq.Data == callbackPopular:
		s := b.session(chatID)
		s.run(s.showPopular)
	case strings.HasPrefix(cq.Data, callbackMovie):
		id, ok := parseMovieID(strings.TrimPrefix(cq.Data, callbackMovie))
		if !ok {
			return
		}
		s := b.session(chatID)
		s.run(func() { s.showMovie(id) })
	}
}

// messenger sends messages and logs failures. Sends are best-effort.
type messenger struct {
	sender Sender
	logger *slog.Logger
}

// sendText sends a plain text message (no parse mode).
func (m *messenger) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := m.sender.Send(msg); err != nil {
		m.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendMarkdown sends MarkdownV2 text with an optional keyboard, falling back
// to plain text when Telegram rejects the markup.
func (m *messenger) sendMarkdown(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := m.sender.Send(msg); err != nil {
		m.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		m.sendWithKeyboard(chatID, unescapeMdV2(text), kb)
	}
}

// sendWithKeyboard sends a plain-text message with inline keyboard.
func (m *messenger) sendWithKeyboard(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := m.sender.Send(msg); err != nil {
		m.logger.Error("failed to send message with keyboard",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendPhoto uploads an image with a caption.
func (m *messenger) sendPhoto(chatID int64, file tgbotapi.FileBytes, caption string) {
	photo := tgbotapi.NewPhoto(chatID, file)
	photo.Caption = caption
	if _, err := m.sender.Send(photo); err != nil {
		m.logger.Debug("failed to send photo",
			slog.String("name", file.Name),
			slog.String("error", err.Error()),
		)
	}
}

// typing shows the typing indicator.
func (m *messenger) typing(chatID int64) {
	//nolint:errcheck // best-effort typing indicator
	m.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// ack answers a callback query so the client stops its spinner.
func (m *messenger) ack(callbackID string) {
	//nolint:errcheck // best-effort ack
	m.sender.Request(tgbotapi.NewCallback(callbackID, ""))
}

// unescapeMdV2 strips MarkdownV2 escapes and emphasis for the plain fallback.
func unescapeMdV2(s string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*' || r == '_':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
