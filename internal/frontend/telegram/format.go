package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/presentation"
)

const (
	callbackMovie = "movie:" // prefix for movie selection callback data
	callbackMore  = "more"   // next page callback data

	maxButtonLabel = 30 // max characters in inline keyboard button label
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// FormatMovieList renders one page of the popular list. first is the
// position of movies[0] in the whole list, starting at 1.
func FormatMovieList(page int, first int, movies []core.Movie) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(fmt.Sprintf("%s · page %d", presentation.CollectionTitle, page)))
	for i, m := range movies {
		sb.WriteString("\n")
		sb.WriteString(EscapeMdV2(fmt.Sprintf("%d. %s", first+i, m.Title)))
	}
	return sb.String()
}

// FormatDetail renders the detail screen as a MarkdownV2 message.
func FormatDetail[Image any](s presentation.DetailViewState[Image]) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(s.Title))
	if s.Meta != "" {
		sb.WriteString("\n")
		sb.WriteString(FormatItalic(s.Meta))
	}
	if s.Overview != "" {
		sb.WriteString("\n\n")
		sb.WriteString(EscapeMdV2(s.Overview))
	}
	return sb.String()
}

// movieKeyboard builds one button per movie and, unless this is the last
// page, a button for the next page.
func movieKeyboard(first int, movies []core.Movie, hasMore bool) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(movies)+1)
	for i, m := range movies {
		label := fmt.Sprintf("%d. %s", first+i, truncate(m.Title, maxButtonLabel))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackMovie+strconv.Itoa(m.ID)),
		))
	}
	if hasMore {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("More ▸", callbackMore),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// retryKeyboard offers a single retry button carrying data.
func retryKeyboard(data string) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Retry", data),
	))
	return &kb
}

// parseMovieID reads a positive TMDb ID.
func parseMovieID(s string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
