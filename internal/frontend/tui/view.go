package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/showtime/internal/presentation"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true) // cyan bold
	styleInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // gray
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
)

const (
	listHelp   = "j/k move • enter open • n next page • r refresh • q quit"
	detailHelp = "↑/↓ scroll • r retry • esc back • ctrl+c quit"
)

// View renders the current screen.
func (m *Model) View() string {
	if m.screen == screenDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

// visibleRows is the number of list rows that fit, or 0 when unknown.
func (m *Model) visibleRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-5, 1)
}

func (m *Model) viewList() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render(presentation.CollectionTitle))
	if m.paging != nil {
		sb.WriteString(styleDim.Render(fmt.Sprintf("  page %d", m.paging.PageNumber)))
	}
	sb.WriteString("\n\n")

	if len(m.movies) == 0 && !m.loading {
		sb.WriteString(styleDim.Render("No movies loaded. Press r to retry."))
		sb.WriteString("\n")
	}

	end := len(m.movies)
	if rows := m.visibleRows(); rows > 0 {
		end = min(m.offset+rows, len(m.movies))
	}
	for i := m.offset; i < end; i++ {
		line := fmt.Sprintf("%3d. %s", i+1, m.movies[i].Title)
		if i == m.cursor {
			sb.WriteString(styleSelected.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render(listHelp))
	return sb.String()
}

func (m *Model) statusLine() string {
	switch {
	case m.loading:
		return m.spinner.View() + styleDim.Render(" Loading movies...")
	case m.paging != nil && m.paging.IsLast:
		return styleDim.Render("End of list")
	}
	return m.posterLine()
}

func (m *Model) posterLine() string {
	switch {
	case m.rowImage.IsLoading:
		return m.spinner.View() + styleDim.Render(" Loading poster...")
	case m.rowImage.ShouldRetry:
		return styleError.Render("Poster unavailable. Press i to retry.")
	case m.rowImage.Image != nil:
		return styleInfo.Render("Poster " + m.rowImage.Image.String())
	}
	return ""
}

func (m *Model) viewDetail() string {
	title := m.detailState.Title
	if title == "" {
		title = m.detailMovie.Title
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render(title))
	sb.WriteString("\n")
	if m.ready && !m.detailState.IsLoading {
		sb.WriteString(m.viewport.View())
	} else {
		sb.WriteString(m.renderDetailBody())
	}
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render(detailHelp))
	return sb.String()
}

func (m *Model) renderDetailBody() string {
	s := m.detailState
	switch {
	case s.IsLoading:
		return m.spinner.View() + styleDim.Render(" Loading details...")
	case s.ShouldRetry:
		return styleError.Render("Could not load this movie. Press r to retry.")
	}

	var sb strings.Builder
	if s.Meta != "" {
		sb.WriteString(styleInfo.Render(s.Meta))
		sb.WriteString("\n\n")
	}
	overview := s.Overview
	if m.width > 0 {
		overview = lipgloss.NewStyle().Width(m.width).Render(overview)
	}
	sb.WriteString(overview)
	if s.Image != nil {
		sb.WriteString("\n\n")
		sb.WriteString(styleDim.Render("Backdrop " + s.Image.String()))
	}
	return sb.String()
}
