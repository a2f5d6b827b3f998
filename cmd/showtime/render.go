package main

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/frontend/tui"
	"github.com/vadimtrunov/showtime/internal/presentation"
)

// renderPopular formats one page of the popular list. posters may be nil.
func renderPopular(c core.PopularCollection, posters map[int]tui.Poster) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(fmt.Sprintf("%s · page %d of %d", presentation.CollectionTitle, c.Page, c.TotalPages)))
	sb.WriteString("\n")

	if len(c.Items) == 0 {
		sb.WriteString(styleDim.Render("No movies on this page."))
		sb.WriteString("\n")
	}
	for i, m := range c.Items {
		fmt.Fprintf(&sb, "%3d. %s %s", i+1, m.Title, styleDim.Render(fmt.Sprintf("#%d", m.ID)))
		if p, ok := posters[m.ID]; ok {
			sb.WriteString(" ")
			sb.WriteString(styleInfo.Render("[" + p.String() + "]"))
		}
		sb.WriteString("\n")
	}

	if !c.IsLast() {
		sb.WriteString("\n")
		sb.WriteString(styleDim.Render(fmt.Sprintf("Next: showtime popular --page %d", c.Page+1)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMovie formats the detail of one movie.
func renderMovie(m core.Movie, imageURL func(path string) string) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(m.Title))
	sb.WriteString("\n")

	if meta := presentation.FormatMeta(m.Runtime, m.Genres); meta != "" {
		sb.WriteString(styleInfo.Render(meta))
		sb.WriteString("\n")
	}
	if m.Rating != nil {
		fmt.Fprintf(&sb, "Rating: %.1f/10\n", *m.Rating)
	}
	if m.Overview != "" {
		sb.WriteString("\n")
		sb.WriteString(m.Overview)
		sb.WriteString("\n")
	}

	var links []string
	if u := imageURL(m.PosterPath); u != "" {
		links = append(links, "Poster:   "+u)
	}
	if u := imageURL(m.BackdropPath); u != "" {
		links = append(links, "Backdrop: "+u)
	}
	if len(links) > 0 {
		sb.WriteString("\n")
		for _, l := range links {
			sb.WriteString(styleDim.Render(l))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
