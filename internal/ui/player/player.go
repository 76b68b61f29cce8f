// Package player renders the rotation page: three slides with the current
// station in the center and its neighbours on the sides.
package player

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// State holds everything needed to render the rotation page.
type State struct {
	Current    catalog.Station
	Prev       catalog.Station
	Next       catalog.Station
	Mounted    bool // rotation has at least one station
	Single     bool // exactly one station, no side slides
	Status     playback.Status
	Moving     bool
	Preview    catalog.Station
	Previewing bool
	ErrorMsg   string
}

const slideHeight = 6

// Render returns the rotation page for the given width.
func Render(s State, width int) string {
	t := styles.T()
	st := t.S()

	if !s.Mounted {
		empty := st.Title.Render("No favorite stations yet.") + "\n" +
			st.Subtle.Render("Mark stations with ♥ in the browser to build your rotation.")
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(empty)
	}

	sideWidth := width / 4
	centerWidth := width - 2*sideWidth - 6
	if centerWidth < 20 {
		centerWidth = max(width-4, 20)
		sideWidth = 0
	}

	center := renderSlide(s.Current, centerWidth, true, s.Status, s.Moving)

	var row string
	if sideWidth >= 14 && !s.Single {
		left := renderSlide(s.Prev, sideWidth, false, playback.Idle, false)
		right := renderSlide(s.Next, sideWidth, false, playback.Idle, false)
		row = lipgloss.JoinHorizontal(lipgloss.Center, left, " ", center, " ", right)
	} else {
		row = center
	}

	lines := []string{row, renderStatusLine(s, width)}
	if s.ErrorMsg != "" {
		lines = append(lines, st.Error.Render(runewidth.Truncate(s.ErrorMsg, width, "…")))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderSlide(st catalog.Station, width int, center bool, status playback.Status, moving bool) string {
	t := styles.T()
	s := t.S()

	inner := max(width-4, 6)

	var name string
	if center {
		name = t.AccentTitle(runewidth.Truncate(st.Name, inner, "…"))
	} else {
		name = s.Muted.Render(runewidth.Truncate(st.Name, inner, "…"))
	}

	var body []string
	body = append(body, name)
	if st.Country != "" {
		body = append(body, s.Subtle.Render(runewidth.Truncate(st.Country, inner, "…")))
	}
	if center && len(st.Tags) > 0 {
		body = append(body, s.Subtle.Render(runewidth.Truncate(strings.Join(st.Tags, ", "), inner, "…")))
	}
	if center {
		body = append(body, "", statusLabel(s, status, moving))
	}

	content := lipgloss.NewStyle().
		Width(inner).
		Height(slideHeight-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(body, "\n"))

	return styles.PanelStyle(center).Padding(0, 1).Render(content)
}

func statusLabel(s *styles.Styles, status playback.Status, moving bool) string {
	if moving {
		return s.Subtle.Render("· · ·")
	}
	switch status {
	case playback.Playing:
		return s.Success.Render("▶ playing")
	case playback.Paused:
		return s.Warning.Render("⏸ paused")
	default:
		return s.Muted.Render("■ stopped")
	}
}

func renderStatusLine(s State, width int) string {
	st := styles.T().S()

	if s.Previewing {
		line := "preview: " + s.Preview.Name
		return st.Warning.Render(runewidth.Truncate(line, width, "…"))
	}

	hints := "space play/pause · ←/→ switch station · tab browser"
	return st.Subtle.Render(runewidth.Truncate(hints, width, "…"))
}
