package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

const (
	markerFavorite = "♥"
	markerCurrent  = "▸"
	markerPreview  = "♪"
)

// View renders the browser page for the given width and height.
func (m Model) View(width, height int) string {
	if width < 20 {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderFilterBar(width))
	if len(m.tags) > 0 {
		sections = append(sections, m.renderTagBar(width))
	}

	listHeight := height - lipgloss.Height(sections[0]) - 2
	if len(m.tags) > 0 {
		listHeight -= lipgloss.Height(sections[1])
	}
	sections = append(sections, m.renderList(width, listHeight))
	sections = append(sections, m.renderPagination(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFilterBar(width int) string {
	s := styles.T().S()

	name := m.nameInput.View()

	country := m.countryLabel()
	if m.focus == FocusCountry {
		country = s.Playing.Render("‹ " + country + " ›")
	} else {
		country = s.Muted.Render(country)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, name, "  ", country)
	return runewidth.Truncate(bar, width, "…")
}

func (m Model) renderTagBar(width int) string {
	s := styles.T().S()
	selected := m.view.Filters().Tags

	parts := make([]string, 0, len(m.tags))
	for i, tag := range m.tags {
		label := tag.Label
		if selected[tag.Key] {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		switch {
		case m.focus == FocusTags && i == m.tagIdx:
			parts = append(parts, s.Playing.Render(label))
		case selected[tag.Key]:
			parts = append(parts, s.Base.Render(label))
		default:
			parts = append(parts, s.Subtle.Render(label))
		}
	}
	return runewidth.Truncate(strings.Join(parts, " "), width, "…")
}

func (m Model) renderList(width, height int) string {
	s := styles.T().S()
	page := m.view.Page()

	if len(page) == 0 {
		return s.Muted.Render("No stations match the current filters.")
	}

	rows := make([]string, 0, len(page))
	for i, st := range page {
		rows = append(rows, m.renderRow(st, i == m.cursor && m.focus == FocusList, width))
		if height > 0 && len(rows) >= height {
			break
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(st catalog.Station, selected bool, width int) string {
	s := styles.T().S()

	marker := " "
	switch st.ID {
	case m.previewID:
		marker = markerPreview
	case m.currentID:
		marker = markerCurrent
	}

	fav := " "
	if m.favs.IsFavorite(st.ID) {
		fav = markerFavorite
	}

	name := runewidth.Truncate(st.Name, max(width/2, 10), "…")
	meta := m.countryNames[st.Country]
	if meta == "" {
		meta = st.Country
	}
	if len(st.Tags) > 0 {
		meta += " · " + strings.Join(st.Tags, ", ")
	}

	line := fmt.Sprintf("%s %s %s  %s", marker, fav, name, meta)
	line = runewidth.Truncate(line, width, "…")

	switch {
	case selected:
		return s.Cursor.Render(padRight(line, width))
	case st.ID == m.currentID:
		return s.Playing.Render(line)
	case st.ID == m.previewID:
		return s.Warning.Render(line)
	case fav == markerFavorite:
		// The heart keeps its gold on otherwise plain rows. marker is a
		// single space here, so the split is fixed-width.
		rest := runewidth.Truncate(" "+name+"  "+meta, max(width-3, 0), "…")
		return s.Base.Render("  ") + s.Favorite.Render(markerFavorite) + s.Base.Render(rest)
	default:
		return s.Base.Render(line)
	}
}

// renderPagination draws the smart page list: first and last pages always
// shown, a window around the current page, ellipses for the gaps.
func (m Model) renderPagination(width int) string {
	s := styles.T().S()

	// Page buttons disappear with a single page; the count and size stay.
	parts := make([]string, 0, 12)
	if m.view.TotalPages() > 1 {
		current := m.view.PageNumber()
		for _, p := range m.view.Pages() {
			switch {
			case p == catalog.Ellipsis:
				parts = append(parts, s.Subtle.Render("…"))
			case p == current:
				parts = append(parts, s.Playing.Render(fmt.Sprintf("[%d]", p)))
			default:
				parts = append(parts, s.Muted.Render(fmt.Sprintf(" %d ", p)))
			}
		}
	}

	count := s.Subtle.Render(fmt.Sprintf(
		"%s stations · %d per page",
		humanize.Comma(int64(m.view.FilteredCount())), m.view.PageSize(),
	))

	bar := count
	if len(parts) > 0 {
		bar = strings.Join(parts, " ") + "   " + count
	}
	return runewidth.Truncate(bar, width, "…")
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
