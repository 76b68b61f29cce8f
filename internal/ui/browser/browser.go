// Package browser is the station catalog page: filters, the paginated
// station table and the pagination bar.
package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/selection"
)

// Favorites is the slice of the favorites feature the browser needs.
type Favorites interface {
	IsFavorite(id string) bool
	Toggle(id string, on bool) error
}

// Focus identifies the active input zone.
type Focus int

const (
	FocusList Focus = iota
	FocusName
	FocusCountry
	FocusTags
)

// Action is emitted by Update for the app to handle.
type Action interface{}

// PreviewAction asks for a preview of the given station.
type PreviewAction struct {
	Station catalog.Station
}

// ErrorAction surfaces a user-facing failure message.
type ErrorAction struct {
	Message string
}

// PageSizeAction reports a page-size change for persistence.
type PageSizeAction struct {
	Size int
}

// ActionMsg wraps an Action as a tea.Msg.
type ActionMsg struct {
	Action Action
}

// Model is the station browser state.
type Model struct {
	view *catalog.View
	favs Favorites

	nameInput textinput.Model
	focus     Focus

	// country selection cycles through the catalog's country list;
	// 0 means no country filter.
	countryIdx int
	countries  []catalog.CountryEntry

	// countryNames maps a country code to its display name for rows.
	countryNames map[string]string

	// tagIdx is the highlighted tag in the tag bar.
	tagIdx int
	tags   []catalog.TagEntry

	cursor int

	// playback markers, set by the app after controller events
	currentID  string
	previewID  string
	previewing bool
}

// New creates the browser over a catalog view.
func New(view *catalog.View, countries []catalog.CountryEntry, tags []catalog.TagEntry, favs Favorites) Model {
	ti := textinput.New()
	ti.Placeholder = "station name"
	ti.CharLimit = 64
	ti.Prompt = "/ "

	names := make(map[string]string, len(countries))
	for _, c := range countries {
		names[c.Code] = c.Name
	}

	return Model{
		view:         view,
		favs:         favs,
		nameInput:    ti,
		countries:    countries,
		countryNames: names,
		tags:         tags,
	}
}

// SetMarkers updates which stations render as current and previewed.
func (m *Model) SetMarkers(currentID, previewID string) {
	m.currentID = currentID
	m.previewID = previewID
	m.previewing = previewID != ""
}

// Focused returns the active input zone.
func (m Model) Focused() Focus {
	return m.focus
}

// Selected returns the station under the cursor.
func (m Model) Selected() (catalog.Station, bool) {
	page := m.view.Page()
	if m.cursor < 0 || m.cursor >= len(page) {
		return catalog.Station{}, false
	}
	return page[m.cursor], true
}

// Update handles key input. It returns commands carrying ActionMsg values.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.focus == FocusName {
		return m.updateNameInput(key)
	}

	switch key.String() {
	case "/":
		m.focus = FocusName
		m.nameInput.Focus()
		return m, textinput.Blink
	case "tab":
		m.focus = m.nextFocus()
		return m, nil
	case "esc":
		m.focus = FocusList
		return m, nil
	}

	switch m.focus {
	case FocusCountry:
		return m.updateCountry(key), nil
	case FocusTags:
		return m.updateTags(key), nil
	default:
		return m.updateList(key)
	}
}

func (m Model) updateNameInput(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "esc", "enter":
		m.focus = FocusList
		m.nameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.nameInput.Value()
	m.nameInput, cmd = m.nameInput.Update(key)
	if m.nameInput.Value() != before {
		m.applyFilters()
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateCountry(key tea.KeyMsg) Model {
	switch key.String() {
	case "l", "right":
		m.countryIdx = (m.countryIdx + 1) % (len(m.countries) + 1)
	case "h", "left":
		m.countryIdx = (m.countryIdx + len(m.countries)) % (len(m.countries) + 1)
	default:
		return m
	}
	m.applyFilters()
	m.cursor = 0
	return m
}

func (m Model) updateTags(key tea.KeyMsg) Model {
	if len(m.tags) == 0 {
		return m
	}
	switch key.String() {
	case "l", "right":
		m.tagIdx = (m.tagIdx + 1) % len(m.tags)
	case "h", "left":
		m.tagIdx = (m.tagIdx + len(m.tags) - 1) % len(m.tags)
	case " ", "enter":
		filters := m.view.Filters()
		key := m.tags[m.tagIdx].Key
		// Selected tags are a set: absent means off.
		if filters.Tags[key] {
			delete(filters.Tags, key)
		} else {
			filters.Tags[key] = true
		}
		m.view.Apply(filters)
		m.cursor = 0
	}
	return m
}

func (m Model) updateList(key tea.KeyMsg) (Model, tea.Cmd) {
	page := m.view.Page()

	switch key.String() {
	case "j", "down":
		if m.cursor < len(page)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(page) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "l", "right", "n":
		m.view.NextPage()
		m.cursor = 0
	case "h", "left", "N":
		m.view.PrevPage()
		m.cursor = 0
	case "s":
		size := m.cyclePageSize()
		m.cursor = 0
		return m, actionCmd(PageSizeAction{Size: size})
	case "f":
		if st, ok := m.Selected(); ok {
			on := !m.favs.IsFavorite(st.ID)
			if err := m.favs.Toggle(st.ID, on); err != nil {
				return m, actionCmd(ErrorAction{
					Message: errmsg.FormatWith(errmsg.OpFavoriteToggle, st.Name, err),
				})
			}
		}
	case "p", "enter":
		if st, ok := m.Selected(); ok {
			return m, actionCmd(PreviewAction{Station: st})
		}
	}
	return m, nil
}

func (m Model) nextFocus() Focus {
	switch m.focus {
	case FocusList:
		return FocusCountry
	case FocusCountry:
		return FocusTags
	default:
		return FocusList
	}
}

// cyclePageSize steps to the next allowed page size, wrapping around.
func (m *Model) cyclePageSize() int {
	sizes := selection.AllowedPageSizes
	current := m.view.PageSize()
	next := sizes[0]
	for i, s := range sizes {
		if s == current {
			next = sizes[(i+1)%len(sizes)]
			break
		}
	}
	m.view.SetPageSize(next)
	return next
}

func (m *Model) applyFilters() {
	filters := m.view.Filters()
	filters.Name = m.nameInput.Value()
	if m.countryIdx == 0 {
		filters.Country = ""
	} else {
		filters.Country = m.countries[m.countryIdx-1].Code
	}
	m.view.Apply(filters)
}

func (m Model) countryLabel() string {
	if m.countryIdx == 0 {
		return "All countries"
	}
	c := m.countries[m.countryIdx-1]
	if c.Flag != "" {
		return fmt.Sprintf("%s %s", c.Flag, c.Name)
	}
	return c.Name
}

func actionCmd(a Action) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: a} }
}
