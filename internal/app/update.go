package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/carousel"
	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/favorites"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/ui/browser"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case catalogLoadedMsg:
		return m.updateCatalogLoaded(msg)

	case playbackEventMsg:
		return m.updatePlaybackEvent(msg.event)

	case playbackClosedMsg, favoritesClosedMsg:
		return m, nil

	case favoritesChangedMsg:
		if m.Ready {
			m.Controller.SetFavorites(m.Projector.Favorites())
		}
		return m, waitFavoritesCmd(m.FavSub)

	case browser.ActionMsg:
		return m.updateBrowserAction(msg.Action)
	}

	if m.Ready && m.Page == PageBrowser {
		var cmd tea.Cmd
		m.Browser, cmd = m.Browser.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any keypress clears a stale error line.
	m.ErrorMsg = ""

	if m.Page == PageBrowser && m.Ready {
		return m.updateBrowserKey(key)
	}
	return m.updatePlayerKey(key)
}

func (m Model) updatePlayerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "tab", "b":
		if m.Ready {
			m.Page = PageBrowser
		}
	case " ", "enter":
		m.Controller.ActivateCenter()
	case "left", "h":
		m.Controller.ActivateSide(carousel.Prev)
	case "right", "l":
		m.Controller.ActivateSide(carousel.Next)
	}
	return m, nil
}

func (m Model) updateBrowserKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Esc on the station list leaves the browser; everywhere else it is
	// the browser's unfocus key.
	if key.String() == "esc" && m.Browser.Focused() == browser.FocusList {
		m.Page = PagePlayer
		return m, nil
	}
	if key.String() == "q" && m.Browser.Focused() == browser.FocusList {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.Browser, cmd = m.Browser.Update(key)
	return m, cmd
}

func (m Model) updateCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The browser and rotation stay uninitialized; the app keeps
		// running so the message is visible.
		m.LoadErr = errmsg.Format(errmsg.OpCatalogLoad, msg.err)
		return m, nil
	}

	cat := msg.catalog
	controller := m.Controller

	view := catalog.NewView(cat, m.Store.LoadPageSize(), controller.PreviewStop)
	projector := favorites.NewProjector(m.Store, cat)

	m.Catalog = cat
	m.CatalogView = view
	m.Projector = projector
	m.FavSub = projector.Subscribe()
	m.Browser = browser.New(view, cat.CountryList(), cat.TagList(), projector)
	m.Ready = true

	favs := projector.Favorites()
	controller.SetFavorites(favs)
	m.restoreLastStation(favs)

	// Corrupt persisted favorites degrade to an empty list; tell the user.
	if w := m.Store.TakeWarning(); w != "" {
		m.ErrorMsg = w
	}

	return m, waitFavoritesCmd(m.FavSub)
}

// restoreLastStation re-centers the rotation on the station that was centered
// when the previous session ended. Autoplay stays locked, so nothing sounds.
func (m Model) restoreLastStation(favs []catalog.Station) {
	id := m.Store.LoadLastStation()
	if id == "" {
		return
	}
	for i, st := range favs {
		if st.ID == id {
			m.Rotation.GoTo(i)
			return
		}
	}
}

func (m Model) updatePlaybackEvent(e playback.Event) (tea.Model, tea.Cmd) {
	switch e := e.(type) {
	case playback.PlaybackError:
		m.ErrorMsg = e.Message
	case playback.StationChanged:
		if err := m.Store.SaveLastStation(e.Station.ID); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpStateSave, err)
		}
	}
	m.syncMarkers()
	return m, waitPlaybackCmd(m.PlaybackSub)
}

func (m *Model) syncMarkers() {
	if !m.Ready {
		return
	}
	var currentID, previewID string
	if st, ok := m.Controller.Current(); ok {
		currentID = st.ID
	}
	if st, ok := m.Controller.Previewing(); ok {
		previewID = st.ID
	}
	m.Browser.SetMarkers(currentID, previewID)
}

func (m Model) updateBrowserAction(a browser.Action) (tea.Model, tea.Cmd) {
	switch a := a.(type) {
	case browser.PreviewAction:
		m.Controller.PreviewPlay(a.Station)
	case browser.PageSizeAction:
		if err := m.Store.SavePageSize(a.Size); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpPageSizeSave, err)
		}
	case browser.ErrorAction:
		m.ErrorMsg = a.Message
	}
	return m, nil
}
