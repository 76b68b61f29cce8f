package app

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/state"
	"github.com/llehouerou/tuner/internal/ui/browser"
)

func testModel(t *testing.T) Model {
	t.Helper()
	return testModelWith(t, state.NewMock())
}

func testModelWith(t *testing.T, st *state.Mock) Model {
	t.Helper()
	m, err := New(&config.Config{}, st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Station{
			{ID: "st1", Name: "One", Stream: "https://radio.example.com/1.mp3", Country: "fr", Tags: []string{"jazz"}},
			{ID: "st2", Name: "Two", Stream: "https://radio.example.com/2.mp3", Country: "no", Tags: []string{"news"}},
		},
		map[string]catalog.Country{
			"fr": {Name: "France", Flag: "🇫🇷"},
			"no": {Name: "Norway", Flag: "🇳🇴"},
		},
		map[string]catalog.Tag{
			"jazz": {Label: "Jazz"},
			"news": {Label: "News"},
		},
	)
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := testModel(t)
	next, _ := m.Update(catalogLoadedMsg{catalog: testCatalog()})
	return next.(Model)
}

func TestApp_NotReadyBeforeCatalog(t *testing.T) {
	m := testModel(t)

	if m.Ready {
		t.Error("Ready = true before the catalog loaded")
	}
	// Keys must not panic while the catalog is missing.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if next.(Model).Page != PagePlayer {
		t.Error("page switched to browser without a catalog")
	}
}

func TestApp_CatalogFailureKeepsRunning(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(catalogLoadedMsg{err: errors.New("connection refused")})
	got := next.(Model)

	if got.Ready {
		t.Error("Ready = true after a failed load")
	}
	if got.LoadErr == "" {
		t.Error("LoadErr empty after a failed load")
	}
}

func TestApp_CatalogLoadWiresEverything(t *testing.T) {
	m := loaded(t)

	if !m.Ready {
		t.Fatal("Ready = false after catalog load")
	}
	if m.CatalogView == nil || m.Projector == nil {
		t.Fatal("view or projector missing after catalog load")
	}
	if got := m.CatalogView.PageSize(); got != 10 {
		t.Errorf("PageSize() = %d, want persisted default 10", got)
	}
}

func TestApp_PageSwitching(t *testing.T) {
	m := loaded(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.Page != PageBrowser {
		t.Fatalf("Page = %v, want PageBrowser after tab", m.Page)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.Page != PagePlayer {
		t.Errorf("Page = %v, want PagePlayer after esc on the list", m.Page)
	}
}

func TestApp_FavoritesChangeRebuildsRotation(t *testing.T) {
	m := loaded(t)

	if err := m.Projector.Toggle("st2", true); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	next, _ := m.Update(favoritesChangedMsg{})
	m = next.(Model)

	if got := m.Rotation.Len(); got != 1 {
		t.Fatalf("Rotation.Len() = %d, want 1", got)
	}
	if st, ok := m.Rotation.Current(); !ok || st.ID != "st2" {
		t.Errorf("Rotation.Current() = %v, %v, want st2", st.ID, ok)
	}
}

func TestApp_CorruptFavoritesSurfaceWarning(t *testing.T) {
	mock := state.NewMock()
	mock.SetValue("favoriteStationIds", "not-json")
	m := testModelWith(t, mock)

	next, _ := m.Update(catalogLoadedMsg{catalog: testCatalog()})
	m = next.(Model)

	if m.ErrorMsg == "" {
		t.Error("ErrorMsg empty, want a warning for corrupt favorites storage")
	}
	if !m.Ready {
		t.Error("Ready = false, corrupt favorites must not block the app")
	}
}

func TestApp_RestoresLastStation(t *testing.T) {
	mock := state.NewMock()
	mock.SetValue("favoriteStationIds", `["st1","st2"]`)
	mock.SetValue("lastStationId", "st2")
	m := testModelWith(t, mock)

	next, _ := m.Update(catalogLoadedMsg{catalog: testCatalog()})
	m = next.(Model)

	if st, ok := m.Rotation.Current(); !ok || st.ID != "st2" {
		t.Errorf("Rotation.Current() = %v, %v, want st2 restored", st.ID, ok)
	}
	if m.Controller.Status() != playback.Idle {
		t.Errorf("Status() = %v, want Idle before first activation", m.Controller.Status())
	}
}

func TestApp_PageSizeActionPersists(t *testing.T) {
	m := loaded(t)

	next, _ := m.Update(browser.ActionMsg{Action: browser.PageSizeAction{Size: 50}})
	m = next.(Model)

	if got := m.Store.LoadPageSize(); got != 50 {
		t.Errorf("LoadPageSize() = %d, want 50 after action", got)
	}
	if m.ErrorMsg != "" {
		t.Errorf("ErrorMsg = %q, want empty", m.ErrorMsg)
	}
}
