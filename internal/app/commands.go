package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/favorites"
	"github.com/llehouerou/tuner/internal/playback"
)

const catalogLoadTimeout = 30 * time.Second

// loadCatalogCmd fetches the station catalog in the background.
func loadCatalogCmd(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
		defer cancel()

		client := catalog.NewClient(cfg.CatalogURL, cfg.CatalogBaseURL)
		cat, err := client.Load(ctx)
		return catalogLoadedMsg{catalog: cat, err: err}
	}
}

// waitPlaybackCmd blocks on the controller subscription and forwards one
// event. The update loop re-arms it after each delivery.
func waitPlaybackCmd(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return playbackEventMsg{event: e}
		case <-sub.Done:
			return playbackClosedMsg{}
		}
	}
}

// waitFavoritesCmd blocks on the projector subscription and forwards one
// change notification.
func waitFavoritesCmd(sub *favorites.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sub.Changed:
			return favoritesChangedMsg{}
		case <-sub.Done:
			return favoritesClosedMsg{}
		}
	}
}
