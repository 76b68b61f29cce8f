package app

import (
	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/playback"
)

// catalogLoadedMsg carries the result of the async catalog fetch.
type catalogLoadedMsg struct {
	catalog *catalog.Catalog
	err     error
}

// playbackEventMsg delivers one controller event to the UI loop.
type playbackEventMsg struct {
	event playback.Event
}

// playbackClosedMsg signals the controller subscription ended.
type playbackClosedMsg struct{}

// favoritesChangedMsg signals the favorites list must be re-pulled.
type favoritesChangedMsg struct{}

// favoritesClosedMsg signals the projector subscription ended.
type favoritesClosedMsg struct{}
