// Package app is the root bubbletea model wiring the catalog browser, the
// favorites rotation and the shared audio sink together.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/carousel"
	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/favorites"
	"github.com/llehouerou/tuner/internal/mpris"
	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/selection"
	"github.com/llehouerou/tuner/internal/sink"
	"github.com/llehouerou/tuner/internal/state"
	"github.com/llehouerou/tuner/internal/ui/browser"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// Page identifies the visible screen.
type Page int

const (
	PagePlayer Page = iota
	PageBrowser
)

// Model is the root application model containing all state.
type Model struct {
	Cfg      *config.Config
	StateMgr state.Interface
	Store    *selection.Store

	Out        sink.Sink
	Rotation   *carousel.Carousel
	Controller *playback.Controller
	Mpris      *mpris.Adapter

	// Built once the catalog has loaded.
	Catalog     *catalog.Catalog
	CatalogView *catalog.View
	Projector *favorites.Projector
	Browser   browser.Model
	Ready     bool

	PlaybackSub *playback.Subscription
	FavSub      *favorites.Subscription

	Page     Page
	LoadErr  string
	ErrorMsg string
	Width    int
	Height   int
}

// New creates the application model. The catalog loads asynchronously from
// Init; playback stays uninitialized until it arrives.
func New(cfg *config.Config, stateMgr state.Interface) (Model, error) {
	if cfg.Theme.Accent != "" {
		styles.SetAccent(cfg.Theme.Accent)
	}

	out := sink.NewStream(time.Duration(cfg.Stream.DialTimeoutSeconds) * time.Second)
	rotation := carousel.New()
	controller := playback.NewController(out, rotation, func() sink.AdaptiveClient {
		return sink.NewHLSClient()
	})

	adapter, err := mpris.New(controller)
	if err != nil {
		// Media keys are an enhancement; the player works without them.
		adapter = nil
	}

	return Model{
		Cfg:         cfg,
		StateMgr:    stateMgr,
		Store:       selection.NewStore(stateMgr),
		Out:         out,
		Rotation:    rotation,
		Controller:  controller,
		Mpris:       adapter,
		PlaybackSub: controller.Subscribe(),
		Page:        PagePlayer,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadCatalogCmd(m.Cfg),
		waitPlaybackCmd(m.PlaybackSub),
	)
}

// Close releases everything the model owns. Called after the program exits.
func (m Model) Close() {
	if m.Projector != nil {
		m.Projector.Close()
	}
	m.Controller.Close()
	m.Rotation.Destroy()
	_ = m.Out.Close()
	if m.Mpris != nil {
		_ = m.Mpris.Close()
	}
}
