//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tuner/internal/playback"
)

// Adapter exposes the rotation controller over MPRIS so OS media keys
// drive playback: play, pause, next station, previous station.
type Adapter struct {
	controller *playback.Controller
	server     *server.Server
	done       chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(controller *playback.Controller) (*Adapter, error) {
	a := &Adapter{
		controller: controller,
		done:       make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{controller: controller}

	a.server = server.NewServer("tuner", rootAdapter, playerAdapter)

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tuner", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp3", "audio/aac", "application/vnd.apple.mpegurl"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	controller *playback.Controller
}

func (p *playerAdapter) Next() error {
	p.controller.Next()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.controller.Previous()
	return nil
}

func (p *playerAdapter) Pause() error {
	p.controller.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	switch p.controller.Status() {
	case playback.Playing:
		p.controller.Pause()
	default:
		p.controller.Resume()
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	p.controller.Pause()
	return nil
}

func (p *playerAdapter) Play() error {
	p.controller.Resume()
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Live streams cannot seek
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Live streams cannot seek
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	if _, ok := p.controller.Previewing(); ok {
		return types.PlaybackStatusPlaying, nil
	}
	switch p.controller.Status() {
	case playback.Playing:
		return types.PlaybackStatusPlaying, nil
	case playback.Paused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	// A preview owns the sink, so the desktop shows the previewed station.
	st, ok := p.controller.Previewing()
	if !ok {
		st, ok = p.controller.Current()
	}
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatStationID(st.ID)),
		Title:   st.Name,
	}
	if st.Country != "" {
		meta.Artist = []string{st.Country}
	}
	if len(st.Tags) > 0 {
		meta.Genre = st.Tags
	}
	if st.Image != "" {
		meta.ArtUrl = st.Image
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil // Live streams have no position
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.controller.Status() != playback.Empty, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.controller.Status() != playback.Empty, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.controller.Status() != playback.Empty, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatStationID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
