package playback

import "github.com/llehouerou/tuner/internal/catalog"

// Event is a playback notification. Subscribers type-switch on the
// concrete kinds below.
type Event interface {
	playbackEvent()
}

// StatusChanged fires whenever the rotation playback status flips.
type StatusChanged struct {
	Status Status
}

// StationChanged fires when the current rotation station changes identity.
type StationChanged struct {
	Station catalog.Station
}

// PreviewStarted fires when a preview stream takes over the sink.
type PreviewStarted struct {
	Station catalog.Station
}

// PreviewStopped fires when the preview releases the sink. Rotation audio
// does not resume on its own.
type PreviewStopped struct{}

// PlaybackError carries a user-facing message for a stream that failed to
// start or died mid-flight. Playback state has already been reconciled
// when the event is delivered.
type PlaybackError struct {
	Message string
}

func (StatusChanged) playbackEvent()  {}
func (StationChanged) playbackEvent() {}
func (PreviewStarted) playbackEvent() {}
func (PreviewStopped) playbackEvent() {}
func (PlaybackError) playbackEvent()  {}
