// Package sink owns the single audio output shared by rotation playback and
// preview. Exactly one sink exists per process; every stream transition
// replaces the previous source wholesale.
package sink

import "io"

// StreamFormat identifies the codec of a progressive or segmented source.
type StreamFormat int

const (
	FormatUnknown StreamFormat = iota
	FormatMP3
	FormatAAC
)

// String returns the format name.
func (f StreamFormat) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatAAC:
		return "AAC"
	default:
		return "Unknown"
	}
}

// Sink is the audio output contract. It mirrors a media element: a source is
// assigned (either a progressive URL or a byte reader fed by an adaptive
// client), then played, paused and stopped. Play returns an error when the
// stream cannot start; callers log and swallow it, keeping the sounding flag
// consistent with the sink's real state.
type Sink interface {
	// SetURL assigns a progressive source, replacing any current one.
	SetURL(url string)
	// SetReader assigns a segmented source, replacing any current one.
	// The sink takes ownership of the reader and closes it on teardown.
	SetReader(r io.ReadCloser, format StreamFormat)
	// Play starts or resumes the assigned source.
	Play() error
	// Pause suspends output without detaching the source.
	Pause()
	// Stop halts output and detaches the source.
	Stop()
	// Sounding reports whether audio is currently audible.
	Sounding() bool
	// OnStateChange registers a callback fired whenever the sounding state
	// flips. The sink's own events are the source of truth for play state.
	OnStateChange(fn func(sounding bool))
	// Close releases the sink permanently.
	Close() error
}
