// Package playback owns the rotation playback state machine: which station
// of the favorites rotation is current, whether audio is running, and the
// preview side-channel that borrows the sink without disturbing rotation
// position.
package playback

// Status is the rotation playback state.
type Status int

const (
	// Empty means no stations are mounted; every control is inert.
	Empty Status = iota
	// Idle means stations are mounted but no stream has been started, or
	// the current station's stream was torn down.
	Idle
	// Playing means the current rotation station is sounding.
	Playing
	// Paused means the current rotation station is loaded but muted.
	Paused
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}
