// Package carousel holds the favorites rotation: an ordered ring of
// stations with one current slot, moved one step at a time or jumped to an
// arbitrary position.
package carousel

import "github.com/llehouerou/tuner/internal/catalog"

// Direction is a single rotation step.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Rotation is the narrow contract the playback controller drives. A
// transition takes a short settle window during which Moving reports true;
// the moved callback fires once the window closes.
type Rotation interface {
	// Mount replaces the mounted stations and resets the position to the
	// given index, clamped into range. Mounting fires no moved event.
	Mount(stations []catalog.Station, index int)
	// Go steps one position in the given direction, wrapping at the ends.
	Go(d Direction)
	// GoTo jumps to the given index, wrapping out-of-range values.
	GoTo(i int)
	// Index returns the current position, or -1 when nothing is mounted.
	Index() int
	// Len returns the number of mounted stations.
	Len() int
	// Current returns the station at the current position.
	Current() (catalog.Station, bool)
	// Moving reports whether a transition is still settling.
	Moving() bool
	// OnMoved registers the callback fired after each completed transition.
	OnMoved(fn func())
	// Destroy releases the rotation. Further calls are no-ops.
	Destroy()
}
