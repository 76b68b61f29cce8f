package playback

import (
	"sync"

	"github.com/llehouerou/tuner/internal/carousel"
	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/sink"
)

// Controller drives the favorites rotation through the shared sink. The
// current station is tracked by identifier, so rebuilding the rotation
// around a surviving station never touches its stream.
//
// Sink calls happen outside the controller lock: the sink reports state
// changes synchronously and the handler takes the lock again.
type Controller struct {
	mu          sync.Mutex
	out         sink.Sink
	rot         carousel.Rotation
	newAdaptive sink.AdaptiveFactory

	adaptive  sink.AdaptiveClient
	status    Status
	unlocked  bool
	currentID string
	preview   *catalog.Station

	// displaced marks a paused rotation whose pipeline was handed to a
	// preview; resuming it needs a full stream start, not an unpause.
	displaced bool

	// transitioning suppresses death detection while a stream swap is
	// tearing the previous pipeline down.
	transitioning bool

	subs   []*Subscription
	closed bool
}

// NewController wires the controller to its sink and rotation. A nil
// factory makes segmented sources fall back to direct URL assignment.
func NewController(out sink.Sink, rot carousel.Rotation, factory sink.AdaptiveFactory) *Controller {
	c := &Controller{out: out, rot: rot, newAdaptive: factory, status: Empty}
	rot.OnMoved(c.handleMoved)
	out.OnStateChange(c.handleSounding)
	return c
}

// Status returns the rotation playback status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Current returns the current rotation station.
func (c *Controller) Current() (catalog.Station, bool) {
	return c.rot.Current()
}

// Previewing returns the station occupying the preview side-channel.
func (c *Controller) Previewing() (catalog.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview == nil {
		return catalog.Station{}, false
	}
	return *c.preview, true
}

// Unlocked reports whether playback has been explicitly started once.
// Rotation moves only autoplay after that first activation.
func (c *Controller) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlocked
}

// Subscribe returns a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close stops playback and releases all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	client := c.adaptive
	c.adaptive = nil
	c.mu.Unlock()

	if client != nil {
		client.Destroy()
	}
	c.out.Stop()
	for _, sub := range subs {
		sub.close()
	}
}

// SetFavorites rebuilds the rotation around the new list. The current
// station is matched by identifier: when it survives, its position moves
// but the stream keeps running uninterrupted. When it is gone, the
// rotation lands on the first station with playback stopped.
func (c *Controller) SetFavorites(stations []catalog.Station) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	newIdx := -1
	if c.currentID != "" {
		for i, st := range stations {
			if st.ID == c.currentID {
				newIdx = i
				break
			}
		}
	}

	rotationLive := c.preview == nil && (c.status == Playing || c.status == Paused)
	var stopRotation bool

	switch {
	case len(stations) == 0:
		c.rot.Mount(nil, 0)
		c.currentID = ""
		stopRotation = rotationLive
		c.setStatusLocked(Empty)
	case newIdx >= 0:
		c.rot.Mount(stations, newIdx)
	default:
		c.rot.Mount(stations, 0)
		st := stations[0]
		changed := c.currentID != st.ID
		c.currentID = st.ID
		stopRotation = rotationLive
		c.setStatusLocked(Idle)
		if changed {
			c.emitLocked(StationChanged{Station: st})
		}
	}
	c.mu.Unlock()

	if stopRotation {
		c.destroyAdaptive()
		c.out.Stop()
	}
}

// ActivateCenter is the center-slot action: the first activation starts
// playback, later ones toggle pause. During a preview it returns control
// to the rotation and starts the current station.
func (c *Controller) ActivateCenter() {
	c.mu.Lock()
	if c.closed || c.status == Empty {
		c.mu.Unlock()
		return
	}
	st, ok := c.rot.Current()
	if !ok {
		c.mu.Unlock()
		return
	}

	if c.preview != nil {
		c.preview = nil
		c.emitLocked(PreviewStopped{})
		c.startCurrentLocked(st)
		return
	}

	switch {
	case !c.unlocked, c.status == Idle:
		c.startCurrentLocked(st)
	case c.status == Playing:
		c.pauseRotationLocked()
	case c.status == Paused:
		c.resumeRotationLocked(st)
	default:
		c.mu.Unlock()
	}
}

// ActivateSide is a side-slot action: one rotation step toward the
// clicked slide, wrapping at the ends. Playback follows the moved event.
func (c *Controller) ActivateSide(d carousel.Direction) {
	c.rotate(d)
}

// Next steps the rotation forward. Media-key entry point.
func (c *Controller) Next() {
	c.rotate(carousel.Next)
}

// Previous steps the rotation backward. Media-key entry point.
func (c *Controller) Previous() {
	c.rotate(carousel.Prev)
}

// Pause suspends whatever is sounding: an active preview stops outright,
// a playing rotation pauses.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.preview != nil {
		c.mu.Unlock()
		c.PreviewStop()
		return
	}
	if c.status != Playing {
		c.mu.Unlock()
		return
	}
	c.pauseRotationLocked()
}

// Resume restarts rotation playback from Paused or Idle. It counts as an
// explicit start, so it also unlocks autoplay.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.closed || c.status == Empty || c.preview != nil {
		c.mu.Unlock()
		return
	}
	st, ok := c.rot.Current()
	if !ok {
		c.mu.Unlock()
		return
	}
	switch c.status {
	case Paused:
		c.resumeRotationLocked(st)
	case Idle:
		c.startCurrentLocked(st)
	default:
		c.mu.Unlock()
	}
}

// PreviewPlay starts a preview of the given station, displacing any
// rotation audio. The rotation pauses and stays paused when the preview
// ends. Previewing the station already in preview toggles it off.
func (c *Controller) PreviewPlay(st catalog.Station) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.preview != nil && c.preview.ID == st.ID {
		c.mu.Unlock()
		c.PreviewStop()
		return
	}
	if c.preview == nil && (c.status == Playing || c.status == Paused) {
		c.displaced = true
		if c.status == Playing {
			c.setStatusLocked(Paused)
		}
	}
	stCopy := st
	c.preview = &stCopy
	c.emitLocked(PreviewStarted{Station: st})
	c.transitioning = true
	c.mu.Unlock()

	c.runStream(st, errmsg.OpPreviewStart, true)
}

// PreviewStop ends the preview and silences the sink. Rotation audio does
// not resume on its own; filter and page changes call this too.
func (c *Controller) PreviewStop() {
	c.mu.Lock()
	if c.preview == nil {
		c.mu.Unlock()
		return
	}
	c.preview = nil
	c.emitLocked(PreviewStopped{})
	c.mu.Unlock()

	c.destroyAdaptive()
	c.out.Stop()
}

// startCurrentLocked begins a full stream start for the current station.
// The lock is held on entry and released here.
func (c *Controller) startCurrentLocked(st catalog.Station) {
	c.unlocked = true
	c.displaced = false
	c.setStatusLocked(Playing)
	c.transitioning = true
	c.mu.Unlock()
	c.runStream(st, errmsg.OpStreamStart, false)
}

// pauseRotationLocked pauses the live rotation stream. The lock is held
// on entry and released here.
func (c *Controller) pauseRotationLocked() {
	c.setStatusLocked(Paused)
	client := c.adaptive
	c.mu.Unlock()
	if client != nil {
		client.StopLoad()
	}
	c.out.Pause()
}

// resumeRotationLocked resumes a paused rotation. A displaced pipeline is
// rebuilt from scratch. The lock is held on entry and released here.
func (c *Controller) resumeRotationLocked(st catalog.Station) {
	if c.displaced {
		c.startCurrentLocked(st)
		return
	}
	c.unlocked = true
	c.setStatusLocked(Playing)
	client := c.adaptive
	c.transitioning = true
	c.mu.Unlock()

	if client != nil {
		client.StartLoad()
	}
	err := c.out.Play()

	c.mu.Lock()
	c.transitioning = false
	if err != nil {
		c.setStatusLocked(Idle)
		c.emitLocked(PlaybackError{Message: errmsg.Format(errmsg.OpStreamResume, err)})
	}
	c.mu.Unlock()
}

// rotate performs one guarded rotation step.
func (c *Controller) rotate(d carousel.Direction) {
	c.mu.Lock()
	if c.closed || c.status == Empty || c.rot.Moving() {
		c.mu.Unlock()
		return
	}
	c.rot.Go(d)
	c.mu.Unlock()
}

// handleMoved reacts to a completed rotation transition: the station
// identity changes, any preview ends, and playback follows when unlocked.
func (c *Controller) handleMoved() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	st, ok := c.rot.Current()
	if !ok || st.ID == c.currentID {
		c.mu.Unlock()
		return
	}
	c.currentID = st.ID
	c.emitLocked(StationChanged{Station: st})

	previewWasActive := c.preview != nil
	if previewWasActive {
		c.preview = nil
		c.emitLocked(PreviewStopped{})
	}

	if !c.unlocked {
		c.mu.Unlock()
		if previewWasActive {
			c.destroyAdaptive()
			c.out.Stop()
		}
		return
	}

	c.displaced = false
	c.setStatusLocked(Playing)
	c.transitioning = true
	c.mu.Unlock()
	c.runStream(st, errmsg.OpStreamStart, false)
}

// runStream replaces the sink's source with the station's stream and
// starts it. Adaptive manifests go through a fresh client; everything
// else is assigned directly. Called without the lock held.
func (c *Controller) runStream(st catalog.Station, op errmsg.Op, isPreview bool) {
	c.destroyAdaptive()

	if sink.IsAdaptiveURL(st.Stream) && c.newAdaptive != nil {
		client := c.newAdaptive()
		client.OnError(c.handleStreamError)
		client.LoadSource(st.Stream)
		client.AttachSink(c.out)
		c.mu.Lock()
		c.adaptive = client
		c.mu.Unlock()
		client.StartLoad()
	} else {
		c.out.SetURL(st.Stream)
	}
	err := c.out.Play()

	c.mu.Lock()
	c.transitioning = false
	if err != nil {
		if isPreview {
			if c.preview != nil && c.preview.ID == st.ID {
				c.preview = nil
				c.emitLocked(PreviewStopped{})
			}
		} else if c.preview == nil && c.status == Playing {
			c.setStatusLocked(Idle)
		}
		c.emitLocked(PlaybackError{Message: errmsg.Format(op, err)})
	}
	c.mu.Unlock()
}

// handleSounding reconciles status with the sink when audio stops without
// the controller asking for it.
func (c *Controller) handleSounding(sounding bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.transitioning || sounding {
		return
	}
	if c.preview != nil {
		c.preview = nil
		c.emitLocked(PreviewStopped{})
		return
	}
	if c.status == Playing {
		c.setStatusLocked(Idle)
	}
}

// handleStreamError surfaces asynchronous adaptive-client failures.
func (c *Controller) handleStreamError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.emitLocked(PlaybackError{Message: errmsg.Format(errmsg.OpStreamStart, err)})
}

func (c *Controller) destroyAdaptive() {
	c.mu.Lock()
	client := c.adaptive
	c.adaptive = nil
	c.mu.Unlock()
	if client != nil {
		client.Destroy()
	}
}

func (c *Controller) setStatusLocked(s Status) {
	if c.status == s {
		return
	}
	c.status = s
	c.emitLocked(StatusChanged{Status: s})
}

func (c *Controller) emitLocked(e Event) {
	for _, sub := range c.subs {
		sub.send(e)
	}
}
