package carousel

import (
	"sync"
	"time"

	"github.com/llehouerou/tuner/internal/catalog"
)

// DefaultSettle is how long a transition occupies the rotation. Movement
// requests arriving inside the window are ignored, matching how a sliding
// widget refuses input mid-animation.
const DefaultSettle = 400 * time.Millisecond

// Carousel is the concrete rotation. It is safe for concurrent use; the
// settle timer fires on its own goroutine.
type Carousel struct {
	mu        sync.Mutex
	stations  []catalog.Station
	index     int
	moving    bool
	settle    time.Duration
	timer     *time.Timer
	onMoved   func()
	destroyed bool
}

// New creates an empty carousel with the default settle window.
func New() *Carousel {
	return NewWithSettle(DefaultSettle)
}

// NewWithSettle creates a carousel with a custom settle window. Tests use a
// short one.
func NewWithSettle(settle time.Duration) *Carousel {
	return &Carousel{index: -1, settle: settle}
}

func (c *Carousel) Mount(stations []catalog.Station, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.cancelTimerLocked()
	c.stations = make([]catalog.Station, len(stations))
	copy(c.stations, stations)
	c.moving = false
	switch {
	case len(c.stations) == 0:
		c.index = -1
	case index < 0:
		c.index = 0
	case index >= len(c.stations):
		c.index = len(c.stations) - 1
	default:
		c.index = index
	}
}

func (c *Carousel) Go(d Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.moving || len(c.stations) == 0 {
		return
	}
	step := 1
	if d == Prev {
		step = -1
	}
	c.beginMoveLocked((c.index + step + len(c.stations)) % len(c.stations))
}

func (c *Carousel) GoTo(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.moving || len(c.stations) == 0 {
		return
	}
	i = ((i % len(c.stations)) + len(c.stations)) % len(c.stations)
	if i == c.index {
		return
	}
	c.beginMoveLocked(i)
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stations)
}

func (c *Carousel) Current() (catalog.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < 0 || c.index >= len(c.stations) {
		return catalog.Station{}, false
	}
	return c.stations[c.index], true
}

// At returns the station at offset slots from the current position,
// wrapping. Used by the view to render the side slides.
func (c *Carousel) At(offset int) (catalog.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.stations)
	if n == 0 || c.index < 0 {
		return catalog.Station{}, false
	}
	return c.stations[((c.index+offset)%n+n)%n], true
}

func (c *Carousel) Moving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moving
}

func (c *Carousel) OnMoved(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMoved = fn
}

func (c *Carousel) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimerLocked()
	c.stations = nil
	c.index = -1
	c.moving = false
	c.destroyed = true
}

// beginMoveLocked commits the new index immediately and schedules the end
// of the settle window. The index reflects the destination as soon as the
// move starts; only readiness for further moves is delayed.
func (c *Carousel) beginMoveLocked(to int) {
	c.index = to
	c.moving = true
	c.timer = time.AfterFunc(c.settle, func() {
		c.mu.Lock()
		if c.destroyed {
			c.mu.Unlock()
			return
		}
		c.moving = false
		fn := c.onMoved
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

func (c *Carousel) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

var _ Rotation = (*Carousel)(nil)
