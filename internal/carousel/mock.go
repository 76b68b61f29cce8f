package carousel

import "github.com/llehouerou/tuner/internal/catalog"

// MockRotation is a scriptable Rotation for controller tests. Moves commit
// instantly; tests control the moving flag and fire the moved callback by
// hand to simulate a transition window.
type MockRotation struct {
	stations []catalog.Station
	index    int
	moving   bool
	onMoved  func()

	Calls []string
}

func NewMockRotation() *MockRotation {
	return &MockRotation{index: -1}
}

func (m *MockRotation) Mount(stations []catalog.Station, index int) {
	m.stations = make([]catalog.Station, len(stations))
	copy(m.stations, stations)
	switch {
	case len(m.stations) == 0:
		m.index = -1
	case index < 0:
		m.index = 0
	case index >= len(m.stations):
		m.index = len(m.stations) - 1
	default:
		m.index = index
	}
	m.Calls = append(m.Calls, "Mount")
}

func (m *MockRotation) Go(d Direction) {
	if m.moving || len(m.stations) == 0 {
		return
	}
	step := 1
	name := "Go:next"
	if d == Prev {
		step = -1
		name = "Go:prev"
	}
	m.index = (m.index + step + len(m.stations)) % len(m.stations)
	m.Calls = append(m.Calls, name)
}

func (m *MockRotation) GoTo(i int) {
	if m.moving || len(m.stations) == 0 {
		return
	}
	m.index = ((i % len(m.stations)) + len(m.stations)) % len(m.stations)
	m.Calls = append(m.Calls, "GoTo")
}

func (m *MockRotation) Index() int { return m.index }
func (m *MockRotation) Len() int   { return len(m.stations) }

func (m *MockRotation) Current() (catalog.Station, bool) {
	if m.index < 0 || m.index >= len(m.stations) {
		return catalog.Station{}, false
	}
	return m.stations[m.index], true
}

func (m *MockRotation) Moving() bool { return m.moving }

// SetMoving forces the transition flag, simulating a settle window.
func (m *MockRotation) SetMoving(moving bool) { m.moving = moving }

func (m *MockRotation) OnMoved(fn func()) { m.onMoved = fn }

// FireMoved invokes the moved callback as the settle timer would.
func (m *MockRotation) FireMoved() {
	if m.onMoved != nil {
		m.onMoved()
	}
}

func (m *MockRotation) Destroy() {
	m.stations = nil
	m.index = -1
	m.Calls = append(m.Calls, "Destroy")
}

var _ Rotation = (*MockRotation)(nil)
