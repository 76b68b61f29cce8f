package sink

import (
	"io"
	"sync"
)

// Mock is a scriptable Sink for tests. It records calls and lets tests
// force Play failures and drive the sounding state by hand.
type Mock struct {
	mu sync.Mutex

	url      string
	reader   io.ReadCloser
	format   StreamFormat
	sounding bool
	onState  func(bool)

	playErr error

	Calls []string
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = url
	m.reader = nil
	m.Calls = append(m.Calls, "SetURL:"+url)
}

func (m *Mock) SetReader(r io.ReadCloser, format StreamFormat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = ""
	m.reader = r
	m.format = format
	m.Calls = append(m.Calls, "SetReader")
}

func (m *Mock) Play() error {
	m.mu.Lock()
	if m.playErr != nil {
		err := m.playErr
		m.Calls = append(m.Calls, "Play:err")
		m.mu.Unlock()
		return err
	}
	m.Calls = append(m.Calls, "Play")
	m.mu.Unlock()
	m.setSounding(true)
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	m.Calls = append(m.Calls, "Pause")
	m.mu.Unlock()
	m.setSounding(false)
}

func (m *Mock) Stop() {
	m.mu.Lock()
	m.url = ""
	m.reader = nil
	m.Calls = append(m.Calls, "Stop")
	m.mu.Unlock()
	m.setSounding(false)
}

func (m *Mock) Sounding() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sounding
}

func (m *Mock) OnStateChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onState = fn
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "Close")
	return nil
}

// SetPlayError makes subsequent Play calls fail with err.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// URL returns the last progressive source assigned.
func (m *Mock) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// HasReader reports whether a segmented source is attached.
func (m *Mock) HasReader() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader != nil
}

// Reader returns the attached segmented source, if any.
func (m *Mock) Reader() io.ReadCloser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reader
}

func (m *Mock) setSounding(sounding bool) {
	m.mu.Lock()
	if m.sounding == sounding {
		m.mu.Unlock()
		return
	}
	m.sounding = sounding
	fn := m.onState
	m.mu.Unlock()
	if fn != nil {
		fn(sounding)
	}
}

// MockAdaptive is a scriptable AdaptiveClient for tests.
type MockAdaptive struct {
	mu sync.Mutex

	source    string
	loading   bool
	destroyed bool
	onError   func(error)

	Calls []string
}

func NewMockAdaptive() *MockAdaptive {
	return &MockAdaptive{}
}

func (m *MockAdaptive) LoadSource(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = url
	m.Calls = append(m.Calls, "LoadSource:"+url)
}

func (m *MockAdaptive) AttachSink(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "AttachSink")
	pr, _ := io.Pipe()
	s.SetReader(pr, FormatUnknown)
}

func (m *MockAdaptive) StartLoad() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	m.Calls = append(m.Calls, "StartLoad")
}

func (m *MockAdaptive) StopLoad() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.Calls = append(m.Calls, "StopLoad")
}

func (m *MockAdaptive) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.Calls = append(m.Calls, "Destroy")
}

func (m *MockAdaptive) OnError(fn func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// Fail invokes the registered error callback, simulating an async failure.
func (m *MockAdaptive) Fail(err error) {
	m.mu.Lock()
	fn := m.onError
	m.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// Source returns the last loaded manifest URL.
func (m *MockAdaptive) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Loading reports whether segment fetching is active.
func (m *MockAdaptive) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Destroyed reports whether Destroy has been called.
func (m *MockAdaptive) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

var (
	_ Sink           = (*Mock)(nil)
	_ AdaptiveClient = (*MockAdaptive)(nil)
)
