package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	speakerBufferSize = 250 * time.Millisecond
	userAgent         = "tuner/1.0 (https://github.com/llehouerou/tuner)"
)

// ErrNoSource is returned by Play when nothing has been assigned.
var ErrNoSource = errors.New("no stream source assigned")

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// initSpeaker initializes (or re-initializes on a rate change) the shared
// speaker. Radio streams switch sample rates between stations.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if rate == speakerRate {
		return nil
	}
	if err := speaker.Init(rate, rate.N(speakerBufferSize)); err != nil {
		return fmt.Errorf("initialize audio output: %w", err)
	}
	speakerRate = rate
	return nil
}

// Stream is the beep-backed sink implementation. Progressive sources are
// fetched over HTTP and decoded on the fly; segmented sources arrive through
// a reader owned by an adaptive client.
type Stream struct {
	mu         sync.Mutex
	httpClient *http.Client

	srcURL    string
	srcReader io.ReadCloser
	srcFormat StreamFormat

	ctrl     *beep.Ctrl
	pipeline io.Closer
	live     bool
	sounding bool
	onState  func(bool)
	closed   bool
}

// NewStream creates the sink. The HTTP client has no overall timeout:
// streams are long-lived. Dial and header deadlines still apply; a
// non-positive dialTimeout keeps the default.
func NewStream(dialTimeout time.Duration) *Stream {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &Stream{
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: dialTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   dialTimeout,
				ResponseHeaderTimeout: 15 * time.Second,
				DisableCompression:    true,
			},
		},
	}
}

// SetURL assigns a progressive source, tearing down any current pipeline.
func (s *Stream) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.srcURL = url
	s.srcReader = nil
	s.srcFormat = GuessFormat(url)
}

// SetReader assigns a segmented source, tearing down any current pipeline.
func (s *Stream) SetReader(r io.ReadCloser, format StreamFormat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.srcURL = ""
	s.srcReader = r
	s.srcFormat = format
}

// Play starts the assigned source, or resumes a paused pipeline.
func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("sink closed")
	}

	// Resume path: a live pipeline only needs unpausing.
	if s.live && s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = false
		speaker.Unlock()
		s.setSoundingLocked(true)
		return nil
	}

	rc, format, err := s.openSourceLocked()
	if err != nil {
		return err
	}

	streamer, rate, err := newStreamer(rc, format)
	if err != nil {
		rc.Close()
		return err
	}

	if err := initSpeaker(rate); err != nil {
		streamer.Close()
		return err
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: false}
	s.ctrl = ctrl
	s.pipeline = streamer
	s.live = true

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		// Decoder ran dry: the network stream ended or failed. The sounding
		// flag must follow the real output state.
		s.mu.Lock()
		if s.ctrl == ctrl {
			s.live = false
			s.setSoundingLocked(false)
		}
		s.mu.Unlock()
	})))

	s.setSoundingLocked(true)
	return nil
}

// Pause suspends output, keeping the pipeline attached so resuming is fast.
func (s *Stream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
	s.setSoundingLocked(false)
}

// Stop halts output and detaches the source.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.srcURL = ""
	s.srcReader = nil
	s.setSoundingLocked(false)
}

// Sounding reports whether audio is currently audible.
func (s *Stream) Sounding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sounding
}

// OnStateChange registers the sounding-state callback.
func (s *Stream) OnStateChange(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = fn
}

// Close releases the sink permanently.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.closed = true
	return nil
}

// openSourceLocked produces the byte stream to decode. Progressive URLs are
// dialed here; Play surfaces the failure to the caller, which mirrors a
// media element rejecting play().
func (s *Stream) openSourceLocked() (io.ReadCloser, StreamFormat, error) {
	if s.srcReader != nil {
		rc := s.srcReader
		s.srcReader = nil // pipeline takes ownership
		return rc, s.srcFormat, nil
	}
	if s.srcURL == "" {
		return nil, FormatUnknown, ErrNoSource
	}

	req, err := http.NewRequest(http.MethodGet, s.srcURL, http.NoBody)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("fetch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, FormatUnknown, fmt.Errorf("stream returned status %s", resp.Status)
	}

	format := s.srcFormat
	if format == FormatUnknown {
		format = FormatFromContentType(resp.Header.Get("Content-Type"))
	}
	return resp.Body, format, nil
}

func (s *Stream) teardownLocked() {
	if s.ctrl != nil {
		speaker.Clear()
		s.ctrl = nil
	}
	if s.pipeline != nil {
		_ = s.pipeline.Close()
		s.pipeline = nil
	}
	if s.srcReader != nil {
		_ = s.srcReader.Close()
		s.srcReader = nil
	}
	s.live = false
}

func (s *Stream) setSoundingLocked(sounding bool) {
	if s.sounding == sounding {
		return
	}
	s.sounding = sounding
	if s.onState != nil {
		fn := s.onState
		// Callbacks run outside the lock.
		s.mu.Unlock()
		fn(sounding)
		s.mu.Lock()
	}
}

// streamCloser pairs a beep.Streamer with the resources behind it.
type streamCloser interface {
	beep.Streamer
	io.Closer
}

// newStreamer builds the decode pipeline for a byte stream. Unknown formats
// are sniffed from the first bytes; when even that is inconclusive, MP3 is
// assumed, the overwhelmingly common progressive radio codec.
func newStreamer(rc io.ReadCloser, format StreamFormat) (streamCloser, beep.SampleRate, error) {
	if format == FormatUnknown {
		br := bufio.NewReaderSize(rc, 32*1024)
		rc = &bufferedReadCloser{Reader: br, closer: rc}
		format = sniffFormat(br)
	}
	switch format {
	case FormatAAC:
		return newADTSStreamer(rc)
	case FormatMP3:
		return newMP3Streamer(rc)
	default:
		rc.Close()
		return nil, 0, fmt.Errorf("unsupported stream format %v", format)
	}
}

// sniffFormat inspects the first bytes of a stream. ADTS frames carry zero
// layer bits after the syncword, which tells them apart from MP3 frames.
func sniffFormat(br *bufio.Reader) StreamFormat {
	b, err := br.Peek(3)
	if err != nil || len(b) < 3 {
		return FormatMP3
	}
	if b[0] == 'I' && b[1] == 'D' && b[2] == '3' {
		return FormatMP3
	}
	if b[0] == 0xFF && b[1]&0xF6 == 0xF0 {
		return FormatAAC
	}
	return FormatMP3
}

// bufferedReadCloser lets a sniffed stream keep its peeked bytes.
type bufferedReadCloser struct {
	*bufio.Reader
	closer io.Closer
}

func (b *bufferedReadCloser) Close() error { return b.closer.Close() }

// Verify Stream implements Sink at compile time.
var _ Sink = (*Stream)(nil)
