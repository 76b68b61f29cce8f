package sink

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultRefresh = 4 * time.Second

// HLSClient streams an HLS media playlist into a sink. It follows the
// first variant of a master playlist, fetches segments in media-sequence
// order and refreshes live playlists until an end tag appears.
type HLSClient struct {
	httpClient *http.Client

	mu          sync.Mutex
	manifestURL string
	sink        Sink
	onError     func(error)
	pw          *io.PipeWriter

	mediaURL  string
	lastSeq   int
	hasSeq    bool
	stopCh    chan struct{}
	loading   bool
	destroyed bool
}

// NewHLSClient creates a client. It satisfies AdaptiveFactory when wrapped:
//
//	factory := func() sink.AdaptiveClient { return sink.NewHLSClient() }
func NewHLSClient() *HLSClient {
	return &HLSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// LoadSource records the manifest to stream. Fetching starts with StartLoad.
func (c *HLSClient) LoadSource(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifestURL = url
	c.mediaURL = ""
	c.hasSeq = false
}

// AttachSink connects the client's segment pipe to the sink. Segment bytes
// are format-sniffed by the sink, so no codec is pinned here.
func (c *HLSClient) AttachSink(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pr, pw := io.Pipe()
	c.sink = s
	c.pw = pw
	s.SetReader(pr, FormatUnknown)
}

// StartLoad begins or resumes segment fetching.
func (c *HLSClient) StartLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.loading || c.manifestURL == "" || c.pw == nil {
		return
	}
	stop := make(chan struct{})
	c.stopCh = stop
	c.loading = true
	go c.run(stop, c.pw)
}

// StopLoad suspends fetching. Sequence state survives so StartLoad resumes
// where the stream left off.
func (c *HLSClient) StopLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Destroy stops the client and closes the pipe. The sink notices the
// stream ending through its decoder draining.
func (c *HLSClient) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	if c.pw != nil {
		_ = c.pw.Close()
		c.pw = nil
	}
	c.destroyed = true
}

// OnError registers the asynchronous failure callback.
func (c *HLSClient) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

func (c *HLSClient) stopLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
	c.loading = false
}

func (c *HLSClient) fail(err error) {
	c.mu.Lock()
	fn := c.onError
	c.loading = false
	c.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// run is the fetch loop. It resolves the media playlist once, then pumps
// new segments into the pipe, refreshing live playlists between rounds.
func (c *HLSClient) run(stop chan struct{}, pw *io.PipeWriter) {
	mediaURL, err := c.resolveMediaURL()
	if err != nil {
		c.fail(err)
		return
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		pl, err := c.fetchPlaylist(mediaURL)
		if err != nil {
			c.fail(err)
			return
		}

		if err := c.pumpSegments(stop, pw, mediaURL, pl); err != nil {
			if err == io.ErrClosedPipe {
				return
			}
			c.fail(err)
			return
		}

		if pl.Ended {
			_ = pw.Close()
			c.mu.Lock()
			c.loading = false
			c.mu.Unlock()
			return
		}

		refresh := defaultRefresh
		if pl.TargetDuration > 0 {
			refresh = time.Duration(pl.TargetDuration * float64(time.Second) / 2)
		}
		select {
		case <-stop:
			return
		case <-time.After(refresh):
		}
	}
}

// pumpSegments writes segments newer than the last delivered sequence.
func (c *HLSClient) pumpSegments(stop chan struct{}, pw *io.PipeWriter, mediaURL string, pl mediaPlaylist) error {
	for _, seg := range pl.Segments {
		c.mu.Lock()
		skip := c.hasSeq && seg.Sequence <= c.lastSeq
		c.mu.Unlock()
		if skip {
			continue
		}

		select {
		case <-stop:
			return nil
		default:
		}

		body, err := c.get(resolveRef(mediaURL, seg.URI))
		if err != nil {
			return fmt.Errorf("fetch segment %d: %w", seg.Sequence, err)
		}

		// The sequence is recorded before the write: a pump superseded
		// while blocked in Write still delivers its bytes once the sink
		// drains the pipe, so its successor must never fetch the same
		// segment again.
		c.mu.Lock()
		c.lastSeq = seg.Sequence
		c.hasSeq = true
		c.mu.Unlock()

		_, werr := pw.Write(body)
		if werr != nil {
			return io.ErrClosedPipe
		}

		select {
		case <-stop:
			return nil
		default:
		}
	}
	return nil
}

// resolveMediaURL descends from a master playlist to its first variant.
// Already-resolved media URLs are reused across StartLoad calls.
func (c *HLSClient) resolveMediaURL() (string, error) {
	c.mu.Lock()
	manifest := c.manifestURL
	media := c.mediaURL
	c.mu.Unlock()

	if media != "" {
		return media, nil
	}

	current := manifest
	// A manifest may chain master playlists; two levels is plenty.
	for depth := 0; depth < 3; depth++ {
		body, err := c.get(current)
		if err != nil {
			return "", fmt.Errorf("fetch playlist: %w", err)
		}
		_, variants, perr := parsePlaylist(string(body))
		if perr == errMasterPlaylist {
			current = resolveRef(current, variants[0])
			continue
		}
		if perr != nil {
			return "", fmt.Errorf("parse playlist: %w", perr)
		}
		c.mu.Lock()
		c.mediaURL = current
		c.mu.Unlock()
		return current, nil
	}
	return "", fmt.Errorf("playlist nesting too deep at %s", current)
}

func (c *HLSClient) fetchPlaylist(url string) (mediaPlaylist, error) {
	body, err := c.get(url)
	if err != nil {
		return mediaPlaylist{}, fmt.Errorf("refresh playlist: %w", err)
	}
	pl, _, perr := parsePlaylist(string(body))
	if perr != nil {
		return mediaPlaylist{}, fmt.Errorf("parse playlist: %w", perr)
	}
	return pl, nil
}

func (c *HLSClient) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

var _ AdaptiveClient = (*HLSClient)(nil)
