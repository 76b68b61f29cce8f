package sink

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// hlsServer serves a master playlist, a media playlist with an end tag and
// two segments.
func hlsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=128000\n%s/media.m3u8\n", srv.URL)
	})
	mux.HandleFunc("/media.m3u8", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "#EXTM3U\n#EXT-X-TARGETDURATION:4\n#EXT-X-MEDIA-SEQUENCE:7\n#EXTINF:4,\nseg7.aac\n#EXTINF:4,\nseg8.aac\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/seg7.aac", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "AAAA")
	})
	mux.HandleFunc("/seg8.aac", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "BBBB")
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHLSClient_StreamsSegmentsInOrder(t *testing.T) {
	srv := hlsServer(t)

	client := NewHLSClient()
	out := NewMock()
	client.LoadSource(srv.URL + "/master.m3u8")
	client.AttachSink(out)
	t.Cleanup(client.Destroy)

	r := out.Reader()
	if r == nil {
		t.Fatal("AttachSink did not hand the sink a reader")
	}

	client.StartLoad()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "AAAABBBB" {
		t.Errorf("segment bytes = %q, want %q", got, "AAAABBBB")
	}
}

func TestHLSClient_ErrorCallbackOnBadManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewHLSClient()
	out := NewMock()
	errCh := make(chan error, 1)
	client.OnError(func(err error) { errCh <- err })
	client.LoadSource(srv.URL + "/missing.m3u8")
	client.AttachSink(out)
	t.Cleanup(client.Destroy)

	client.StartLoad()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("error callback fired with nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error callback never fired for missing manifest")
	}
}

func TestHLSClient_StopDuringBlockedWriteNoDuplicate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/live.m3u8", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "#EXTM3U\n#EXT-X-TARGETDURATION:4\n#EXT-X-MEDIA-SEQUENCE:7\n#EXTINF:4,\nseg7.aac\n")
	})
	mux.HandleFunc("/seg7.aac", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "AAAA")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewHLSClient()
	out := NewMock()
	client.LoadSource(srv.URL + "/live.m3u8")
	client.AttachSink(out)
	t.Cleanup(client.Destroy)

	// Nobody reads the pipe yet, so the first pump blocks inside the
	// segment write. Stopping and restarting in that window must not make
	// the second pump fetch the same segment again.
	client.StartLoad()
	time.Sleep(200 * time.Millisecond)
	client.StopLoad()
	client.StartLoad()

	r := out.Reader()
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("ReadFull() error = %v", err)
	}
	if string(buf) != "AAAA" {
		t.Fatalf("segment bytes = %q, want %q", buf, "AAAA")
	}

	extra := make(chan byte, 1)
	go func() {
		one := make([]byte, 1)
		if _, err := r.Read(one); err == nil {
			extra <- one[0]
		}
	}()
	select {
	case b := <-extra:
		t.Errorf("unexpected extra byte %q, segment delivered twice", b)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestHLSClient_StartAfterDestroyIsNoop(t *testing.T) {
	srv := hlsServer(t)

	client := NewHLSClient()
	out := NewMock()
	client.LoadSource(srv.URL + "/master.m3u8")
	client.AttachSink(out)
	client.Destroy()

	client.StartLoad()
	if client.loading {
		t.Error("StartLoad after Destroy must not begin loading")
	}
}
