package playback

import (
	"errors"
	"strings"
	"testing"

	"github.com/llehouerou/tuner/internal/carousel"
	"github.com/llehouerou/tuner/internal/catalog"
	"github.com/llehouerou/tuner/internal/sink"
)

func stationList(ids ...string) []catalog.Station {
	out := make([]catalog.Station, len(ids))
	for i, id := range ids {
		out[i] = catalog.Station{
			ID:     id,
			Name:   strings.ToUpper(id),
			Stream: "https://radio.example.com/" + id + ".mp3",
		}
	}
	return out
}

func newTestController(factory sink.AdaptiveFactory) (*Controller, *sink.Mock, *carousel.MockRotation) {
	out := sink.NewMock()
	rot := carousel.NewMockRotation()
	return NewController(out, rot, factory), out, rot
}

func drain(sub *Subscription) []Event {
	var events []Event
	for {
		select {
		case e := <-sub.Events:
			events = append(events, e)
		default:
			return events
		}
	}
}

func lastURL(out *sink.Mock) string {
	return out.URL()
}

func TestController_StartsEmpty(t *testing.T) {
	c, out, _ := newTestController(nil)

	if got := c.Status(); got != Empty {
		t.Fatalf("Status() = %v, want Empty", got)
	}
	c.ActivateCenter()
	c.Next()
	if len(out.Calls) != 0 {
		t.Errorf("sink calls = %v, want none while empty", out.Calls)
	}
}

func TestController_MountAnnouncesFirstStation(t *testing.T) {
	c, _, _ := newTestController(nil)
	sub := c.Subscribe()

	c.SetFavorites(stationList("st1", "st2"))

	if got := c.Status(); got != Idle {
		t.Errorf("Status() = %v, want Idle", got)
	}
	var sawStation, sawStatus bool
	for _, e := range drain(sub) {
		switch ev := e.(type) {
		case StationChanged:
			sawStation = ev.Station.ID == "st1"
		case StatusChanged:
			sawStatus = ev.Status == Idle
		}
	}
	if !sawStation || !sawStatus {
		t.Errorf("missing StationChanged(st1)=%v or StatusChanged(Idle)=%v", sawStation, sawStatus)
	}
}

func TestController_FirstActivationUnlocksAndPlays(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2"))

	c.ActivateCenter()

	if !c.Unlocked() {
		t.Error("Unlocked() = false after first activation")
	}
	if got := c.Status(); got != Playing {
		t.Errorf("Status() = %v, want Playing", got)
	}
	if got := lastURL(out); got != "https://radio.example.com/st1.mp3" {
		t.Errorf("sink URL = %q, want st1 stream", got)
	}
}

func TestController_CenterTogglesPause(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()

	c.ActivateCenter()
	if got := c.Status(); got != Paused {
		t.Fatalf("Status() after second activation = %v, want Paused", got)
	}
	if out.Sounding() {
		t.Error("sink still sounding after pause")
	}

	c.ActivateCenter()
	if got := c.Status(); got != Playing {
		t.Errorf("Status() after third activation = %v, want Playing", got)
	}
	// Resume must not reassign the source.
	var setURLs int
	for _, call := range out.Calls {
		if strings.HasPrefix(call, "SetURL") {
			setURLs++
		}
	}
	if setURLs != 1 {
		t.Errorf("SetURL count = %d, want 1 (resume reuses the pipeline)", setURLs)
	}
}

func TestController_MoveBeforeUnlockDoesNotPlay(t *testing.T) {
	c, out, rot := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1", "st2"))
	drain(sub)

	c.Next()
	rot.FireMoved()

	if c.Unlocked() {
		t.Error("Unlocked() = true without any activation")
	}
	for _, call := range out.Calls {
		if call == "Play" {
			t.Fatalf("sink calls = %v, want no Play before unlock", out.Calls)
		}
	}
	var sawStation bool
	for _, e := range drain(sub) {
		if ev, ok := e.(StationChanged); ok && ev.Station.ID == "st2" {
			sawStation = true
		}
	}
	if !sawStation {
		t.Error("missing StationChanged(st2) after move")
	}
}

func TestController_MoveAfterUnlockAutoplays(t *testing.T) {
	c, out, rot := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2", "st3"))
	c.ActivateCenter()

	c.Next()
	rot.FireMoved()

	if got := lastURL(out); got != "https://radio.example.com/st2.mp3" {
		t.Errorf("sink URL = %q, want st2 stream after move", got)
	}
	if got := c.Status(); got != Playing {
		t.Errorf("Status() = %v, want Playing", got)
	}
}

func TestController_MoveGuardWhileSettling(t *testing.T) {
	c, _, rot := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2", "st3"))

	rot.SetMoving(true)
	c.Next()

	if got := rot.Index(); got != 0 {
		t.Errorf("rotation index = %d, want 0 (move ignored while settling)", got)
	}
}

func TestController_RebuildKeepsSurvivingStream(t *testing.T) {
	c, out, rot := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2", "st3"))
	c.ActivateCenter()
	c.Next()
	rot.FireMoved() // now playing st2
	callsBefore := len(out.Calls)

	c.SetFavorites(stationList("st2", "st3"))

	if got := rot.Index(); got != 0 {
		t.Errorf("rotation index = %d, want 0 (st2 repositioned)", got)
	}
	if got := c.Status(); got != Playing {
		t.Errorf("Status() = %v, want Playing preserved", got)
	}
	if len(out.Calls) != callsBefore {
		t.Errorf("sink calls after rebuild = %v, want untouched", out.Calls[callsBefore:])
	}
}

func TestController_RebuildWithoutCurrentStops(t *testing.T) {
	c, out, rot := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1", "st2", "st3"))
	c.ActivateCenter()
	c.Next()
	rot.FireMoved() // playing st2
	drain(sub)

	c.SetFavorites(stationList("st1", "st3"))

	if got := c.Status(); got != Idle {
		t.Errorf("Status() = %v, want Idle after current removed", got)
	}
	if out.Sounding() {
		t.Error("sink still sounding after current station removed")
	}
	var sawStation bool
	for _, e := range drain(sub) {
		if ev, ok := e.(StationChanged); ok && ev.Station.ID == "st1" {
			sawStation = true
		}
	}
	if !sawStation {
		t.Error("missing StationChanged(st1) after rebuild")
	}
}

func TestController_RebuildToEmptyGoesInert(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()

	c.SetFavorites(nil)

	if got := c.Status(); got != Empty {
		t.Errorf("Status() = %v, want Empty", got)
	}
	if out.Sounding() {
		t.Error("sink still sounding after rotation emptied")
	}
	c.ActivateCenter()
	if got := c.Status(); got != Empty {
		t.Errorf("Status() after activation on empty = %v, want Empty", got)
	}
}

func TestController_PreviewDisplacesRotation(t *testing.T) {
	c, out, _ := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()
	drain(sub)

	preview := catalog.Station{ID: "px", Name: "PX", Stream: "https://radio.example.com/px.mp3"}
	c.PreviewPlay(preview)

	if got := c.Status(); got != Paused {
		t.Errorf("Status() = %v, want Paused while previewing", got)
	}
	if _, ok := c.Previewing(); !ok {
		t.Error("Previewing() = false, want active preview")
	}
	if got := lastURL(out); got != "https://radio.example.com/px.mp3" {
		t.Errorf("sink URL = %q, want preview stream", got)
	}
	var sawStart bool
	for _, e := range drain(sub) {
		if ev, ok := e.(PreviewStarted); ok && ev.Station.ID == "px" {
			sawStart = true
		}
	}
	if !sawStart {
		t.Error("missing PreviewStarted event")
	}
}

func TestController_PreviewStopDoesNotResumeRotation(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()
	c.PreviewPlay(catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"})

	c.PreviewStop()

	if _, ok := c.Previewing(); ok {
		t.Error("Previewing() = true after stop")
	}
	if got := c.Status(); got != Paused {
		t.Errorf("Status() = %v, want Paused (no auto-resume)", got)
	}
	if out.Sounding() {
		t.Error("sink sounding after preview stop")
	}
}

func TestController_PreviewReclickTogglesOff(t *testing.T) {
	c, _, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	px := catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"}

	c.PreviewPlay(px)
	c.PreviewPlay(px)

	if _, ok := c.Previewing(); ok {
		t.Error("Previewing() = true after re-click, want toggled off")
	}
}

func TestController_PreviewSwitchesStations(t *testing.T) {
	c, out, _ := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1"))
	pa := catalog.Station{ID: "pa", Name: "PA", Stream: "https://radio.example.com/pa.mp3"}
	pb := catalog.Station{ID: "pb", Name: "PB", Stream: "https://radio.example.com/pb.mp3"}

	c.PreviewPlay(pa)
	drain(sub)
	c.PreviewPlay(pb)

	st, ok := c.Previewing()
	if !ok || st.ID != "pb" {
		t.Errorf("Previewing() = %v, %v, want pb only", st.ID, ok)
	}
	if got := lastURL(out); got != "https://radio.example.com/pb.mp3" {
		t.Errorf("sink URL = %q, want pb stream", got)
	}
	if !out.Sounding() {
		t.Error("sink not sounding after switching previews")
	}
	var sawStart bool
	for _, e := range drain(sub) {
		if ev, ok := e.(PreviewStarted); ok && ev.Station.ID == "pb" {
			sawStart = true
		}
	}
	if !sawStart {
		t.Error("missing PreviewStarted event for pb")
	}
}

func TestController_ResumeAfterPreviewRestartsStream(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()
	c.PreviewPlay(catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"})
	c.PreviewStop()

	c.ActivateCenter()

	if got := c.Status(); got != Playing {
		t.Fatalf("Status() = %v, want Playing", got)
	}
	if got := lastURL(out); got != "https://radio.example.com/st1.mp3" {
		t.Errorf("sink URL = %q, want full restart of st1", got)
	}
}

func TestController_CenterDuringPreviewReturnsToRotation(t *testing.T) {
	c, out, _ := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()
	c.PreviewPlay(catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"})
	drain(sub)

	c.ActivateCenter()

	if _, ok := c.Previewing(); ok {
		t.Error("preview still active after center activation")
	}
	if got := lastURL(out); got != "https://radio.example.com/st1.mp3" {
		t.Errorf("sink URL = %q, want rotation station restarted", got)
	}
	var sawStop bool
	for _, e := range drain(sub) {
		if _, ok := e.(PreviewStopped); ok {
			sawStop = true
		}
	}
	if !sawStop {
		t.Error("missing PreviewStopped event")
	}
}

func TestController_MoveCancelsPreview(t *testing.T) {
	c, out, rot := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2"))
	c.ActivateCenter()
	c.PreviewPlay(catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"})

	c.Next()
	rot.FireMoved()

	if _, ok := c.Previewing(); ok {
		t.Error("preview survived a rotation move")
	}
	if got := lastURL(out); got != "https://radio.example.com/st2.mp3" {
		t.Errorf("sink URL = %q, want st2 after move", got)
	}
	if got := c.Status(); got != Playing {
		t.Errorf("Status() = %v, want Playing", got)
	}
}

func TestController_PreviewSurvivesFavoritesRebuild(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1", "st2"))
	px := catalog.Station{ID: "px", Stream: "https://radio.example.com/px.mp3"}
	c.PreviewPlay(px)

	c.SetFavorites(stationList("st2"))

	if got, ok := c.Previewing(); !ok || got.ID != "px" {
		t.Errorf("Previewing() = %v, %v, want px still active", got.ID, ok)
	}
	if got := lastURL(out); got != "https://radio.example.com/px.mp3" {
		t.Errorf("sink URL = %q, want preview stream untouched", got)
	}
}

func TestController_PlayFailureReportsAndReconciles(t *testing.T) {
	c, out, _ := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1"))
	drain(sub)
	out.SetPlayError(errors.New("codec not supported"))

	c.ActivateCenter()

	if got := c.Status(); got != Idle {
		t.Errorf("Status() = %v, want Idle after failed start", got)
	}
	var sawError bool
	for _, e := range drain(sub) {
		if ev, ok := e.(PlaybackError); ok && strings.Contains(ev.Message, "start stream") {
			sawError = true
		}
	}
	if !sawError {
		t.Error("missing PlaybackError event for failed start")
	}
}

func TestController_StreamDeathGoesIdle(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()

	out.Stop() // simulates the stream dying under the controller

	if got := c.Status(); got != Idle {
		t.Errorf("Status() = %v, want Idle after stream death", got)
	}
}

func TestController_AdaptiveLifecycle(t *testing.T) {
	var clients []*sink.MockAdaptive
	factory := func() sink.AdaptiveClient {
		m := sink.NewMockAdaptive()
		clients = append(clients, m)
		return m
	}
	c, _, rot := newTestController(factory)

	hls := []catalog.Station{
		{ID: "h1", Stream: "https://radio.example.com/h1/playlist.m3u8"},
		{ID: "h2", Stream: "https://radio.example.com/h2/playlist.m3u8"},
	}
	c.SetFavorites(hls)
	c.ActivateCenter()

	if len(clients) != 1 {
		t.Fatalf("adaptive clients created = %d, want 1", len(clients))
	}
	if clients[0].Source() != hls[0].Stream {
		t.Errorf("LoadSource = %q, want %q", clients[0].Source(), hls[0].Stream)
	}
	if !clients[0].Loading() {
		t.Error("client not loading after activation")
	}

	// Pause keeps the client alive, only fetching stops.
	c.ActivateCenter()
	if clients[0].Destroyed() {
		t.Error("pause destroyed the adaptive client")
	}
	if clients[0].Loading() {
		t.Error("pause left the client loading")
	}

	c.ActivateCenter() // resume
	if !clients[0].Loading() {
		t.Error("resume did not restart loading")
	}

	// Switching stations replaces the client.
	c.Next()
	rot.FireMoved()
	if !clients[0].Destroyed() {
		t.Error("station switch kept the old adaptive client")
	}
	if len(clients) != 2 || clients[1].Source() != hls[1].Stream {
		t.Fatalf("clients = %d, want a second one for h2", len(clients))
	}
}

func TestController_AdaptiveFallbackWithoutFactory(t *testing.T) {
	c, out, _ := newTestController(nil)
	c.SetFavorites([]catalog.Station{{ID: "h1", Stream: "https://radio.example.com/h1/playlist.m3u8"}})

	c.ActivateCenter()

	if got := lastURL(out); got != "https://radio.example.com/h1/playlist.m3u8" {
		t.Errorf("sink URL = %q, want direct manifest assignment", got)
	}
}

func TestController_AdaptiveErrorSurfaces(t *testing.T) {
	var client *sink.MockAdaptive
	factory := func() sink.AdaptiveClient {
		client = sink.NewMockAdaptive()
		return client
	}
	c, _, _ := newTestController(factory)
	sub := c.Subscribe()
	c.SetFavorites([]catalog.Station{{ID: "h1", Stream: "https://radio.example.com/h1/playlist.m3u8"}})
	c.ActivateCenter()
	drain(sub)

	client.Fail(errors.New("manifest unreachable"))

	var sawError bool
	for _, e := range drain(sub) {
		if ev, ok := e.(PlaybackError); ok && strings.Contains(ev.Message, "manifest unreachable") {
			sawError = true
		}
	}
	if !sawError {
		t.Error("missing PlaybackError for adaptive failure")
	}
}

func TestController_CloseStopsEverything(t *testing.T) {
	c, out, _ := newTestController(nil)
	sub := c.Subscribe()
	c.SetFavorites(stationList("st1"))
	c.ActivateCenter()

	c.Close()

	select {
	case <-sub.Done:
	default:
		t.Error("Done not closed after controller Close")
	}
	if out.Sounding() {
		t.Error("sink sounding after Close")
	}
	c.ActivateCenter() // must be inert
}
