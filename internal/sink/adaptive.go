package sink

// AdaptiveClient drives a segmented stream into a sink. The playback
// controller owns at most one client at a time and destroys it before
// switching to a progressive source or another manifest.
type AdaptiveClient interface {
	// LoadSource fetches and parses the manifest at url.
	LoadSource(url string)
	// AttachSink hands segment bytes to the given sink via SetReader.
	AttachSink(s Sink)
	// StartLoad begins (or resumes) fetching segments.
	StartLoad()
	// StopLoad suspends segment fetching without discarding state.
	StopLoad()
	// Destroy releases the client. It must not be reused afterwards.
	Destroy()
	// OnError registers a callback for asynchronous fetch/parse failures.
	OnError(fn func(err error))
}

// AdaptiveFactory builds a client for one manifest. A nil factory means
// segmented sources fall back to direct URL assignment, which only works
// where the platform can play manifests natively.
type AdaptiveFactory func() AdaptiveClient
