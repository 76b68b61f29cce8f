package favorites

const eventBufferSize = 16

// Subscription delivers favorites-changed notifications. Events carry no
// payload; the subscriber re-reads the current list from the projector.
// Notifications are delivered in mutation order.
type Subscription struct {
	Changed <-chan struct{}
	Done    <-chan struct{}

	changedCh chan struct{}
	doneCh    chan struct{}
}

// newSubscription creates a new subscription with a buffered channel.
func newSubscription() *Subscription {
	s := &Subscription{
		changedCh: make(chan struct{}, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.Changed = s.changedCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendChanged sends a change notification (non-blocking).
func (s *Subscription) sendChanged() {
	select {
	case s.changedCh <- struct{}{}:
	default:
		// Drop if buffer full; the subscriber re-pulls state anyway.
	}
}
