package playback

const eventBufferSize = 32

// Subscription delivers playback events in emission order.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventCh chan Event
	doneCh  chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventCh: make(chan Event, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers an event without blocking. A full buffer drops the event;
// subscribers resynchronize from controller state.
func (s *Subscription) send(e Event) {
	select {
	case s.eventCh <- e:
	default:
	}
}
