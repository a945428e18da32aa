package stride

// Event is a sealed interface representing a decoded coaching event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventRecoveryScore carries the service's point-in-time assessment of
// physiological readiness, on a 0-100 scale.
type EventRecoveryScore struct {
	Score float64
}

func (EventRecoveryScore) event() {}

// EventThreadID carries the server-side conversation handle for this
// exchange. It is retained after completion so follow-up calls can
// reference the same thread.
type EventThreadID struct {
	ThreadID int64
}

func (EventThreadID) event() {}

// EventNarrative represents an incremental fragment of coaching narrative.
// Done marks the final fragment of the exchange.
type EventNarrative struct {
	Delta string
	Done  bool
}

func (EventNarrative) event() {}

// Interface compliance checks.
var (
	_ Event = EventRecoveryScore{}
	_ Event = EventThreadID{}
	_ Event = EventNarrative{}
)
