package stride

// State is a point-in-time snapshot of one adaptation exchange. It is a
// plain value: the controller hands out copies, and pointer fields are
// replaced rather than mutated, so a snapshot stays stable after return.
type State struct {
	// Plan is the structured reinterpretation of the narrative. Nil until
	// the exchange completes with a narrative that parses as a plan
	// document; the narrative itself remains authoritative when nil.
	Plan *Plan

	// Narrative is the accumulated coaching text. It only ever grows
	// within an exchange; it is cleared only when a new exchange starts
	// or the session is reset.
	Narrative string

	// RecoveryScore is the readiness assessment, nil until reported.
	RecoveryScore *float64

	// ThreadID is the server conversation handle, nil until reported.
	// It survives completion so follow-up calls can reference it.
	ThreadID *int64

	// Active reports whether an exchange is currently being consumed.
	Active bool

	// Err is the terminal error of the exchange: a *CoachError for
	// service-reported failures, a wrapped ErrProtocol for malformed
	// frames, or a transport error. Nil on clean runs; cancellation is
	// never recorded here.
	Err error
}
