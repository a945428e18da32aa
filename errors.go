package stride

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrProtocol indicates a stream frame violated the event protocol,
	// e.g. a payload that is not valid JSON.
	ErrProtocol = errors.New("protocol error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// CoachError is an application-level error reported by the coaching
// service inside the event stream. The message is surfaced verbatim.
type CoachError struct {
	Message string
}

func (e *CoachError) Error() string {
	return e.Message
}
