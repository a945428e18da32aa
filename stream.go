package stride

import "context"

// FrameStream uses a pull-based iterator pattern over the payload frames of
// one streaming exchange. Cancellation flows through the context passed to
// Streamer.Stream().
//
// Next() returns the next payload frame with the transport framing already
// stripped. It returns io.EOF when the stream ends cleanly, whether via the
// end sentinel or the server closing the connection. Any other error is a
// decode/transport failure; when the failure was caused by cancellation the
// error is the context's error.
type FrameStream interface {
	Next() (string, error)
	Close() error
}

// Streamer opens adaptation exchanges against the coaching service. It is
// the seam between the session controller and the transport.
type Streamer interface {
	Stream(ctx context.Context, endpoint string, req Request) (FrameStream, error)
}
