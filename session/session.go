// Package session owns the lifecycle of one streaming adaptation exchange:
// it opens the stream, interprets payload frames as coaching events, and
// maintains the snapshot state the UI renders from.
package session

import (
	"context"
	"sync"

	"github.com/pwalczak/stride"
)

// Controller drives adaptation exchanges against a [stride.Streamer] and
// holds the state of the most recent one. Methods are safe for concurrent
// use: Start is synchronous and normally runs in its own goroutine while
// Snapshot is polled from elsewhere.
//
// Only one exchange is consumed at a time. Starting a new one cancels its
// predecessor, and a superseded exchange can no longer mutate state or
// fire callbacks; the generation counter enforces this.
type Controller struct {
	streamer stride.Streamer

	mu        sync.Mutex
	state     stride.State
	cancel    context.CancelFunc
	gen       int
	finalized bool
}

// New creates a Controller that opens streams via the given streamer.
func New(streamer stride.Streamer) *Controller {
	return &Controller{streamer: streamer}
}

// StartOption configures a single Start invocation.
type StartOption func(*startConfig)

type startConfig struct {
	onEvent    func(stride.Event)
	onComplete func(stride.State)
	onError    func(error)
}

// WithEventHandler sets a callback that receives each recognized coaching
// event, after the event's state mutation has been applied. If nil or not
// set, events are silently discarded.
func WithEventHandler(h func(stride.Event)) StartOption {
	return func(c *startConfig) {
		c.onEvent = h
	}
}

// WithCompletionHandler sets a callback invoked exactly once when the
// exchange completes, with the terminal snapshot. The snapshot's Plan is
// non-nil only when the narrative parsed as a plan document. It is not
// invoked for failed or aborted exchanges, nor for streams that end
// without a completion event.
func WithCompletionHandler(h func(stride.State)) StartOption {
	return func(c *startConfig) {
		c.onComplete = h
	}
}

// WithErrorHandler sets a callback invoked when the exchange fails
// terminally. Cancellation is an abort, not a failure, and never reaches
// the handler.
func WithErrorHandler(h func(error)) StartOption {
	return func(c *startConfig) {
		c.onError = h
	}
}
