package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pwalczak/stride"
)

// Event kinds recognized on the wire.
const (
	kindRecoveryScore = "recovery_score"
	kindThreadID      = "thread_id"
	kindContent       = "content"
	kindError         = "error"
	kindDone          = "done"
)

// wireEvent is the JSON shape of one payload frame.
type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	Done bool            `json:"done"`
}

// Start runs one adaptation exchange to completion: it cancels any active
// exchange, clears the state, opens a stream for req against the endpoint
// path, and consumes it until a terminal event, an error, or a clean end.
//
// The returned error is nil on a clean end, context.Canceled when the
// exchange was aborted (by a newer Start, Reset, or the caller's context),
// and the terminal failure otherwise. Aborts are never recorded in the
// state and never reach the error handler.
func (c *Controller) Start(ctx context.Context, endpoint string, req stride.Request, opts ...StartOption) error {
	var cfg startConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	runCtx, gen := c.begin(ctx)
	defer c.finish(gen)

	stream, err := c.streamer.Stream(runCtx, endpoint, req)
	if err != nil {
		return c.fail(gen, &cfg, runCtx, err)
	}
	defer stream.Close()

	for {
		frame, err := stream.Next()
		if err == io.EOF {
			// Clean end. A stream that never produced a completion event
			// ends quietly: no completion callback, no error.
			return nil
		}
		if err != nil {
			return c.fail(gen, &cfg, runCtx, err)
		}
		if err := c.dispatch(gen, &cfg, frame); err != nil {
			return c.fail(gen, &cfg, runCtx, err)
		}
	}
}

// Reset aborts any active exchange and clears all state. Safe to call when
// idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.finalized = false
	c.state = stride.State{}
}

// Snapshot returns a copy of the current state. It never blocks on stream
// consumption and may be called mid-exchange.
func (c *Controller) Snapshot() stride.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// begin supersedes any active exchange and installs a fresh one, returning
// its cancelable context and generation.
func (c *Controller) begin(ctx context.Context) (context.Context, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	c.finalized = false
	c.state = stride.State{Active: true}
	return runCtx, c.gen
}

// finish releases the exchange's resources and clears the streaming flag,
// unless a newer exchange has taken over.
func (c *Controller) finish(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.state.Active = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// fail resolves a terminal error for the exchange. An aborted exchange
// reports context.Canceled to the caller and records nothing; anything
// else lands in the state and reaches the error handler, provided the
// exchange is still current.
func (c *Controller) fail(gen int, cfg *startConfig, runCtx context.Context, err error) error {
	if errors.Is(runCtx.Err(), context.Canceled) {
		return context.Canceled
	}
	if c.mutate(gen, func(s *stride.State) {
		s.Err = err
		s.Active = false
	}) && cfg.onError != nil {
		cfg.onError(err)
	}
	return err
}

// dispatch interprets a single payload frame. It returns the terminal
// error for error events and protocol violations; recording is left to the
// caller.
func (c *Controller) dispatch(gen int, cfg *startConfig, frame string) error {
	var evt wireEvent
	if err := json.Unmarshal([]byte(frame), &evt); err != nil {
		return fmt.Errorf("session: malformed event: %v: %w", err, stride.ErrProtocol)
	}

	switch evt.Type {
	case kindRecoveryScore:
		var score float64
		if err := json.Unmarshal(evt.Data, &score); err != nil {
			return fmt.Errorf("session: recovery_score payload: %v: %w", err, stride.ErrProtocol)
		}
		c.mutate(gen, func(s *stride.State) { s.RecoveryScore = &score })
		c.emit(gen, cfg, stride.EventRecoveryScore{Score: score})

	case kindThreadID:
		var id int64
		if err := json.Unmarshal(evt.Data, &id); err != nil {
			return fmt.Errorf("session: thread_id payload: %v: %w", err, stride.ErrProtocol)
		}
		c.mutate(gen, func(s *stride.State) { s.ThreadID = &id })
		c.emit(gen, cfg, stride.EventThreadID{ThreadID: id})

	case kindContent:
		var delta string
		if err := json.Unmarshal(evt.Data, &delta); err != nil {
			return fmt.Errorf("session: content payload: %v: %w", err, stride.ErrProtocol)
		}
		c.mutate(gen, func(s *stride.State) { s.Narrative += delta })
		c.emit(gen, cfg, stride.EventNarrative{Delta: delta, Done: evt.Done})
		if evt.Done {
			c.finalize(gen, cfg)
		}

	case kindError:
		var msg string
		if err := json.Unmarshal(evt.Data, &msg); err != nil {
			return fmt.Errorf("session: error payload: %v: %w", err, stride.ErrProtocol)
		}
		return &stride.CoachError{Message: msg}

	case kindDone:
		c.finalize(gen, cfg)

	default:
		// Unknown event kinds are skipped so protocol additions don't
		// break older clients.
	}
	return nil
}

// finalize runs the completion path at most once per exchange: attempt the
// structured reinterpretation of the narrative, clear the streaming flag,
// and notify the completion handler with the terminal snapshot. Duplicate
// completion signals are no-ops.
func (c *Controller) finalize(gen int, cfg *startConfig) {
	c.mu.Lock()
	if gen != c.gen || c.finalized {
		c.mu.Unlock()
		return
	}
	c.finalized = true
	// Parse failure is not an error: the narrative stays authoritative.
	if plan, err := stride.ParsePlan(c.state.Narrative); err == nil {
		c.state.Plan = plan
	}
	c.state.Active = false
	snapshot := c.state
	c.mu.Unlock()

	if cfg.onComplete != nil {
		cfg.onComplete(snapshot)
	}
}

// mutate applies fn to the state if the exchange is still current.
func (c *Controller) mutate(gen int, fn func(*stride.State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	fn(&c.state)
	return true
}

// emit forwards an event to the handler if the exchange is still current.
func (c *Controller) emit(gen int, cfg *startConfig, evt stride.Event) {
	if cfg.onEvent == nil {
		return
	}
	c.mu.Lock()
	current := gen == c.gen
	c.mu.Unlock()
	if current {
		cfg.onEvent(evt)
	}
}
