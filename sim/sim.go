// Package sim is a development stand-in for the Stride coaching service.
//
// It serves the same streaming protocol the production API speaks, so the
// whole client stack (transport, framing, session controller, TUI) can be
// exercised end to end without credentials. Narrative content comes from a
// pluggable [Generator]: canned fragments by default, or the Gemini API
// when a key is available.
package sim

import (
	"context"
	"time"

	"github.com/pwalczak/stride"
)

// Generator produces the narrative fragments of one adaptation exchange.
type Generator interface {
	// Generate streams narrative fragments for req through emit, in order.
	// A non-nil error from emit means the client is gone and the
	// implementation must stop. A non-nil return reports a generation
	// failure; whatever was emitted before it still stands.
	Generate(ctx context.Context, req stride.Request, emit func(fragment string) error) error
}

// StaticGenerator replays a fixed sequence of narrative fragments. The
// zero value emits a built-in coaching reply.
type StaticGenerator struct {
	Fragments []string
	Delay     time.Duration // pause before each fragment after the first
}

// Interface compliance check.
var _ Generator = StaticGenerator{}

// defaultFragments is the built-in reply, split mid-sentence so streaming
// consumers see realistic partial deltas.
var defaultFragments = []string{
	"Noted. Your legs are telling you something",
	" worth listening to.\n\n",
	"**This week:** swap tomorrow's intervals for an easy spin",
	" and keep the long run, but cap it at 90 minutes.",
	"\n\nCheck in again Thursday and we'll reassess.",
}

// Generate implements [Generator].
func (g StaticGenerator) Generate(ctx context.Context, _ stride.Request, emit func(string) error) error {
	fragments := g.Fragments
	if len(fragments) == 0 {
		fragments = defaultFragments
	}
	for i, fragment := range fragments {
		if i > 0 && g.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.Delay):
			}
		}
		if err := emit(fragment); err != nil {
			return err
		}
	}
	return nil
}
