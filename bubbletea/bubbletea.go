// Package bubbletea provides the interactive terminal UI for stride.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwalczak/stride"
)

// Adapter is what the TUI needs from the application: run an adaptation
// exchange, accept the resulting plan, observe state, and clear it.
type Adapter interface {
	// Adapt streams one coaching exchange for note, calling onEvent for
	// each streamed event. It blocks until the exchange completes or ctx
	// is cancelled.
	Adapt(ctx context.Context, note string, onEvent func(stride.Event)) error
	// Accept confirms the current plan with the coach service.
	Accept(ctx context.Context) error
	// Snapshot returns the current adaptation state.
	Snapshot() stride.State
	// Reset abandons any active exchange and clears accumulated state.
	Reset()
}

// Run creates and runs the TUI program. It blocks until the program exits.
// Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streamed adaptation event for delivery to the model.
type StreamEventMsg struct {
	Event stride.Event
}

// AdaptDoneMsg signals that the adaptation exchange has finished.
type AdaptDoneMsg struct {
	Err error
}

// AcceptDoneMsg signals the outcome of a plan acceptance call.
type AcceptDoneMsg struct {
	Err error
}
