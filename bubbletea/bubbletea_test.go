package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pwalczak/stride"
	bt "github.com/pwalczak/stride/bubbletea"
)

// adapterStub is a function-field test double for bt.Adapter. Nil fields
// fall back to no-ops.
type adapterStub struct {
	adaptFn    func(ctx context.Context, note string, onEvent func(stride.Event)) error
	acceptFn   func(ctx context.Context) error
	snapshotFn func() stride.State
	resetFn    func()
}

func (a *adapterStub) Adapt(ctx context.Context, note string, onEvent func(stride.Event)) error {
	if a.adaptFn == nil {
		return nil
	}
	return a.adaptFn(ctx, note, onEvent)
}

func (a *adapterStub) Accept(ctx context.Context) error {
	if a.acceptFn == nil {
		return nil
	}
	return a.acceptFn(ctx)
}

func (a *adapterStub) Snapshot() stride.State {
	if a.snapshotFn == nil {
		return stride.State{}
	}
	return a.snapshotFn()
}

func (a *adapterStub) Reset() {
	if a.resetFn != nil {
		a.resetFn()
	}
}

func testPlan() *stride.Plan {
	return &stride.Plan{
		Summary:   "Pull back intensity for two days.",
		Intensity: "easy",
		Workouts: []stride.Workout{
			{Day: "Tue", Focus: "Recovery spin", DurationMinutes: 40},
			{Day: "Wed", Focus: "Intervals", DurationMinutes: 60, Details: "6x3min at threshold"},
		},
	}
}

// initModel creates a model over adapter and initializes the viewport.
func initModel(t *testing.T, adapter bt.Adapter) bt.Model {
	t.Helper()
	return initModelWithSize(t, adapter, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, adapter bt.Adapter, width, height int) bt.Model {
	t.Helper()
	m := bt.New(adapter, stride.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}
