package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/pwalczak/stride"
	"github.com/pwalczak/stride/coachapi"
	stridejson "github.com/pwalczak/stride/json"
	"github.com/pwalczak/stride/session"
)

// app wires the API client, session controller and history store into the
// Adapter surface the TUI consumes.
type app struct {
	client     *coachapi.Client
	ctrl       *session.Controller
	adaptPath  string
	historyDir string

	mu       sync.Mutex
	lastPath string // file of the most recently saved record
}

func newApp(client *coachapi.Client, ctrl *session.Controller, adaptPath, historyDir string) *app {
	return &app{
		client:     client,
		ctrl:       ctrl,
		adaptPath:  adaptPath,
		historyDir: historyDir,
	}
}

// Adapt runs one adaptation exchange for the note and records the outcome
// in history when it completes.
func (a *app) Adapt(ctx context.Context, note string, onEvent func(stride.Event)) error {
	return a.ctrl.Start(ctx, a.adaptPath, stride.Request{Note: note},
		session.WithEventHandler(onEvent),
		session.WithCompletionHandler(func(snap stride.State) {
			a.saveRecord(note, snap)
		}),
	)
}

// Accept marks the current thread's plan as accepted with the service,
// then flips the Accepted flag on the saved record.
func (a *app) Accept(ctx context.Context) error {
	snap := a.ctrl.Snapshot()
	if snap.ThreadID == nil {
		return fmt.Errorf("no plan thread to accept")
	}
	if err := a.client.AcceptPlan(ctx, *snap.ThreadID); err != nil {
		return err
	}
	a.markAccepted()
	return nil
}

func (a *app) Snapshot() stride.State {
	return a.ctrl.Snapshot()
}

func (a *app) Reset() {
	a.ctrl.Reset()
}

// saveRecord persists a completed exchange. History is best-effort: a
// failed write never disturbs the exchange that produced it.
func (a *app) saveRecord(note string, snap stride.State) {
	if a.historyDir == "" {
		return
	}
	path, err := stridejson.Save(a.historyDir, stride.Record{
		Note:          note,
		RecoveryScore: snap.RecoveryScore,
		ThreadID:      snap.ThreadID,
		Narrative:     snap.Narrative,
		Plan:          snap.Plan,
	})
	if err != nil {
		return
	}
	a.mu.Lock()
	a.lastPath = path
	a.mu.Unlock()
}

// markAccepted re-saves the last record with Accepted set. The record
// keeps its ID and timestamp, so the file is updated in place.
func (a *app) markAccepted() {
	a.mu.Lock()
	path := a.lastPath
	a.mu.Unlock()
	if path == "" {
		return
	}
	rec, err := stridejson.Load(path)
	if err != nil {
		return
	}
	rec.Accepted = true
	_, _ = stridejson.Save(a.historyDir, rec)
}
