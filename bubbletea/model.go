package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwalczak/stride"
)

var _ tea.Model = Model{}

// acceptTimeout bounds the plan acceptance call, which runs outside any
// exchange context.
const acceptTimeout = 10 * time.Second

// Model is the Bubble Tea model for the stride TUI.
type Model struct {
	// Input is the note entry field. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	adapter Adapter
	theme   stride.Theme
	styles  Styles

	blocks []Block
	focus  int // index of the focused collapsible block (-1 = none)

	// Active blocks for the current exchange. The transcript keeps blocks
	// from earlier exchanges; these pointers reset on each submit.
	narrative *NarrativeBlock
	score     *ScoreBlock
	plan      *PlanBlock

	streaming bool
	cancel    context.CancelFunc
	eventCh   chan stride.Event
	doneCh    chan error
	err       error
	notice    string
	accepting bool
	accepted  bool
	ready     bool
}

// New creates a TUI Model over the given adapter and theme.
func New(adapter Adapter, theme stride.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "How did training go?"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		adapter: adapter,
		theme:   theme,
		styles:  NewStyles(theme),
		focus:   -1,
	}
}

// Streaming returns whether an exchange is currently streaming.
func (m Model) Streaming() bool { return m.streaming }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// SetStreaming is a test helper that puts the model in a streaming state.
func SetStreaming(m Model) (Model, tea.Cmd) {
	m.streaming = true
	return m, nil
}

// SetStreamingWithCancel is a test helper that puts the model in a
// streaming state with a cancel function.
func SetStreamingWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.streaming = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderTranscript())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case AdaptDoneMsg:
		m.streaming = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if m.narrative != nil {
			m.narrative.Finalize()
		}
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
		}
		if snap := m.adapter.Snapshot(); snap.Plan != nil {
			m.plan = NewPlanBlock(snap.Plan, m.styles)
			m.blocks = append(m.blocks, m.plan)
		}
		m = m.updateFocus()
		m.Viewport.SetContent(m.renderTranscript())
		m.Viewport.GotoBottom()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)

	case AcceptDoneMsg:
		m.accepting = false
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.accepted = true
			m.notice = "Plan accepted"
		}
		return m, nil
	}

	// Pass remaining messages to sub-components. Viewport always receives
	// messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.streaming {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.streaming {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlR:
		// While streaming this only cancels; a second press clears.
		if m.streaming {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m.clearTranscript(), nil

	case tea.KeyEnter:
		if m.streaming {
			return m, nil
		}
		note := strings.TrimSpace(m.Input.Value())
		if note == "" {
			return m, nil
		}
		return m.submitNote(note)

	case tea.KeyTab:
		if !m.streaming && m.focus >= 0 {
			block, cmd := m.blocks[m.focus].Update(ToggleMsg{})
			m.blocks[m.focus] = block
			m.Viewport.SetContent(m.renderTranscript())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.streaming {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderTranscript())
		}
		return m, nil
	}

	// The accept hotkey only fires on an empty input line so notes can
	// still contain the letter a.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 &&
		(msg.Runes[0] == 'a' || msg.Runes[0] == 'A') &&
		strings.TrimSpace(m.Input.Value()) == "" && m.canAccept() {
		m.accepting = true
		m.notice = ""
		return m, acceptPlan(m.adapter)
	}

	// When idle, pass keys to both input (for typing) and viewport (for
	// scrolling). Only non-character keys reach the viewport to avoid
	// conflicts with its letter bindings.
	if !m.streaming {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitNote(note string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.notice = ""
	m.accepting = false
	m.accepted = false

	m.blocks = append(m.blocks, NewNoteBlock(note, m.styles))
	m.narrative = nil
	m.score = nil
	m.plan = nil
	m = m.updateFocus()
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan stride.Event, 256)
	m.doneCh = make(chan error, 1)
	m.streaming = true

	m.Input.Blur()

	return m, tea.Batch(
		startAdapt(ctx, m.adapter, note, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) clearTranscript() Model {
	m.adapter.Reset()
	m.blocks = nil
	m.narrative = nil
	m.score = nil
	m.plan = nil
	m.focus = -1
	m.err = nil
	m.notice = ""
	m.accepting = false
	m.accepted = false
	m.Viewport.SetContent("")
	return m
}

// processEvent routes a streaming event to the appropriate block.
func (m Model) processEvent(evt stride.Event) Model {
	switch e := evt.(type) {
	case stride.EventRecoveryScore:
		if m.score == nil {
			m.score = NewScoreBlock(m.styles)
			m.blocks = append(m.blocks, m.score)
		}
		m.score.Set(e.Score)

	case stride.EventNarrative:
		if m.narrative == nil {
			m.narrative = NewNarrativeBlock(m.theme)
			m.blocks = append(m.blocks, m.narrative)
		}
		m.narrative.Append(e.Delta)
		if e.Done {
			m.narrative.Finalize()
		}

	case stride.EventThreadID:
		// Thread identity is read from the adapter snapshot when the plan
		// is accepted; nothing to show.
	}
	return m
}

func (m Model) canAccept() bool {
	if m.streaming || m.accepting || m.accepted || m.plan == nil {
		return false
	}
	return m.adapter.Snapshot().ThreadID != nil
}

// updateFocus points the toggle key at the last collapsible block.
func (m Model) updateFocus() Model {
	m.focus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*PlanBlock); ok {
			m.focus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves focus to the previous collapsible block, wrapping.
func (m Model) cycleFocusPrev() Model {
	start := m.focus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(*PlanBlock); ok {
			m.focus = idx
			return m
		}
	}
	m.focus = -1
	return m
}

func (m Model) renderTranscript() string {
	if len(m.blocks) == 0 {
		return ""
	}
	views := make([]string, 0, len(m.blocks))
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n\n")
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.streaming {
		return m.styles.Muted.Render("Coaching...")
	}
	if m.accepting {
		return m.styles.Muted.Render("Accepting plan...")
	}
	if m.notice != "" {
		return m.styles.Success.Render(m.notice)
	}
	if m.canAccept() {
		return m.styles.Muted.Render("Enter to send, A to accept plan, Ctrl+C to quit")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startAdapt runs the exchange in a goroutine and signals completion.
func startAdapt(ctx context.Context, adapter Adapter, note string, eventCh chan<- stride.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := adapter.Adapt(ctx, note, func(e stride.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes it reads the exchange error and returns AdaptDoneMsg.
func listenForEvent(ch <-chan stride.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AdaptDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}

// acceptPlan confirms the current plan with the coach service.
func acceptPlan(adapter Adapter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), acceptTimeout)
		defer cancel()
		return AcceptDoneMsg{Err: adapter.Accept(ctx)}
	}
}
