package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pwalczak/stride"
)

var _ Block = (*PlanBlock)(nil)

// PlanBlock renders a structured plan card with collapsible workout
// details. It starts expanded: the plan is the payoff of the exchange.
type PlanBlock struct {
	plan      *stride.Plan
	collapsed bool
	styles    Styles
}

// NewPlanBlock creates a PlanBlock for the given plan.
func NewPlanBlock(plan *stride.Plan, styles Styles) *PlanBlock {
	return &PlanBlock{plan: plan, styles: styles}
}

func (b *PlanBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *PlanBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	indicator := "▼"
	if b.collapsed {
		indicator = "▶"
	}
	header := b.styles.Plan.Render(indicator+" Plan") + " " + b.plan.Summary
	if b.collapsed {
		return wrap.Render(header)
	}

	var lines []string
	lines = append(lines, wrap.Render(header))

	dayCol := 0
	for _, w := range b.plan.Workouts {
		if n := runewidth.StringWidth(w.Day); n > dayCol {
			dayCol = n
		}
	}
	for _, w := range b.plan.Workouts {
		day := w.Day + strings.Repeat(" ", dayCol-runewidth.StringWidth(w.Day))
		line := "  " + b.styles.Accent.Render(day) + "  " + w.Focus
		if w.DurationMinutes > 0 {
			line += b.styles.Muted.Render(fmt.Sprintf("  %dmin", w.DurationMinutes))
		}
		lines = append(lines, wrap.Render(line))
		if w.Details != "" {
			lines = append(lines, wrap.Render("    "+b.styles.Muted.Render(w.Details)))
		}
	}
	if b.plan.Intensity != "" {
		lines = append(lines, wrap.Render("  "+b.styles.Muted.Render("Intensity: "+b.plan.Intensity)))
	}
	return strings.Join(lines, "\n")
}
