package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ Block = (*ScoreBlock)(nil)

// ScoreBlock renders the recovery score as a gauge with a band label.
type ScoreBlock struct {
	score  float64
	set    bool
	styles Styles
}

// NewScoreBlock creates an empty ScoreBlock; it renders nothing until Set.
func NewScoreBlock(styles Styles) *ScoreBlock {
	return &ScoreBlock{styles: styles}
}

// Set updates the score. A later score replaces an earlier one.
func (b *ScoreBlock) Set(score float64) {
	b.score = score
	b.set = true
}

func (b *ScoreBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *ScoreBlock) View(width int) string {
	if !b.set {
		return ""
	}
	cells := 20
	if width > 0 && width < 30 {
		cells = 10
	}
	// The gauge clamps to its cell range; the label shows the score as
	// delivered, even out-of-range ones.
	filled := int(b.score/100*float64(cells) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > cells {
		filled = cells
	}

	style, band := b.styles.Error, "low"
	switch {
	case b.score >= 67:
		style, band = b.styles.Success, "high"
	case b.score >= 34:
		style, band = b.styles.Score, "moderate"
	}

	gauge := style.Render(strings.Repeat("█", filled)) +
		b.styles.Muted.Render(strings.Repeat("░", cells-filled))
	label := b.styles.Accent.Render(fmt.Sprintf("Recovery %.0f", b.score)) +
		b.styles.Muted.Render(" ("+band+")")
	return lipgloss.NewStyle().Width(width).Render(gauge + " " + label)
}
