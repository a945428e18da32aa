package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/pwalczak/stride"
)

// Styles maps a Theme to lipgloss styles for transcript rendering.
type Styles struct {
	Note    lipgloss.Style
	Score   lipgloss.Style
	Plan    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t stride.Theme) Styles {
	return Styles{
		Note:    lipgloss.NewStyle().Foreground(ansiColor(t.UserNote)).Bold(true),
		Score:   lipgloss.NewStyle().Foreground(ansiColor(t.Score)),
		Plan:    lipgloss.NewStyle().Foreground(ansiColor(t.Plan)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
