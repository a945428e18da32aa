package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ Block = (*NoteBlock)(nil)

// NoteBlock renders the athlete's submitted note with a "> " prefix.
type NoteBlock struct {
	note   string
	styles Styles
}

// NewNoteBlock creates a NoteBlock.
func NewNoteBlock(note string, styles Styles) *NoteBlock {
	return &NoteBlock{note: note, styles: styles}
}

func (b *NoteBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *NoteBlock) View(width int) string {
	content := b.styles.Note.Render("> ") + b.note
	return lipgloss.NewStyle().Width(width).Render(content)
}
