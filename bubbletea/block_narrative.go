package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pwalczak/stride"
	"github.com/pwalczak/stride/markdown"
)

var _ Block = (*NarrativeBlock)(nil)

// NarrativeBlock renders the streaming coach narrative. Settled paragraphs
// (ending at a double newline) are markdown-rendered once per width and
// cached; the still-streaming tail is shown as word-wrapped raw text so
// each delta costs no more than a wrap. Finalize renders everything.
type NarrativeBlock struct {
	content strings.Builder
	theme   stride.Theme

	// settledRaw is the stable prefix ending at the last paragraph break
	// that does not fall inside an open code fence.
	settledRaw     string
	settledByWidth map[int]string
	final          bool
}

// NewNarrativeBlock creates a block for a streaming coach narrative.
func NewNarrativeBlock(theme stride.Theme) *NarrativeBlock {
	return &NarrativeBlock{
		theme:          theme,
		settledByWidth: make(map[int]string),
	}
}

// Append adds a narrative delta from the stream.
func (b *NarrativeBlock) Append(delta string) {
	b.content.WriteString(delta)
	b.settle()
}

// Finalize promotes the whole narrative to settled markdown. Called when
// the exchange ends so the final display is fully rendered.
func (b *NarrativeBlock) Finalize() {
	raw := b.content.String()
	if raw != b.settledRaw {
		b.settledRaw = raw
		clear(b.settledByWidth)
	}
	b.final = true
}

func (b *NarrativeBlock) Update(msg tea.Msg) (Block, tea.Cmd) {
	return b, nil
}

func (b *NarrativeBlock) View(width int) string {
	settled := b.renderSettled(width)
	tail := b.tailRaw()
	if tail == "" {
		return settled
	}
	wrapped := wrapWords(tail, width)
	if strings.TrimSpace(wrapped) == "" {
		return settled
	}
	if settled == "" {
		return wrapped
	}
	return strings.TrimRight(settled, "\n") + "\n\n" + strings.TrimLeft(wrapped, "\n")
}

// settle advances settledRaw to the last "\n\n" boundary whose prefix has
// all code fences closed. Splitting inside a fence would render the opening
// half as an unterminated code block and the tail as stray prose.
func (b *NarrativeBlock) settle() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		prefix := raw[:idx]
		if !openFence(prefix) {
			if prefix != b.settledRaw {
				b.settledRaw = prefix
				clear(b.settledByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *NarrativeBlock) renderSettled(width int) string {
	if width <= 0 || b.settledRaw == "" {
		return ""
	}
	if cached, ok := b.settledByWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.settledRaw, width, b.theme)
	b.settledByWidth[width] = rendered
	return rendered
}

func (b *NarrativeBlock) tailRaw() string {
	if b.final {
		return ""
	}
	raw := b.content.String()
	if b.settledRaw == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.settledRaw+"\n\n")
}

// openFence reports whether s ends inside a fenced code block, judged by
// an odd count of "```". Literal triple backticks inside inline code would
// fool this, but coach replies do not produce those in practice.
func openFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
