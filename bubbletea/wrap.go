package bubbletea

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrapWords greedily wraps s to width display columns, breaking on spaces.
// Words wider than a full line are split at grapheme boundaries so emoji
// and combining sequences never tear. Existing newlines are kept. A
// non-positive width returns s unchanged.
func wrapWords(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	var out strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		wrapLine(&out, line, width)
	}
	return out.String()
}

func wrapLine(out *strings.Builder, line string, width int) {
	col := 0
	for _, word := range strings.Fields(line) {
		w := uniseg.StringWidth(word)
		if col > 0 {
			if col+1+w <= width {
				out.WriteByte(' ')
				col++
			} else {
				out.WriteByte('\n')
				col = 0
			}
		}
		if w > width {
			col = breakWord(out, word, width, col)
			continue
		}
		out.WriteString(word)
		col += w
	}
}

// breakWord splits an overlong word across lines, keeping grapheme
// clusters intact. Returns the column after the final fragment.
func breakWord(out *strings.Builder, word string, width, col int) int {
	g := uniseg.NewGraphemes(word)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if col > 0 && col+w > width {
			out.WriteByte('\n')
			col = 0
		}
		out.WriteString(cluster)
		col += w
	}
	return col
}
