// Package markdown turns coach replies into ANSI-styled terminal output,
// using goldmark for parsing and lipgloss for styling.
package markdown

import "github.com/pwalczak/stride"

// Render converts markdown source into styled terminal text wrapped to
// width. Prose reflows; code blocks keep their original line breaks. A
// non-positive width falls back to 80 columns.
func Render(source string, width int, theme stride.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newRenderer(theme).render([]byte(source), width)
}
