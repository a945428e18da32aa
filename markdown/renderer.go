package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pwalczak/stride"
)

type renderer struct {
	md       goldmark.Markdown
	heading  lipgloss.Style
	strong   lipgloss.Style
	emphasis lipgloss.Style
	code     lipgloss.Style
	link     lipgloss.Style
	dim      lipgloss.Style
	strike   lipgloss.Style
}

func newRenderer(theme stride.Theme) *renderer {
	return &renderer{
		md:       goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		heading:  lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		strong:   lipgloss.NewStyle().Bold(true),
		emphasis: lipgloss.NewStyle().Italic(true),
		code:     lipgloss.NewStyle().Background(color(theme.CodeBg)).Bold(true),
		link:     lipgloss.NewStyle().Underline(true),
		dim:      lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		strike:   lipgloss.NewStyle().Strikethrough(true),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte, width int) string {
	doc := r.md.Parser().Parse(text.NewReader(source))
	var out bytes.Buffer
	r.blocks(doc, source, width, &out)
	return strings.TrimRight(out.String(), "\n")
}

func (r *renderer) blocks(parent ast.Node, source []byte, width int, out *bytes.Buffer) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, source, width, out)
	}
}

func (r *renderer) block(node ast.Node, source []byte, width int, out *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		out.WriteString(lipgloss.NewStyle().Width(width).Render(r.inlines(n, source)))
		out.WriteString("\n")
		r.gap(n, out)

	case *ast.Heading:
		// Section headings get the accent color; deeper levels only weight.
		style := r.heading
		if n.Level > 2 {
			style = r.strong
		}
		styled := style.Render(r.inlines(n, source))
		out.WriteString(lipgloss.NewStyle().Width(width).Render(styled))
		out.WriteString("\n")
		r.gap(n, out)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			out.WriteString(r.dim.Render(lang))
			out.WriteString("\n")
		}
		r.codeLines(n.Lines(), source, out)
		r.gap(n, out)

	case *ast.CodeBlock:
		r.codeLines(n.Lines(), source, out)
		r.gap(n, out)

	case *ast.List:
		r.list(n, source, width, out, 0)
		r.gap(n, out)

	case *ast.Blockquote:
		inner := width - 2
		if inner < 10 {
			inner = 10
		}
		var quoted bytes.Buffer
		r.blocks(n, source, inner, &quoted)
		bar := r.dim.Render("▎")
		for _, line := range strings.Split(strings.TrimRight(quoted.String(), "\n"), "\n") {
			out.WriteString(bar + " " + line + "\n")
		}
		r.gap(n, out)

	case *ast.ThematicBreak:
		rule := width
		if rule > 32 {
			rule = 32
		}
		out.WriteString(r.dim.Render(strings.Repeat("─", rule)))
		out.WriteString("\n")
		r.gap(n, out)

	case *ast.HTMLBlock:
		for i := 0; i < n.Lines().Len(); i++ {
			seg := n.Lines().At(i)
			out.Write(seg.Value(source))
		}

	default:
		r.blocks(node, source, width, out)
	}
}

func (r *renderer) gap(node ast.Node, out *bytes.Buffer) {
	if node.NextSibling() != nil {
		out.WriteString("\n")
	}
}

// codeLines writes code verbatim behind a gutter bar. Code is never
// reflowed, so overlong lines run past the wrap width.
func (r *renderer) codeLines(lines *text.Segments, source []byte, out *bytes.Buffer) {
	bar := r.dim.Render("┃") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out.WriteString(bar)
		out.WriteString(strings.TrimRight(string(seg.Value(source)), "\n"))
		out.WriteString("\n")
	}
}

func (r *renderer) list(node *ast.List, source []byte, width int, out *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	number := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		r.listItem(item, source, width, out, indent, marker, depth)
	}
}

func (r *renderer) listItem(item *ast.ListItem, source []byte, width int, out *bytes.Buffer, indent, marker string, depth int) {
	var body bytes.Buffer
	flush := func() {
		if body.Len() == 0 {
			return
		}
		r.hang(out, indent+marker, body.String(), width)
		// Anything after the first flush aligns under the content column.
		marker = strings.Repeat(" ", runewidth.StringWidth(marker))
		body.Reset()
	}
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			body.WriteString(r.inlines(n, source))
		case *ast.List:
			flush()
			r.list(n, source, width, out, depth+1)
		default:
			r.block(c, source, width, &body)
		}
	}
	flush()
}

// hang writes content with a hanging indent: the prefix on the first line,
// matching whitespace on every continuation line.
func (r *renderer) hang(out *bytes.Buffer, prefix, content string, width int) {
	avail := width - runewidth.StringWidth(prefix)
	if avail < 10 {
		avail = 10
	}
	wrapped := lipgloss.NewStyle().Width(avail).Render(content)
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			out.WriteString(prefix)
		} else {
			out.WriteString(pad)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
}

func (r *renderer) inlines(node ast.Node, source []byte) string {
	var out bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c, source, &out)
	}
	return out.String()
}

func (r *renderer) inline(node ast.Node, source []byte, out *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		out.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			out.WriteByte('\n')
		case n.SoftLineBreak():
			out.WriteByte(' ')
		}

	case *ast.String:
		out.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inlines(n, source)
		if n.Level == 1 {
			out.WriteString(r.emphasis.Render(inner))
		} else {
			out.WriteString(r.strong.Render(inner))
		}

	case *ast.CodeSpan:
		out.WriteString(r.code.Render(r.inlines(n, source)))

	case *ast.Link:
		out.WriteString(r.link.Render(r.inlines(n, source)))
		out.WriteString(" ")
		out.WriteString(r.dim.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		out.WriteString(r.link.Render(string(n.URL(source))))

	case *ast.Image:
		out.WriteString(r.link.Render(r.inlines(n, source)))
		out.WriteString(" ")
		out.WriteString(r.dim.Render("(" + string(n.Destination) + ")"))

	case *extast.Strikethrough:
		out.WriteString(r.strike.Render(r.inlines(n, source)))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			out.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(c, source, out)
		}
	}
}
