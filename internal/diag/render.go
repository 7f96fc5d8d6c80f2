package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"mex/internal/source"
)

// Renderer writes human-readable multi-line diagnostics. Color is applied
// only when the destination is a terminal (or when forced).
type Renderer struct {
	out   io.Writer
	fs    *source.FileSet
	color bool

	sevError *color.Color
	sevWarn  *color.Color
	sevInfo  *color.Color
	gutter   *color.Color
}

// NewRenderer builds a renderer for out, resolving spans against fs.
// fs may be nil; spans then render in their raw numeric form.
func NewRenderer(out io.Writer, fs *source.FileSet) *Renderer {
	enable := false
	if f, ok := out.(*os.File); ok {
		enable = term.IsTerminal(int(f.Fd()))
	}
	return &Renderer{
		out:      out,
		fs:       fs,
		color:    enable,
		sevError: color.New(color.FgRed, color.Bold),
		sevWarn:  color.New(color.FgYellow, color.Bold),
		sevInfo:  color.New(color.FgCyan),
		gutter:   color.New(color.FgBlue),
	}
}

// ForceColor overrides terminal detection.
func (r *Renderer) ForceColor(on bool) *Renderer {
	r.color = on
	return r
}

// Render writes one diagnostic: headline, source excerpt with a caret line,
// then every note as a `note:` line (expansion traces arrive oldest first).
func (r *Renderer) Render(d Diagnostic) {
	head := fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	fmt.Fprintln(r.out, r.paint(r.sevFor(d.Severity), head))

	r.renderSpan(d.Primary)
	for _, n := range d.Notes {
		fmt.Fprintf(r.out, "  %s %s\n", r.paint(r.sevInfo, "note:"), n.Msg)
	}
}

// RenderBag renders every diagnostic in bag in its current order.
func (r *Renderer) RenderBag(bag *Bag) {
	for _, d := range bag.Items() {
		r.Render(d)
	}
}

func (r *Renderer) renderSpan(sp source.Span) {
	if sp.File == source.NoFileID || r.fs == nil {
		return
	}
	f := r.fs.Get(sp.File)
	if f == nil {
		return
	}
	pos := f.LineColAt(sp.Start)
	fmt.Fprintf(r.out, "  --> %s:%d:%d\n", f.Path, pos.Line, pos.Col)

	line := string(f.Line(pos.Line))
	if line == "" {
		return
	}
	gut := fmt.Sprintf("%3d | ", pos.Line)
	fmt.Fprintf(r.out, "%s%s\n", r.paint(r.gutter, gut), line)

	// caret alignment accounts for wide runes before the span start
	prefix := line
	if int(pos.Col-1) <= len(line) {
		prefix = line[:pos.Col-1]
	}
	pad := runewidth.StringWidth(prefix)
	width := int(sp.Len())
	if width < 1 || int(pos.Col-1)+width > len(line) {
		width = 1
	} else {
		width = runewidth.StringWidth(line[pos.Col-1 : int(pos.Col-1)+width])
	}
	carets := strings.Repeat(" ", len(gut)+pad) + strings.Repeat("^", width)
	fmt.Fprintln(r.out, r.paint(r.sevError, carets))
}

func (r *Renderer) sevFor(s Severity) *color.Color {
	switch s {
	case SevWarning:
		return r.sevWarn
	case SevInfo:
		return r.sevInfo
	default:
		return r.sevError
	}
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.color || c == nil {
		return s
	}
	return c.Sprint(s)
}
