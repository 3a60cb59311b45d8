package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"squiggle/internal/diag"
	"squiggle/internal/source"
)

type palette struct {
	err, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.loc, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes each error as
//
//	<source>:<line>:<col>: ERROR <CODE>: <message>
//
// followed by the source line with the span underlined and, if requested,
// the notes and the underlying cause.
func Pretty(w io.Writer, errs []*diag.Error, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		writeError(&b, e, fs, opts, pal)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeError(b *strings.Builder, e *diag.Error, fs *source.FileSet, opts PrettyOpts, pal palette) {
	message := e.Message
	if message == "" {
		message = e.Code.Title()
	}
	start, end, f, ok := position(fs, e.SourceID, e.Span)
	switch {
	case ok && e.HasSpan:
		b.WriteString(pal.loc.Sprintf("%s:%d:%d: ", e.SourceID, start.Line, start.Col))
	case e.SourceID != "":
		b.WriteString(pal.loc.Sprintf("%s: ", e.SourceID))
	}
	b.WriteString(pal.err.Sprintf("%s %s", diag.SevError, e.Code.ID()))
	fmt.Fprintf(b, ": %s\n", message)
	if ok && e.HasSpan {
		writeFrame(b, f, start, end, opts.Context, pal)
	}

	if opts.ShowNotes {
		for _, n := range notesOf(e) {
			ns, _, _, nok := position(fs, n.sourceID, n.span)
			if nok && n.hasSpan {
				fmt.Fprintf(b, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), n.sourceID, ns.Line, ns.Col, n.msg)
			} else {
				fmt.Fprintf(b, "  %s %s: %s\n", pal.note.Sprint("note:"), n.sourceID, n.msg)
			}
		}
	}
	if opts.ShowCause && e.Cause != nil {
		fmt.Fprintf(b, "  %s %v\n", pal.note.Sprint("cause:"), e.Cause)
	}
}

// writeFrame prints the lines around start and underlines the span on its
// first line. Columns are measured in display cells.
func writeFrame(b *strings.Builder, f *source.File, start, end source.LineCol, context int, pal palette) {
	first := start.Line
	if context > 0 {
		first = uint32(max(int(start.Line)-context, 1)) //nolint:gosec // bounded by start.Line
	}
	width := len(fmt.Sprint(start.Line))
	for line := first; line <= start.Line; line++ {
		fmt.Fprintf(b, " %s %s\n", pal.gutter.Sprintf("%*d |", width, line), expandTabs(f.GetLine(line)))
	}

	raw := f.GetLine(start.Line)
	prefix := cells(raw, int(start.Col)-1)
	length := 1
	if end.Line == start.Line && end.Col > start.Col {
		length = max(cells(raw, int(end.Col)-1)-prefix, 1)
	} else if end.Line > start.Line {
		length = max(cells(raw, len(raw))-prefix, 1)
	}
	underline := "^" + strings.Repeat("~", length-1)
	fmt.Fprintf(b, " %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", prefix), pal.caret.Sprint(underline))
}

// cells is the display width of the first n bytes of line, with tabs
// counted as expandTabs renders them.
func cells(line string, n int) int {
	n = min(max(n, 0), len(line))
	w := 0
	for _, r := range line[:n] {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
