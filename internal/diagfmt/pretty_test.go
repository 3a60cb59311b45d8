package diagfmt

import (
	"strings"
	"testing"

	"squiggle/internal/diag"
	"squiggle/internal/source"
)

func fileSet(t *testing.T, files map[string]string) *source.FileSet {
	t.Helper()
	fs := source.NewFileSet()
	for id, text := range files {
		if _, err := fs.AddVirtual(id, text); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	return fs
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	fs := fileSet(t, map[string]string{"main": "x = 1\ny = foo + 2\n"})
	e := diag.ErrorAt(diag.SemaSymbolNotFound, "main", source.Span{Start: 10, End: 13}, "foo is not defined")

	var b strings.Builder
	if err := Pretty(&b, []*diag.Error{e}, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"main:2:5: ERROR SEM3001: foo is not defined\n",
		" 2 | y = foo + 2\n",
		"   |     ^~~\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes with color disabled:\n%s", out)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := fileSet(t, map[string]string{"main": "a = 1\nb = 2\nc = zz\n"})
	e := diag.ErrorAt(diag.SemaSymbolNotFound, "main", source.Span{Start: 16, End: 18}, "zz is not defined")

	var b strings.Builder
	if err := Pretty(&b, []*diag.Error{e}, fs, PrettyOpts{Context: 1}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, " 2 | b = 2\n 3 | c = zz\n") {
		t.Fatalf("context line missing:\n%s", out)
	}
	if strings.Contains(out, "a = 1") {
		t.Fatalf("too much context:\n%s", out)
	}
}

func TestPrettyTabsAndWideRunes(t *testing.T) {
	fs := fileSet(t, map[string]string{"main": "\"界\"\t+ bad"})
	// bad starts after a 5-byte string literal and a tab: 1+3+1 bytes, then tab, "+ "
	e := diag.ErrorAt(diag.SemaSymbolNotFound, "main", source.Span{Start: 8, End: 11}, "bad")

	var b strings.Builder
	if err := Pretty(&b, []*diag.Error{e}, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	// '"' 1 cell, '界' 2 cells, '"' 1 cell, tab 4 cells, "+ " 2 cells
	want := "   | " + strings.Repeat(" ", 10) + "^~~\n"
	if !strings.Contains(b.String(), want) {
		t.Fatalf("want underline %q in:\n%s", want, b.String())
	}
}

func TestPrettyNotesAndCause(t *testing.T) {
	fs := fileSet(t, map[string]string{
		"lib":  "x = 1 / \"a\"",
		"main": "import \"lib\" as lib\nlib.x",
	})
	e := diag.ErrorAt(diag.RunTypeMismatch, "lib", source.Span{Start: 4, End: 11}, "cannot divide")
	e.Frames = []diag.Frame{{Name: "f", SourceID: "lib", Span: source.Span{Start: 0, End: 1}}}
	e = e.Through(diag.ChainLink{SourceID: "main", Target: "lib", Span: source.Span{Start: 7, End: 12}})
	e.Cause = errString("boom")

	var b strings.Builder
	opts := PrettyOpts{ShowNotes: true, ShowCause: true}
	if err := Pretty(&b, []*diag.Error{e}, fs, opts); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"note: lib:1:1: in f\n",
		"note: main:1:8: while importing \"lib\"\n",
		"cause: boom\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyWithoutSource(t *testing.T) {
	e := diag.Errorf(diag.PrjUnknownSource, "ghost", "unknown source")
	var b strings.Builder
	if err := Pretty(&b, []*diag.Error{e}, nil, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if got, want := b.String(), "ghost: ERROR PRJ5001: unknown source\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
