package lexer

import (
	"testing"

	"squiggle/internal/diag"
	"squiggle/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(16)
	lx, err := New([]byte(src), Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"x = 5", []token.Kind{token.Ident, token.Assign, token.NumberLit, token.EOF}},
		{"List.map(xs, {|x| x * 2})", []token.Kind{
			token.Ident, token.LParen, token.Ident, token.Comma, token.LBrace, token.Pipe,
			token.Ident, token.Pipe, token.Ident, token.Star, token.NumberLit, token.RBrace,
			token.RParen, token.EOF,
		}},
		{"r.a", []token.Kind{token.Ident, token.Dot, token.Ident, token.EOF}},
		{"a -> f() >= 2 && !b", []token.Kind{
			token.Ident, token.Arrow, token.Ident, token.LParen, token.RParen, token.GtEq,
			token.NumberLit, token.AndAnd, token.Bang, token.Ident, token.EOF,
		}},
		{`import "lib" as *`, []token.Kind{token.KwImport, token.StringLit, token.KwAs, token.Star, token.EOF}},
		{"1.5e3 .5", []token.Kind{token.NumberLit, token.NumberLit, token.EOF}},
	}
	for _, tt := range tests {
		toks, bag := lexAll(t, tt.src)
		if bag.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics %+v", tt.src, bag.Items())
		}
		got := kinds(toks)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: got %v, want %v", tt.src, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%q: token %d = %s, want %s", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLexerNewlineAndComments(t *testing.T) {
	toks, _ := lexAll(t, "a = 1 // note\n/* multi\nline */ b = 2")
	var b token.Token
	for _, tk := range toks {
		if tk.Text == "b" {
			b = tk
		}
	}
	if !b.NewlineBefore {
		t.Fatalf("expected newline before b")
	}
	if toks[1].NewlineBefore {
		t.Fatalf("unexpected newline before '='")
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks, _ := lexAll(t, `'it\'s' "a\nb"`)
	if toks[0].Text != "it's" || toks[1].Text != "a\nb" {
		t.Fatalf("unexpected strings %q %q", toks[0].Text, toks[1].Text)
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != 7 {
		t.Fatalf("unexpected span %v", toks[0].Span)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"a # b", diag.LexUnknownChar},
		{"/* never", diag.LexUnterminatedBlockComment},
		{"12abc", diag.LexBadNumber},
	}
	for _, tt := range tests {
		_, bag := lexAll(t, tt.src)
		d, ok := bag.FirstError()
		if !ok || d.Code != tt.code {
			t.Fatalf("%q: got %+v, want %s", tt.src, bag.Items(), tt.code.ID())
		}
	}
}

func TestCursorMarkReset(t *testing.T) {
	c, err := NewCursor([]byte("abc"))
	if err != nil {
		t.Fatalf("NewCursor: %v", err)
	}
	m := c.Mark()
	c.Bump()
	c.Bump()
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Fatalf("span %v", sp)
	}
	c.Reset(m)
	if !c.Eat('a') || c.Eat('c') {
		t.Fatalf("eat mismatch")
	}
}
