package lexer

import (
	"squiggle/internal/diag"
	"squiggle/internal/source"
	"squiggle/internal/token"
)

type Options struct {
	Reporter diag.Reporter // may be nil: errors are dropped, lexing continues
}

type Lexer struct {
	content []byte
	cursor  Cursor
	opts    Options
	look    *token.Token
}

// New creates a lexer over content.
func New(content []byte, opts Options) (*Lexer, error) {
	c, err := NewCursor(content)
	if err != nil {
		return nil, err
	}
	return &Lexer{content: content, cursor: c, opts: opts}, nil
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	newline := lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{
			Kind:          token.EOF,
			Span:          source.Span{Start: lx.cursor.Off, End: lx.cursor.Off},
			NewlineBefore: newline,
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.NewlineBefore = newline
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole input, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.content[sp.Start:sp.End])
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
