package lexer

import (
	"squiggle/internal/diag"
	"squiggle/internal/token"
)

// scanNumber accepts 12, 1.5, .5, 1e3, 2.5e-4 and digit separators "_".
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// "2e" followed by something else: leave "e..." for the next token
			lx.cursor.Reset(mark)
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		bad := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, bad, "malformed number literal")
		return token.Token{Kind: token.Invalid, Span: bad, Text: lx.text(bad)}
	}
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
}
