package lexer

import (
	"squiggle/internal/token"
)

// scanIdentOrKeyword scans an identifier. A capitalised identifier followed
// by ".name" absorbs the dotted suffix, so "List.map" is a single token.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	first := lx.cursor.Peek()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if isUpper(first) {
		for {
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '.' || !isIdentStartByte(b1) {
				break
			}
			lx.cursor.Bump()
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
