package lexer

import "squiggle/internal/diag"

// skipTrivia skips whitespace and comments and reports whether a line
// break was crossed.
func (lx *Lexer) skipTrivia() bool {
	newline := false
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		case '\n':
			newline = true
			lx.cursor.Bump()
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
				return newline
			}
			if lx.skipComment(b1) {
				newline = true
			}
		default:
			return newline
		}
	}
	return newline
}

// skipComment consumes "//..." or "/*...*/" and reports whether the comment
// contained or ended at a line break.
func (lx *Lexer) skipComment(kind byte) bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	if kind == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return false
	}

	newline := false
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return newline
		}
		if lx.cursor.Bump() == '\n' {
			newline = true
		}
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	return newline
}
