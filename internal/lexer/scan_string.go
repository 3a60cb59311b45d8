package lexer

import (
	"strings"

	"squiggle/internal/diag"
	"squiggle/internal/token"
)

// scanString scans a quoted string. Text holds the decoded value.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()

	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: sb.String()}
		}
		b := lx.cursor.Bump()
		if b == quote {
			break
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		switch esc := lx.cursor.Bump(); esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '"', '\'':
			sb.WriteByte(esc)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
}
