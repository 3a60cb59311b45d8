package lexer

import (
	"fmt"

	"squiggle/internal/diag"
	"squiggle/internal/token"
)

var twoByteOps = map[[2]byte]token.Kind{
	{'-', '>'}: token.Arrow,
	{'+', '+'}: token.PlusPlus,
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'&', '&'}: token.AndAnd,
	{'|', '|'}: token.OrOr,
}

var oneByteOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
	'.': token.Dot,
	'=': token.Assign,
	'|': token.Pipe,
	'?': token.Question,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'^': token.Caret,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Bang,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok {
		if kind, found := twoByteOps[[2]byte{b0, b1}]; found {
			lx.cursor.Bump()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
	}
	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	if kind, ok := oneByteOps[b]; ok {
		return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
	}
	lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", b))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
