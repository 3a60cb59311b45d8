package parser

import (
	"fmt"

	"squiggle/internal/diag"
	"squiggle/internal/source"
	"squiggle/internal/token"
)

// advance consumes the current token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the current token, or right after the last
// consumed one at end of input.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.unexpected(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

// unexpected reports a problem at the current token. Invalid tokens were
// already reported by the lexer.
func (p *Parser) unexpected(code diag.Code, msg string) {
	if p.at(token.Invalid) {
		p.opts.CurrentErrors++
		return
	}
	found := p.peek()
	if found.Kind == token.Ident || found.IsLiteral() {
		msg = fmt.Sprintf("%s, found %q", msg, found.Text)
	} else {
		msg = fmt.Sprintf("%s, found %s", msg, found.Kind)
	}
	p.err(code, p.diagnosticSpan(), msg)
}

func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil && !p.opts.Enough() {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// resyncTop skips to the next statement boundary at the current nesting
// depth. It always consumes at least one token.
func (p *Parser) resyncTop() {
	depth := 0
	for first := true; !p.at(token.EOF); first = false {
		tok := p.peek()
		if !first && depth == 0 {
			if tok.Kind == token.Semicolon {
				p.advance()
				return
			}
			if tok.NewlineBefore || tok.Kind == token.RBrace {
				return
			}
		}
		switch tok.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			if depth > 0 {
				depth--
			}
		}
		p.advance()
	}
}
