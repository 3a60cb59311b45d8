package parser

import (
	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/token"
)

// parseBraceExpr decides between lambda ({|x| ...}), record ({a: 1}) and
// block ({x = 1; x}) after an opening brace.
func (p *Parser) parseBraceExpr() (ast.ExprID, bool) {
	next := p.peekN(1)
	switch {
	case next.Kind == token.Pipe || next.Kind == token.OrOr:
		return p.parseLambda()
	case next.Kind == token.RBrace:
		open := p.advance()
		closing := p.advance()
		return p.tree.Exprs.NewRecord(open.Span.Cover(closing.Span), nil), true
	case p.atRecordStart():
		return p.parseRecord()
	default:
		return p.parseBlock()
	}
}

// atRecordStart: "{ key :" or "{ ident ," / "{ ident }" shorthand lists of
// more than one entry.
func (p *Parser) atRecordStart() bool {
	key, after := p.peekN(1), p.peekN(2)
	if key.Kind != token.Ident && key.Kind != token.StringLit {
		return false
	}
	if after.Kind == token.Colon {
		return true
	}
	return key.Kind == token.Ident && after.Kind == token.Comma
}

func (p *Parser) parseLambda() (ast.ExprID, bool) {
	open := p.advance()
	var params []ast.Param
	if p.at(token.OrOr) {
		p.advance()
	} else {
		var ok bool
		params, ok = p.parseParams(token.Pipe, token.Pipe)
		if !ok {
			return ast.NoExprID, false
		}
	}
	bodyStart := p.peek().Span
	stmts, result := p.parseStatements(token.RBrace)
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close function body")
	if !ok {
		return ast.NoExprID, false
	}
	if !result.IsValid() {
		p.err(diag.SynExpectExpression, closing.Span, "function body must end with an expression")
		return ast.NoExprID, false
	}
	body := result
	if len(stmts) > 0 {
		body = p.tree.Exprs.NewBlock(bodyStart.Cover(p.exprSpan(result)), stmts, result)
	}
	return p.tree.Exprs.NewLambda(open.Span.Cover(closing.Span), "", params, body), true
}

func (p *Parser) parseRecord() (ast.ExprID, bool) {
	open := p.advance()
	var entries []ast.RecordEntry
	for !p.at(token.RBrace) {
		keyTok := p.peek()
		if keyTok.Kind != token.Ident && keyTok.Kind != token.StringLit {
			p.unexpected(diag.SynExpectIdentifier, "expected record key")
			return ast.NoExprID, false
		}
		p.advance()

		entry := ast.RecordEntry{Key: keyTok.Text, KeySpan: keyTok.Span}
		if p.at(token.Colon) {
			p.advance()
			value, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			entry.Value = value
			entry.Span = keyTok.Span.Cover(p.exprSpan(value))
		} else {
			if keyTok.Kind != token.Ident {
				p.unexpected(diag.SynUnexpectedToken, "expected ':' after record key")
				return ast.NoExprID, false
			}
			entry.Value = p.tree.Exprs.NewIdent(keyTok.Span, keyTok.Text)
			entry.Shorthand = true
			entry.Span = keyTok.Span
		}
		entries = append(entries, entry)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close record")
	if !ok {
		return ast.NoExprID, false
	}
	return p.tree.Exprs.NewRecord(open.Span.Cover(closing.Span), entries), true
}

func (p *Parser) parseBlock() (ast.ExprID, bool) {
	open := p.advance()
	stmts, result := p.parseStatements(token.RBrace)
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	if !ok {
		return ast.NoExprID, false
	}
	if !result.IsValid() {
		p.err(diag.SynExpectExpression, closing.Span, "block must end with an expression")
		return ast.NoExprID, false
	}
	return p.tree.Exprs.NewBlock(open.Span.Cover(closing.Span), stmts, result), true
}
