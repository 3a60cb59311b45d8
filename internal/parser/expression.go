package parser

import (
	"strconv"
	"strings"

	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/token"
)

// parseExpr is the entry point for expressions.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	if p.at(token.KwIf) {
		return p.parseIfExpr()
	}
	cond, ok := p.parseBinaryExpr(0)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in ternary expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	sp := p.exprSpan(cond).Cover(p.exprSpan(els))
	return p.tree.Exprs.NewTernary(sp, ast.TernaryC, cond, then, els), true
}

// parseIfExpr parses "if c then a else b".
func (p *Parser) parseIfExpr() (ast.ExprID, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwThen, diag.SynUnexpectedToken, "expected 'then'"); !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else'"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	sp := kw.Span.Cover(p.exprSpan(els))
	return p.tree.Exprs.NewTernary(sp, ast.TernaryIf, cond, then, els), true
}

// parseBinaryExpr is a precedence-climbing loop over binary operators.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		prec, rightAssoc, op := binaryOperator(p.peek().Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, ok := p.parseBinaryExpr(nextMin)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.tree.Exprs.NewInfix(sp, op, left, right)
	}
	return left, true
}

// parseUnaryExpr handles prefix '-' and '!'; a pipe chain binds tighter.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	if op, ok := unaryOperator(p.peek().Kind); ok {
		opTok := p.advance()
		arg, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.tree.Exprs.NewUnary(opTok.Span.Cover(p.exprSpan(arg)), op, arg), true
	}
	return p.parsePipeChain()
}

// parsePipeChain parses "x -> f(a) -> g"; each step calls the target with
// the left value as first argument.
func (p *Parser) parsePipeChain() (ast.ExprID, bool) {
	left, ok := p.parsePostfixExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.Arrow) {
		p.advance()
		target, ok := p.parsePostfixExpr()
		if !ok {
			return ast.NoExprID, false
		}
		fn, args := target, []ast.ExprID(nil)
		if call, isCall := p.tree.Exprs.Call(target); isCall {
			fn, args = call.Fn, call.Args
		}
		sp := p.exprSpan(left).Cover(p.exprSpan(target))
		left = p.tree.Exprs.NewPipe(sp, left, fn, args)
	}
	return left, true
}

// parsePostfixExpr parses calls, ".key" and "[key]" after a primary.
// A line break before '(' or '[' ends the expression.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.LParen && !tok.NewlineBefore:
			p.advance()
			args, ok := p.parseExprList(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.tree.Exprs.NewCall(p.exprSpan(expr).Cover(p.lastSpan), expr, args)

		case tok.Kind == token.LBracket && !tok.NewlineBefore:
			p.advance()
			key, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'"); !ok {
				return ast.NoExprID, false
			}
			expr = p.tree.Exprs.NewIndex(p.exprSpan(expr).Cover(p.lastSpan), expr, key)

		case tok.Kind == token.Dot:
			p.advance()
			key, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name after '.'")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.tree.Exprs.NewDot(p.exprSpan(expr).Cover(key.Span), expr, key.Text, key.Span)

		default:
			return expr, true
		}
	}
}

// parseExprList parses comma separated expressions up to closing; a
// trailing comma is allowed. The opening token is already consumed.
func (p *Parser) parseExprList(closing token.Kind) ([]ast.ExprID, bool) {
	var out []ast.ExprID
	for !p.at(closing) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(closing, diag.SynUnclosedDelimiter, "expected "+closing.String()); !ok {
		return nil, false
	}
	return out, true
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.NumberLit:
		p.advance()
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			p.err(diag.LexBadNumber, tok.Span, "malformed number literal "+tok.Text)
			return ast.NoExprID, false
		}
		return p.tree.Exprs.NewNumber(tok.Span, v, tok.Text), true

	case token.StringLit:
		p.advance()
		return p.tree.Exprs.NewString(tok.Span, tok.Text), true

	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.tree.Exprs.NewBool(tok.Span, tok.Kind == token.KwTrue), true

	case token.Ident:
		p.advance()
		return p.tree.Exprs.NewIdent(tok.Span, tok.Text), true

	case token.LParen:
		open := p.advance()
		if p.at(token.RParen) {
			closing := p.advance()
			return p.tree.Exprs.NewVoid(open.Span.Cover(closing.Span)), true
		}
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true

	case token.LBracket:
		open := p.advance()
		elems, ok := p.parseExprList(token.RBracket)
		if !ok {
			return ast.NoExprID, false
		}
		return p.tree.Exprs.NewArray(open.Span.Cover(p.lastSpan), elems), true

	case token.LBrace:
		return p.parseBraceExpr()

	default:
		p.unexpected(diag.SynExpectExpression, "expected expression")
		return ast.NoExprID, false
	}
}
