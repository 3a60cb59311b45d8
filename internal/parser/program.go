package parser

import (
	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/source"
	"squiggle/internal/token"
)

// parseProgram parses imports, statements and an optional end expression.
func (p *Parser) parseProgram() {
	start := p.peek().Span
	prog := &p.tree.Program

	for p.at(token.KwImport) {
		imp, ok := p.parseImport()
		if !ok {
			p.resyncTop()
			continue
		}
		prog.Imports = append(prog.Imports, imp)
		p.endOfStatement(token.EOF)
	}

	prog.Stmts, prog.Result = p.parseStatements(token.EOF)
	prog.Span = source.Span{Start: 0, End: p.lastSpan.End}.Cover(start)
}

// parseStatements parses statements up to the closing token (EOF or '}').
// Only the final statement may be a bare expression; it becomes the result.
func (p *Parser) parseStatements(closing token.Kind) ([]ast.StmtID, ast.ExprID) {
	var stmts []ast.StmtID
	result := ast.NoExprID

	for !p.at(closing) && !p.at(token.EOF) {
		if result.IsValid() {
			sp := p.exprSpan(result)
			p.err(diag.SynStatementNotLast, sp, "only the last statement of a block may be an expression")
			p.resyncTop()
			result = ast.NoExprID
			continue
		}
		if p.at(token.KwImport) {
			p.err(diag.SynImportNotTopLevel, p.peek().Span, "imports must precede all statements")
			p.resyncTop()
			continue
		}

		if p.atStatementStart() {
			id, ok := p.parseStatement()
			if !ok {
				p.resyncTop()
				continue
			}
			stmts = append(stmts, id)
		} else {
			expr, ok := p.parseExpr()
			if !ok {
				p.resyncTop()
				continue
			}
			result = expr
		}
		if !p.endOfStatement(closing) {
			p.resyncTop()
		}
	}
	return stmts, result
}

// endOfStatement checks that a statement is followed by ';', a line break
// or the closing token.
func (p *Parser) endOfStatement(closing token.Kind) bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	tok := p.peek()
	if tok.Kind == closing || tok.Kind == token.EOF || tok.NewlineBefore {
		return true
	}
	p.unexpected(diag.SynUnexpectedToken, "expected end of statement")
	return false
}

// atStatementStart distinguishes "x = ..." and "f(a, b) = ..." from
// expressions that merely start with an identifier.
func (p *Parser) atStatementStart() bool {
	if !p.at(token.Ident) {
		return false
	}
	next := p.peekN(1)
	if next.Kind == token.Assign {
		return true
	}
	if next.Kind != token.LParen || next.NewlineBefore {
		return false
	}
	depth := 0
	for i := 1; ; i++ {
		tok := p.peekN(i)
		switch tok.Kind {
		case token.EOF:
			return false
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return p.peekN(i+1).Kind == token.Assign
			}
		}
	}
}

func (p *Parser) parseStatement() (ast.StmtID, bool) {
	nameTok := p.advance()
	if p.at(token.Assign) {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		sp := nameTok.Span.Cover(p.exprSpan(value))
		return p.tree.Stmts.New(ast.StmtLet, sp, nameTok.Text, nameTok.Span, value), true
	}

	params, ok := p.parseParams(token.LParen, token.RParen)
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after function parameters"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := nameTok.Span.Cover(p.exprSpan(body))
	lambda := p.tree.Exprs.NewLambda(sp, nameTok.Text, params, body)
	return p.tree.Stmts.New(ast.StmtDefun, sp, nameTok.Text, nameTok.Span, lambda), true
}

// parseParams parses "(a, b)" or "|a, b|" parameter lists.
func (p *Parser) parseParams(open, closing token.Kind) ([]ast.Param, bool) {
	if _, ok := p.expect(open, diag.SynUnexpectedToken, "expected parameter list"); !ok {
		return nil, false
	}
	var params []ast.Param
	seen := make(map[string]bool)
	for !p.at(closing) {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		if seen[tok.Text] {
			p.err(diag.SynDuplicateParameter, tok.Span, "duplicate parameter "+tok.Text)
			return nil, false
		}
		seen[tok.Text] = true
		params = append(params, ast.Param{Name: tok.Text, Span: tok.Span})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(closing, diag.SynUnclosedDelimiter, "expected "+closing.String()+" to close parameters"); !ok {
		return nil, false
	}
	return params, true
}
