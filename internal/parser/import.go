package parser

import (
	"squiggle/internal/ast"
	"squiggle/internal/diag"
	"squiggle/internal/token"
)

// parseImport parses `import "path" as name` or `import "path" as *`.
func (p *Parser) parseImport() (ast.ImportDecl, bool) {
	kw := p.advance()
	pathTok, ok := p.expect(token.StringLit, diag.SynImportExpectPath, "expected import path string")
	if !ok {
		return ast.ImportDecl{}, false
	}
	if _, ok := p.expect(token.KwAs, diag.SynImportExpectAs, "expected 'as' after import path"); !ok {
		return ast.ImportDecl{}, false
	}

	decl := ast.ImportDecl{Path: pathTok.Text, PathSpan: pathTok.Span}
	switch {
	case p.at(token.Star):
		star := p.advance()
		decl.Flat = true
		decl.AliasSpan = star.Span
	case p.at(token.Ident):
		alias := p.advance()
		decl.Alias = alias.Text
		decl.AliasSpan = alias.Span
	default:
		p.unexpected(diag.SynImportExpectAlias, "expected import alias or '*'")
		return ast.ImportDecl{}, false
	}
	decl.Span = kw.Span.Cover(decl.AliasSpan)
	return decl, true
}

// ImportDeclarations validates and returns the imports of a parsed tree.
// Two named imports may not share an alias.
func ImportDeclarations(sourceID string, tree *ast.Tree) ([]ast.ImportDecl, *diag.Error) {
	seen := make(map[string]ast.ImportDecl, len(tree.Program.Imports))
	for _, imp := range tree.Program.Imports {
		if imp.Path == "" {
			return nil, diag.ErrorAt(diag.SynImportExpectPath, sourceID, imp.PathSpan, "empty import path")
		}
		if imp.Flat {
			continue
		}
		if prev, dup := seen[imp.Alias]; dup {
			return nil, diag.ErrorAt(diag.SynImportDuplicateAlias, sourceID, imp.AliasSpan,
				"alias %q already used for %q", imp.Alias, prev.Path).WithName(imp.Alias)
		}
		seen[imp.Alias] = imp
	}
	return tree.Program.Imports, nil
}
