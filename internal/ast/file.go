package ast

import (
	"squiggle/internal/source"
)

// ImportDecl is `import "path" as name` (named) or `import "path" as *` (flat).
type ImportDecl struct {
	Path      string
	PathSpan  source.Span
	Alias     string // empty for flat imports
	AliasSpan source.Span
	Flat      bool
	Span      source.Span
}

// Program is the root of a parsed source.
type Program struct {
	Span    source.Span
	Imports []ImportDecl
	Stmts   []StmtID
	Result  ExprID // NoExprID when the source only binds names
}

// HasResult reports whether the program ends with an expression.
func (p *Program) HasResult() bool {
	return p.Result.IsValid()
}
