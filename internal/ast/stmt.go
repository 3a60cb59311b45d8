package ast

import (
	"squiggle/internal/source"
)

type StmtKind uint8

const (
	// StmtLet is "name = value".
	StmtLet StmtKind = iota + 1
	// StmtDefun is "name(params) = body"; Value is the named lambda.
	StmtDefun
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "LetStatement"
	case StmtDefun:
		return "DefunStatement"
	}
	return "Unknown"
}

type Stmt struct {
	Kind     StmtKind
	Span     source.Span
	Name     string
	NameSpan source.Span
	Value    ExprID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Stmts{Arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) New(kind StmtKind, span source.Span, name string, nameSpan source.Span, value ExprID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:     kind,
		Span:     span,
		Name:     name,
		NameSpan: nameSpan,
		Value:    value,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
