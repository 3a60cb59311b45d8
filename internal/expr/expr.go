// Package expr defines the compiled expression form executed by the vm.
//
// Every identifier of the syntax tree is resolved at compile time to one of
// StackRef (a bound local, counted from the top of the runtime stack),
// CaptureRef (a value captured by the enclosing lambda) or Value (an
// inlined external).
package expr

import (
	"strconv"
	"strings"

	"squiggle/internal/source"
	"squiggle/internal/value"
)

type Kind uint8

const (
	KindProgram Kind = iota
	KindBlock
	KindAssign
	KindStackRef
	KindCaptureRef
	KindValue
	KindCall
	KindLambda
	KindArray
	KindDict
	KindTernary
)

// Expr is a compiled node.
type Expr interface {
	Kind() Kind
	Span() source.Span
	String() string
}

type Program struct {
	At         source.Span
	Statements []*Assign
	Result     Expr
	// Bindings maps every top-level name to its stack offset after the
	// last statement has run.
	Bindings map[string]int
	// Order lists top-level names in definition order, first definition wins.
	Order []string
}

type Block struct {
	At         source.Span
	Statements []*Assign
	Result     Expr
}

type Assign struct {
	At    source.Span
	Name  string
	Value Expr
}

type StackRef struct {
	At     source.Span
	Offset int
}

type CaptureRef struct {
	At    source.Span
	Index int
}

type Value struct {
	At    source.Span
	Value value.Value
}

type Call struct {
	At   source.Span
	Fn   Expr
	Args []Expr
}

type Lambda struct {
	At       source.Span
	Name     string
	Params   []string
	Captures []Expr
	Body     Expr
}

type Array struct {
	At    source.Span
	Items []Expr
}

type Pair struct {
	Key   Expr
	Value Expr
}

type Dict struct {
	At    source.Span
	Pairs []Pair
}

type Ternary struct {
	At   source.Span
	Cond Expr
	Then Expr
	Else Expr
}

func (*Program) Kind() Kind    { return KindProgram }
func (*Block) Kind() Kind      { return KindBlock }
func (*Assign) Kind() Kind     { return KindAssign }
func (*StackRef) Kind() Kind   { return KindStackRef }
func (*CaptureRef) Kind() Kind { return KindCaptureRef }
func (*Value) Kind() Kind      { return KindValue }
func (*Call) Kind() Kind       { return KindCall }
func (*Lambda) Kind() Kind     { return KindLambda }
func (*Array) Kind() Kind      { return KindArray }
func (*Dict) Kind() Kind       { return KindDict }
func (*Ternary) Kind() Kind    { return KindTernary }

func (e *Program) Span() source.Span    { return e.At }
func (e *Block) Span() source.Span      { return e.At }
func (e *Assign) Span() source.Span     { return e.At }
func (e *StackRef) Span() source.Span   { return e.At }
func (e *CaptureRef) Span() source.Span { return e.At }
func (e *Value) Span() source.Span      { return e.At }
func (e *Call) Span() source.Span       { return e.At }
func (e *Lambda) Span() source.Span     { return e.At }
func (e *Array) Span() source.Span      { return e.At }
func (e *Dict) Span() source.Span       { return e.At }
func (e *Ternary) Span() source.Span    { return e.At }

// String renders nodes as s-expressions; used by tests and `squiggle parse --compiled`.
func (e *Program) String() string {
	parts := []string{"Program"}
	for _, s := range e.Statements {
		parts = append(parts, s.String())
	}
	if e.Result != nil {
		parts = append(parts, e.Result.String())
	}
	return sexpr(parts...)
}

func (e *Block) String() string {
	parts := []string{"Block"}
	for _, s := range e.Statements {
		parts = append(parts, s.String())
	}
	parts = append(parts, e.Result.String())
	return sexpr(parts...)
}

func (e *Assign) String() string {
	return sexpr("Assign", e.Name, e.Value.String())
}

func (e *StackRef) String() string {
	return "$" + strconv.Itoa(e.Offset)
}

func (e *CaptureRef) String() string {
	return "^" + strconv.Itoa(e.Index)
}

func (e *Value) String() string {
	if l, ok := e.Value.(value.Lambda); ok {
		return "<" + l.Fn.Name() + ">"
	}
	return e.Value.String()
}

func (e *Call) String() string {
	parts := []string{e.Fn.String()}
	for _, a := range e.Args {
		parts = append(parts, a.String())
	}
	return sexpr(parts...)
}

func (e *Lambda) String() string {
	caps := make([]string, len(e.Captures))
	for i, c := range e.Captures {
		caps[i] = c.String()
	}
	return sexpr("Lambda", "("+strings.Join(e.Params, " ")+")", "["+strings.Join(caps, " ")+"]", e.Body.String())
}

func (e *Array) String() string {
	parts := []string{"Array"}
	for _, item := range e.Items {
		parts = append(parts, item.String())
	}
	return sexpr(parts...)
}

func (e *Dict) String() string {
	parts := []string{"Dict"}
	for _, p := range e.Pairs {
		parts = append(parts, p.Key.String()+":"+p.Value.String())
	}
	return sexpr(parts...)
}

func (e *Ternary) String() string {
	return sexpr("Ternary", e.Cond.String(), e.Then.String(), e.Else.String())
}

func sexpr(parts ...string) string {
	return "(" + strings.Join(parts, " ") + ")"
}
