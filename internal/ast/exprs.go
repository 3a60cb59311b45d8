package ast

import (
	"squiggle/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Numbers  *Arena[ExprNumberData]
	Strings  *Arena[ExprStringData]
	Bools    *Arena[ExprBoolData]
	Idents   *Arena[ExprIdentData]
	Arrays   *Arena[ExprArrayData]
	Records  *Arena[ExprRecordData]
	Blocks   *Arena[ExprBlockData]
	Lambdas  *Arena[ExprLambdaData]
	Calls    *Arena[ExprCallData]
	Infixes  *Arena[ExprInfixData]
	Unaries  *Arena[ExprUnaryData]
	Pipes    *Arena[ExprPipeData]
	Dots     *Arena[ExprDotData]
	Indices  *Arena[ExprIndexData]
	Ternarys *Arena[ExprTernaryData]
}

// NewExprs creates per-kind arenas with capHint initial capacity (default 64).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := capHint/4 + 1
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Numbers:  NewArena[ExprNumberData](small),
		Strings:  NewArena[ExprStringData](small),
		Bools:    NewArena[ExprBoolData](small),
		Idents:   NewArena[ExprIdentData](capHint),
		Arrays:   NewArena[ExprArrayData](small),
		Records:  NewArena[ExprRecordData](small),
		Blocks:   NewArena[ExprBlockData](small),
		Lambdas:  NewArena[ExprLambdaData](small),
		Calls:    NewArena[ExprCallData](small),
		Infixes:  NewArena[ExprInfixData](small),
		Unaries:  NewArena[ExprUnaryData](small),
		Pipes:    NewArena[ExprPipeData](small),
		Dots:     NewArena[ExprDotData](small),
		Indices:  NewArena[ExprIndexData](small),
		Ternarys: NewArena[ExprTernaryData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewNumber(span source.Span, value float64, raw string) ExprID {
	return e.new(ExprNumber, span, e.Numbers.Allocate(ExprNumberData{Value: value, Raw: raw}))
}

func (e *Exprs) Number(id ExprID) (*ExprNumberData, bool) {
	p, ok := e.payload(id, ExprNumber)
	if !ok {
		return nil, false
	}
	return e.Numbers.Get(p), true
}

func (e *Exprs) NewString(span source.Span, value string) ExprID {
	return e.new(ExprString, span, e.Strings.Allocate(ExprStringData{Value: value}))
}

func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	p, ok := e.payload(id, ExprString)
	if !ok {
		return nil, false
	}
	return e.Strings.Get(p), true
}

func (e *Exprs) NewBool(span source.Span, value bool) ExprID {
	return e.new(ExprBool, span, e.Bools.Allocate(ExprBoolData{Value: value}))
}

func (e *Exprs) Bool(id ExprID) (*ExprBoolData, bool) {
	p, ok := e.payload(id, ExprBool)
	if !ok {
		return nil, false
	}
	return e.Bools.Get(p), true
}

// NewVoid creates "()".
func (e *Exprs) NewVoid(span source.Span) ExprID {
	return e.new(ExprVoid, span, 0)
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewArray(span source.Span, elements []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{Elements: elements}))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

func (e *Exprs) NewRecord(span source.Span, entries []RecordEntry) ExprID {
	return e.new(ExprRecord, span, e.Records.Allocate(ExprRecordData{Entries: entries}))
}

func (e *Exprs) Record(id ExprID) (*ExprRecordData, bool) {
	p, ok := e.payload(id, ExprRecord)
	if !ok {
		return nil, false
	}
	return e.Records.Get(p), true
}

func (e *Exprs) NewBlock(span source.Span, stmts []StmtID, result ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Result: result}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewLambda(span source.Span, name string, params []Param, body ExprID) ExprID {
	return e.new(ExprLambda, span, e.Lambdas.Allocate(ExprLambdaData{Name: name, Params: params, Body: body}))
}

func (e *Exprs) Lambda(id ExprID) (*ExprLambdaData, bool) {
	p, ok := e.payload(id, ExprLambda)
	if !ok {
		return nil, false
	}
	return e.Lambdas.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, fn ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Fn: fn, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewInfix(span source.Span, op InfixOp, left, right ExprID) ExprID {
	return e.new(ExprInfix, span, e.Infixes.Allocate(ExprInfixData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Infix(id ExprID) (*ExprInfixData, bool) {
	p, ok := e.payload(id, ExprInfix)
	if !ok {
		return nil, false
	}
	return e.Infixes.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, arg ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Arg: arg}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewPipe(span source.Span, left, fn ExprID, args []ExprID) ExprID {
	return e.new(ExprPipe, span, e.Pipes.Allocate(ExprPipeData{Left: left, Fn: fn, Args: args}))
}

func (e *Exprs) Pipe(id ExprID) (*ExprPipeData, bool) {
	p, ok := e.payload(id, ExprPipe)
	if !ok {
		return nil, false
	}
	return e.Pipes.Get(p), true
}

func (e *Exprs) NewDot(span source.Span, arg ExprID, key string, keySpan source.Span) ExprID {
	return e.new(ExprDot, span, e.Dots.Allocate(ExprDotData{Arg: arg, Key: key, KeySpan: keySpan}))
}

func (e *Exprs) Dot(id ExprID) (*ExprDotData, bool) {
	p, ok := e.payload(id, ExprDot)
	if !ok {
		return nil, false
	}
	return e.Dots.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, arg, key ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Arg: arg, Key: key}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

func (e *Exprs) NewTernary(span source.Span, syntax TernarySyntax, cond, then, els ExprID) ExprID {
	return e.new(ExprTernary, span, e.Ternarys.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els, Syntax: syntax}))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternarys.Get(p), true
}
