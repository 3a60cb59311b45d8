package ast

import (
	"squiggle/internal/source"
)

type ExprKind uint8

const (
	ExprNumber ExprKind = iota + 1
	ExprString
	ExprBool
	ExprVoid
	ExprIdent
	ExprArray
	ExprRecord
	ExprBlock
	ExprLambda
	ExprCall
	ExprInfix
	ExprUnary
	ExprPipe
	ExprDot
	ExprIndex
	ExprTernary
)

var exprKindNames = [...]string{
	ExprNumber:  "Number",
	ExprString:  "String",
	ExprBool:    "Boolean",
	ExprVoid:    "Void",
	ExprIdent:   "Identifier",
	ExprArray:   "Array",
	ExprRecord:  "Dict",
	ExprBlock:   "Block",
	ExprLambda:  "Lambda",
	ExprCall:    "Call",
	ExprInfix:   "InfixCall",
	ExprUnary:   "UnaryCall",
	ExprPipe:    "Pipe",
	ExprDot:     "DotLookup",
	ExprIndex:   "BracketLookup",
	ExprTernary: "Ternary",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) && exprKindNames[k] != "" {
		return exprKindNames[k]
	}
	return "Unknown"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprNumberData struct {
	Value float64
	Raw   string
}

type ExprStringData struct {
	Value string
}

type ExprBoolData struct {
	Value bool
}

type ExprIdentData struct {
	Name string
}

type ExprArrayData struct {
	Elements []ExprID
}

// RecordEntry is one "key: value" pair. Shorthand entries ({a}) have
// Value pointing at an identifier expression named Key.
type RecordEntry struct {
	Key       string
	KeySpan   source.Span
	Value     ExprID
	Shorthand bool
	Span      source.Span
}

type ExprRecordData struct {
	Entries []RecordEntry
}

type ExprBlockData struct {
	Stmts  []StmtID
	Result ExprID
}

type Param struct {
	Name string
	Span source.Span
}

type ExprLambdaData struct {
	Name   string // set for lambdas introduced by a defun statement
	Params []Param
	Body   ExprID
}

type ExprCallData struct {
	Fn   ExprID
	Args []ExprID
}

type InfixOp uint8

const (
	InfixAdd InfixOp = iota + 1
	InfixSub
	InfixMul
	InfixDiv
	InfixPow
	InfixConcat
	InfixEq
	InfixNeq
	InfixLt
	InfixLe
	InfixGt
	InfixGe
	InfixAnd
	InfixOr
)

var infixInfo = [...]struct{ text, fn string }{
	InfixAdd:    {"+", "add"},
	InfixSub:    {"-", "subtract"},
	InfixMul:    {"*", "multiply"},
	InfixDiv:    {"/", "divide"},
	InfixPow:    {"^", "pow"},
	InfixConcat: {"++", "concat"},
	InfixEq:     {"==", "equal"},
	InfixNeq:    {"!=", "unequal"},
	InfixLt:     {"<", "smaller"},
	InfixLe:     {"<=", "smallerEq"},
	InfixGt:     {">", "larger"},
	InfixGe:     {">=", "largerEq"},
	InfixAnd:    {"&&", "and"},
	InfixOr:     {"||", "or"},
}

func (op InfixOp) String() string { return infixInfo[op].text }

// Function returns the name of the library function implementing op.
func (op InfixOp) Function() string { return infixInfo[op].fn }

type UnaryOp uint8

const (
	UnaryMinus UnaryOp = iota + 1
	UnaryNot
)

func (op UnaryOp) String() string {
	if op == UnaryNot {
		return "!"
	}
	return "-"
}

// Function returns the name of the library function implementing op.
func (op UnaryOp) Function() string {
	if op == UnaryNot {
		return "not"
	}
	return "unaryMinus"
}

// IndexLookupFunction implements both r.key and r[key].
const IndexLookupFunction = "$_atIndex_$"

type ExprInfixData struct {
	Op    InfixOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op  UnaryOp
	Arg ExprID
}

// ExprPipeData is "left -> fn(args...)", i.e. fn(left, args...).
type ExprPipeData struct {
	Left ExprID
	Fn   ExprID
	Args []ExprID
}

type ExprDotData struct {
	Arg     ExprID
	Key     string
	KeySpan source.Span
}

type ExprIndexData struct {
	Arg ExprID
	Key ExprID
}

type TernarySyntax uint8

const (
	TernaryC TernarySyntax = iota // c ? a : b
	TernaryIf                     // if c then a else b
)

type ExprTernaryData struct {
	Cond   ExprID
	Then   ExprID
	Else   ExprID
	Syntax TernarySyntax
}
