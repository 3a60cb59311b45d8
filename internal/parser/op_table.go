package parser

import (
	"squiggle/internal/ast"
	"squiggle/internal/token"
)

// Binary operator precedences; higher binds tighter.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + - ++
	precMultiplicative = 6 // * /
	precPower          = 7 // ^
)

// binaryOperator returns precedence, right associativity and the operator.
// prec is -1 for tokens that are not binary operators.
func binaryOperator(kind token.Kind) (prec int, rightAssoc bool, op ast.InfixOp) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, false, ast.InfixOr
	case token.AndAnd:
		return precLogicalAnd, false, ast.InfixAnd
	case token.EqEq:
		return precEquality, false, ast.InfixEq
	case token.BangEq:
		return precEquality, false, ast.InfixNeq
	case token.Lt:
		return precComparison, false, ast.InfixLt
	case token.LtEq:
		return precComparison, false, ast.InfixLe
	case token.Gt:
		return precComparison, false, ast.InfixGt
	case token.GtEq:
		return precComparison, false, ast.InfixGe
	case token.Plus:
		return precAdditive, false, ast.InfixAdd
	case token.Minus:
		return precAdditive, false, ast.InfixSub
	case token.PlusPlus:
		return precAdditive, false, ast.InfixConcat
	case token.Star:
		return precMultiplicative, false, ast.InfixMul
	case token.Slash:
		return precMultiplicative, false, ast.InfixDiv
	case token.Caret:
		return precPower, true, ast.InfixPow
	default:
		return -1, false, 0
	}
}

func unaryOperator(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.UnaryMinus, true
	case token.Bang:
		return ast.UnaryNot, true
	default:
		return 0, false
	}
}
