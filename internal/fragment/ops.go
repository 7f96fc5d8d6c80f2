package fragment

import (
	"mex/internal/token"
)

// Binary operator precedence for the default expression grammar.
// Higher binds tighter.
const (
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precEquality       = 3  // == !=
	precComparison     = 4  // < <= > >=
	precBitwiseOr      = 5  // |
	precBitwiseXor     = 6  // ^
	precBitwiseAnd     = 7  // &
	precShift          = 8  // << >>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
)

// binaryPrec returns the precedence of kind as a binary operator,
// or -1 when kind is not one.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1
	}
}

func isPrefixOp(kind token.Kind) bool {
	switch kind {
	case token.Minus, token.Bang, token.Amp, token.Star:
		return true
	default:
		return false
	}
}
