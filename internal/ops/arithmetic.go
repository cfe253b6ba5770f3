package ops

import (
	"math"

	"github.com/funvibe/typeflow/internal/refinement"
	"github.com/funvibe/typeflow/internal/types"
)

func arithmetic(op string, left, right types.Value) types.Value {
	if op == "+" {
		return addOp(left, right)
	}
	if bothNumericLiteral(left, right) {
		l, r := left.(types.Literal).Num, right.(types.Literal).Num
		return types.LitNum(computeArith(op, l, r))
	}
	return types.Number
}

func computeArith(op string, l, r float64) float64 {
	switch op {
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return math.Mod(l, r)
	default:
		return math.NaN()
	}
}

func addOp(left, right types.Value) types.Value {
	if isStringy(left) && isStringy(right) {
		if v, ok := refinement.Concat(left, right); ok {
			return v
		}
	}
	if bothNumericLiteral(left, right) {
		l, r := left.(types.Literal).Num, right.(types.Literal).Num
		return types.LitNum(l + r)
	}
	if isStringyAny(left) || isStringyAny(right) {
		return types.String
	}
	if isNumericAny(left) && isNumericAny(right) {
		return types.Number
	}
	return types.MakeUnion(types.Number, types.String)
}

func bothNumericLiteral(left, right types.Value) bool {
	l, lok := left.(types.Literal)
	r, rok := right.(types.Literal)
	return lok && rok && l.Kind == types.LitNumber && r.Kind == types.LitNumber
}

// isStringy reports whether v can directly participate in template
// concatenation (a Literal string, the plain String primitive, or an
// existing template refinement).
func isStringy(v types.Value) bool {
	switch t := v.(type) {
	case types.Literal:
		return t.Kind == types.LitString
	case types.Primitive:
		return t.Tag == "string"
	case types.Refined:
		_, ok := t.Refinement.(*refinement.TemplateString)
		return ok
	}
	return false
}

func isStringyAny(v types.Value) bool {
	return isStringy(v)
}

func isNumericAny(v types.Value) bool {
	switch t := v.(type) {
	case types.Literal:
		return t.Kind == types.LitNumber
	case types.Primitive:
		return t.Tag == "number"
	case types.Refined:
		_, ok := t.Refinement.(*refinement.NumericRange)
		return ok
	}
	return false
}

func unaryNeg(v types.Value) types.Value {
	if lit, ok := v.(types.Literal); ok && lit.Kind == types.LitNumber {
		return types.LitNum(-lit.Num)
	}
	return types.Number
}
