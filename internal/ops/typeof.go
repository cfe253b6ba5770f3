package ops

import "github.com/funvibe/typeflow/internal/types"

// Typeof implements spec.md §4.1's `typeof` collapse: a decided Literal
// string tag when v maps unambiguously to one, else the String primitive.
func Typeof(v types.Value) types.Value {
	if tag, ok := types.PrimitiveTagOf(v); ok {
		return types.LitStr(tag)
	}
	return types.String
}

// LogicalShortCircuit decides whether a logical operator's right operand
// must be evaluated at all, given a single decidable left value (spec.md
// §4.6 "Logical"). ok=false means the evaluator must evaluate the right
// side and combine via CombineLogical.
func LogicalShortCircuit(op string, left types.Value) (result types.Value, ok bool) {
	switch op {
	case "&&":
		truthy, decidable := types.IsTruthy(left)
		if decidable && !truthy {
			return left, true
		}
	case "||":
		truthy, decidable := types.IsTruthy(left)
		if decidable && truthy {
			return left, true
		}
	case "??":
		if lit, isLit := left.(types.Literal); isLit {
			if lit.Kind != types.LitNull && lit.Kind != types.LitUndefined {
				return left, true
			}
		}
	}
	return nil, false
}

// CombineLogical computes the non-short-circuited result of a logical
// operator once both sides have been evaluated: distributes per member of
// left, preserving short-circuit shape for decidable members (spec.md §4.5).
func CombineLogical(op string, left, right types.Value) types.Value {
	var parts []types.Value
	for _, m := range types.Members(left) {
		switch op {
		case "&&":
			truthy, decidable := types.IsTruthy(m)
			switch {
			case decidable && !truthy:
				parts = append(parts, m)
			case decidable && truthy:
				parts = append(parts, right)
			default:
				parts = append(parts, right)
			}
		case "||":
			truthy, decidable := types.IsTruthy(m)
			switch {
			case decidable && truthy:
				parts = append(parts, m)
			case decidable && !truthy:
				parts = append(parts, right)
			default:
				parts = append(parts, m, right)
			}
		case "??":
			if isNullish(m) {
				parts = append(parts, right)
			} else {
				parts = append(parts, m)
			}
		}
	}
	return types.MakeUnion(parts...)
}

func isNullish(v types.Value) bool {
	lit, ok := v.(types.Literal)
	return ok && (lit.Kind == types.LitNull || lit.Kind == types.LitUndefined)
}
