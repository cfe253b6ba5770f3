// Package ops implements spec.md §4.1: pure JS operator semantics and
// built-in method/property dispatch over the type-value lattice. Grounded
// on the teacher's internal/evaluator/expressions_operators.go (operator
// switch) and the builtins_*.go family (one file per domain concern),
// kept here as ops/arithmetic.go, ops/strings.go, ops/arrays.go,
// ops/objects.go.
//
// All functions in this package assume non-Union operands; the evaluator
// is responsible for distributing over Union members first (spec.md §4.5)
// and recombining with types.MakeUnion.
package ops

import "github.com/funvibe/typeflow/internal/types"

// Binary applies op to non-Union left/right, following the refined -> base
// -> primitive dispatch order of spec.md §4.1.
func Binary(op string, left, right types.Value) types.Value {
	if lr, ok := left.(types.Refined); ok {
		if res := lr.Refinement.Operator(op, lr, right); res.Applicable {
			return res.Value
		}
		return Binary(op, lr.Base, right)
	}
	if rr, ok := right.(types.Refined); ok {
		if res := rr.Refinement.Operator(flipOp(op), rr, left); res.Applicable {
			return res.Value
		}
		return Binary(op, left, rr.Base)
	}
	return primitiveBinary(op, left, right)
}

func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op
	}
}

func primitiveBinary(op string, left, right types.Value) types.Value {
	switch op {
	case "+", "-", "*", "/", "%":
		return arithmetic(op, left, right)
	case "===", "!==":
		return equality(op, left, right)
	case "<", "<=", ">", ">=":
		return ordering(op, left, right)
	default:
		return types.Unknown
	}
}

// Unary applies a unary operator (!, -, typeof) to a single non-Union value.
func Unary(op string, v types.Value) types.Value {
	switch op {
	case "!":
		return unaryNot(v)
	case "-":
		return unaryNeg(v)
	case "typeof":
		return Typeof(v)
	default:
		return types.Unknown
	}
}
