package types

import "math"

// Filter keeps the union members of v satisfying keep, normalising the
// result (spec.md §3.1 narrowing/subtraction by predicate; §4.4 narrowing
// engine builds both Filter and its complement Reject from the same
// predicate for the true/false branch pair).
func Filter(v Value, keep func(Value) bool) Value {
	members := Members(v)
	out := make([]Value, 0, len(members))
	for _, m := range members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return MakeUnion(out...)
}

// Reject keeps the union members of v NOT satisfying drop — the
// complementary half of Filter for a narrowing test's false branch.
func Reject(v Value, drop func(Value) bool) Value {
	return Filter(v, func(m Value) bool { return !drop(m) })
}

// PrimitiveTagOf returns the `typeof`-style tag for a single non-Union
// member, and ok=false when the member has no single unambiguous tag
// (spec.md §4.1 typeof semantics feed narrowing's `typeof x === "T"` test).
func PrimitiveTagOf(v Value) (string, bool) {
	switch t := v.(type) {
	case Literal:
		return t.Kind.PrimitiveTag(), true
	case Primitive:
		return t.Tag, true
	case Refined:
		return PrimitiveTagOf(t.Base)
	case Function:
		return "function", true
	case Object, Array, Tuple, Instance:
		return "object", true
	case UnknownType:
		return "", false
	default:
		return "", false
	}
}

// IsTruthy reports whether v is decidably truthy/falsy for a single
// non-Union member and whether that is decidable at all.
func IsTruthy(v Value) (truthy bool, decidable bool) {
	lit, ok := v.(Literal)
	if !ok {
		return false, false
	}
	switch lit.Kind {
	case LitNumber:
		return lit.Num != 0 && !math.IsNaN(lit.Num), true
	case LitString:
		return lit.Str != "", true
	case LitBool:
		return lit.Bool, true
	case LitNull, LitUndefined:
		return false, true
	}
	return false, false
}
