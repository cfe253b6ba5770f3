package ops

import "github.com/funvibe/typeflow/internal/types"

// MemberAccess is returned by Member/Index; Thrown carries the Instance
// when the access propagates a throw (spec.md §4.1 "Access on Literal(null)/Literal(undefined)
// produces a throw effect"). The caller (evalcore) checks Thrown != nil.
type MemberAccess struct {
	Value  types.Value
	Thrown types.Value // nil when no throw
}

// Member implements `.prop` access, refined -> base -> primitive, plus
// the null/undefined-access throw (spec.md §4.1).
func Member(recv types.Value, name string) MemberAccess {
	if isNullOrUndefinedValue(recv) {
		return MemberAccess{Value: types.Never, Thrown: types.NewErrorInstance("TypeError",
			types.LitStr("Cannot read properties of "+nullOrUndefinedLabel(recv)+" (reading '"+name+"')"))}
	}
	if r, ok := recv.(types.Refined); ok {
		if res := r.Refinement.Property(name, r); res.Applicable {
			return MemberAccess{Value: res.Value}
		}
		return Member(r.Base, name)
	}
	switch v := recv.(type) {
	case types.Object:
		return MemberAccess{Value: v.Get(name)}
	case types.Tuple:
		if name == "length" {
			return MemberAccess{Value: types.LitNum(float64(len(v.Elems)))}
		}
		return MemberAccess{Value: stringMethodOrProperty(v, name)}
	case types.Array:
		if name == "length" {
			return MemberAccess{Value: types.Number}
		}
		return MemberAccess{Value: stringMethodOrProperty(v, name)}
	case types.Literal:
		if v.Kind == types.LitString && name == "length" {
			return MemberAccess{Value: types.LitNum(float64(len(v.Str)))}
		}
		return MemberAccess{Value: types.Undefined}
	case types.Primitive:
		if v.Tag == "string" && name == "length" {
			return MemberAccess{Value: types.Number}
		}
		return MemberAccess{Value: types.Undefined}
	case types.Instance:
		if val, ok := v.Props[name]; ok {
			return MemberAccess{Value: val}
		}
		return MemberAccess{Value: types.Undefined}
	default:
		return MemberAccess{Value: types.Undefined}
	}
}

// stringMethodOrProperty returns Undefined for non-method property access
// on array/tuple values that have no matching length/property handled
// above; array/tuple *methods* (map, filter, ...) are reached through
// Method, not Member — a bare `.map` (no call) is treated here as
// Undefined, matching that this analyser only models the built-in call
// form, not returning the method as a bound function value.
func stringMethodOrProperty(v types.Value, name string) types.Value {
	return types.Undefined
}

// Index implements `arr[i]` / `tuple[i]` (spec.md §4.1).
func Index(recv types.Value, index types.Value) MemberAccess {
	if isNullOrUndefinedValue(recv) {
		return MemberAccess{Value: types.Never, Thrown: types.NewErrorInstance("TypeError",
			types.LitStr("Cannot read properties of "+nullOrUndefinedLabel(recv)))}
	}
	switch v := recv.(type) {
	case types.Tuple:
		if lit, ok := index.(types.Literal); ok && lit.Kind == types.LitNumber {
			i := int(lit.Num)
			if i >= 0 && i < len(v.Elems) {
				return MemberAccess{Value: v.Elems[i]}
			}
			return MemberAccess{Value: types.Undefined}
		}
		return MemberAccess{Value: types.MakeUnion(tupleElemUnion(v), types.Undefined)}
	case types.Array:
		return MemberAccess{Value: types.MakeUnion(v.Elem, types.Undefined)}
	case types.Object:
		if lit, ok := index.(types.Literal); ok && lit.Kind == types.LitString {
			return MemberAccess{Value: v.Get(lit.Str)}
		}
		return MemberAccess{Value: types.Unknown}
	default:
		return MemberAccess{Value: types.Undefined}
	}
}

func tupleElemUnion(t types.Tuple) types.Value {
	return types.MakeUnion(t.Elems...)
}

func isNullOrUndefinedValue(v types.Value) bool {
	lit, ok := v.(types.Literal)
	return ok && (lit.Kind == types.LitNull || lit.Kind == types.LitUndefined)
}

func nullOrUndefinedLabel(v types.Value) string {
	lit := v.(types.Literal)
	if lit.Kind == types.LitNull {
		return "null"
	}
	return "undefined"
}
