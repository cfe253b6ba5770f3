package types

// Widen replaces a value with a supertype coarse enough to guarantee
// fixed-point termination (spec.md §9, GLOSSARY "Widening"). Literal
// widens to its primitive; Refined always drops its refinement and widens
// to the widened base, since template string / range refinements track
// precision that a fixed-point loop must be allowed to discard.
func Widen(v Value) Value {
	switch t := v.(type) {
	case Literal:
		return Primitive{Tag: t.Kind.PrimitiveTag()}
	case Refined:
		return Widen(t.Base)
	case Union:
		members := make([]Value, len(t.Members))
		for i, m := range t.Members {
			members[i] = Widen(m)
		}
		return MakeUnion(members...)
	case Array:
		return Array{Elem: Widen(t.Elem)}
	case Tuple:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Widen(e)
		}
		return Tuple{Elems: elems}
	case Object:
		props := make(map[string]Value, len(t.Props))
		for k, v := range t.Props {
			props[k] = Widen(v)
		}
		return Object{ID: t.ID, Keys: t.Keys, Props: props}
	case Promise:
		return Promise{Inner: Widen(t.Inner)}
	default:
		return v
	}
}

// WidenAll widens every value in vs, used when sealing the post-loop
// environment for variables mutated inside a widening fixed-point
// (spec.md §4.6 "For / While / Do-While").
func WidenAll(vs map[string]Value) map[string]Value {
	out := make(map[string]Value, len(vs))
	for k, v := range vs {
		out[k] = Widen(v)
	}
	return out
}
