package types

// CloneValue deep-clones v, allocating a new identity for every distinct
// Object it encounters exactly once (spec.md §4.3, §9 "Object identity via
// allocated tokens"). seen maps an old ObjectID to its already-minted clone
// so that two bindings which shared an Object's identity before the clone
// still share the identity of its copy afterwards — callers cloning an
// entire environment frame must pass the same seen map across every
// binding in that frame.
func CloneValue(v Value, seen map[ObjectID]Object) Value {
	switch t := v.(type) {
	case Object:
		if existing, ok := seen[t.ID]; ok {
			return existing
		}
		clone := Object{ID: NewObjectID(), Keys: append([]string(nil), t.Keys...), Props: map[string]Value{}}
		seen[t.ID] = clone // register before recursing to survive self-referential objects
		for k, pv := range t.Props {
			clone.Props[k] = CloneValue(pv, seen)
		}
		seen[t.ID] = clone
		return clone
	case Tuple:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = CloneValue(e, seen)
		}
		return Tuple{Elems: elems}
	case Array:
		return Array{Elem: CloneValue(t.Elem, seen)}
	case Union:
		members := make([]Value, len(t.Members))
		for i, m := range t.Members {
			members[i] = CloneValue(m, seen)
		}
		return Union{Members: members}
	case Refined:
		return Refined{Base: CloneValue(t.Base, seen), Refinement: t.Refinement}
	case Promise:
		return Promise{Inner: CloneValue(t.Inner, seen)}
	case Instance:
		props := make(map[string]Value, len(t.Props))
		for k, pv := range t.Props {
			props[k] = CloneValue(pv, seen)
		}
		return Instance{ClassName: t.ClassName, Props: props}
	default:
		// Literal, Primitive, Function, Never, Unknown have no aliasable
		// reference identity to preserve.
		return v
	}
}
