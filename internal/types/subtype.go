package types

import "github.com/funvibe/typeflow/internal/errorhierarchy"

// Subtype implements the `≤` relation of spec.md §3.2.
func Subtype(a, b Value) bool {
	if _, ok := b.(UnknownType); ok {
		return true
	}
	if _, ok := a.(NeverType); ok {
		return true
	}
	if _, ok := a.(UnknownType); ok {
		_, bIsUnknown := b.(UnknownType)
		return bIsUnknown
	}
	if _, ok := b.(NeverType); ok {
		_, aIsNever := a.(NeverType)
		return aIsNever
	}

	// a-is-Union must be checked first: when both sides are the same (or an
	// overlapping) Union, "every member of a ≤ b" is the rule that holds
	// (recursing into the b-is-Union branch per member), while "a ≤ some
	// member of b" alone would reject `Subtype(Union(N,S), Union(N,S))`,
	// breaking reflexivity (spec.md §8).
	if au, ok := a.(Union); ok {
		for _, m := range au.Members {
			if !Subtype(m, b) {
				return false
			}
		}
		return true
	}
	if bu, ok := b.(Union); ok {
		for _, m := range bu.Members {
			if Subtype(a, m) {
				return true
			}
		}
		return false
	}

	switch av := a.(type) {
	case Literal:
		return literalSubtype(av, b)
	case Primitive:
		bp, ok := b.(Primitive)
		return ok && av.Tag == bp.Tag
	case Refined:
		return refinedSubtype(av, b)
	case Object:
		bo, ok := b.(Object)
		if !ok {
			return false
		}
		return objectSubtype(av, bo)
	case Array:
		ba, ok := b.(Array)
		return ok && Subtype(av.Elem, ba.Elem)
	case Tuple:
		return tupleSubtype(av, b)
	case Instance:
		bi, ok := b.(Instance)
		return ok && errorhierarchy.IsDescendant(av.ClassName, bi.ClassName)
	case Function:
		_, ok := b.(Function)
		return ok // first-class function subtyping is not refined further
	case Promise:
		bp, ok := b.(Promise)
		return ok && Subtype(av.Inner, bp.Inner)
	default:
		return Equal(a, b)
	}
}

func literalSubtype(l Literal, b Value) bool {
	switch bv := b.(type) {
	case Literal:
		return Equal(l, bv)
	case Primitive:
		return l.Kind.PrimitiveTag() == bv.Tag
	case Refined:
		base := bv.Base
		if !literalSubtype(l, base) {
			return false
		}
		return bv.Refinement.Check(l)
	default:
		return false
	}
}

func refinedSubtype(r Refined, b Value) bool {
	if br, ok := b.(Refined); ok && r.Refinement.SameKind(br.Refinement) {
		return Subtype(r.Base, br.Base)
	}
	return Subtype(r.Base, b)
}

func objectSubtype(a, b Object) bool {
	for _, k := range b.Keys {
		av, ok := a.Props[k]
		if !ok {
			return false
		}
		if !Subtype(av, b.Props[k]) {
			return false
		}
	}
	return true
}

func tupleSubtype(a Tuple, b Value) bool {
	switch bv := b.(type) {
	case Tuple:
		if len(a.Elems) != len(bv.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Subtype(a.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Array:
		for _, e := range a.Elems {
			if !Subtype(e, bv.Elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
