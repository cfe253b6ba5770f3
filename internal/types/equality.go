package types

// Equal is structural equality used for union-member deduplication and for
// deciding `x === L` narrowing tests. Object equality is by identity token
// (reference semantics); Array/Tuple/Union use structural equality
// (spec.md §3.1); Refined values are equal when their refinements have the
// same kind (by name) and their bases are equal, without comparing the
// refinements' metadata.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Literal:
		bv, ok := b.(Literal)
		if !ok {
			return false
		}
		if av.Kind != bv.Kind {
			return false
		}
		switch av.Kind {
		case LitNumber:
			return av.Num == bv.Num
		case LitString:
			return av.Str == bv.Str
		case LitBool:
			return av.Bool == bv.Bool
		default:
			return true // null/undefined are singleton kinds
		}
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.Tag == bv.Tag
	case NeverType:
		_, ok := b.(NeverType)
		return ok
	case UnknownType:
		_, ok := b.(UnknownType)
		return ok
	case Refined:
		bv, ok := b.(Refined)
		return ok && av.Refinement.SameKind(bv.Refinement) && Equal(av.Base, bv.Base)
	case Object:
		bv, ok := b.(Object)
		return ok && av.ID == bv.ID
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Elem, bv.Elem)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Function:
		bv, ok := b.(Function)
		// Functions have no structural value semantics in JS; equal when
		// they share name and body. The captured closure is not compared.
		return ok && av.Name == bv.Name && av.Body == bv.Body && av.ExprBody == bv.ExprBody
	case Promise:
		bv, ok := b.(Promise)
		return ok && Equal(av.Inner, bv.Inner)
	case Instance:
		bv, ok := b.(Instance)
		if !ok || av.ClassName != bv.ClassName || len(av.Props) != len(bv.Props) {
			return false
		}
		for k, v := range av.Props {
			ov, ok := bv.Props[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	case Union:
		bv, ok := b.(Union)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for _, m := range av.Members {
			if !containsMember(bv.Members, m) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsMember(members []Value, v Value) bool {
	for _, m := range members {
		if Equal(m, v) {
			return true
		}
	}
	return false
}
