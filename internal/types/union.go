package types

import (
	"strings"

	"github.com/funvibe/typeflow/internal/config"
)

// Union is a disjunction of non-Union, non-Never member types. It is always
// constructed via MakeUnion/Simplify so the normalisation invariants of
// spec.md §3.1 hold.
type Union struct {
	Members []Value
}

func (Union) valueNode() {}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// MakeUnion builds a normalised union (or collapses to a single member,
// Never, or Unknown) from a set of candidate members. This is the single
// entry point the rest of the lattice uses to combine values — e.g. §8
// scenario 1's `Union(Literal 2, Number)` simplification — so the open
// question about union-presentation policy is decided in exactly one
// place (SPEC_FULL.md §4 item 1: a Literal absorbed by a Primitive sibling
// in the same union is dropped).
func MakeUnion(members ...Value) Value {
	flat := flattenMembers(members)
	flat = dropNever(flat)
	if containsUnknown(flat) {
		return Unknown
	}
	flat = dedupe(flat)
	flat = absorbLiterals(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	if config.DefaultUnionCap > 0 && len(flat) > config.DefaultUnionCap {
		return WidenUnion(flat)
	}
	return Union{Members: flat}
}

// MakeUnionWithCap behaves like MakeUnion but applies an explicit
// cardinality cap (spec.md §4.5 "safety threshold"), used by the evaluator
// which is constructed with per-analysis Options.
func MakeUnionWithCap(cap int, members ...Value) Value {
	flat := flattenMembers(members)
	flat = dropNever(flat)
	if containsUnknown(flat) {
		return Unknown
	}
	flat = dedupe(flat)
	flat = absorbLiterals(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	if cap > 0 && len(flat) > cap {
		return WidenUnion(flat)
	}
	return Union{Members: flat}
}

func flattenMembers(members []Value) []Value {
	var out []Value
	for _, m := range members {
		if u, ok := m.(Union); ok {
			out = append(out, flattenMembers(u.Members)...)
		} else {
			out = append(out, m)
		}
	}
	return out
}

func dropNever(members []Value) []Value {
	out := make([]Value, 0, len(members))
	for _, m := range members {
		if _, ok := m.(NeverType); ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

func containsUnknown(members []Value) bool {
	for _, m := range members {
		if _, ok := m.(UnknownType); ok {
			return true
		}
	}
	return false
}

func dedupe(members []Value) []Value {
	out := make([]Value, 0, len(members))
	for _, m := range members {
		if !containsMember(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// absorbLiterals drops any Literal member whose primitive supertype is
// also present among the siblings (SPEC_FULL.md §4 item 1).
func absorbLiterals(members []Value) []Value {
	primPresent := map[string]bool{}
	for _, m := range members {
		if p, ok := m.(Primitive); ok {
			primPresent[p.Tag] = true
		}
	}
	if len(primPresent) == 0 {
		return members
	}
	out := make([]Value, 0, len(members))
	for _, m := range members {
		if lit, ok := m.(Literal); ok && primPresent[lit.Kind.PrimitiveTag()] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// WidenUnion widens every member to its least common super-primitive and
// re-unions, used when a union exceeds the cardinality cap (spec.md §4.5,
// §9 open question #3 — cap documented in SPEC_FULL.md §4 item 3).
func WidenUnion(members []Value) Value {
	out := make([]Value, 0, len(members))
	for _, m := range members {
		out = append(out, Widen(m))
	}
	return MakeUnion(out...)
}

// Members returns the disjuncts of v: a Union's members, a singleton slice
// for anything else (including Never, which yields an empty slice).
func Members(v Value) []Value {
	switch t := v.(type) {
	case Union:
		return t.Members
	case NeverType:
		return nil
	default:
		return []Value{v}
	}
}
