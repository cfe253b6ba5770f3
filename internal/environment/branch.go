package environment

import "github.com/funvibe/typeflow/internal/types"

// ForkForBranch returns an object-identity-preserving deep clone of env
// suitable for entering one side of a conditional (spec.md §4.3): every
// Object reachable from any binding in the chain is cloned exactly once,
// and every binding that previously shared that Object's identity is
// rewritten to the new clone. The clone is a single flat frame (cheaper to
// merge afterwards than a re-parented chain, and narrowing's own child
// frames still layer correctly on top of it).
func ForkForBranch(env *Environment) *Environment {
	clone := New()
	seen := map[types.ObjectID]types.Object{}
	collectChain(env, clone, seen)
	return clone
}

func collectChain(env *Environment, into *Environment, seen map[types.ObjectID]types.Object) {
	if env == nil {
		return
	}
	// Walk from root to leaf so nearer (shadowing) bindings win.
	collectChain(env.outer, into, seen)
	for k, v := range env.Frame() {
		into.store[k] = types.CloneValue(v, seen)
	}
}

// MergeBranches recomputes each binding present in either post-branch
// environment as the simplified union of its two values (spec.md §4.3):
// keys present in only one branch become Union(v, undefined). base is the
// pre-fork environment; trueEnv/falseEnv are the two branch results
// (possibly nil when that branch never executed, e.g. no else clause).
func MergeBranches(base, trueEnv, falseEnv *Environment) *Environment {
	merged := NewEnclosed(base)
	names := map[string]bool{}
	if trueEnv != nil {
		for k := range trueEnv.Frame() {
			names[k] = true
		}
	}
	if falseEnv != nil {
		for k := range falseEnv.Frame() {
			names[k] = true
		}
	}
	for name := range names {
		tv, tok := lookupLocalOrBase(trueEnv, base, name)
		fv, fok := lookupLocalOrBase(falseEnv, base, name)
		switch {
		case tok && fok:
			merged.Bind(name, types.MakeUnion(tv, fv))
		case tok:
			merged.Bind(name, types.MakeUnion(tv, types.Undefined))
		case fok:
			merged.Bind(name, types.MakeUnion(fv, types.Undefined))
		}
	}
	return merged
}

func lookupLocalOrBase(branch *Environment, base *Environment, name string) (types.Value, bool) {
	if branch == nil {
		return base.Lookup(name)
	}
	if v, ok := branch.Frame()[name]; ok {
		return v, true
	}
	return base.Lookup(name)
}
