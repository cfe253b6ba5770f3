// Package environment implements spec.md §3.3's lexically scoped binding
// map with parent chain, and the branch-aware object-identity-preserving
// clone of §4.3. Grounded directly on the teacher's
// internal/evaluator/environment.go: same store/outer shape, same
// Get/Set/Update names (renamed Lookup/Bind/Update to match spec.md's own
// vocabulary).
package environment

import (
	"sync"

	"github.com/funvibe/typeflow/internal/types"
)

// Environment is a binding map name -> TypeValue with a parent pointer.
type Environment struct {
	mu    sync.RWMutex
	store map[string]types.Value
	outer *Environment
}

// New returns a root environment with no parent.
func New() *Environment {
	return &Environment{store: make(map[string]types.Value)}
}

// NewEnclosed returns a child frame of outer.
func NewEnclosed(outer *Environment) *Environment {
	env := New()
	env.outer = outer
	return env
}

// Lookup walks up the parent chain, returning Undefined when missing
// (spec.md §3.3).
func (e *Environment) Lookup(name string) (types.Value, bool) {
	e.mu.RLock()
	v, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Lookup(name)
	}
	return types.Undefined, false
}

// Bind sets name in the current frame only.
func (e *Environment) Bind(name string, v types.Value) types.Value {
	e.mu.Lock()
	e.store[name] = v
	e.mu.Unlock()
	return v
}

// Update mutates name in the nearest frame that already holds it and
// reports whether it found one (spec.md §3.3).
func (e *Environment) Update(name string, v types.Value) bool {
	e.mu.Lock()
	_, ok := e.store[name]
	if ok {
		e.store[name] = v
	}
	e.mu.Unlock()
	if ok {
		return true
	}
	if e.outer != nil {
		return e.outer.Update(name, v)
	}
	return false
}

// Extend returns a child frame pre-populated with bindings, satisfying
// types.Scope for Function closures (spec.md §3.1 Function.closure).
func (e *Environment) Extend(bindings map[string]types.Value) types.Scope {
	child := NewEnclosed(e)
	for k, v := range bindings {
		child.Bind(k, v)
	}
	return child
}

// Frame returns a shallow copy of just this frame's own bindings (not the
// parent chain), used by loop widening to know which names were mutated.
func (e *Environment) Frame() map[string]types.Value {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]types.Value, len(e.store))
	for k, v := range e.store {
		out[k] = v
	}
	return out
}

// Snapshot deep-copies the full chain into a single flat, parent-less
// environment, used when a call result must outlive its originating
// frames (spec.md §3.3 "snapshot deep-copies the chain").
func (e *Environment) Snapshot() *Environment {
	flat := New()
	seen := map[types.ObjectID]types.Object{}
	for frame := e; frame != nil; frame = frame.outer {
		for k, v := range frame.Frame() {
			if _, exists := flat.store[k]; !exists {
				flat.store[k] = types.CloneValue(v, seen)
			}
		}
	}
	return flat
}
