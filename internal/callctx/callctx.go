// Package callctx implements spec.md §4.7's call orchestration: memoising
// `@pure` calls by function identity + canonical argument signature, an
// in-progress placeholder for recursive calls, and a work-list style
// re-evaluation of callers when a memo entry's value changes. Grounded on
// the teacher's ApplyFunction call path (internal/evaluator/apply.go) and
// its CallStack bookkeeping, with the memo table itself modelled after the
// teacher's one-shot-then-reuse internal/evaluator ModuleCache.
package callctx

import (
	"fmt"
	"sync"

	"github.com/funvibe/typeflow/internal/types"
)

// Key identifies one memoised call: function identity + canonical args.
type Key string

// entry tracks one memo slot: either in-progress (a recursive call landed
// on it before the outer call finished) or settled with a result.
type entry struct {
	inProgress bool
	settled    bool
	result     types.CallResult
}

// Table is the per-analysis memoisation store for pure function calls. It
// is one of the three explicitly resettable caches of spec.md §5.
type Table struct {
	mu      sync.Mutex
	entries map[Key]*entry
	// dirty records keys whose settled result changed on this pass, so the
	// caller (evalcore's per-function analysis driver) knows to run
	// another fixed-point iteration (spec.md §4.7 "re-evaluate outer
	// callers until a fixed point").
	dirty map[Key]bool
}

// NewTable constructs an empty memo table.
func NewTable() *Table {
	return &Table{entries: make(map[Key]*entry), dirty: make(map[Key]bool)}
}

// Reset clears the table (spec.md §6 resetCaches).
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[Key]*entry)
	t.dirty = make(map[Key]bool)
}

// FunctionIdentity renders the function-identity half of a memo key: the
// body/expression-body AST pointer is stable across calls to the same
// closure and distinguishes distinct function literals at the same name.
func FunctionIdentity(fn types.Function) string {
	return fmt.Sprintf("%s@%p:%p", fn.Name, fn.Body, fn.ExprBody)
}

// CanonicalArgs renders a canonical string signature for a call's argument
// TypeValues (spec.md §4.7 "canonical string rendering").
func CanonicalArgs(args []types.Value) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")"
}

// MakeKey composes the full memo key for a pure call.
func MakeKey(fn types.Function, args []types.Value) Key {
	return Key(FunctionIdentity(fn) + CanonicalArgs(args))
}

// Begin looks up key. If no entry exists, one is created in-progress and
// ok=false is returned (caller must evaluate and call Complete). If an
// entry already exists and is in-progress (a recursive re-entry), returns
// the Unknown placeholder per spec.md §4.7. If settled, returns the cached
// result.
func (t *Table) Begin(key Key) (result types.CallResult, settled bool, recursing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		t.entries[key] = &entry{inProgress: true}
		return types.CallResult{}, false, false
	}
	if e.inProgress {
		return types.NewCallResult(types.Unknown), false, true
	}
	return e.result, true, false
}

// Complete records the settled result for key, marking it dirty if the
// result differs from what was previously cached (so the driver knows to
// re-run callers, spec.md §4.7).
func (t *Table) Complete(key Key, result types.CallResult) (changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, existed := t.entries[key]
	changed = !existed || !prev.settled || !resultEqual(prev.result, result)
	t.entries[key] = &entry{settled: true, result: result}
	if changed {
		t.dirty[key] = true
	}
	return changed
}

// AnyDirty reports whether any memo entry changed since the last DrainDirty.
func (t *Table) AnyDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dirty) > 0
}

// DrainDirty clears and returns the dirty set, used by the per-function
// analysis driver to decide whether another fixed-point pass is needed.
func (t *Table) DrainDirty() map[Key]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.dirty
	t.dirty = make(map[Key]bool)
	return out
}

func resultEqual(a, b types.CallResult) bool {
	return types.Equal(a.Value, b.Value) && types.Equal(a.Throws, b.Throws)
}
