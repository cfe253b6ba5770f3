// Package modresolve defines the module resolver collaborator interface
// the evaluator consults for import/export statements (spec.md §4.6, §6).
// Resolution policy itself (node_modules algorithm, path aliases, ...) is
// an external collaborator's concern (spec.md §1); this package only fixes
// the callback shape and supplies an in-memory test double. Grounded on
// the teacher's ModuleLoader interface (internal/evaluator/evaluator.go)
// and its path-keyed module cache convention.
package modresolve

import "github.com/funvibe/typeflow/internal/ast"

// Module is a resolved compilation unit: its AST plus the canonical path
// used to key the evaluator's per-module memoisation cache.
type Module struct {
	AST           *ast.Program
	CanonicalPath string
}

// Resolver maps an import specifier and the importing file's directory to
// a resolved Module, or ok=false when resolution fails (spec.md §6
// "a stub returning none").
type Resolver interface {
	Resolve(importPath, fromDirectory string) (Module, bool)
}

// MapResolver is an in-memory test double keyed by the raw import
// specifier, ignoring fromDirectory — sufficient for unit tests that do
// not exercise relative-path resolution policy.
type MapResolver map[string]Module

func (m MapResolver) Resolve(importPath, fromDirectory string) (Module, bool) {
	mod, ok := m[importPath]
	return mod, ok
}

// NoneResolver always reports failure, the "stub returning none" spec.md
// §6 describes for hosts that never import modules.
type NoneResolver struct{}

func (NoneResolver) Resolve(importPath, fromDirectory string) (Module, bool) {
	return Module{}, false
}
