package types

import "github.com/funvibe/typeflow/internal/ast"

// Function is a first-class callable: parameter patterns, an AST body
// handle, and the captured lexical environment (spec.md §3.1).
type Function struct {
	Name    string // "" for anonymous
	Params  []ast.Pattern
	Body    *ast.BlockStatement
	ExprBody ast.Expression // set instead of Body for expression-bodied arrows
	Closure Scope
	Async   bool
	Pure    bool // set from an @pure directive, drives memoisation (spec.md §4.7)

	// Skip is set from an @skip directive: Call must not evaluate Body at
	// all and instead produce {value: SkipReturns (Unknown if unset),
	// throws: Never} (spec.md §6 directive list, §7 "caches inconsistent"
	// concerns don't apply — a skipped body never runs).
	Skip        bool
	SkipReturns Value // nil means Unknown
}

func (Function) valueNode() {}

func (f Function) String() string {
	if f.Name != "" {
		return "function " + f.Name
	}
	return "function"
}

// Promise wraps an asynchronous value (spec.md §3.1).
type Promise struct {
	Inner Value
}

func (Promise) valueNode() {}
func (p Promise) String() string { return "Promise<" + p.Inner.String() + ">" }
