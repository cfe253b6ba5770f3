// Package analyser is the sole public entry point of the type-inference
// engine (spec.md §6): five operations — Analyse, CallFunction,
// TypeAtPosition, CompletionsAtPosition, ResetCaches — plus the
// LoadOptionsYAML convenience loader. It wraps internal/evalcore's
// Evaluator behind an explicit context value rather than the package-level
// mutable globals the teacher's internal/evaluator historically carried
// (e.g. its singleton ModuleCache/TypeMap) — one AnalyserContext per
// analysis pass, so parallel analysis of independent files only requires
// one instance per worker, per spec.md §5's isolation rule.
package analyser

import (
	"context"

	"github.com/funvibe/typeflow/internal/config"
	"github.com/funvibe/typeflow/internal/evalcore"
	"github.com/funvibe/typeflow/internal/modresolve"
	"github.com/funvibe/typeflow/internal/types"
)

// Context holds one analysis pass's tunables, injected module resolver,
// and caches (spec.md §5's three explicitly resettable caches). Construct
// with New; the zero value is not usable.
type Context struct {
	ev *evalcore.Evaluator
}

// New constructs a Context ready to Analyse compilation units. A nil
// resolver behaves as modresolve.NoneResolver (every import fails to
// resolve, per spec.md §6's "a stub returning none").
func New(opts config.Options, resolver modresolve.Resolver) *Context {
	return &Context{ev: evalcore.New(opts, resolver)}
}

// ResetCaches clears the memo table, module cache, and collector (spec.md
// §6 item 5).
func (c *Context) ResetCaches() {
	c.ev.ResetCaches()
}

// CallFunction drives one invocation of fn against args (spec.md §6 item
// 2), returning {value, throws}. This is the same call path Analyse uses
// internally to run `@case` directives, exposed directly so a host can
// re-invoke a function discovered by a prior Analyse pass (e.g. to probe
// it with an additional argument shape).
func (c *Context) CallFunction(ctx context.Context, fn types.Function, args []types.Value) types.CallResult {
	return c.ev.Call(ctx, fn, args)
}
