// Package evalcore implements the abstract evaluator of spec.md §4.6: it
// walks an ES-style AST over the type-value lattice, producing the four
// signals composition described there (Value/Return/Throw/Branch-sealed)
// folded into a single Outcome accumulator (see outcome.go). Grounded on
// the teacher's internal/evaluator/evaluator.go and its per-concern
// expressions_*.go/statements_*.go split, which this package mirrors.
package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/callctx"
	"github.com/funvibe/typeflow/internal/collector"
	"github.com/funvibe/typeflow/internal/config"
	"github.com/funvibe/typeflow/internal/directive"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/modresolve"
	"github.com/funvibe/typeflow/internal/types"
)

// Evaluator holds everything a single analysis pass shares: the tunable
// Options, the injected module resolver, the memoisation table, the
// node-type collector, and per-function directive lists. Threading
// context.Context through Analyse/CallFunction mirrors the teacher's
// Evaluator.Context field, for cooperative cancellation (spec.md §5) even
// though no evaluation step here actually suspends.
type Evaluator struct {
	Options    config.Options
	Resolver   modresolve.Resolver
	Memo       *callctx.Table
	Collector  *collector.Collector
	Directives map[ast.Node]directive.List
	Classes    map[string]*classInfo

	moduleCache  map[string]moduleResult
	loopDepth    int
	exportStack  []*environment.Environment
}

type moduleResult struct {
	exports *environment.Environment
}

// New constructs an Evaluator ready to analyse a compilation unit.
func New(opts config.Options, resolver modresolve.Resolver) *Evaluator {
	if resolver == nil {
		resolver = modresolve.NoneResolver{}
	}
	return &Evaluator{
		Options:     opts.WithDefaults(),
		Resolver:    resolver,
		Memo:        callctx.NewTable(),
		Collector:   collector.New(),
		Directives:  map[ast.Node]directive.List{},
		Classes:     map[string]*classInfo{},
		moduleCache: map[string]moduleResult{},
	}
}

// ResetCaches clears the memo table, module cache, and collector (spec.md
// §6 resetCaches).
func (ev *Evaluator) ResetCaches() {
	ev.Memo.Reset()
	ev.Collector.Reset()
	ev.moduleCache = map[string]moduleResult{}
}

// record stores a node's computed type in the collector, returning v
// unchanged so call sites can wrap an evaluation expression in it.
func (ev *Evaluator) record(node ast.Node, v types.Value) types.Value {
	ev.Collector.Record(node, v)
	return v
}

// EvalProgram evaluates every top-level statement of program in env,
// returning the final block Outcome. externalEnv pre-populates env with
// ambient bindings the host supplies (spec.md §6 analyse's externalEnv).
func (ev *Evaluator) EvalProgram(ctx context.Context, program *ast.Program, env *environment.Environment) Outcome {
	return ev.EvalBlock(ctx, program.Body, env)
}

// unionCap combines vs under this evaluator's configured union cardinality
// cap (spec.md §4.5), rather than the package default, since Options may
// override it per analysis.
func (ev *Evaluator) unionCap(vs ...types.Value) types.Value {
	return types.MakeUnionWithCap(ev.Options.UnionCap, vs...)
}
