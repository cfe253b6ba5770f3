package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

// Outcome is the evaluator's per-statement result. It folds spec.md
// §4.6's four signals (Value/Return/Throw/Branch-sealed) into one
// accumulator: Return and Throw are the union of every value that has
// already escaped this statement (or sequence of statements) via an
// unconditional return/throw on some path, and Env is the environment a
// still-live ("fallthrough") path continues in — nil when every path has
// already returned or thrown, matching "a Return/Throw aborts the
// sequence". Break/Continue flag an unconditional loop-control exit,
// consumed only by the innermost enclosing loop.
type Outcome struct {
	Return   types.Value // Never if no path returned
	Throw    types.Value // Never if no path threw (unhandled by this scope)
	Env      *environment.Environment
	Break    bool
	Continue bool
}

// normal is the "nothing happened, keep going" outcome.
func normal(env *environment.Environment) Outcome {
	return Outcome{Return: types.Never, Throw: types.Never, Env: env}
}

func returnOutcome(v types.Value) Outcome {
	return Outcome{Return: v, Throw: types.Never, Env: nil}
}

func throwOutcome(v types.Value) Outcome {
	return Outcome{Return: types.Never, Throw: v, Env: nil}
}

// terminated reports whether this outcome leaves no live continuation
// (every path already returned, threw, or hit break/continue).
func (o Outcome) terminated() bool {
	return o.Env == nil
}

// EvalBlock threads env through stmts, composing each statement's Outcome
// per spec.md §4.6 "Composition": a Throw/Return aborts and marks the
// remaining statements unreachable; a Branch-sealed outcome (Env != nil
// but Return/Throw != Never) accumulates and continues.
func (ev *Evaluator) EvalBlock(ctx context.Context, stmts []ast.Statement, env *environment.Environment) Outcome {
	acc := normal(env)
	cur := env
	for i, stmt := range stmts {
		if acc.terminated() {
			ev.markAllUnreachable(stmts[i:])
			break
		}
		out := ev.EvalStatement(ctx, stmt, cur)
		acc.Return = ev.unionCap(acc.Return, out.Return)
		acc.Throw = ev.unionCap(acc.Throw, out.Throw)
		if out.Break {
			acc.Break = true
		}
		if out.Continue {
			acc.Continue = true
		}
		// Env == nil means no path out of this statement continues (every
		// path returned, threw, or broke/continued unconditionally) — the
		// rest of the block is genuinely dead. When Env != nil some path
		// still falls through (e.g. `if (x) break;` with x undecidable),
		// so later statements in the block remain reachable even though
		// Break/Continue is now possible on some path.
		if out.Env == nil {
			acc.Env = nil
			if i+1 < len(stmts) {
				ev.markAllUnreachable(stmts[i+1:])
			}
			break
		}
		cur = out.Env
		acc.Env = cur
	}
	return acc
}

func (ev *Evaluator) markAllUnreachable(stmts []ast.Statement) {
	for _, s := range stmts {
		ev.Collector.MarkUnreachable(s)
	}
}

// combineBranches implements spec.md §4.3/§4.6's if-branch merge: both
// branch Outcomes contribute their Return/Throw unions unconditionally;
// a merged continuation environment is produced only from branches that
// are still live, via environment.MergeBranches — when only one branch is
// live its environment passes through directly (no merge needed).
func combineBranches(base *environment.Environment, t, f Outcome) Outcome {
	out := Outcome{
		Return: typesUnion(t.Return, f.Return),
		Throw:  typesUnion(t.Throw, f.Throw),
	}
	switch {
	case t.Env != nil && f.Env != nil:
		out.Env = environment.MergeBranches(base, t.Env, f.Env)
	case t.Env != nil:
		out.Env = t.Env
	case f.Env != nil:
		out.Env = f.Env
	default:
		out.Env = nil
	}
	// OR, not AND: a break/continue reachable down only one branch still
	// means the enclosing loop must stop unrolling this iteration — the
	// conservative direction for a sound abstraction (spec.md §5's
	// "widen, never run unbounded" bias applies equally to sample loops).
	out.Break = t.Break || f.Break
	out.Continue = t.Continue || f.Continue
	return out
}

func typesUnion(a, b types.Value) types.Value {
	return types.MakeUnion(a, b)
}
