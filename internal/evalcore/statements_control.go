package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/narrow"
	"github.com/funvibe/typeflow/internal/types"
)

// narrowedForks applies spec.md §4.4's narrowing engine to test, then
// isolates each resulting branch with environment.ForkForBranch so
// in-place Object mutation on one branch never leaks into the other
// (spec.md §4.3).
func (ev *Evaluator) narrowedForks(test ast.Expression, env *environment.Environment) (*environment.Environment, *environment.Environment) {
	tNarrow, fNarrow := narrow.Narrow(test, env)
	return environment.ForkForBranch(tNarrow), environment.ForkForBranch(fNarrow)
}

// evalIf implements spec.md §4.6 "If": a decidable test picks one branch
// outright; an undecidable one forks, evaluates both, and merges via
// combineBranches.
func (ev *Evaluator) evalIf(ctx context.Context, n *ast.IfStatement, env *environment.Environment) Outcome {
	test := ev.EvalExpr(ctx, n.Test, env)
	if test.threw() {
		return throwOutcome(test.Throw)
	}
	if truthy, decidable := types.IsTruthy(test.Value); decidable {
		if truthy {
			return ev.EvalStatement(ctx, n.Consequent, env)
		}
		if n.Alternate != nil {
			return ev.EvalStatement(ctx, n.Alternate, env)
		}
		return normal(env)
	}
	trueEnv, falseEnv := ev.narrowedForks(n.Test, env)
	tOut := ev.EvalStatement(ctx, n.Consequent, trueEnv)
	fOut := normal(falseEnv)
	if n.Alternate != nil {
		fOut = ev.EvalStatement(ctx, n.Alternate, falseEnv)
	}
	return combineBranches(env, tOut, fOut)
}

// evalSwitch implements JS switch/case fallthrough by treating each case
// as a possible entry point (the discriminant match is generally
// undecidable against an abstract value) and unioning every resulting
// continuation, consuming Break the way a loop consumes it — a switch is
// its own break target (spec.md §4.6).
func (ev *Evaluator) evalSwitch(ctx context.Context, n *ast.SwitchStatement, env *environment.Environment) Outcome {
	disc := ev.EvalExpr(ctx, n.Discriminant, env)
	if disc.threw() {
		return throwOutcome(disc.Throw)
	}
	if len(n.Cases) == 0 {
		return normal(env)
	}
	acc := normal(environment.ForkForBranch(env))
	for start := range n.Cases {
		branchEnv := environment.ForkForBranch(env)
		out := ev.evalCaseChain(ctx, n.Cases, start, branchEnv)
		acc = combineBranches(env, acc, out)
	}
	acc.Break = false
	acc.Continue = false
	return acc
}

// evalCaseChain runs cases[start:] as one flattened statement sequence,
// stopping at the first unconditional break and consuming it (the
// switch, not the enclosing loop, is its target).
func (ev *Evaluator) evalCaseChain(ctx context.Context, cases []*ast.SwitchCase, start int, env *environment.Environment) Outcome {
	var stmts []ast.Statement
	for _, c := range cases[start:] {
		stmts = append(stmts, c.Consequent...)
	}
	acc := normal(env)
	cur := env
	for i, stmt := range stmts {
		out := ev.EvalStatement(ctx, stmt, cur)
		acc.Return = ev.unionCap(acc.Return, out.Return)
		acc.Throw = ev.unionCap(acc.Throw, out.Throw)
		if out.Continue {
			acc.Continue = true
		}
		if out.Break {
			// Mutations so far already landed on cur in place; the break
			// target is right here, no further statements execute.
			if i+1 < len(stmts) {
				ev.markAllUnreachable(stmts[i+1:])
			}
			acc.Env = cur
			return acc
		}
		if out.Env == nil {
			acc.Env = nil
			if i+1 < len(stmts) {
				ev.markAllUnreachable(stmts[i+1:])
			}
			return acc
		}
		cur = out.Env
		acc.Env = cur
	}
	return acc
}

// evalTry implements spec.md §4.6 try/catch/finally: a handler absorbs
// the block's aggregated throw (the handled throw no longer appears in
// the statement's own Throw), while an unhandled one (no Handler, or a
// throw raised by the handler/finally itself) keeps propagating.
// Finally always runs. When every path through it completes abruptly, its
// own return/throw/break/continue replaces whatever the try/catch
// produced; otherwise its abrupt paths are unioned into that result.
func (ev *Evaluator) evalTry(ctx context.Context, n *ast.TryStatement, env *environment.Environment) Outcome {
	tryEnv := environment.ForkForBranch(env)
	blockOut := ev.EvalBlock(ctx, n.Block.Body, tryEnv)

	var result Outcome
	switch {
	case n.Handler == nil || isNever(blockOut.Throw):
		result = blockOut
	default:
		catchEnv := environment.NewEnclosed(tryEnv)
		if n.Handler.Param != nil {
			ev.bindPattern(ctx, n.Handler.Param, blockOut.Throw, catchEnv)
		}
		catchOut := ev.EvalBlock(ctx, n.Handler.Body.Body, catchEnv)
		normalPath := Outcome{Return: types.Never, Throw: types.Never, Env: blockOut.Env, Break: blockOut.Break, Continue: blockOut.Continue}
		result = combineBranches(tryEnv, normalPath, catchOut)
	}

	if n.Finalizer == nil {
		return result
	}
	ranToCompletion := result.Env != nil
	finEnv := result.Env
	if finEnv == nil {
		finEnv = environment.ForkForBranch(tryEnv)
	}
	finOut := ev.EvalBlock(ctx, n.Finalizer.Body, finEnv)
	if finOut.Env == nil {
		return Outcome{Return: finOut.Return, Throw: finOut.Throw, Break: finOut.Break, Continue: finOut.Continue, Env: nil}
	}
	result.Return = ev.unionCap(result.Return, finOut.Return)
	result.Throw = ev.unionCap(result.Throw, finOut.Throw)
	if finOut.Break {
		result.Break = true
	}
	if finOut.Continue {
		result.Continue = true
	}
	if ranToCompletion {
		result.Env = finOut.Env
	}
	return result
}
