package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

func stmtsOf(s ast.Statement) []ast.Statement {
	if b, ok := s.(*ast.BlockStatement); ok {
		return b.Body
	}
	return []ast.Statement{s}
}

func (ev *Evaluator) evalFor(ctx context.Context, n *ast.ForStatement, env *environment.Environment) Outcome {
	initEnv := environment.NewEnclosed(env)
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			if out := ev.evalVariableDeclaration(ctx, init, initEnv); !isNever(out.Throw) {
				return throwOutcome(out.Throw)
			}
		case ast.Expression:
			if r := ev.EvalExpr(ctx, init, initEnv); r.threw() {
				return throwOutcome(r.Throw)
			}
		}
	}
	return ev.evalLoop(ctx, initEnv, n.Test, n.Update, n.Body, false)
}

func (ev *Evaluator) evalWhile(ctx context.Context, n *ast.WhileStatement, env *environment.Environment) Outcome {
	return ev.evalLoop(ctx, env, n.Test, nil, n.Body, false)
}

func (ev *Evaluator) evalDoWhile(ctx context.Context, n *ast.DoWhileStatement, env *environment.Environment) Outcome {
	return ev.evalLoop(ctx, env, n.Test, nil, n.Body, true)
}

// evalLoop drives for/while/do-while per spec.md §4.6 and SPEC_FULL.md's
// resolved loop-budget questions: up to Options.SampleCount iterations run
// concretely, then Options.FixedPointCap further iterations run against
// Widen-ed bindings until the mutated frame stabilises (each binding a
// subtype of its own prior value) or the cap is hit, in which case the
// post-loop frame is widened.
func (ev *Evaluator) evalLoop(ctx context.Context, preEnv *environment.Environment, test, update ast.Expression, body ast.Statement, doWhile bool) Outcome {
	bodyStmts := stmtsOf(body)
	cur := environment.ForkForBranch(preEnv)
	var accReturn, accThrow types.Value = types.Never, types.Never
	ranAtLeastOnce := false
	maxIter := ev.Options.SampleCount + ev.Options.FixedPointCap

	for i := 0; i < maxIter; i++ {
		if !doWhile || ranAtLeastOnce {
			if test != nil {
				t := ev.EvalExpr(ctx, test, cur)
				if t.threw() {
					return Outcome{Return: accReturn, Throw: ev.unionCap(accThrow, t.Throw), Env: nil}
				}
				if truthy, decidable := types.IsTruthy(t.Value); decidable && !truthy {
					return Outcome{Return: accReturn, Throw: accThrow, Env: cur}
				}
			}
		}
		ranAtLeastOnce = true

		iterEnv := cur
		if i >= ev.Options.SampleCount {
			widened := environment.NewEnclosed(preEnv)
			for k, v := range types.WidenAll(cur.Frame()) {
				widened.Bind(k, v)
			}
			iterEnv = widened
		}

		out := ev.EvalBlock(ctx, bodyStmts, iterEnv)
		accReturn = ev.unionCap(accReturn, out.Return)
		accThrow = ev.unionCap(accThrow, out.Throw)

		switch {
		case out.Continue:
			nextEnv := out.Env
			if nextEnv == nil {
				nextEnv = iterEnv
			}
			if update != nil {
				if u := ev.EvalExpr(ctx, update, nextEnv); u.threw() {
					return Outcome{Return: accReturn, Throw: ev.unionCap(accThrow, u.Throw), Env: nil}
				}
			}
			cur = nextEnv
			continue
		case out.Env != nil:
			nextEnv := out.Env
			if update != nil {
				if u := ev.EvalExpr(ctx, update, nextEnv); u.threw() {
					return Outcome{Return: accReturn, Throw: ev.unionCap(accThrow, u.Throw), Env: nil}
				}
			}
			if out.Break {
				return Outcome{Return: accReturn, Throw: accThrow, Env: nextEnv}
			}
			if i >= ev.Options.SampleCount && framesStable(cur.Frame(), nextEnv.Frame()) {
				return Outcome{Return: accReturn, Throw: accThrow, Env: nextEnv}
			}
			cur = nextEnv
		case out.Break:
			return Outcome{Return: accReturn, Throw: accThrow, Env: iterEnv}
		default:
			// Every path returned or threw unconditionally: the loop (and
			// whatever encloses it) never regains a live continuation.
			return Outcome{Return: accReturn, Throw: accThrow, Env: nil}
		}
	}
	// The cap was hit before the frame stabilised: widen every binding of
	// the loop frame for the post-loop environment.
	sealed := environment.NewEnclosed(preEnv)
	for k, v := range types.WidenAll(cur.Frame()) {
		sealed.Bind(k, v)
	}
	return Outcome{Return: accReturn, Throw: accThrow, Env: sealed}
}

func framesStable(prev, next map[string]types.Value) bool {
	for k, nv := range next {
		pv, ok := prev[k]
		if !ok {
			return false
		}
		if !types.Subtype(nv, pv) {
			return false
		}
	}
	return true
}

// evalForOf implements spec.md §4.6 "For-Of": a Tuple unrolls element by
// element (each element's concrete type flows into the loop variable in
// turn); any other iterable (Array, or an abstract/Unknown receiver) runs
// as a single widened iteration unioned with the zero-iteration path,
// since its element count is never statically known.
func (ev *Evaluator) evalForOf(ctx context.Context, n *ast.ForOfStatement, env *environment.Environment) Outcome {
	rhs := ev.EvalExpr(ctx, n.Right, env)
	if rhs.threw() {
		return throwOutcome(rhs.Throw)
	}
	pattern := n.Left.Declarations[0].ID
	if tup, ok := rhs.Value.(types.Tuple); ok {
		return ev.iterateKnownSequence(ctx, pattern, n.Body, tup.Elems, env)
	}
	elem := types.Value(types.Unknown)
	if arr, ok := rhs.Value.(types.Array); ok {
		elem = arr.Elem
	}
	return ev.iterateAbstractOnce(ctx, pattern, n.Body, types.Widen(elem), env)
}

// evalForIn implements spec.md §4.6 "For-In": an Object iterates its
// known keys concretely; anything else (abstract shape) runs one widened
// iteration with a generic string key, unioned with zero iterations.
func (ev *Evaluator) evalForIn(ctx context.Context, n *ast.ForInStatement, env *environment.Environment) Outcome {
	rhs := ev.EvalExpr(ctx, n.Right, env)
	if rhs.threw() {
		return throwOutcome(rhs.Throw)
	}
	pattern := n.Left.Declarations[0].ID
	if obj, ok := rhs.Value.(types.Object); ok {
		keys := make([]types.Value, len(obj.Keys))
		for i, k := range obj.Keys {
			keys[i] = types.LitStr(k)
		}
		return ev.iterateKnownSequence(ctx, pattern, n.Body, keys, env)
	}
	return ev.iterateAbstractOnce(ctx, pattern, n.Body, types.Primitive{Tag: "string"}, env)
}

// iterateKnownSequence runs body once per concrete value, threading a
// fork of env through sequentially (not branching) the same way evalLoop
// threads a counted loop; the post-loop environment is returned in the
// Outcome.
func (ev *Evaluator) iterateKnownSequence(ctx context.Context, pattern ast.Pattern, body ast.Statement, values []types.Value, env *environment.Environment) Outcome {
	cur := environment.ForkForBranch(env)
	var accReturn, accThrow types.Value = types.Never, types.Never
	for _, v := range values {
		iterEnv := environment.NewEnclosed(cur)
		ev.bindPattern(ctx, pattern, v, iterEnv)
		out := ev.EvalStatement(ctx, body, iterEnv)
		accReturn = ev.unionCap(accReturn, out.Return)
		accThrow = ev.unionCap(accThrow, out.Throw)
		if out.Continue {
			if out.Env != nil {
				cur = out.Env
			}
			continue
		}
		if out.Break {
			if out.Env != nil {
				cur = out.Env
			}
			return Outcome{Return: accReturn, Throw: accThrow, Env: cur}
		}
		if out.Env == nil {
			return Outcome{Return: accReturn, Throw: accThrow, Env: nil}
		}
		cur = out.Env
	}
	return Outcome{Return: accReturn, Throw: accThrow, Env: cur}
}

// iterateAbstractOnce models an iterable whose element count is unknown:
// the zero-iteration path (body never runs) unioned with one pass where
// the loop variable holds elemType, per spec.md §4.6's abstract
// For-Of/For-In rule.
func (ev *Evaluator) iterateAbstractOnce(ctx context.Context, pattern ast.Pattern, body ast.Statement, elemType types.Value, env *environment.Environment) Outcome {
	zeroPath := normal(environment.ForkForBranch(env))
	iterEnv := environment.NewEnclosed(environment.ForkForBranch(env))
	ev.bindPattern(ctx, pattern, elemType, iterEnv)
	onePath := ev.EvalStatement(ctx, body, iterEnv)
	onePath.Break = false
	onePath.Continue = false
	return combineBranches(env, zeroPath, onePath)
}
