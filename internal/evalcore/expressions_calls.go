package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/callctx"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/ops"
	"github.com/funvibe/typeflow/internal/types"
)

// makeFunction builds a Function TypeValue capturing params, body (or
// ExprBody for expression-bodied arrows), and the current environment as
// its closure (spec.md §4.6 "Function/Arrow"). declNode is the node whose
// ev.Directives entry supplies `@pure`/`@skip` (the declaration, or the
// function/arrow expression node itself); a nil declNode skips the lookup.
func (ev *Evaluator) makeFunction(declNode ast.Node, id *ast.Identifier, params []ast.Pattern, body *ast.BlockStatement, exprBody ast.Expression, async bool, env *environment.Environment) types.Value {
	name := ""
	if id != nil {
		name = id.Name
	}
	pure := false
	skip, skipReturns := false, types.Value(nil)
	if declNode != nil {
		if dirs, ok := ev.Directives[declNode]; ok {
			pure = dirs.IsPure()
			if skipDir, ok := dirs.Skip(); ok {
				skip = true
				skipReturns = skipDir.SkipReturns
			}
		}
	}
	return types.Function{Name: name, Params: params, Body: body, ExprBody: exprBody, Closure: env, Async: async, Pure: pure, Skip: skip, SkipReturns: skipReturns}
}

// evalCall implements spec.md §4.6 "Call": method-call form (a
// MemberExpression callee) dispatches the receiver's built-in method
// table first; otherwise the callee must evaluate to a Function.
func (ev *Evaluator) evalCall(ctx context.Context, n *ast.CallExpression, env *environment.Environment) exprResult {
	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		if result, handled := ev.evalMethodCall(ctx, n, member, env); handled {
			return result
		}
	}
	calleeResult := ev.EvalExpr(ctx, n.Callee, env)
	if calleeResult.threw() {
		return calleeResult
	}
	args, spreadThrow, hasThrow := ev.evalArgs(ctx, n.Arguments, env)
	if hasThrow {
		return spreadThrow
	}
	return ev.callValue(ctx, calleeResult.Value, args)
}

// evalArgs evaluates a call's argument list, expanding SpreadElement
// entries (Tuple spreads into positional args) per spec.md §4.6.
func (ev *Evaluator) evalArgs(ctx context.Context, argExprs []ast.Expression, env *environment.Environment) ([]types.Value, exprResult, bool) {
	var args []types.Value
	for _, a := range argExprs {
		if spread, ok := a.(*ast.SpreadElement); ok {
			r := ev.EvalExpr(ctx, spread.Argument, env)
			if r.threw() {
				return nil, r, true
			}
			if tup, ok := r.Value.(types.Tuple); ok {
				args = append(args, tup.Elems...)
				continue
			}
			args = append(args, r.Value)
			continue
		}
		r := ev.EvalExpr(ctx, a, env)
		if r.threw() {
			return nil, r, true
		}
		args = append(args, r.Value)
	}
	return args, exprResult{}, false
}

// evalMethodCall recognises receiver.method(...) against the built-in
// string/array/tuple/object method tables (spec.md §4.1) before falling
// back to a user Function lookup. handled=false means the callee should
// be evaluated generically (evalCall's fallback path).
func (ev *Evaluator) evalMethodCall(ctx context.Context, call *ast.CallExpression, member *ast.MemberExpression, env *environment.Environment) (exprResult, bool) {
	if member.Computed {
		return exprResult{}, false
	}
	if obj, ok := member.Object.(*ast.Identifier); ok && obj.Name == "Object" {
		return ev.evalObjectStaticCall(ctx, call, member, env)
	}
	objResult := ev.EvalExpr(ctx, member.Object, env)
	if objResult.threw() {
		return objResult, true
	}
	if _, isFn := underlyingFunction(objResult.Value); isFn {
		return exprResult{}, false
	}
	if instanceHasCallableMember(objResult.Value, member.PropertyName) {
		// A class-method receiver: let the generic callee path resolve
		// `recv.method` (ops.Member already reads Instance.Props) and
		// invoke the Function it returns, same as any other call.
		return exprResult{}, false
	}
	args, spreadThrow, hasThrow := ev.evalArgs(ctx, call.Arguments, env)
	if hasThrow {
		return spreadThrow, true
	}
	caller := ev.makeCaller(ctx)
	result := ops.CallMethod(objResult.Value, member.PropertyName, args, caller)
	if !isNever(result.Throws) {
		return thrown(result.Throws), true
	}
	return val(ev.record(call, result.Value)), true
}

func (ev *Evaluator) evalObjectStaticCall(ctx context.Context, call *ast.CallExpression, member *ast.MemberExpression, env *environment.Environment) (exprResult, bool) {
	if len(call.Arguments) != 1 {
		return exprResult{}, false
	}
	arg := ev.EvalExpr(ctx, call.Arguments[0], env)
	if arg.threw() {
		return arg, true
	}
	if result, ok := ops.ObjectStatic(member.PropertyName, arg.Value); ok {
		return val(ev.record(call, result)), true
	}
	return exprResult{}, false
}

func underlyingFunction(v types.Value) (types.Function, bool) {
	switch t := v.(type) {
	case types.Function:
		return t, true
	case types.Refined:
		return underlyingFunction(t.Base)
	default:
		return types.Function{}, false
	}
}

func isNever(v types.Value) bool {
	_, ok := v.(types.NeverType)
	return ok
}

// makeCaller builds the ops.Caller evalcore hands to array methods that
// invoke a callback (map/filter/forEach/...), so internal/ops never
// imports this package (spec.md §4.7, avoiding an import cycle).
func (ev *Evaluator) makeCaller(ctx context.Context) ops.Caller {
	return func(fn types.Value, args []types.Value) types.CallResult {
		r := ev.callValue(ctx, fn, args)
		if r.threw() {
			return types.CallResult{Value: types.Never, Throws: r.Throw}
		}
		return types.NewCallResult(r.Value)
	}
}

// callValue invokes a callee value that may be a Union of candidates (an
// abstractly-unknown function reference), a plain Function, or something
// uncallable (treated as a no-op Unknown result, since the evaluator
// never raises host errors for malformed input per spec.md §6).
func (ev *Evaluator) callValue(ctx context.Context, callee types.Value, args []types.Value) exprResult {
	members := types.Members(callee)
	var values []types.Value
	var throwUnion types.Value = types.Never
	any := false
	for _, m := range members {
		fn, ok := underlyingFunction(m)
		if !ok {
			continue
		}
		any = true
		r := ev.Call(ctx, fn, args)
		values = append(values, r.Value)
		throwUnion = types.MakeUnion(throwUnion, r.Throws)
	}
	if !any {
		return val(types.Unknown)
	}
	result := exprResult{Value: ev.unionCap(values...), Throw: throwUnion}
	return result
}

// Call drives one function invocation end to end (spec.md §6 item 2,
// §4.7): parameter binding (with destructuring/defaults), memoisation for
// `@pure` functions, body evaluation, and async Promise wrapping. This is
// the implementation behind pkg/analyser.callFunction.
func (ev *Evaluator) Call(ctx context.Context, fn types.Function, args []types.Value) types.CallResult {
	if fn.Skip {
		ret := fn.SkipReturns
		if ret == nil {
			ret = types.Unknown
		}
		if fn.Async {
			ret = types.Promise{Inner: ret}
		}
		return types.CallResult{Value: ret, Throws: types.Never}
	}
	if fn.Pure {
		return ev.callPure(ctx, fn, args)
	}
	return ev.invoke(ctx, fn, args)
}

// callPure drives spec.md §4.7's memoisation and its §9/open-question-#4
// work-list fixed point: a recursive call that hits its own in-progress
// entry gets the `Unknown` placeholder on the first pass, which can bake a
// wrong answer into the memoised result forever. Once the first pass
// settles the entry, re-invoke until the memo table reports nothing
// changed — later passes see the previous pass's real result instead of
// the placeholder on the recursive self-call, converging the same way
// loop widening converges, bounded by the same FixedPointCap.
func (ev *Evaluator) callPure(ctx context.Context, fn types.Function, args []types.Value) types.CallResult {
	key := callctx.MakeKey(fn, args)
	if cached, settled, recursing := ev.Memo.Begin(key); settled || recursing {
		return cached
	}
	result := ev.invoke(ctx, fn, args)
	ev.Memo.Complete(key, result)
	for iter := 0; ev.Memo.AnyDirty() && iter < ev.Options.FixedPointCap; iter++ {
		ev.Memo.DrainDirty()
		result = ev.invoke(ctx, fn, args)
		ev.Memo.Complete(key, result)
	}
	return result
}

// invoke extends the closure with parameter bindings and evaluates the
// body, deriving {value, throws} from the block Outcome: a fallthrough
// path (Outcome.Env != nil) implicitly returns undefined (spec.md §4.6
// "Call"), and async functions always wrap the value in Promise (§4.7).
func (ev *Evaluator) invoke(ctx context.Context, fn types.Function, args []types.Value) types.CallResult {
	closure, ok := fn.Closure.(*environment.Environment)
	if !ok {
		closure = environment.New()
	}
	callEnv := environment.NewEnclosed(closure)
	ev.bindParams(ctx, fn.Params, args, callEnv)

	var returnVal, throwVal types.Value
	if fn.ExprBody != nil {
		r := ev.EvalExpr(ctx, fn.ExprBody, callEnv)
		if r.threw() {
			returnVal, throwVal = types.Never, r.Throw
		} else {
			returnVal, throwVal = r.Value, types.Never
		}
	} else if fn.Body != nil {
		out := ev.EvalBlock(ctx, fn.Body.Body, callEnv)
		returnVal = out.Return
		throwVal = out.Throw
		if out.Env != nil {
			// Falls off the end without an explicit return: undefined.
			returnVal = types.MakeUnion(returnVal, types.Undefined)
		}
	} else {
		returnVal, throwVal = types.Undefined, types.Never
	}

	if fn.Async {
		returnVal = types.Promise{Inner: returnVal}
	}
	return types.CallResult{Value: returnVal, Throws: throwVal}
}

// evalAwait implements spec.md §4.6 "Await": unwraps Promise(v) to v,
// pass-through otherwise.
func (ev *Evaluator) evalAwait(ctx context.Context, n *ast.AwaitExpression, env *environment.Environment) exprResult {
	r := ev.EvalExpr(ctx, n.Argument, env)
	if r.threw() {
		return r
	}
	unwrapped := unwrapPromise(r.Value)
	return val(ev.record(n, unwrapped))
}

func unwrapPromise(v types.Value) types.Value {
	switch t := v.(type) {
	case types.Promise:
		return t.Inner
	case types.Union:
		parts := make([]types.Value, len(t.Members))
		for i, m := range t.Members {
			parts[i] = unwrapPromise(m)
		}
		return types.MakeUnion(parts...)
	default:
		return v
	}
}
