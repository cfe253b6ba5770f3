package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/ops"
	"github.com/funvibe/typeflow/internal/refinement"
	"github.com/funvibe/typeflow/internal/types"
)

// exprResult is an expression's evaluation outcome: its value, and the
// union of anything thrown along the way (Never when nothing threw).
// Unlike statement Outcome, expressions never branch-fork on their own —
// only Call/Member/New/Await sub-evaluations can throw, and a throw
// aborts evaluation of the enclosing expression tree immediately.
type exprResult struct {
	Value types.Value
	Throw types.Value
}

func val(v types.Value) exprResult { return exprResult{Value: v, Throw: types.Never} }

func thrown(v types.Value) exprResult { return exprResult{Value: types.Never, Throw: v} }

func (r exprResult) threw() bool {
	_, isNever := r.Throw.(types.NeverType)
	return !isNever
}

// EvalExpr dispatches on the AST expression node kind (spec.md §4.6).
func (ev *Evaluator) EvalExpr(ctx context.Context, expr ast.Expression, env *environment.Environment) exprResult {
	switch n := expr.(type) {
	case *ast.Literal:
		return val(ev.record(n, astLiteralToType(n)))
	case *ast.TemplateLiteral:
		return ev.evalTemplateLiteral(ctx, n, env)
	case *ast.Identifier:
		return ev.evalIdentifier(n, env)
	case *ast.ThisExpression:
		v, _ := env.Lookup("this")
		return val(ev.record(n, v))
	case *ast.BinaryExpression:
		return ev.evalBinary(ctx, n, env)
	case *ast.LogicalExpression:
		return ev.evalLogical(ctx, n, env)
	case *ast.UnaryExpression:
		return ev.evalUnary(ctx, n, env)
	case *ast.UpdateExpression:
		return ev.evalUpdate(ctx, n, env)
	case *ast.AssignmentExpression:
		return ev.evalAssignment(ctx, n, env)
	case *ast.ConditionalExpression:
		return ev.evalConditional(ctx, n, env)
	case *ast.SpreadElement:
		return ev.EvalExpr(ctx, n.Argument, env)
	case *ast.CallExpression:
		return ev.evalCall(ctx, n, env)
	case *ast.NewExpression:
		return ev.evalNew(ctx, n, env)
	case *ast.MemberExpression:
		return ev.evalMemberRead(ctx, n, env)
	case *ast.ArrayExpression:
		return ev.evalArrayLiteral(ctx, n, env)
	case *ast.ObjectExpression:
		return ev.evalObjectLiteral(ctx, n, env)
	case *ast.FunctionExpression:
		return val(ev.record(n, ev.makeFunction(n, n.ID, n.Params, n.Body, nil, n.Async, env)))
	case *ast.ArrowFunctionExpression:
		var name *ast.Identifier
		return val(ev.record(n, ev.makeFunction(n, name, n.Params, n.BlockBody, n.ExprBody, n.Async, env)))
	case *ast.AwaitExpression:
		return ev.evalAwait(ctx, n, env)
	default:
		return val(types.Unknown)
	}
}

func astLiteralToType(n *ast.Literal) types.Value {
	switch v := n.Value.(type) {
	case float64:
		return types.LitNum(v)
	case string:
		return types.LitStr(v)
	case bool:
		return types.LitBoolVal(v)
	case nil:
		return types.Null
	default:
		return types.Undefined
	}
}

func (ev *Evaluator) evalIdentifier(n *ast.Identifier, env *environment.Environment) exprResult {
	if n.Name == "undefined" {
		return val(ev.record(n, types.Undefined))
	}
	v, _ := env.Lookup(n.Name)
	return val(ev.record(n, v))
}

// evalTemplateLiteral implements spec.md §4.6's template-literal rule: an
// all-Literal result collapses to a single Literal string; otherwise the
// parts build a template-string refinement via ops/addOp-style
// concatenation (refinement.Concat), part by part.
func (ev *Evaluator) evalTemplateLiteral(ctx context.Context, n *ast.TemplateLiteral, env *environment.Environment) exprResult {
	acc := types.LitStr(n.Quasis[0])
	for i, exprNode := range n.Expressions {
		r := ev.EvalExpr(ctx, exprNode, env)
		if r.threw() {
			return r
		}
		combined, ok := refinement.Concat(acc, r.Value)
		if !ok {
			combined = ops.Binary("+", acc, r.Value)
		}
		acc = combined
		quasi := n.Quasis[i+1]
		if quasi != "" {
			if withQuasi, ok := refinement.Concat(acc, types.LitStr(quasi)); ok {
				acc = withQuasi
			} else {
				acc = ops.Binary("+", acc, types.LitStr(quasi))
			}
		}
	}
	return val(ev.record(n, acc))
}

func (ev *Evaluator) evalBinary(ctx context.Context, n *ast.BinaryExpression, env *environment.Environment) exprResult {
	l := ev.EvalExpr(ctx, n.Left, env)
	if l.threw() {
		return l
	}
	r := ev.EvalExpr(ctx, n.Right, env)
	if r.threw() {
		return r
	}
	if n.Operator == "instanceof" {
		return val(ev.record(n, ev.evalInstanceof(l.Value, n.Right)))
	}
	var result types.Value
	if sameIdentifierBinding(n.Left, n.Right) {
		result = zipBinary(n.Operator, l.Value, r.Value, ev.Options.UnionCap)
	} else {
		result = distributeBinary(n.Operator, l.Value, r.Value, ev.Options.UnionCap)
	}
	return val(ev.record(n, result))
}

// sameIdentifierBinding reports whether left and right are references to
// the same name — e.g. `a + a` — the case spec.md §8's lazy-union law
// singles out: "for any Union(a,b) bound to name x, evaluating x op x
// yields Union(a op a, b op b), not the cross product".
func sameIdentifierBinding(left, right ast.Expression) bool {
	li, ok := left.(*ast.Identifier)
	if !ok {
		return false
	}
	ri, ok := right.(*ast.Identifier)
	return ok && li.Name == ri.Name
}

// zipBinary implements the lazy-union law: since l and r are the same
// bound value, a Union operand is combined member-wise with itself
// instead of against every member of a (necessarily identical) right
// Union, which is what distributeBinary's cross product would otherwise
// do for two Union operands.
func zipBinary(op string, l, r types.Value, cap int) types.Value {
	lu, lIsUnion := l.(types.Union)
	if !lIsUnion {
		return ops.Binary(op, l, r)
	}
	ru, rIsUnion := r.(types.Union)
	if !rIsUnion || len(lu.Members) != len(ru.Members) {
		// l and r were read from the same binding, so this shouldn't
		// happen; fall back to the safe (if pessimistic) cross product.
		return distributeBinary(op, l, r, cap)
	}
	parts := make([]types.Value, len(lu.Members))
	for i := range lu.Members {
		parts[i] = ops.Binary(op, lu.Members[i], ru.Members[i])
	}
	return types.MakeUnionWithCap(cap, parts...)
}

// distributeBinary implements spec.md §4.5: binary ops on (Union, X) or
// (X, Union) distribute over members and recombine (the full cross
// product). Callers must route the `x op x` case through zipBinary
// instead — this function has no way to tell two distinct Union operands
// apart from the same Union reached twice.
func distributeBinary(op string, l, r types.Value, cap int) types.Value {
	lu, lIsUnion := l.(types.Union)
	ru, rIsUnion := r.(types.Union)
	if !lIsUnion && !rIsUnion {
		return ops.Binary(op, l, r)
	}
	var parts []types.Value
	lMembers := []types.Value{l}
	if lIsUnion {
		lMembers = lu.Members
	}
	rMembers := []types.Value{r}
	if rIsUnion {
		rMembers = ru.Members
	}
	for _, lm := range lMembers {
		for _, rm := range rMembers {
			parts = append(parts, ops.Binary(op, lm, rm))
		}
	}
	return types.MakeUnionWithCap(cap, parts...)
}

func (ev *Evaluator) evalInstanceof(l types.Value, classExpr ast.Expression) types.Value {
	id, ok := classExpr.(*ast.Identifier)
	if !ok {
		return types.Boolean
	}
	keep := func(v types.Value) bool {
		inst, ok := v.(types.Instance)
		return ok && types.Subtype(inst, types.Instance{ClassName: id.Name})
	}
	members := types.Members(l)
	allYes, allNo := true, true
	for _, m := range members {
		if keep(m) {
			allNo = false
		} else {
			allYes = false
		}
	}
	switch {
	case len(members) == 0:
		return types.Boolean
	case allYes:
		return types.True
	case allNo:
		return types.False
	default:
		return types.Boolean
	}
}

func (ev *Evaluator) evalLogical(ctx context.Context, n *ast.LogicalExpression, env *environment.Environment) exprResult {
	l := ev.EvalExpr(ctx, n.Left, env)
	if l.threw() {
		return l
	}
	if result, ok := ops.LogicalShortCircuit(n.Operator, l.Value); ok {
		return val(ev.record(n, result))
	}
	r := ev.EvalExpr(ctx, n.Right, env)
	if r.threw() {
		return r
	}
	return val(ev.record(n, ops.CombineLogical(n.Operator, l.Value, r.Value)))
}

func (ev *Evaluator) evalUnary(ctx context.Context, n *ast.UnaryExpression, env *environment.Environment) exprResult {
	if n.Operator == "typeof" {
		if id, ok := n.Argument.(*ast.Identifier); ok {
			v, bound := env.Lookup(id.Name)
			if !bound && id.Name != "undefined" {
				return val(ev.record(n, types.LitStr("undefined")))
			}
			return val(ev.record(n, ops.Typeof(v)))
		}
	}
	r := ev.EvalExpr(ctx, n.Argument, env)
	if r.threw() {
		return r
	}
	return val(ev.record(n, ops.Unary(n.Operator, r.Value)))
}

func (ev *Evaluator) evalUpdate(ctx context.Context, n *ast.UpdateExpression, env *environment.Environment) exprResult {
	id, ok := n.Argument.(*ast.Identifier)
	if !ok {
		return val(types.Number)
	}
	cur, _ := env.Lookup(id.Name)
	delta := 1.0
	if n.Operator == "--" {
		delta = -1.0
	}
	updated := ops.Binary("+", cur, types.LitNum(delta))
	env.Update(id.Name, updated)
	if n.Prefix {
		return val(ev.record(n, updated))
	}
	return val(ev.record(n, cur))
}

func (ev *Evaluator) evalConditional(ctx context.Context, n *ast.ConditionalExpression, env *environment.Environment) exprResult {
	test := ev.EvalExpr(ctx, n.Test, env)
	if test.threw() {
		return test
	}
	if truthy, decidable := types.IsTruthy(test.Value); decidable {
		if truthy {
			return ev.EvalExpr(ctx, n.Consequent, env)
		}
		return ev.EvalExpr(ctx, n.Alternate, env)
	}
	trueEnv, falseEnv := ev.narrowedForks(n.Test, env)
	cons := ev.EvalExpr(ctx, n.Consequent, trueEnv)
	alt := ev.EvalExpr(ctx, n.Alternate, falseEnv)
	if cons.threw() && alt.threw() {
		return thrown(ev.unionCap(cons.Throw, alt.Throw))
	}
	if cons.threw() {
		return val(ev.record(n, alt.Value))
	}
	if alt.threw() {
		return val(ev.record(n, cons.Value))
	}
	return val(ev.record(n, ev.unionCap(cons.Value, alt.Value)))
}
