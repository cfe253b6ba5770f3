package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/ops"
	"github.com/funvibe/typeflow/internal/types"
)

// evalMemberRead implements spec.md §4.1 "Member access" and the
// null/undefined-access throw (§4.6 "Member access produces a throw
// effect with Instance(TypeError)").
func (ev *Evaluator) evalMemberRead(ctx context.Context, n *ast.MemberExpression, env *environment.Environment) exprResult {
	obj := ev.EvalExpr(ctx, n.Object, env)
	if obj.threw() {
		return obj
	}
	if n.Optional {
		if lit, ok := obj.Value.(types.Literal); ok && (lit.Kind == types.LitNull || lit.Kind == types.LitUndefined) {
			return val(ev.record(n, types.Undefined))
		}
	}
	if n.Computed {
		idx := ev.EvalExpr(ctx, n.PropertyExpr, env)
		if idx.threw() {
			return idx
		}
		return ev.resolveIndex(n, obj.Value, idx.Value)
	}
	return ev.resolveMember(n, obj.Value, n.PropertyName)
}

func (ev *Evaluator) resolveMember(n ast.Node, obj types.Value, name string) exprResult {
	members := types.Members(obj)
	var results []types.Value
	var caughtThrow types.Value = types.Never
	for _, m := range members {
		access := ops.Member(m, name)
		if access.Thrown != nil {
			caughtThrow = types.MakeUnion(caughtThrow, access.Thrown)
			continue
		}
		results = append(results, access.Value)
	}
	if len(results) == 0 {
		return thrown(caughtThrow)
	}
	return val(ev.record(n, types.MakeUnion(results...)))
}

func (ev *Evaluator) resolveIndex(n ast.Node, obj, idx types.Value) exprResult {
	members := types.Members(obj)
	var results []types.Value
	var caughtThrow types.Value = types.Never
	for _, m := range members {
		access := ops.Index(m, idx)
		if access.Thrown != nil {
			caughtThrow = types.MakeUnion(caughtThrow, access.Thrown)
			continue
		}
		results = append(results, access.Value)
	}
	if len(results) == 0 {
		return thrown(caughtThrow)
	}
	return val(ev.record(n, types.MakeUnion(results...)))
}

// evalAssignment implements spec.md §4.6's identifier/member/indexed
// assignment rule, including `+=`-style compound operators.
func (ev *Evaluator) evalAssignment(ctx context.Context, n *ast.AssignmentExpression, env *environment.Environment) exprResult {
	rhs := ev.EvalExpr(ctx, n.Right, env)
	if rhs.threw() {
		return rhs
	}
	newVal := rhs.Value

	switch target := n.Left.(type) {
	case *ast.Identifier:
		if n.Operator != "=" {
			cur, _ := env.Lookup(target.Name)
			newVal = applyCompound(n.Operator, cur, rhs.Value)
		}
		if !env.Update(target.Name, newVal) {
			env.Bind(target.Name, newVal)
		}
		return val(ev.record(n, newVal))
	case *ast.MemberExpression:
		return ev.assignMember(ctx, n, target, newVal, env)
	default:
		return val(newVal)
	}
}

func applyCompound(op string, cur, rhs types.Value) types.Value {
	base := op[:len(op)-1] // "+=" -> "+", "&&=" -> "&&"
	switch base {
	case "&&", "||", "??":
		if result, ok := ops.LogicalShortCircuit(base, cur); ok {
			return result
		}
		return ops.CombineLogical(base, cur, rhs)
	case "+", "-", "*", "/", "%", "===", "!==", "<", "<=", ">", ">=":
		return ops.Binary(base, cur, rhs)
	default:
		// Bitwise compound assignment (&=, |=, ^=, <<=, >>=, >>>=, **=) has
		// no modelled operator semantics (spec.md §4.1 only names
		// arithmetic/equality/ordering); no abstract value can be computed.
		return types.Unknown
	}
}

func (ev *Evaluator) assignMember(ctx context.Context, n *ast.AssignmentExpression, target *ast.MemberExpression, rhs types.Value, env *environment.Environment) exprResult {
	objResult := ev.EvalExpr(ctx, target.Object, env)
	if objResult.threw() {
		return objResult
	}
	name := target.PropertyName
	if target.Computed {
		keyResult := ev.EvalExpr(ctx, target.PropertyExpr, env)
		if keyResult.threw() {
			return keyResult
		}
		lit, ok := keyResult.Value.(types.Literal)
		if !ok || lit.Kind != types.LitString {
			return val(rhs)
		}
		name = lit.Str
	}

	switch recv := objResult.Value.(type) {
	case types.Object:
		newVal := rhs
		if n.Operator != "=" {
			newVal = applyCompound(n.Operator, recv.Get(name), rhs)
		}
		// Objects have reference semantics (spec.md §4.3): mutate in place
		// so every binding sharing this identity observes the write,
		// rather than rebinding target.Object's name to a fresh value.
		recv.Props[name] = newVal
		if !containsKey(recv.Keys, name) {
			recv.Keys = append(recv.Keys, name)
		}
		if id, isIdent := target.Object.(*ast.Identifier); isIdent {
			env.Update(id.Name, recv)
		}
		return val(ev.record(n, newVal))
	case types.Instance:
		newVal := rhs
		if n.Operator != "=" {
			cur, ok := recv.Props[name]
			if !ok {
				cur = types.Undefined
			}
			newVal = applyCompound(n.Operator, cur, rhs)
		}
		// Props is a map, a Go reference type: every copy of this Instance
		// struct sharing it observes the write in place, the same
		// mutation-sharing Object relies on (spec.md §4.3).
		recv.Props[name] = newVal
		if id, isIdent := target.Object.(*ast.Identifier); isIdent {
			env.Update(id.Name, recv)
		}
		return val(ev.record(n, newVal))
	default:
		return val(rhs)
	}
}

func containsKey(keys []string, k string) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}

// evalArrayLiteral builds a Tuple from elements, honoring spread (Tuple
// spreads into elements, Array spreads collapse to an Array widening) and
// elisions (nil entries, modelled as Undefined) per spec.md §4.6.
func (ev *Evaluator) evalArrayLiteral(ctx context.Context, n *ast.ArrayExpression, env *environment.Environment) exprResult {
	var elems []types.Value
	collapseToArray := false
	var arrayElemUnion types.Value = types.Never
	for _, el := range n.Elements {
		if el == nil {
			elems = append(elems, types.Undefined)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			r := ev.EvalExpr(ctx, spread.Argument, env)
			if r.threw() {
				return r
			}
			switch sv := r.Value.(type) {
			case types.Tuple:
				elems = append(elems, sv.Elems...)
			case types.Array:
				collapseToArray = true
				arrayElemUnion = types.MakeUnion(arrayElemUnion, sv.Elem)
				for _, e := range elems {
					arrayElemUnion = types.MakeUnion(arrayElemUnion, e)
				}
			default:
				elems = append(elems, sv)
			}
			continue
		}
		r := ev.EvalExpr(ctx, el, env)
		if r.threw() {
			return r
		}
		elems = append(elems, r.Value)
	}
	if collapseToArray {
		for _, e := range elems {
			arrayElemUnion = types.MakeUnion(arrayElemUnion, e)
		}
		return val(ev.record(n, types.Array{Elem: arrayElemUnion}))
	}
	return val(ev.record(n, types.Tuple{Elems: elems}))
}

// evalObjectLiteral builds an Object from properties, honoring shorthand,
// computed keys, and `...spread` (spec.md §4.6).
func (ev *Evaluator) evalObjectLiteral(ctx context.Context, n *ast.ObjectExpression, env *environment.Environment) exprResult {
	keys := []string{}
	props := map[string]types.Value{}
	setProp := func(k string, v types.Value) {
		if _, exists := props[k]; !exists {
			keys = append(keys, k)
		}
		props[k] = v
	}
	for _, p := range n.Properties {
		if p.Spread {
			r := ev.EvalExpr(ctx, p.Value, env)
			if r.threw() {
				return r
			}
			if obj, ok := r.Value.(types.Object); ok {
				for _, k := range obj.Keys {
					setProp(k, obj.Props[k])
				}
			}
			continue
		}
		key := p.Key
		if p.Computed {
			kr := ev.EvalExpr(ctx, p.KeyExpr, env)
			if kr.threw() {
				return kr
			}
			if lit, ok := kr.Value.(types.Literal); ok && lit.Kind == types.LitString {
				key = lit.Str
			}
		}
		r := ev.EvalExpr(ctx, p.Value, env)
		if r.threw() {
			return r
		}
		setProp(key, r.Value)
	}
	return val(ev.record(n, types.NewObject(keys, props)))
}
