package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/ops"
	"github.com/funvibe/typeflow/internal/types"
)

// bindParams binds call arguments against a Function's parameter patterns
// (spec.md §4.6 "Call": "extend the closure with parameter bindings
// honoring destructuring patterns and defaults").
func (ev *Evaluator) bindParams(ctx context.Context, params []ast.Pattern, args []types.Value, env *environment.Environment) {
	for i, p := range params {
		if rest, ok := p.(*ast.RestElement); ok {
			var remaining []types.Value
			if i < len(args) {
				remaining = append([]types.Value(nil), args[i:]...)
			}
			ev.bindPattern(ctx, rest.Element, types.Tuple{Elems: remaining}, env)
			return
		}
		v := types.Value(types.Undefined)
		if i < len(args) {
			v = args[i]
		}
		ev.bindPattern(ctx, p, v, env)
	}
}

// bindPattern binds v against pattern p in env, recursing through the
// destructuring shapes of spec.md §4.6 "Destructuring".
func (ev *Evaluator) bindPattern(ctx context.Context, p ast.Pattern, v types.Value, env *environment.Environment) {
	switch pat := p.(type) {
	case *ast.Identifier:
		env.Bind(pat.Name, v)
	case *ast.AssignmentPattern:
		if isUndefinedValue(v) {
			d := ev.EvalExpr(ctx, pat.Default, env)
			if !d.threw() {
				v = d.Value
			}
		}
		ev.bindPattern(ctx, pat.Left, v, env)
	case *ast.ObjectPattern:
		ev.bindObjectPattern(ctx, pat, v, env)
	case *ast.ArrayPattern:
		ev.bindArrayPattern(ctx, pat, v, env)
	case *ast.RestElement:
		ev.bindPattern(ctx, pat.Element, v, env)
	}
}

func isUndefinedValue(v types.Value) bool {
	lit, ok := v.(types.Literal)
	return ok && lit.Kind == types.LitUndefined
}

// memberOf reads a destructured field across every member of a (possibly
// Union) value, mirroring resolveMember's fan-out but without the throw
// effect — destructuring against null/undefined is a malformed-program
// edge case the evaluator tolerates by yielding Undefined rather than
// aborting the whole declaration (spec.md names the throw effect only for
// explicit member-access expressions, §4.1).
func (ev *Evaluator) memberOf(v types.Value, name string) types.Value {
	var results []types.Value
	for _, m := range types.Members(v) {
		access := ops.Member(m, name)
		if access.Thrown != nil {
			continue
		}
		results = append(results, access.Value)
	}
	if len(results) == 0 {
		return types.Undefined
	}
	return types.MakeUnion(results...)
}

// bindObjectPattern implements `{ a, b: renamed = dflt, ...rest }` against
// v (spec.md §4.6 "for Object patterns, bind each property against the
// corresponding field of the value... honoring defaults and rest").
func (ev *Evaluator) bindObjectPattern(ctx context.Context, pat *ast.ObjectPattern, v types.Value, env *environment.Environment) {
	used := map[string]bool{}
	for _, prop := range pat.Properties {
		key := prop.Key
		if prop.Computed {
			kr := ev.EvalExpr(ctx, prop.KeyExpr, env)
			if lit, ok := kr.Value.(types.Literal); ok && lit.Kind == types.LitString {
				key = lit.Str
			}
		}
		used[key] = true
		ev.bindPattern(ctx, prop.Value, ev.memberOf(v, key), env)
	}
	if pat.Rest == nil {
		return
	}
	if obj, ok := v.(types.Object); ok {
		keys := make([]string, 0, len(obj.Keys))
		props := map[string]types.Value{}
		for _, k := range obj.Keys {
			if used[k] {
				continue
			}
			keys = append(keys, k)
			props[k] = obj.Props[k]
		}
		ev.bindPattern(ctx, pat.Rest.Element, types.NewObject(keys, props), env)
		return
	}
	ev.bindPattern(ctx, pat.Rest.Element, types.NewObject(nil, map[string]types.Value{}), env)
}

// bindArrayPattern implements `[a, , c, ...rest]` against v (spec.md
// §4.6 "for Array patterns, index into the Tuple (or take elem for
// Arrays), honoring holes, defaults, and rest").
func (ev *Evaluator) bindArrayPattern(ctx context.Context, pat *ast.ArrayPattern, v types.Value, env *environment.Environment) {
	switch val := v.(type) {
	case types.Tuple:
		for i, el := range pat.Elements {
			if el == nil {
				continue
			}
			item := types.Value(types.Undefined)
			if i < len(val.Elems) {
				item = val.Elems[i]
			}
			ev.bindPattern(ctx, el, item, env)
		}
		if pat.Rest != nil {
			var rem []types.Value
			if len(pat.Elements) < len(val.Elems) {
				rem = append([]types.Value(nil), val.Elems[len(pat.Elements):]...)
			}
			ev.bindPattern(ctx, pat.Rest.Element, types.Tuple{Elems: rem}, env)
		}
	case types.Array:
		for _, el := range pat.Elements {
			if el == nil {
				continue
			}
			ev.bindPattern(ctx, el, val.Elem, env)
		}
		if pat.Rest != nil {
			ev.bindPattern(ctx, pat.Rest.Element, types.Array{Elem: val.Elem}, env)
		}
	default:
		for _, el := range pat.Elements {
			if el == nil {
				continue
			}
			ev.bindPattern(ctx, el, types.Undefined, env)
		}
		if pat.Rest != nil {
			ev.bindPattern(ctx, pat.Rest.Element, types.Array{Elem: types.Unknown}, env)
		}
	}
}
