// Package narrow implements spec.md §4.4's narrowing engine: pattern
// matching a test expression against the recognised shapes and returning
// the (true, false) branch environments.
package narrow

import (
	"math"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

// Narrow returns (envTrue, envFalse) for test evaluated in env, per the
// recognised-shape table of spec.md §4.4. Unrecognised shapes return
// (env, env) unchanged. Each returned environment (when narrowing did
// occur) is a thin child frame of env holding only the rebound name —
// object-identity-preserving isolation for mutation is a separate concern
// the caller applies via environment.ForkForBranch on top of these.
func Narrow(test ast.Expression, env *environment.Environment) (*environment.Environment, *environment.Environment) {
	switch t := test.(type) {
	case *ast.UnaryExpression:
		if t.Operator == "!" {
			tEnv, fEnv := Narrow(t.Argument, env)
			return fEnv, tEnv
		}
	case *ast.BinaryExpression:
		if env2, env3, ok := narrowBinary(t, env); ok {
			return env2, env3
		}
	case *ast.CallExpression:
		if env2, env3, ok := narrowArrayIsArray(t, env); ok {
			return env2, env3
		}
	case *ast.Identifier:
		return narrowTruthiness(t, env)
	}
	return env, env
}

func subjectName(e ast.Expression) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func bindBranches(env *environment.Environment, name string, trueVal, falseVal types.Value) (*environment.Environment, *environment.Environment) {
	trueEnv := environment.NewEnclosed(env)
	trueEnv.Bind(name, trueVal)
	falseEnv := environment.NewEnclosed(env)
	falseEnv.Bind(name, falseVal)
	return trueEnv, falseEnv
}

// narrowGeneric applies keep/reject against the current value of name,
// substituting positiveFallback for the true branch when the value is
// exactly Unknown (nothing to filter) or when filtering eliminated every
// member (spec.md's "if none remain, substitute L"/"substitute Instance(C)").
func narrowGeneric(env *environment.Environment, name string, keep func(types.Value) bool, positiveFallback types.Value) (*environment.Environment, *environment.Environment) {
	cur, _ := env.Lookup(name)
	if _, isUnknown := cur.(types.UnknownType); isUnknown {
		return bindBranches(env, name, positiveFallback, types.Unknown)
	}
	trueVal := types.Filter(cur, keep)
	if _, isNever := trueVal.(types.NeverType); isNever {
		trueVal = positiveFallback
	}
	falseVal := types.Reject(cur, keep)
	return bindBranches(env, name, trueVal, falseVal)
}

func narrowBinary(b *ast.BinaryExpression, env *environment.Environment) (*environment.Environment, *environment.Environment, bool) {
	switch b.Operator {
	case "===", "!==":
		tEnv, fEnv, ok := narrowEquality(b, env)
		if !ok {
			return nil, nil, false
		}
		if b.Operator == "!==" {
			return fEnv, tEnv, true
		}
		return tEnv, fEnv, true
	case "instanceof":
		return narrowInstanceof(b, env)
	}
	return nil, nil, false
}

func narrowEquality(b *ast.BinaryExpression, env *environment.Environment) (*environment.Environment, *environment.Environment, bool) {
	// typeof x === "T"
	if typeofExpr, litExpr, ok := matchTypeofLiteral(b.Left, b.Right); ok {
		name, ok := subjectName(typeofExpr.Argument)
		if !ok {
			return nil, nil, false
		}
		tag := litExpr.Str
		keep := func(v types.Value) bool {
			t, ok := types.PrimitiveTagOf(v)
			return ok && t == tag
		}
		tEnv, fEnv := narrowGeneric(env, name, keep, types.Primitive{Tag: tag})
		return tEnv, fEnv, true
	}
	// x === Literal
	if idExpr, litExpr, ok := matchIdentifierLiteral(b.Left, b.Right); ok {
		name, ok := subjectName(idExpr)
		if !ok {
			return nil, nil, false
		}
		target := astLiteralToValue(litExpr)
		keep := func(v types.Value) bool { return types.Equal(v, target) }
		tEnv, fEnv := narrowGeneric(env, name, keep, target)
		return tEnv, fEnv, true
	}
	return nil, nil, false
}

func matchTypeofLiteral(left, right ast.Expression) (*ast.UnaryExpression, *ast.Literal, bool) {
	if u, ok := left.(*ast.UnaryExpression); ok && u.Operator == "typeof" {
		if l, ok := right.(*ast.Literal); ok {
			if s, ok := l.Value.(string); ok {
				_ = s
				return u, l, true
			}
		}
	}
	if u, ok := right.(*ast.UnaryExpression); ok && u.Operator == "typeof" {
		if l, ok := left.(*ast.Literal); ok {
			if _, ok := l.Value.(string); ok {
				return u, l, true
			}
		}
	}
	return nil, nil, false
}

func matchIdentifierLiteral(left, right ast.Expression) (ast.Expression, *ast.Literal, bool) {
	if id, ok := left.(*ast.Identifier); ok {
		if l, ok := right.(*ast.Literal); ok {
			return id, l, true
		}
	}
	if id, ok := right.(*ast.Identifier); ok {
		if l, ok := left.(*ast.Literal); ok {
			return id, l, true
		}
	}
	return nil, nil, false
}

func astLiteralToValue(l *ast.Literal) types.Value {
	switch v := l.Value.(type) {
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

func narrowInstanceof(b *ast.BinaryExpression, env *environment.Environment) (*environment.Environment, *environment.Environment, bool) {
	name, ok := subjectName(b.Left)
	if !ok {
		return nil, nil, false
	}
	classID, ok := b.Right.(*ast.Identifier)
	if !ok {
		return nil, nil, false
	}
	className := classID.Name
	keep := func(v types.Value) bool {
		inst, ok := v.(types.Instance)
		return ok && types.Subtype(inst, types.Instance{ClassName: className})
	}
	tEnv, fEnv := narrowGeneric(env, name, keep, types.Instance{ClassName: className})
	return tEnv, fEnv, true
}

func narrowArrayIsArray(c *ast.CallExpression, env *environment.Environment) (*environment.Environment, *environment.Environment, bool) {
	member, ok := c.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return nil, nil, false
	}
	obj, ok := member.Object.(*ast.Identifier)
	if !ok || obj.Name != "Array" || member.PropertyName != "isArray" {
		return nil, nil, false
	}
	if len(c.Arguments) != 1 {
		return nil, nil, false
	}
	name, ok := subjectName(c.Arguments[0])
	if !ok {
		return nil, nil, false
	}
	keep := func(v types.Value) bool {
		switch v.(type) {
		case types.Array, types.Tuple:
			return true
		default:
			return false
		}
	}
	tEnv, fEnv := narrowGeneric(env, name, keep, types.Array{Elem: types.Unknown})
	return tEnv, fEnv, true
}

func narrowTruthiness(id *ast.Identifier, env *environment.Environment) (*environment.Environment, *environment.Environment) {
	name := id.Name
	isFalsy := func(v types.Value) bool {
		lit, ok := v.(types.Literal)
		if !ok {
			return false
		}
		switch lit.Kind {
		case types.LitNull, types.LitUndefined:
			return true
		case types.LitBool:
			return !lit.Bool
		case types.LitString:
			return lit.Str == ""
		case types.LitNumber:
			return lit.Num == 0 || math.IsNaN(lit.Num)
		}
		return false
	}
	cur, ok := env.Lookup(name)
	if !ok {
		return env, env
	}
	trueVal := types.Reject(cur, isFalsy)
	falseVal := types.Filter(cur, isFalsy)
	return bindBranches(env, name, trueVal, falseVal)
}
