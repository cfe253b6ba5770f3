package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

// EvalStatement dispatches on the AST statement node kind (spec.md §4.6).
func (ev *Evaluator) EvalStatement(ctx context.Context, stmt ast.Statement, env *environment.Environment) Outcome {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		return ev.evalExpressionStatement(ctx, n, env)
	case *ast.VariableDeclaration:
		return ev.evalVariableDeclaration(ctx, n, env)
	case *ast.BlockStatement:
		return ev.EvalBlock(ctx, n.Body, environment.NewEnclosed(env))
	case *ast.ReturnStatement:
		return ev.evalReturn(ctx, n, env)
	case *ast.ThrowStatement:
		return ev.evalThrow(ctx, n, env)
	case *ast.BreakStatement:
		return Outcome{Return: types.Never, Throw: types.Never, Env: nil, Break: true}
	case *ast.ContinueStatement:
		return Outcome{Return: types.Never, Throw: types.Never, Env: nil, Continue: true}
	case *ast.IfStatement:
		return ev.evalIf(ctx, n, env)
	case *ast.SwitchStatement:
		return ev.evalSwitch(ctx, n, env)
	case *ast.ForStatement:
		return ev.evalFor(ctx, n, env)
	case *ast.WhileStatement:
		return ev.evalWhile(ctx, n, env)
	case *ast.DoWhileStatement:
		return ev.evalDoWhile(ctx, n, env)
	case *ast.ForOfStatement:
		return ev.evalForOf(ctx, n, env)
	case *ast.ForInStatement:
		return ev.evalForIn(ctx, n, env)
	case *ast.TryStatement:
		return ev.evalTry(ctx, n, env)
	case *ast.FunctionDeclaration:
		return ev.evalFunctionDeclaration(n, env)
	case *ast.ClassDeclaration:
		return ev.evalClassDeclaration(n, env)
	case *ast.ImportDeclaration:
		return ev.evalImport(ctx, n, env)
	case *ast.ExportNamedDeclaration:
		return ev.evalExport(ctx, n, env)
	default:
		return normal(env)
	}
}

func (ev *Evaluator) evalExpressionStatement(ctx context.Context, n *ast.ExpressionStatement, env *environment.Environment) Outcome {
	r := ev.EvalExpr(ctx, n.Expression, env)
	if r.threw() {
		return throwOutcome(r.Throw)
	}
	return normal(env)
}

// evalVariableDeclaration binds each declarator per spec.md §4.6
// "Variable declaration: bind per declarator; for object/array patterns,
// apply the destructuring rules".
func (ev *Evaluator) evalVariableDeclaration(ctx context.Context, n *ast.VariableDeclaration, env *environment.Environment) Outcome {
	for _, decl := range n.Declarations {
		v := types.Value(types.Undefined)
		if decl.Init != nil {
			r := ev.EvalExpr(ctx, decl.Init, env)
			if r.threw() {
				return throwOutcome(r.Throw)
			}
			v = r.Value
		}
		ev.bindPattern(ctx, decl.ID, v, env)
	}
	return normal(env)
}

func (ev *Evaluator) evalReturn(ctx context.Context, n *ast.ReturnStatement, env *environment.Environment) Outcome {
	v := types.Value(types.Undefined)
	if n.Argument != nil {
		r := ev.EvalExpr(ctx, n.Argument, env)
		if r.threw() {
			return throwOutcome(r.Throw)
		}
		v = r.Value
	}
	return returnOutcome(v)
}

func (ev *Evaluator) evalThrow(ctx context.Context, n *ast.ThrowStatement, env *environment.Environment) Outcome {
	r := ev.EvalExpr(ctx, n.Argument, env)
	if r.threw() {
		return throwOutcome(r.Throw)
	}
	return throwOutcome(r.Value)
}

// evalFunctionDeclaration builds the closure and binds it under its name
// in env, consuming this declaration's directive list if any (spec.md
// §4.7 "@pure").
func (ev *Evaluator) evalFunctionDeclaration(n *ast.FunctionDeclaration, env *environment.Environment) Outcome {
	fn := ev.makeFunction(n, n.ID, n.Params, n.Body, nil, n.Async, env)
	if n.ID != nil {
		env.Bind(n.ID.Name, fn)
	}
	return normal(env)
}
