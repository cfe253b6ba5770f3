package evalcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/config"
	"github.com/funvibe/typeflow/internal/directive"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/modresolve"
	"github.com/funvibe/typeflow/internal/types"
)

// Hand-built AST fixtures for spec.md §8's end-to-end scenarios. Source
// parsing is an external collaborator (spec.md §1), so these tests build
// the node graph directly rather than through a lexer/parser.

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func numLit(n float64) *ast.Literal { return &ast.Literal{Value: n} }

func binExpr(op string, l, r ast.Expression) *ast.BinaryExpression {
	return &ast.BinaryExpression{Operator: op, Left: l, Right: r}
}

func block(stmts ...ast.Statement) *ast.BlockStatement {
	return &ast.BlockStatement{Body: stmts}
}

func ret(e ast.Expression) *ast.ReturnStatement {
	return &ast.ReturnStatement{Argument: e}
}

func ifStmt(test ast.Expression, cons, alt ast.Statement) *ast.IfStatement {
	return &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}
}

func fnDecl(name string, params []ast.Pattern, body *ast.BlockStatement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{ID: ident(name), Params: params, Body: body}
}

func newEvaluator() *Evaluator {
	return New(config.NewOptions(), modresolve.NoneResolver{})
}

// lookupFunction evaluates program's top level in a fresh environment and
// returns the named binding as a callable Function.
func lookupFunction(t *testing.T, ev *Evaluator, program *ast.Program, name string) types.Function {
	t.Helper()
	env := environment.New()
	out := ev.EvalProgram(context.Background(), program, env)
	assert.True(t, isNever(out.Throw), "unexpected top-level throw: %v", out.Throw)
	v, ok := env.Lookup(name)
	assert.True(t, ok, "function %s not bound", name)
	fn, ok := v.(types.Function)
	assert.True(t, ok, "%s is not a Function", name)
	return fn
}

// 1. function subtract(a,b){return a-b}
func TestScenarioSubtract(t *testing.T) {
	program := &ast.Program{Body: []ast.Statement{
		fnDecl("subtract", []ast.Pattern{ident("a"), ident("b")},
			block(ret(binExpr("-", ident("a"), ident("b"))))),
	}}

	ev := newEvaluator()
	subtract := lookupFunction(t, ev, program, "subtract")

	litResult := ev.Call(context.Background(), subtract, []types.Value{types.LitNum(5), types.LitNum(3)})
	assert.True(t, types.Equal(litResult.Value, types.LitNum(2)))

	numResult := ev.Call(context.Background(), subtract, []types.Value{types.Number, types.Number})
	assert.True(t, types.Equal(numResult.Value, types.Number))

	combined := types.MakeUnion(litResult.Value, numResult.Value)
	assert.True(t, types.Equal(combined, types.Number), "Literal 2 must be absorbed by its Number sibling")
}

// 2. function describe(x){ if(typeof x==="number") return x+1; return x }
func TestScenarioDescribe(t *testing.T) {
	program := &ast.Program{Body: []ast.Statement{
		fnDecl("describe", []ast.Pattern{ident("x")},
			block(
				ifStmt(
					binExpr("===", &ast.UnaryExpression{Operator: "typeof", Argument: ident("x")}, &ast.Literal{Value: "number"}),
					block(ret(binExpr("+", ident("x"), numLit(1)))),
					nil,
				),
				ret(ident("x")),
			)),
	}}

	ev := newEvaluator()
	describe := lookupFunction(t, ev, program, "describe")

	r1 := ev.Call(context.Background(), describe, []types.Value{types.LitNum(42)})
	assert.True(t, types.Equal(r1.Value, types.LitNum(43)))

	r2 := ev.Call(context.Background(), describe, []types.Value{types.LitStr("hello")})
	assert.True(t, types.Equal(r2.Value, types.LitStr("hello")))

	r3 := ev.Call(context.Background(), describe, []types.Value{types.MakeUnion(types.Number, types.String)})
	assert.True(t, types.Equal(r3.Value, types.MakeUnion(types.Number, types.String)))
}

// 3. function calc(a,b){ if(a>b) return a-b; return a+b }
func TestScenarioCalc(t *testing.T) {
	program := &ast.Program{Body: []ast.Statement{
		fnDecl("calc", []ast.Pattern{ident("a"), ident("b")},
			block(
				ifStmt(
					binExpr(">", ident("a"), ident("b")),
					block(ret(binExpr("-", ident("a"), ident("b")))),
					block(ret(binExpr("+", ident("a"), ident("b")))),
				),
			)),
	}}

	ev := newEvaluator()
	calc := lookupFunction(t, ev, program, "calc")

	r1 := ev.Call(context.Background(), calc, []types.Value{types.LitNum(1), types.LitNum(2)})
	assert.True(t, types.Equal(r1.Value, types.LitNum(3)))

	r2 := ev.Call(context.Background(), calc, []types.Value{types.Number, types.Number})
	assert.True(t, types.Equal(r2.Value, types.Number))
}

// 4. function safeSqrt(x){ if(x<0) throw new RangeError("neg"); return x }
func TestScenarioSafeSqrt(t *testing.T) {
	program := &ast.Program{Body: []ast.Statement{
		fnDecl("safeSqrt", []ast.Pattern{ident("x")},
			block(
				ifStmt(
					binExpr("<", ident("x"), numLit(0)),
					block(&ast.ThrowStatement{Argument: &ast.NewExpression{
						Callee:    ident("RangeError"),
						Arguments: []ast.Expression{&ast.Literal{Value: "neg"}},
					}}),
					nil,
				),
				ret(ident("x")),
			)),
	}}

	ev := newEvaluator()
	safeSqrt := lookupFunction(t, ev, program, "safeSqrt")

	ok := ev.Call(context.Background(), safeSqrt, []types.Value{types.LitNum(10)})
	assert.True(t, types.Equal(ok.Value, types.LitNum(10)))
	assert.True(t, isNever(ok.Throws))

	bad := ev.Call(context.Background(), safeSqrt, []types.Value{types.LitNum(-1)})
	assert.True(t, isNever(bad.Value))
	inst, ok2 := bad.Throws.(types.Instance)
	assert.True(t, ok2, "expected a thrown Instance, got %v", bad.Throws)
	assert.Equal(t, "RangeError", inst.ClassName)
	assert.True(t, types.Equal(inst.Props["message"], types.LitStr("neg")))
}

// 6. let s=0; for(let i=0;i<3;i++) s+=i;
func TestScenarioLoopWidening(t *testing.T) {
	loopBody := func(bound ast.Expression) *ast.Program {
		return &ast.Program{Body: []ast.Statement{
			&ast.VariableDeclaration{Kind: "let", Declarations: []*ast.VariableDeclarator{
				{ID: ident("s"), Init: numLit(0)},
			}},
			&ast.ForStatement{
				Init: &ast.VariableDeclaration{Kind: "let", Declarations: []*ast.VariableDeclarator{
					{ID: ident("i"), Init: numLit(0)},
				}},
				Test:   binExpr("<", ident("i"), bound),
				Update: &ast.UpdateExpression{Operator: "++", Argument: ident("i")},
				Body: block(&ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
					Operator: "+=", Left: ident("s"), Right: ident("i"),
				}}),
			},
		}}
	}

	ev := newEvaluator()
	env := environment.New()
	out := ev.EvalProgram(context.Background(), loopBody(numLit(3)), env)
	assert.True(t, isNever(out.Throw))
	s, ok := out.Env.Lookup("s")
	assert.True(t, ok)
	assert.True(t, types.Equal(s, types.LitNum(3)), "sample count 3 loop must fully unroll to Literal 3, got %v", s)

	ev2 := newEvaluator()
	env2 := environment.New()
	env2.Bind("n", types.Number)
	out2 := ev2.EvalProgram(context.Background(), loopBody(ident("n")), env2)
	assert.True(t, isNever(out2.Throw))
	s2, ok := out2.Env.Lookup("s")
	assert.True(t, ok)
	assert.True(t, types.Equal(s2, types.Number), "an undecidable bound must widen s to Number, got %v", s2)
}

// Lazy union law (spec.md §8): for Union(a,b) bound to x, `x op x` zips
// member-wise (Union(a op a, b op b)), never the cross product.
func TestLazyUnionSelfOpZipsNotCrossProduct(t *testing.T) {
	program := &ast.Program{Body: []ast.Statement{
		fnDecl("double", []ast.Pattern{ident("a")}, block(ret(binExpr("+", ident("a"), ident("a"))))),
	}}

	ev := newEvaluator()
	double := lookupFunction(t, ev, program, "double")

	arg := types.MakeUnion(types.LitNum(1), types.LitNum(2))
	result := ev.Call(context.Background(), double, []types.Value{arg})

	expected := types.MakeUnion(types.LitNum(2), types.LitNum(4))
	assert.True(t, types.Equal(result.Value, expected), "a+a over Union(1,2) must be Union(2,4), got %v", result.Value)
	assert.Len(t, types.Members(result.Value), 2, "cross product would have produced 3 distinct members (2,3,4) after dedup, not 2")
}

// @pure recursive function mayThrow(n){ if(n<=0) throw new RangeError("neg");
// return mayThrow(n-1) } called with an abstract Number argument (spec.md
// §4.7/§9): the inner self-call always lands on the same memo key as the
// outer call (Number-1 widens back to Number), hitting the in-progress
// placeholder on the first pass. A single-pass implementation bakes that
// placeholder's {Unknown, never-throws} in forever; re-evaluating to a
// fixed point must converge on "always throws RangeError".
func TestRecursivePureCallConvergesToFixedPoint(t *testing.T) {
	mayThrowDecl := fnDecl("mayThrow", []ast.Pattern{ident("n")},
		block(
			ifStmt(
				binExpr("<=", ident("n"), numLit(0)),
				block(&ast.ThrowStatement{Argument: &ast.NewExpression{
					Callee:    ident("RangeError"),
					Arguments: []ast.Expression{&ast.Literal{Value: "neg"}},
				}}),
				nil,
			),
			ret(&ast.CallExpression{
				Callee:    ident("mayThrow"),
				Arguments: []ast.Expression{binExpr("-", ident("n"), numLit(1))},
			}),
		))
	program := &ast.Program{Body: []ast.Statement{mayThrowDecl}}

	ev := newEvaluator()
	ev.Directives[mayThrowDecl] = directive.List{directive.Pure()}
	mayThrow := lookupFunction(t, ev, program, "mayThrow")

	result := ev.Call(context.Background(), mayThrow, []types.Value{types.Number})

	assert.True(t, isNever(result.Value),
		"recursion toward the throwing base case must converge to Never, not bake in the in-progress Unknown placeholder, got %v", result.Value)
	inst, ok := result.Throws.(types.Instance)
	assert.True(t, ok, "expected a thrown RangeError Instance, got %v", result.Throws)
	assert.Equal(t, "RangeError", inst.ClassName)
}
