package analyser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/config"
	"github.com/funvibe/typeflow/internal/directive"
	"github.com/funvibe/typeflow/internal/modresolve"
	"github.com/funvibe/typeflow/internal/types"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func block(stmts ...ast.Statement) *ast.BlockStatement { return &ast.BlockStatement{Body: stmts} }

func ret(e ast.Expression) *ast.ReturnStatement { return &ast.ReturnStatement{Argument: e} }

func fnDecl(name string, params []ast.Pattern, body *ast.BlockStatement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{ID: ident(name), Params: params, Body: body}
}

// function add(a, b) { return a + b }
// @case{"both literal", args: [1, 2], expected: 3}
func TestAnalyseDrivesCaseDirectives(t *testing.T) {
	addDecl := fnDecl("add", []ast.Pattern{ident("a"), ident("b")},
		block(ret(&ast.BinaryExpression{Operator: "+", Left: ident("a"), Right: ident("b")})))
	program := &ast.Program{Body: []ast.Statement{addDecl}}

	directives := map[ast.Node]directive.List{
		addDecl: {directive.Case("both literal", []types.Value{types.LitNum(1), types.LitNum(2)}, types.LitNum(3))},
	}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	results, err := ctx.Analyse(context.Background(), program, nil, directives)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "add", results[0].Name)
	assert.Len(t, results[0].Cases, 1)

	cs := results[0].Cases[0]
	assert.Equal(t, "both literal", cs.Case)
	assert.True(t, types.Equal(cs.Value, types.LitNum(3)))
	assert.True(t, cs.Passed)
}

// function broken() { return 1 } with an @case asserting the wrong value
// must surface Passed=false rather than erroring.
func TestAnalyseCaseMismatchFails(t *testing.T) {
	brokenDecl := fnDecl("broken", nil, block(ret(&ast.Literal{Value: 1.0})))
	program := &ast.Program{Body: []ast.Statement{brokenDecl}}
	directives := map[ast.Node]directive.List{
		brokenDecl: {directive.Case("wrong", nil, types.LitNum(2))},
	}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	results, err := ctx.Analyse(context.Background(), program, nil, directives)
	assert.NoError(t, err)
	assert.False(t, results[0].Cases[0].Passed)
}

// function useFlag(){ return FEATURE_FLAG } with FEATURE_FLAG mocked to a
// fixed literal via @mock, overriding the externally-bound value.
func TestAnalyseMockReplacesBinding(t *testing.T) {
	useFlagDecl := fnDecl("useFlag", nil, block(ret(ident("FEATURE_FLAG"))))
	program := &ast.Program{Body: []ast.Statement{useFlagDecl}}
	directives := map[ast.Node]directive.List{
		useFlagDecl: {
			directive.Case("mocked", nil, types.LitBoolVal(true)),
			directive.Mock("FEATURE_FLAG", types.LitBoolVal(true)),
		},
	}
	externalEnv := map[string]types.Value{
		"FEATURE_FLAG": types.LitBoolVal(false),
	}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	results, err := ctx.Analyse(context.Background(), program, externalEnv, directives)
	assert.NoError(t, err)
	assert.True(t, results[0].Cases[0].Passed)
	assert.True(t, types.Equal(results[0].Cases[0].Value, types.LitBoolVal(true)))
}

func TestCallFunctionDirectInvocation(t *testing.T) {
	squareDecl := fnDecl("square", []ast.Pattern{ident("x")},
		block(ret(&ast.BinaryExpression{Operator: "*", Left: ident("x"), Right: ident("x")})))
	program := &ast.Program{Body: []ast.Statement{squareDecl}}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	_, err := ctx.Analyse(context.Background(), program, nil, nil)
	assert.NoError(t, err)

	fn := types.Function{Name: "square", Params: squareDecl.Params, Body: squareDecl.Body}
	result := ctx.CallFunction(context.Background(), fn, []types.Value{types.LitNum(4)})
	assert.True(t, types.Equal(result.Value, types.LitNum(16)))
}

// function callHost(){ return hostEffect() } with @skip{returns: "ok"} on
// callHost's own host-effect callee — callHost's case must see the
// declared return type without the callee's body ever running.
func TestAnalyseSkipDirectiveBypassesBody(t *testing.T) {
	hostEffectDecl := fnDecl("hostEffect", nil, block(ret(&ast.Literal{Value: "should not run"})))
	callHostDecl := fnDecl("callHost", nil, block(ret(&ast.CallExpression{Callee: ident("hostEffect")})))
	program := &ast.Program{Body: []ast.Statement{hostEffectDecl, callHostDecl}}

	directives := map[ast.Node]directive.List{
		hostEffectDecl: {directive.Skip(types.LitStr("ok"))},
		callHostDecl:   {directive.Case("skipped callee", nil, types.LitStr("ok"))},
	}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	results, err := ctx.Analyse(context.Background(), program, nil, directives)
	assert.NoError(t, err)
	assert.Len(t, results, 1, "only callHost carries a @case; hostEffect is skip-only")
	assert.True(t, results[0].Cases[0].Passed)
	assert.True(t, types.Equal(results[0].Cases[0].Value, types.LitStr("ok")))
}

func TestResetCachesClearsCollector(t *testing.T) {
	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	program := &ast.Program{Body: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.Literal{Value: 1.0, Loc: ast.Position{Line: 1, Column: 1}}},
	}}
	_, err := ctx.Analyse(context.Background(), program, nil, nil)
	assert.NoError(t, err)
	_, ok := ctx.TypeAtPosition(program, 1, 1, nil)
	assert.True(t, ok)

	ctx.ResetCaches()
	_, ok = ctx.TypeAtPosition(program, 1, 1, nil)
	assert.False(t, ok)
}

func TestCompletionsAtPositionListsScopeBindings(t *testing.T) {
	fn := fnDecl("greet", []ast.Pattern{ident("name")},
		block(
			&ast.VariableDeclaration{Kind: "let", Declarations: []*ast.VariableDeclarator{
				{ID: ident("greeting"), Init: &ast.Literal{Value: "hi"}},
			}},
			ret(ident("greeting")),
		))
	program := &ast.Program{Body: []ast.Statement{fn}}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	completions := ctx.CompletionsAtPosition(program, 1, 1)

	var labels []string
	for _, c := range completions {
		labels = append(labels, c.Label)
	}
	assert.Contains(t, labels, "greet")
	assert.Contains(t, labels, "name")
	assert.Contains(t, labels, "greeting")
}

func TestCompletionsAtPositionListsStringMethods(t *testing.T) {
	declPos := ast.Position{Line: 1, Column: 1}
	initPos := ast.Position{Line: 1, Column: 10}
	memberPos := ast.Position{Line: 2, Column: 1}
	objPos := ast.Position{Line: 2, Column: 2}
	member := &ast.MemberExpression{Loc: memberPos, Object: &ast.Identifier{Loc: objPos, Name: "s"}, PropertyName: ""}
	program := &ast.Program{Body: []ast.Statement{
		&ast.VariableDeclaration{Loc: declPos, Kind: "let", Declarations: []*ast.VariableDeclarator{
			{ID: ident("s"), Init: &ast.Literal{Loc: initPos, Value: "hi"}},
		}},
		&ast.ExpressionStatement{Loc: memberPos, Expression: member},
	}}

	ctx := New(config.NewOptions(), modresolve.NoneResolver{})
	_, err := ctx.Analyse(context.Background(), program, nil, nil)
	assert.NoError(t, err)

	completions := ctx.CompletionsAtPosition(program, 2, 1)
	var labels []string
	for _, c := range completions {
		labels = append(labels, c.Label)
	}
	assert.Contains(t, labels, "toUpperCase")
}
