package evalcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

func classMethod(kind, name string, params []ast.Pattern, body *ast.BlockStatement) *ast.ClassMethod {
	return &ast.ClassMethod{Kind: kind, Key: ident(name), Params: params, Body: body}
}

func thisMember(name string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: &ast.ThisExpression{}, PropertyName: name}
}

// class Point { constructor(x){ this.x = x } double(){ return this.x + this.x } }
func TestClassMethodIsCallableInstanceProp(t *testing.T) {
	ctor := classMethod("constructor", "constructor", []ast.Pattern{ident("x")},
		block(&ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
			Operator: "=", Left: thisMember("x"), Right: ident("x"),
		}}))
	double := classMethod("method", "double", nil,
		block(ret(binExpr("+", thisMember("x"), thisMember("x")))))

	program := &ast.Program{Body: []ast.Statement{
		&ast.ClassDeclaration{ID: ident("Point"), Methods: []*ast.ClassMethod{ctor, double}},
	}}

	ev := newEvaluator()
	env := environment.New()
	out := ev.EvalProgram(context.Background(), program, env)
	assert.True(t, isNever(out.Throw))

	newExpr := &ast.NewExpression{Callee: ident("Point"), Arguments: []ast.Expression{numLit(21)}}
	result := ev.EvalExpr(context.Background(), newExpr, env)
	assert.False(t, result.threw())

	inst, ok := result.Value.(types.Instance)
	assert.True(t, ok, "new Point(...) must produce an Instance")
	assert.True(t, types.Equal(inst.Props["x"], types.LitNum(21)))

	fn, ok := inst.Props["double"].(types.Function)
	assert.True(t, ok, "double must resolve to a callable Function via a bare property read")

	callResult := ev.Call(context.Background(), fn, nil)
	assert.True(t, types.Equal(callResult.Value, types.LitNum(42)))
}

// class Animal { speak(){ return "..." } }
// class Dog extends Animal { speak(){ return "woof" } }
func TestSubclassMethodOverridesAncestor(t *testing.T) {
	animalSpeak := classMethod("method", "speak", nil, block(ret(&ast.Literal{Value: "..."})))
	dogSpeak := classMethod("method", "speak", nil, block(ret(&ast.Literal{Value: "woof"})))

	program := &ast.Program{Body: []ast.Statement{
		&ast.ClassDeclaration{ID: ident("Animal"), Methods: []*ast.ClassMethod{animalSpeak}},
		&ast.ClassDeclaration{ID: ident("Dog"), SuperClass: ident("Animal"), Methods: []*ast.ClassMethod{dogSpeak}},
	}}

	ev := newEvaluator()
	env := environment.New()
	out := ev.EvalProgram(context.Background(), program, env)
	assert.True(t, isNever(out.Throw))

	result := ev.EvalExpr(context.Background(), &ast.NewExpression{Callee: ident("Dog")}, env)
	assert.False(t, result.threw())
	inst := result.Value.(types.Instance)

	fn := inst.Props["speak"].(types.Function)
	callResult := ev.Call(context.Background(), fn, nil)
	assert.True(t, types.Equal(callResult.Value, types.LitStr("woof")), "Dog's own speak must win over Animal's")
}
