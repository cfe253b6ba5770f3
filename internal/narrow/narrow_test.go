package narrow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

func TestNarrowTypeofNumber(t *testing.T) {
	env := environment.New()
	env.Bind("x", types.MakeUnion(types.Number, types.String))

	test := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.UnaryExpression{Operator: "typeof", Argument: &ast.Identifier{Name: "x"}},
		Right:    &ast.Literal{Value: "number"},
	}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("x")
	fv, _ := fEnv.Lookup("x")
	assert.True(t, types.Equal(tv, types.Number))
	assert.True(t, types.Equal(fv, types.String))
}

func TestNarrowTypeofNegated(t *testing.T) {
	env := environment.New()
	env.Bind("x", types.MakeUnion(types.Number, types.String))
	inner := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.UnaryExpression{Operator: "typeof", Argument: &ast.Identifier{Name: "x"}},
		Right:    &ast.Literal{Value: "number"},
	}
	test := &ast.UnaryExpression{Operator: "!", Argument: inner}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("x")
	fv, _ := fEnv.Lookup("x")
	assert.True(t, types.Equal(tv, types.String))
	assert.True(t, types.Equal(fv, types.Number))
}

func TestNarrowLiteralEquality(t *testing.T) {
	env := environment.New()
	env.Bind("x", types.MakeUnion(types.LitNum(1), types.LitNum(2)))
	test := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.Identifier{Name: "x"},
		Right:    &ast.Literal{Value: float64(1)},
	}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("x")
	fv, _ := fEnv.Lookup("x")
	assert.True(t, types.Equal(tv, types.LitNum(1)))
	assert.True(t, types.Equal(fv, types.LitNum(2)))
}

func TestNarrowLiteralEqualityOnUnknownSubstitutes(t *testing.T) {
	env := environment.New()
	env.Bind("x", types.Unknown)
	test := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.Identifier{Name: "x"},
		Right:    &ast.Literal{Value: float64(1)},
	}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("x")
	fv, _ := fEnv.Lookup("x")
	assert.True(t, types.Equal(tv, types.LitNum(1)))
	assert.True(t, types.Equal(fv, types.Unknown))
}

func TestNarrowInstanceof(t *testing.T) {
	env := environment.New()
	env.Bind("e", types.MakeUnion(types.Instance{ClassName: "RangeError"}, types.Instance{ClassName: "TypeError"}))
	test := &ast.BinaryExpression{
		Operator: "instanceof",
		Left:     &ast.Identifier{Name: "e"},
		Right:    &ast.Identifier{Name: "RangeError"},
	}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("e")
	fv, _ := fEnv.Lookup("e")
	assert.True(t, types.Equal(tv, types.Instance{ClassName: "RangeError"}))
	assert.True(t, types.Equal(fv, types.Instance{ClassName: "TypeError"}))
}

func TestNarrowTruthiness(t *testing.T) {
	env := environment.New()
	env.Bind("x", types.MakeUnion(types.LitStr(""), types.LitStr("hi")))
	test := &ast.Identifier{Name: "x"}
	tEnv, fEnv := Narrow(test, env)
	tv, _ := tEnv.Lookup("x")
	fv, _ := fEnv.Lookup("x")
	assert.True(t, types.Equal(tv, types.LitStr("hi")))
	assert.True(t, types.Equal(fv, types.LitStr("")))
}

func TestNarrowUnrecognisedShapeReturnsSameEnv(t *testing.T) {
	env := environment.New()
	test := &ast.CallExpression{Callee: &ast.Identifier{Name: "foo"}}
	tEnv, fEnv := Narrow(test, env)
	assert.Same(t, env, tEnv)
	assert.Same(t, env, fEnv)
}
