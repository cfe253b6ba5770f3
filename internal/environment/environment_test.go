package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/types"
)

func TestLookupWalksParentChain(t *testing.T) {
	root := New()
	root.Bind("x", types.LitNum(1))
	child := NewEnclosed(root)
	v, ok := child.Lookup("x")
	assert.True(t, ok)
	assert.True(t, types.Equal(v, types.LitNum(1)))
}

func TestUpdateFindsNearestBindingFrame(t *testing.T) {
	root := New()
	root.Bind("x", types.LitNum(1))
	child := NewEnclosed(root)
	ok := child.Update("x", types.LitNum(2))
	assert.True(t, ok)
	v, _ := root.Lookup("x")
	assert.True(t, types.Equal(v, types.LitNum(2)))
}

func TestUpdateMissingReturnsFalse(t *testing.T) {
	root := New()
	ok := root.Update("missing", types.LitNum(1))
	assert.False(t, ok)
}

func TestObjectAliasingThroughTwoBindings(t *testing.T) {
	env := New()
	obj := types.NewObject([]string{"x"}, map[string]types.Value{"x": types.LitNum(1)})
	env.Bind("a", obj)
	env.Bind("b", obj)

	// const b = a; b.x = v  -- mutation through the shared Props map is
	// visible through both bindings (spec.md §8 object-identity law).
	av, _ := env.Lookup("a")
	av.(types.Object).Props["x"] = types.LitNum(99)

	bv, _ := env.Lookup("b")
	assert.True(t, types.Equal(bv.(types.Object).Props["x"], types.LitNum(99)))
}

func TestForkForBranchIsolatesMutation(t *testing.T) {
	env := New()
	obj := types.NewObject([]string{"x"}, map[string]types.Value{"x": types.LitNum(1)})
	env.Bind("shared", obj)

	trueBranch := ForkForBranch(env)
	falseBranch := ForkForBranch(env)

	tv, _ := trueBranch.Lookup("shared")
	tv.(types.Object).Props["x"] = types.LitNum(2)

	fv, _ := falseBranch.Lookup("shared")
	assert.True(t, types.Equal(fv.(types.Object).Props["x"], types.LitNum(1)), "branch isolation: mutation must not leak")

	ov, _ := env.Lookup("shared")
	assert.True(t, types.Equal(ov.(types.Object).Props["x"], types.LitNum(1)), "pre-fork env must be untouched")
}

func TestMergeBranchesUnionsPerKey(t *testing.T) {
	base := New()
	trueBranch := ForkForBranch(base)
	trueBranch.Bind("y", types.LitNum(1))
	falseBranch := ForkForBranch(base)
	falseBranch.Bind("y", types.LitStr("a"))

	merged := MergeBranches(base, trueBranch, falseBranch)
	y, ok := merged.Lookup("y")
	assert.True(t, ok)
	assert.True(t, types.Equal(y, types.MakeUnion(types.LitNum(1), types.LitStr("a"))))
}

func TestMergeBranchesKeyInOneBranchOnly(t *testing.T) {
	base := New()
	trueBranch := ForkForBranch(base)
	trueBranch.Bind("only", types.LitNum(1))
	falseBranch := ForkForBranch(base)

	merged := MergeBranches(base, trueBranch, falseBranch)
	only, ok := merged.Lookup("only")
	assert.True(t, ok)
	assert.True(t, types.Equal(only, types.MakeUnion(types.LitNum(1), types.Undefined)))
}
