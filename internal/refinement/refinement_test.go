package refinement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/typeflow/internal/types"
)

func TestTemplateStartsWithScenario(t *testing.T) {
	// spec.md §8 scenario 5: "0x" + x with x: String
	tmpl := Build([]TemplatePart{
		{Fixed: "0x", IsFixed: true},
		{Abstract: types.String},
	})
	refined, ok := tmpl.(types.Refined)
	if !ok {
		t.Fatalf("expected Refined, got %T", tmpl)
	}
	ts := refined.Refinement.(*TemplateString)

	r1 := ts.Method("startsWith", refined, []types.Value{types.LitStr("0")})
	assert.True(t, r1.Applicable)
	assert.True(t, types.Equal(r1.Value, types.True))

	r2 := ts.Method("startsWith", refined, []types.Value{types.LitStr("y")})
	assert.True(t, r2.Applicable)
	assert.True(t, types.Equal(r2.Value, types.False))

	r3 := ts.Method("startsWith", refined, []types.Value{types.LitStr("0xZ")})
	assert.True(t, r3.Applicable)
	assert.True(t, types.Equal(r3.Value, types.Boolean))
}

func TestTemplateAllLiteralCollapses(t *testing.T) {
	v := Build([]TemplatePart{{Fixed: "a", IsFixed: true}, {Fixed: "b", IsFixed: true}})
	assert.True(t, types.Equal(v, types.LitStr("ab")))
}

func TestTemplateCheckMembership(t *testing.T) {
	tmpl := Build([]TemplatePart{{Fixed: "0x", IsFixed: true}, {Abstract: types.String}})
	refined := tmpl.(types.Refined)
	assert.True(t, types.Subtype(types.LitStr("0xFF"), refined))
	assert.False(t, types.Subtype(types.LitStr("yFF"), refined))
}

func TestRangeCollapsesToLiteralWhenMinEqualsMax(t *testing.T) {
	min, max := 5.0, 5.0
	v := NewRange(&min, &max, true)
	assert.True(t, types.Equal(v, types.LitNum(5)))
}

func TestRangeComparisonDecidable(t *testing.T) {
	min, max := 0.0, 10.0
	v := NewRange(&min, &max, false)
	refined := v.(types.Refined)
	nr := refined.Refinement.(*NumericRange)

	lt20 := nr.Operator("<", refined, types.LitNum(20).(types.Literal))
	assert.True(t, lt20.Applicable)
	assert.True(t, types.Equal(lt20.Value, types.True))

	ltNeg1 := nr.Operator("<", refined, types.LitNum(-1).(types.Literal))
	assert.True(t, ltNeg1.Applicable)
	assert.True(t, types.Equal(ltNeg1.Value, types.False))

	ltMid := nr.Operator("<", refined, types.LitNum(5).(types.Literal))
	assert.False(t, ltMid.Applicable)
}
