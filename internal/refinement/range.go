package refinement

import "github.com/funvibe/typeflow/internal/types"

// NumericRange is the built-in "numeric range" refinement: an optional
// min/max bound plus an integer-only flag (spec.md §4.2).
type NumericRange struct {
	Min     *float64
	Max     *float64
	Integer bool
}

func (r *NumericRange) Name() string { return "range" }

func (r *NumericRange) SameKind(other types.Refinement) bool {
	_, ok := other.(*NumericRange)
	return ok
}

func (r *NumericRange) Check(lit types.Literal) bool {
	if lit.Kind != types.LitNumber {
		return false
	}
	if r.Integer && lit.Num != float64(int64(lit.Num)) {
		return false
	}
	if r.Min != nil && lit.Num < *r.Min {
		return false
	}
	if r.Max != nil && lit.Num > *r.Max {
		return false
	}
	return true
}

// NewRange constructs the range-refined TypeValue, collapsing to a Literal
// when min == max (spec.md §4.2).
func NewRange(min, max *float64, integer bool) types.Value {
	if min != nil && max != nil && *min == *max {
		return types.LitNum(*min)
	}
	return types.NewRefined(types.Number, &NumericRange{Min: min, Max: max, Integer: integer})
}

func (r *NumericRange) Operator(op string, self types.Refined, other types.Value) types.DispatchResult {
	lit, ok := other.(types.Literal)
	if !ok || lit.Kind != types.LitNumber {
		return types.NotApplicable
	}
	switch op {
	case "<":
		if r.Max != nil && *r.Max < lit.Num {
			return types.Applicable(types.True)
		}
		if r.Min != nil && *r.Min >= lit.Num {
			return types.Applicable(types.False)
		}
	case "<=":
		if r.Max != nil && *r.Max <= lit.Num {
			return types.Applicable(types.True)
		}
		if r.Min != nil && *r.Min > lit.Num {
			return types.Applicable(types.False)
		}
	case ">":
		if r.Min != nil && *r.Min > lit.Num {
			return types.Applicable(types.True)
		}
		if r.Max != nil && *r.Max <= lit.Num {
			return types.Applicable(types.False)
		}
	case ">=":
		if r.Min != nil && *r.Min >= lit.Num {
			return types.Applicable(types.True)
		}
		if r.Max != nil && *r.Max < lit.Num {
			return types.Applicable(types.False)
		}
	}
	return types.NotApplicable
}

func (r *NumericRange) Method(name string, self types.Refined, args []types.Value) types.DispatchResult {
	return types.NotApplicable
}

func (r *NumericRange) Property(name string, self types.Refined) types.DispatchResult {
	return types.NotApplicable
}
