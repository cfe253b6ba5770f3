// Package config holds tunables shared across the analyser: sampling
// budgets, widening caps, and the test-mode determinism switch.
package config

// IsTestMode makes object identity tokens deterministic (a counter instead
// of UUIDs, see types.NewObjectID). Memo keys do not depend on it. It
// defaults to false and no test in this module sets it.
var IsTestMode = false

const (
	// DefaultSampleCount is the loop-unroll budget used when a for/while
	// loop's bounds are concretely decidable. A `@sample` directive can be
	// expressed (directive.Sample), but the evaluator does not read it:
	// every loop uses Options.SampleCount.
	DefaultSampleCount = 3

	// DefaultUnionCap bounds union cardinality before forced widening to a
	// common super-primitive (spec.md §4.5, §9 open question #3).
	DefaultUnionCap = 24

	// DefaultFixedPointCap bounds widening-fixed-point iterations: both for
	// loops whose bounds are not concretely decidable, and for re-running a
	// recursive `@pure` call until its memoised result stops changing
	// (spec.md §9 open question #4).
	DefaultFixedPointCap = 8
)

// Options carries the tunables an AnalyserContext is constructed with.
// Zero value is invalid; use NewOptions for defaults.
type Options struct {
	SampleCount   int `yaml:"sampleCount,omitempty"`
	UnionCap      int `yaml:"unionCap,omitempty"`
	FixedPointCap int `yaml:"fixedPointCap,omitempty"`
}

// NewOptions returns the documented default tunables.
func NewOptions() Options {
	return Options{
		SampleCount:   DefaultSampleCount,
		UnionCap:      DefaultUnionCap,
		FixedPointCap: DefaultFixedPointCap,
	}
}

// WithDefaults fills any zero-valued field with its documented default.
// Used after decoding a partial YAML override document.
func (o Options) WithDefaults() Options {
	out := o
	if out.SampleCount <= 0 {
		out.SampleCount = DefaultSampleCount
	}
	if out.UnionCap <= 0 {
		out.UnionCap = DefaultUnionCap
	}
	if out.FixedPointCap <= 0 {
		out.FixedPointCap = DefaultFixedPointCap
	}
	return out
}
