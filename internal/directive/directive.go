// Package directive defines the typed payloads analyse() consumes per
// top-level statement (spec.md §6). Extraction from `@case`/`@mock`/
// `@pure`/`@skip`/`@sample`/`@returns` source comments is an external
// collaborator's job — this package only models what survives extraction.
package directive

import "github.com/funvibe/typeflow/internal/types"

// Kind discriminates the six directive shapes spec.md §6 names.
type Kind int

const (
	KindCase Kind = iota
	KindMock
	KindPure
	KindSkip
	KindSample
	KindReturns
)

func (k Kind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindMock:
		return "mock"
	case KindPure:
		return "pure"
	case KindSkip:
		return "skip"
	case KindSample:
		return "sample"
	case KindReturns:
		return "returns"
	default:
		return "unknown"
	}
}

// Directive is one parsed `@`-comment attached to a top-level statement.
// Only the fields relevant to Kind are populated; zero values elsewhere.
type Directive struct {
	Kind Kind

	// case{name, args, expected?}
	CaseName     string
	Args         []types.Value
	Expected     types.Value // nil when absent

	// mock{name, expression | modulePath}
	MockName       string
	MockExpression types.Value // nil when MockModulePath is set instead
	MockModulePath string

	// skip{returns?}
	SkipReturns types.Value // nil when absent

	// sample{count}
	SampleCount int

	// returns{expected}
	ReturnsExpected types.Value
}

// Case constructs a `@case` directive.
func Case(name string, args []types.Value, expected types.Value) Directive {
	return Directive{Kind: KindCase, CaseName: name, Args: args, Expected: expected}
}

// Mock constructs a `@mock` directive bound to an inline expression type.
func Mock(name string, expression types.Value) Directive {
	return Directive{Kind: KindMock, MockName: name, MockExpression: expression}
}

// MockModule constructs a `@mock` directive bound to a replacement module path.
func MockModule(name, modulePath string) Directive {
	return Directive{Kind: KindMock, MockName: name, MockModulePath: modulePath}
}

// Pure constructs a `@pure` directive.
func Pure() Directive { return Directive{Kind: KindPure} }

// Skip constructs a `@skip` directive, optionally pre-declaring its return type.
func Skip(returns types.Value) Directive { return Directive{Kind: KindSkip, SkipReturns: returns} }

// Sample constructs a `@sample` directive overriding the loop sample count.
func Sample(count int) Directive { return Directive{Kind: KindSample, SampleCount: count} }

// Returns constructs a `@returns` directive asserting an expected return type.
func Returns(expected types.Value) Directive {
	return Directive{Kind: KindReturns, ReturnsExpected: expected}
}

// List is the directive set attached to one top-level statement (function
// declaration, typically). Lookup helpers let evalcore ask "is this
// function pure / skipped / sampled at N / has cases" without re-scanning.
type List []Directive

// IsPure reports whether a `@pure` directive is present.
func (l List) IsPure() bool {
	for _, d := range l {
		if d.Kind == KindPure {
			return true
		}
	}
	return false
}

// Skip returns the `@skip` directive, if any.
func (l List) Skip() (Directive, bool) {
	for _, d := range l {
		if d.Kind == KindSkip {
			return d, true
		}
	}
	return Directive{}, false
}

// SampleCount returns the `@sample` override, if any.
func (l List) SampleCount() (int, bool) {
	for _, d := range l {
		if d.Kind == KindSample {
			return d.SampleCount, true
		}
	}
	return 0, false
}

// Cases returns every `@case` directive, in source order.
func (l List) Cases() []Directive {
	var out []Directive
	for _, d := range l {
		if d.Kind == KindCase {
			out = append(out, d)
		}
	}
	return out
}

// Mocks returns every `@mock` directive keyed by the name it replaces.
func (l List) Mocks() map[string]Directive {
	out := make(map[string]Directive)
	for _, d := range l {
		if d.Kind == KindMock {
			out[d.MockName] = d
		}
	}
	return out
}

// ReturnsAssertion returns the `@returns` directive, if any.
func (l List) ReturnsAssertion() (Directive, bool) {
	for _, d := range l {
		if d.Kind == KindReturns {
			return d, true
		}
	}
	return Directive{}, false
}
