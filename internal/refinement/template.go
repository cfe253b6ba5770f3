// Package refinement implements the two built-in Refinement kinds spec.md
// §4.2 names: template strings and numeric ranges. Both implement
// types.Refinement so internal/ops can dispatch through them uniformly.
package refinement

import (
	"strings"

	"github.com/funvibe/typeflow/internal/types"
)

// TemplatePart is one segment of a template string's meta.parts sequence:
// either a fixed literal run or an abstract TypeValue slot.
type TemplatePart struct {
	Fixed    string
	IsFixed  bool
	Abstract types.Value
}

// TemplateString is the built-in "template string" refinement: an
// alternating sequence of fixed segments and abstract values.
type TemplateString struct {
	Parts []TemplatePart
}

func (t *TemplateString) Name() string { return "template" }

func (t *TemplateString) SameKind(other types.Refinement) bool {
	_, ok := other.(*TemplateString)
	return ok
}

// Check matches lit against the fixed segments anchored at their known
// positions, treating abstract slots as wildcards (spec.md §4.2).
func (t *TemplateString) Check(lit types.Literal) bool {
	if lit.Kind != types.LitString {
		return false
	}
	return matchFrom(lit.Str, t.Parts)
}

func matchFrom(s string, parts []TemplatePart) bool {
	if len(parts) == 0 {
		return s == ""
	}
	head, rest := parts[0], parts[1:]
	if head.IsFixed {
		if !strings.HasPrefix(s, head.Fixed) {
			return false
		}
		return matchFrom(s[len(head.Fixed):], rest)
	}
	// Abstract slot: try every split point (bounded by len(s)+1, small in practice).
	for i := 0; i <= len(s); i++ {
		if matchFrom(s[i:], rest) {
			return true
		}
	}
	return false
}

// Build constructs the template-string TypeValue from raw parts, applying
// the collapse rules of spec.md §4.2: merge adjacent fixed parts; an
// all-fixed sequence collapses to a single Literal; a sole abstract String
// part collapses to the primitive String.
func Build(parts []TemplatePart) types.Value {
	merged := mergeAdjacentFixed(parts)
	if allFixed(merged) {
		var b strings.Builder
		for _, p := range merged {
			b.WriteString(p.Fixed)
		}
		return types.LitStr(b.String())
	}
	if len(merged) == 1 && !merged[0].IsFixed {
		if p, ok := merged[0].Abstract.(types.Primitive); ok && p.Tag == "string" {
			return types.String
		}
	}
	return types.NewRefined(types.String, &TemplateString{Parts: merged})
}

func mergeAdjacentFixed(parts []TemplatePart) []TemplatePart {
	var out []TemplatePart
	for _, p := range parts {
		if p.IsFixed && len(out) > 0 && out[len(out)-1].IsFixed {
			out[len(out)-1].Fixed += p.Fixed
			continue
		}
		out = append(out, p)
	}
	return out
}

func allFixed(parts []TemplatePart) bool {
	for _, p := range parts {
		if !p.IsFixed {
			return false
		}
	}
	return true
}

// Concat implements the "+" concatenation rule: two templates concatenate
// by part concatenation; a Literal string RHS/LHS becomes a fixed part; a
// bare String primitive becomes an abstract part.
func Concat(left, right types.Value) (types.Value, bool) {
	leftParts, ok := partsOf(left)
	if !ok {
		return nil, false
	}
	rightParts, ok := partsOf(right)
	if !ok {
		return nil, false
	}
	return Build(append(append([]TemplatePart{}, leftParts...), rightParts...)), true
}

func partsOf(v types.Value) ([]TemplatePart, bool) {
	switch t := v.(type) {
	case types.Refined:
		if ts, ok := t.Refinement.(*TemplateString); ok {
			return ts.Parts, true
		}
		return nil, false
	case types.Literal:
		if t.Kind == types.LitString {
			return []TemplatePart{{Fixed: t.Str, IsFixed: true}}, true
		}
		return nil, false
	case types.Primitive:
		if t.Tag == "string" {
			return []TemplatePart{{Abstract: v}}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func (t *TemplateString) Operator(op string, self types.Refined, other types.Value) types.DispatchResult {
	if op != "+" {
		return types.NotApplicable
	}
	combined, ok := Concat(self, other)
	if !ok {
		return types.NotApplicable
	}
	return types.Applicable(combined)
}

// fixedPrefix returns the longest run of fixed text from the start of the
// template, and whether that run already reaches the end (i.e. the whole
// template is fixed — which Build would already have collapsed, so this is
// always false for a live TemplateString, but kept defensive).
func (t *TemplateString) fixedPrefix() (string, bool) {
	if len(t.Parts) == 0 || !t.Parts[0].IsFixed {
		return "", false
	}
	return t.Parts[0].Fixed, len(t.Parts) == 1
}

func (t *TemplateString) fixedSuffix() (string, bool) {
	if len(t.Parts) == 0 {
		return "", false
	}
	last := t.Parts[len(t.Parts)-1]
	if !last.IsFixed {
		return "", false
	}
	return last.Fixed, len(t.Parts) == 1
}

func (t *TemplateString) concatenatedFixedText() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.IsFixed {
			b.WriteString(p.Fixed)
		}
	}
	return b.String()
}

func (t *TemplateString) Method(name string, self types.Refined, args []types.Value) types.DispatchResult {
	switch name {
	case "startsWith":
		needle, ok := stringLiteralArg(args)
		if !ok {
			return types.NotApplicable
		}
		prefix, _ := t.fixedPrefix()
		return decidePrefixSuffix(prefix, needle, true)
	case "endsWith":
		needle, ok := stringLiteralArg(args)
		if !ok {
			return types.NotApplicable
		}
		suffix, _ := t.fixedSuffix()
		return decidePrefixSuffix(suffix, needle, false)
	case "includes":
		needle, ok := stringLiteralArg(args)
		if !ok {
			return types.NotApplicable
		}
		if strings.Contains(t.concatenatedFixedText(), needle) {
			return types.Applicable(types.True)
		}
		return types.Applicable(types.Boolean)
	}
	return types.NotApplicable
}

func stringLiteralArg(args []types.Value) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	lit, ok := args[0].(types.Literal)
	if !ok || lit.Kind != types.LitString {
		return "", false
	}
	return lit.Str, true
}

// decidePrefixSuffix decides startsWith (fromStart=true) / endsWith
// (fromStart=false) against a known fixed run, per spec.md §4.2/§8
// scenario 5: decidable when the needle is fully within the known run, or
// when it already mismatches within that run; otherwise Boolean.
func decidePrefixSuffix(known, needle string, fromStart bool) types.DispatchResult {
	if known == "" {
		return types.NotApplicable
	}
	compareLen := len(needle)
	if compareLen > len(known) {
		compareLen = len(known)
	}
	var knownSlice, needleSlice string
	if fromStart {
		knownSlice, needleSlice = known[:compareLen], needle[:compareLen]
	} else {
		knownSlice, needleSlice = known[len(known)-compareLen:], needle[len(needle)-compareLen:]
	}
	if knownSlice != needleSlice {
		return types.Applicable(types.False)
	}
	if len(needle) <= len(known) {
		return types.Applicable(types.True)
	}
	return types.Applicable(types.Boolean)
}

func (t *TemplateString) Property(name string, self types.Refined) types.DispatchResult {
	if name != "length" {
		return types.NotApplicable
	}
	minLen := 0
	for _, p := range t.Parts {
		if p.IsFixed {
			minLen += len(p.Fixed)
		}
	}
	min := float64(minLen)
	return types.Applicable(NewRange(&min, nil, false))
}
