// Package errorhierarchy holds the fixed built-in Error subclass table
// (spec.md §3.2, §9): a small static {child: parent} map consulted by both
// the type lattice's Instance subtyping and the evaluator's `new
// RangeError(...)` handling (via IsBuiltin), so both share one source of
// truth.
package errorhierarchy

// parents maps a built-in Error subclass to its direct parent.
var parents = map[string]string{
	"TypeError":      "Error",
	"SyntaxError":    "Error",
	"RangeError":     "Error",
	"ReferenceError": "Error",
	"URIError":       "Error",
	"EvalError":      "Error",
}

// IsBuiltin reports whether name is one of the fixed built-in Error classes
// (including the root "Error" itself).
func IsBuiltin(name string) bool {
	if name == "Error" {
		return true
	}
	_, ok := parents[name]
	return ok
}

// IsDescendant reports whether child is class name or a (possibly
// transitive) descendant of ancestor in the built-in Error hierarchy.
func IsDescendant(child, ancestor string) bool {
	if child == ancestor {
		return true
	}
	for cur := child; ; {
		parent, ok := parents[cur]
		if !ok {
			return false
		}
		if parent == ancestor {
			return true
		}
		cur = parent
	}
}
