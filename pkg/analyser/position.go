package analyser

import (
	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/types"
)

// TypeAtPosition implements spec.md §6 item 3 from the collector's records
// only: the type of the innermost node recorded at (line, column), or else
// of the last record starting before it. The identifier fallback queries
// the collector again at the identifier's own position, which is the same
// (line, column), so it finds nothing the first query missed; no
// environment or declaration lookup is made.
//
// activeCaseIndexPerFunction is accepted for signature parity with
// spec.md's description (a host stepping through per-function `@case`
// results might want the type as of a specific case), but this collector
// records one pass's worth of types per node — re-run Analyse with that
// case's directives isolated to see a different case's inferred types.
func (c *Context) TypeAtPosition(program *ast.Program, line, column int, activeCaseIndexPerFunction map[string]int) (types.Value, bool) {
	if v, ok := c.ev.Collector.TypeAtPosition(line, column); ok {
		return v, true
	}
	if ident := identifierAt(program, line, column); ident != nil {
		if v, ok := c.ev.Collector.TypeAtPosition(ident.Loc.Line, ident.Loc.Column); ok {
			return v, true
		}
	}
	return nil, false
}

// identifierAt walks program looking for an *ast.Identifier node whose
// own position is exactly (line, column); TypeAtPosition uses it as its
// fallback when the collector has no record for the query.
func identifierAt(program *ast.Program, line, column int) *ast.Identifier {
	var found *ast.Identifier
	walkProgram(program, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := n.(*ast.Identifier); ok {
			if id.Loc.Line == line && id.Loc.Column == column {
				found = id
				return false
			}
		}
		return true
	})
	return found
}
