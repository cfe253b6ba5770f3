// Package collector implements spec.md §4.6/§6's two analysis-time hooks:
// recording the TypeValue the evaluator computed for each AST node, and
// recording source ranges marked unreachable (the statements following an
// unconditional Throw/Return). Grounded on the teacher's
// `Evaluator.TypeMap map[ast.Node]typesystem.Type` field and
// `cmd/lsp/module_analysis.go`'s node-to-type table building, mined for
// the data shape rather than the LSP transport.
package collector

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/types"
)

// record is one node's recorded type, ordered by its start position so
// typeAtPosition/completionsAtPosition can binary-search for the
// narrowest enclosing range (spec.md §6 item 3).
type record struct {
	pos  ast.Position
	node ast.Node
	typ  types.Value
}

// Collector accumulates per-node types and unreachable ranges for one
// analysis pass. It is one of the three explicitly resettable caches of
// spec.md §5.
type Collector struct {
	records     []record
	sorted      bool
	unreachable []ast.Position
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Reset clears all recorded state (spec.md §6 resetCaches).
func (c *Collector) Reset() {
	c.records = nil
	c.sorted = false
	c.unreachable = nil
}

// Record stores the TypeValue computed for node. Called by the evaluator
// after evaluating every expression and statement (spec.md §4.6).
func (c *Collector) Record(node ast.Node, v types.Value) {
	if node == nil {
		return
	}
	c.records = append(c.records, record{pos: node.Pos(), node: node, typ: v})
	c.sorted = false
}

// MarkUnreachable records that stmt's position is dead code, reached
// after an unconditional Throw/Return (spec.md §4.6 "composition").
func (c *Collector) MarkUnreachable(stmt ast.Statement) {
	if stmt == nil {
		return
	}
	c.unreachable = append(c.unreachable, stmt.Pos())
}

// UnreachableRanges returns every recorded unreachable position.
func (c *Collector) UnreachableRanges() []ast.Position {
	return append([]ast.Position(nil), c.unreachable...)
}

func (c *Collector) ensureSorted() {
	if c.sorted {
		return
	}
	slices.SortStableFunc(c.records, func(a, b record) int {
		if a.pos.Line != b.pos.Line {
			return a.pos.Line - b.pos.Line
		}
		return a.pos.Column - b.pos.Column
	})
	c.sorted = true
}

// TypeAtPosition returns the TypeValue of the innermost recorded node
// starting exactly at (line, column) (spec.md §6 item 3). When no node
// starts there, it returns the type of the last record, in sorted order,
// that starts before the query point.
func (c *Collector) TypeAtPosition(line, column int) (types.Value, bool) {
	c.ensureSorted()
	target := ast.Position{Line: line, Column: column}
	idx, found := slices.BinarySearchFunc(c.records, record{pos: target}, func(a, b record) int {
		if a.pos.Line != b.pos.Line {
			return a.pos.Line - b.pos.Line
		}
		return a.pos.Column - b.pos.Column
	})
	if found {
		return narrowestAt(c.records, idx), true
	}
	if idx == 0 {
		return nil, false
	}
	return c.records[idx-1].typ, true
}

// narrowestAt returns the type of the first-recorded node exactly at
// records[idx]'s position, idx being the first index at that position.
// The evaluator records a node after its children and the sort is stable,
// so among nodes sharing a start position the earliest record is the
// innermost one.
func narrowestAt(records []record, idx int) types.Value {
	return records[idx].typ
}

// NodesAt returns every node recorded at exactly the given position, used
// by completionsAtPosition to find the identifier/member-expression under
// the cursor without re-walking the AST.
func (c *Collector) NodesAt(line, column int) []ast.Node {
	c.ensureSorted()
	target := ast.Position{Line: line, Column: column}
	i := sort.Search(len(c.records), func(i int) bool {
		p := c.records[i].pos
		return p.Line > target.Line || (p.Line == target.Line && p.Column >= target.Column)
	})
	var out []ast.Node
	for ; i < len(c.records) && c.records[i].pos == target; i++ {
		out = append(out, c.records[i].node)
	}
	return out
}
