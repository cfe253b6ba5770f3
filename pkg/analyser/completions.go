package analyser

import (
	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/types"
)

// CompletionKind discriminates the three shapes spec.md §6 item 4 names.
type CompletionKind string

const (
	KindProperty CompletionKind = "property"
	KindMethod   CompletionKind = "method"
	KindVariable CompletionKind = "variable"
)

// Completion is one suggestion returned by CompletionsAtPosition.
type Completion struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// beforeOrAt reports whether p starts at or before (line, column), the
// ordering walkProgram's traversal already follows (spec.md §5 evaluation
// order) and the same comparison collector.go uses for its narrowest-
// enclosing-node search.
func beforeOrAt(p ast.Position, line, column int) bool {
	return p.Line < line || (p.Line == line && p.Column <= column)
}

// CompletionsAtPosition implements spec.md §6 item 4. Our AST shape
// carries only a start Position per node (no end span — parsing is an
// external collaborator, spec.md §1), so "enclosing" is approximated as
// "the candidate with the latest start position not after the cursor" —
// the same heuristic collector.go's TypeAtPosition already relies on for
// typeAtPosition. For `identifier.` prefixes this finds the innermost
// non-computed MemberExpression and lists its Object's dispatched
// property/method set; otherwise it lists in-scope bindings (parameters
// and declarations that textually precede the cursor in the innermost
// enclosing function, plus every top-level declaration).
func (c *Context) CompletionsAtPosition(program *ast.Program, line, column int) []Completion {
	if member := latestMemberExpression(program, line, column); member != nil {
		if objType, ok := c.ev.Collector.TypeAtPosition(member.Object.Pos().Line, member.Object.Pos().Column); ok {
			return completionsForType(objType)
		}
		return nil
	}
	return scopeCompletions(program, line, column)
}

func latestMemberExpression(program *ast.Program, line, column int) *ast.MemberExpression {
	var best *ast.MemberExpression
	walkProgram(program, func(n ast.Node) bool {
		m, ok := n.(*ast.MemberExpression)
		if !ok || m.Computed {
			return true
		}
		if !beforeOrAt(m.Pos(), line, column) {
			return true
		}
		if best == nil || posLess(best.Pos(), m.Pos()) {
			best = m
		}
		return true
	})
	return best
}

func posLess(a, b ast.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// completionsForType lists the dispatched property/method names for every
// member of (a possibly-union) objType, mirroring the built-in dispatch
// tables of internal/ops/strings.go, arrays.go, objects.go (spec.md §4.1)
// plus, for Object/Instance values, each concretely-known key.
func completionsForType(objType types.Value) []Completion {
	seen := map[string]bool{}
	var out []Completion
	add := func(label string, kind CompletionKind, detail string) {
		key := string(kind) + ":" + label
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Completion{Label: label, Kind: kind, Detail: detail})
	}
	for _, m := range types.Members(objType) {
		switch v := m.(type) {
		case types.Object:
			for _, k := range v.Keys {
				add(k, KindProperty, v.Get(k).String())
			}
		case types.Instance:
			for name, prop := range v.Props {
				if _, isFn := underlyingFunctionValue(prop); isFn {
					add(name, KindMethod, v.ClassName+"."+name+"()")
				} else {
					add(name, KindProperty, prop.String())
				}
			}
		case types.Literal:
			if v.Kind == types.LitString {
				for _, name := range stringMethodNames {
					add(name, KindMethod, "string."+name+"()")
				}
			}
		case types.Primitive:
			if v.Tag == "string" {
				for _, name := range stringMethodNames {
					add(name, KindMethod, "string."+name+"()")
				}
			}
		case types.Tuple:
			for _, name := range arrayMethodNames {
				add(name, KindMethod, "array."+name+"()")
			}
			add("length", KindProperty, "number")
		case types.Array:
			for _, name := range arrayMethodNames {
				add(name, KindMethod, "array."+name+"()")
			}
			add("length", KindProperty, "number")
		}
	}
	return out
}

func underlyingFunctionValue(v types.Value) (types.Function, bool) {
	switch t := v.(type) {
	case types.Function:
		return t, true
	case types.Refined:
		return underlyingFunctionValue(t.Base)
	default:
		return types.Function{}, false
	}
}

// stringMethodNames/arrayMethodNames mirror the method-name sets
// internal/ops/strings.go's stringMethod and internal/ops/arrays.go's
// arrayMethod switches dispatch on — duplicated here rather than
// exported from ops, since ops intentionally exposes only CallMethod/
// Method (behavior), not a name inventory (data for a different
// consumer: a completion list, not the evaluator).
var stringMethodNames = []string{
	"toUpperCase", "toLowerCase", "trim", "trimStart", "trimEnd",
	"charAt", "charCodeAt", "at", "startsWith", "endsWith", "includes",
	"indexOf", "lastIndexOf", "slice", "substring", "split", "replace",
	"replaceAll", "repeat", "padStart", "padEnd", "concat",
}

var arrayMethodNames = []string{
	"map", "filter", "forEach", "find", "some", "every", "reduce",
	"flatMap", "includes", "indexOf", "join", "slice", "concat", "push",
}

// scopeCompletions lists every top-level function/class/variable
// declaration, plus — for the innermost enclosing function whose start
// precedes the cursor — its parameters and the local declarations that
// textually precede the cursor within it (spec.md §6 item 4 "in-scope
// bindings"). This only approximates true block scoping (no end-position
// data is available to bound a function's extent), the same limitation
// the `beforeOrAt` heuristic carries throughout this file.
func scopeCompletions(program *ast.Program, line, column int) []Completion {
	seen := map[string]bool{}
	var out []Completion
	add := func(label string, kind CompletionKind, detail string) {
		if seen[label] {
			return
		}
		seen[label] = true
		out = append(out, Completion{Label: label, Kind: kind, Detail: detail})
	}

	for _, stmt := range program.Body {
		addTopLevelDecl(stmt, add)
	}

	fn := innermostEnclosingFunction(program, line, column)
	if fn == nil {
		return out
	}
	for _, p := range fn.Params {
		addPatternNames(p, "parameter", add)
	}
	collectPrecedingLocals(fn.Body.Body, line, column, add)
	return out
}

func addTopLevelDecl(stmt ast.Statement, add func(string, CompletionKind, string)) {
	switch n := stmt.(type) {
	case *ast.FunctionDeclaration:
		if n.ID != nil {
			add(n.ID.Name, KindVariable, "function")
		}
	case *ast.ClassDeclaration:
		if n.ID != nil {
			add(n.ID.Name, KindVariable, "class")
		}
	case *ast.VariableDeclaration:
		for _, d := range n.Declarations {
			addPatternNames(d.ID, string(n.Kind), add)
		}
	case *ast.ExportNamedDeclaration:
		if n.Declaration != nil {
			addTopLevelDecl(n.Declaration, add)
		}
	case *ast.ImportDeclaration:
		for _, spec := range n.Specifiers {
			if spec.Local != nil {
				add(spec.Local.Name, KindVariable, "import")
			}
		}
	}
}

func addPatternNames(p ast.Pattern, detail string, add func(string, CompletionKind, string)) {
	switch n := p.(type) {
	case *ast.Identifier:
		add(n.Name, KindVariable, detail)
	case *ast.AssignmentPattern:
		addPatternNames(n.Left, detail, add)
	case *ast.RestElement:
		addPatternNames(n.Element, detail, add)
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			addPatternNames(prop.Value, detail, add)
		}
		if n.Rest != nil {
			addPatternNames(n.Rest, detail, add)
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				addPatternNames(el, detail, add)
			}
		}
		if n.Rest != nil {
			addPatternNames(n.Rest, detail, add)
		}
	}
}

// innermostEnclosingFunction picks the function declaration with the
// latest start position not after the cursor. Function expressions, arrow
// functions and class methods are not considered.
func innermostEnclosingFunction(program *ast.Program, line, column int) *ast.FunctionDeclaration {
	var best *ast.FunctionDeclaration
	walkProgram(program, func(n ast.Node) bool {
		fn, ok := n.(*ast.FunctionDeclaration)
		if !ok || fn.Body == nil || !beforeOrAt(fn.Pos(), line, column) {
			return true
		}
		if best == nil || posLess(best.Pos(), fn.Pos()) {
			best = fn
		}
		return true
	})
	return best
}

// collectPrecedingLocals walks body's statements (recursing into nested
// blocks/if/for/... bodies) collecting every variable/function
// declaration whose own position precedes the cursor.
func collectPrecedingLocals(body []ast.Statement, line, column int, add func(string, CompletionKind, string)) {
	for _, stmt := range body {
		if !beforeOrAt(stmt.Pos(), line, column) {
			continue
		}
		switch n := stmt.(type) {
		case *ast.VariableDeclaration:
			for _, d := range n.Declarations {
				addPatternNames(d.ID, "local "+string(n.Kind), add)
			}
		case *ast.FunctionDeclaration:
			if n.ID != nil {
				add(n.ID.Name, KindVariable, "function")
			}
		case *ast.BlockStatement:
			collectPrecedingLocals(n.Body, line, column, add)
		case *ast.IfStatement:
			if block, ok := n.Consequent.(*ast.BlockStatement); ok {
				collectPrecedingLocals(block.Body, line, column, add)
			}
			if block, ok := n.Alternate.(*ast.BlockStatement); ok {
				collectPrecedingLocals(block.Body, line, column, add)
			}
		case *ast.ForStatement:
			if block, ok := n.Body.(*ast.BlockStatement); ok {
				collectPrecedingLocals(block.Body, line, column, add)
			}
		case *ast.WhileStatement:
			if block, ok := n.Body.(*ast.BlockStatement); ok {
				collectPrecedingLocals(block.Body, line, column, add)
			}
		case *ast.TryStatement:
			if n.Block != nil {
				collectPrecedingLocals(n.Block.Body, line, column, add)
			}
		}
	}
}
