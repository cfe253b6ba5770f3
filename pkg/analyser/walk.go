package analyser

import "github.com/funvibe/typeflow/internal/ast"

// walkProgram visits every node of program depth-first, pre-order, in
// source (left-to-right) order — the same evaluation order spec.md §5
// fixes for the evaluator itself. visit returns false to prune that
// node's children (but sibling traversal continues); walking stops
// entirely once visit has returned false for every remaining candidate,
// which callers achieve by latching a found-flag and returning false from
// then on (see identifierAt).
func walkProgram(p *ast.Program, visit func(ast.Node) bool) {
	if p == nil {
		return
	}
	walkStatements(p.Body, visit)
}

func walkStatements(stmts []ast.Statement, visit func(ast.Node) bool) {
	for _, s := range stmts {
		walkStatement(s, visit)
	}
}

func walkStatement(s ast.Statement, visit func(ast.Node) bool) {
	if s == nil || !visit(s) {
		return
	}
	switch n := s.(type) {
	case *ast.BlockStatement:
		walkStatements(n.Body, visit)
	case *ast.ExpressionStatement:
		walkExpr(n.Expression, visit)
	case *ast.VariableDeclaration:
		for _, d := range n.Declarations {
			walkPattern(d.ID, visit)
			walkExpr(d.Init, visit)
		}
	case *ast.ReturnStatement:
		walkExpr(n.Argument, visit)
	case *ast.ThrowStatement:
		walkExpr(n.Argument, visit)
	case *ast.IfStatement:
		walkExpr(n.Test, visit)
		walkStatement(n.Consequent, visit)
		walkStatement(n.Alternate, visit)
	case *ast.SwitchStatement:
		walkExpr(n.Discriminant, visit)
		for _, cs := range n.Cases {
			walkExpr(cs.Test, visit)
			walkStatements(cs.Consequent, visit)
		}
	case *ast.ForStatement:
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			walkStatement(init, visit)
		case ast.Expression:
			walkExpr(init, visit)
		}
		walkExpr(n.Test, visit)
		walkExpr(n.Update, visit)
		walkStatement(n.Body, visit)
	case *ast.WhileStatement:
		walkExpr(n.Test, visit)
		walkStatement(n.Body, visit)
	case *ast.DoWhileStatement:
		walkStatement(n.Body, visit)
		walkExpr(n.Test, visit)
	case *ast.ForOfStatement:
		walkStatement(n.Left, visit)
		walkExpr(n.Right, visit)
		walkStatement(n.Body, visit)
	case *ast.ForInStatement:
		walkStatement(n.Left, visit)
		walkExpr(n.Right, visit)
		walkStatement(n.Body, visit)
	case *ast.TryStatement:
		walkStatement(n.Block, visit)
		if n.Handler != nil {
			if n.Handler.Param != nil {
				walkPattern(n.Handler.Param, visit)
			}
			walkStatement(n.Handler.Body, visit)
		}
		if n.Finalizer != nil {
			walkStatement(n.Finalizer, visit)
		}
	case *ast.FunctionDeclaration:
		if n.ID != nil {
			visit(n.ID)
		}
		for _, p := range n.Params {
			walkPattern(p, visit)
		}
		walkStatement(n.Body, visit)
	case *ast.ClassDeclaration:
		if n.ID != nil {
			visit(n.ID)
		}
		if n.SuperClass != nil {
			visit(n.SuperClass)
		}
		for _, m := range n.Methods {
			if m.Key != nil {
				visit(m.Key)
			}
			for _, p := range m.Params {
				walkPattern(p, visit)
			}
			walkStatement(m.Body, visit)
		}
	case *ast.ImportDeclaration:
		for _, spec := range n.Specifiers {
			if spec.Local != nil {
				visit(spec.Local)
			}
		}
	case *ast.ExportNamedDeclaration:
		if n.Declaration != nil {
			walkStatement(n.Declaration, visit)
		}
	}
}

func walkExpr(e ast.Expression, visit func(ast.Node) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch n := e.(type) {
	case *ast.TemplateLiteral:
		for _, ex := range n.Expressions {
			walkExpr(ex, visit)
		}
	case *ast.BinaryExpression:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.LogicalExpression:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.UnaryExpression:
		walkExpr(n.Argument, visit)
	case *ast.UpdateExpression:
		walkExpr(n.Argument, visit)
	case *ast.AssignmentExpression:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.ConditionalExpression:
		walkExpr(n.Test, visit)
		walkExpr(n.Consequent, visit)
		walkExpr(n.Alternate, visit)
	case *ast.SpreadElement:
		walkExpr(n.Argument, visit)
	case *ast.CallExpression:
		walkExpr(n.Callee, visit)
		for _, a := range n.Arguments {
			walkExpr(a, visit)
		}
	case *ast.NewExpression:
		walkExpr(n.Callee, visit)
		for _, a := range n.Arguments {
			walkExpr(a, visit)
		}
	case *ast.MemberExpression:
		walkExpr(n.Object, visit)
		if n.Computed {
			walkExpr(n.PropertyExpr, visit)
		}
	case *ast.ArrayExpression:
		for _, el := range n.Elements {
			walkExpr(el, visit)
		}
	case *ast.ObjectExpression:
		for _, p := range n.Properties {
			if p.Computed {
				walkExpr(p.KeyExpr, visit)
			}
			walkExpr(p.Value, visit)
		}
	case *ast.FunctionExpression:
		if n.ID != nil {
			visit(n.ID)
		}
		for _, p := range n.Params {
			walkPattern(p, visit)
		}
		walkStatement(n.Body, visit)
	case *ast.ArrowFunctionExpression:
		for _, p := range n.Params {
			walkPattern(p, visit)
		}
		if n.BlockBody != nil {
			walkStatement(n.BlockBody, visit)
		}
		walkExpr(n.ExprBody, visit)
	case *ast.AwaitExpression:
		walkExpr(n.Argument, visit)
	}
}

func walkPattern(p ast.Pattern, visit func(ast.Node) bool) {
	if p == nil || !visit(p) {
		return
	}
	switch n := p.(type) {
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			if prop.Computed {
				walkExpr(prop.KeyExpr, visit)
			}
			walkPattern(prop.Value, visit)
		}
		if n.Rest != nil {
			walkPattern(n.Rest, visit)
		}
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			walkPattern(el, visit)
		}
		if n.Rest != nil {
			walkPattern(n.Rest, visit)
		}
	case *ast.AssignmentPattern:
		walkPattern(n.Left, visit)
		walkExpr(n.Default, visit)
	case *ast.RestElement:
		walkPattern(n.Element, visit)
	}
}
