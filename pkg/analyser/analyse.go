package analyser

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/directive"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/types"
)

// CaseResult is one `@case` directive's outcome (spec.md §6 item 1 "per-
// function case results"). Expected is nil when the case carried no
// `expected` field, in which case Passed is always true — an unasserted
// case only records what the engine inferred.
type CaseResult struct {
	Function string
	Case     string
	Args     []types.Value
	Value    types.Value
	Throws   types.Value
	Expected types.Value
	Passed   bool
}

// FunctionResult aggregates one top-level function's directive-driven
// analysis: every `@case` run against it. A function with no `@case`
// directive gets no FunctionResult.
type FunctionResult struct {
	Name  string
	Cases []CaseResult
}

// Analyse implements spec.md §6 item 1: evaluates program's top-level
// statements once (binding every function/class declaration and running
// any top-level side effects), then drives each top-level function's
// `@case` directives to produce per-function results. directives is keyed
// by the exact statement node (typically a *ast.FunctionDeclaration) the
// directive comment is attached to — an external collaborator's
// extraction, per spec.md §6's consumed-directive-list contract.
func (c *Context) Analyse(ctx context.Context, program *ast.Program, externalEnv map[string]types.Value, directives map[ast.Node]directive.List) ([]FunctionResult, error) {
	for node, list := range directives {
		c.ev.Directives[node] = list
	}

	env := environment.New()
	for name, v := range externalEnv {
		env.Bind(name, v)
	}
	if out := c.ev.EvalProgram(ctx, program, env); out.Throw != nil {
		if _, never := out.Throw.(types.NeverType); !never {
			return nil, &AnalysisError{Message: "uncaught throw during top-level evaluation: " + out.Throw.String()}
		}
	}

	var results []FunctionResult
	for _, stmt := range program.Body {
		fnDecl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok || fnDecl.ID == nil {
			continue
		}
		list := directives[fnDecl]
		cases := list.Cases()
		if len(cases) == 0 {
			continue
		}
		fnVal, ok := env.Lookup(fnDecl.ID.Name)
		if !ok {
			continue
		}
		fn, ok := fnVal.(types.Function)
		if !ok {
			continue
		}
		fr := FunctionResult{Name: fnDecl.ID.Name}
		for _, cs := range cases {
			fr.Cases = append(fr.Cases, c.runCase(ctx, fnDecl.ID.Name, fn, cs, list.Mocks()))
		}
		results = append(results, fr)
	}
	return results, nil
}

func (c *Context) runCase(ctx context.Context, name string, fn types.Function, cs directive.Directive, mocks map[string]directive.Directive) CaseResult {
	callFn := fn
	if len(mocks) > 0 {
		callFn.Closure = c.mockedClosure(ctx, fn.Closure, mocks)
	}
	result := c.ev.Call(ctx, callFn, cs.Args)

	passed := true
	if cs.Expected != nil {
		passed = types.Equal(result.Value, cs.Expected)
	}
	return CaseResult{
		Function: name,
		Case:     cs.CaseName,
		Args:     cs.Args,
		Value:    result.Value,
		Throws:   result.Throws,
		Expected: cs.Expected,
		Passed:   passed,
	}
}

// mockedClosure builds a child scope over base where every `@mock` name
// is rebound to its replacement TypeValue (an inline expression type, or
// the export namespace of a resolved replacement module), per spec.md §6.
// A module-path mock that fails to resolve degrades to Unknown rather
// than failing the whole case.
func (c *Context) mockedClosure(ctx context.Context, base types.Scope, mocks map[string]directive.Directive) *environment.Environment {
	baseEnv, ok := base.(*environment.Environment)
	if !ok {
		baseEnv = environment.New()
	}
	child := environment.NewEnclosed(baseEnv)
	for name, m := range mocks {
		if m.MockModulePath != "" {
			ns, ok := c.ev.ResolveModuleNamespace(ctx, m.MockModulePath, "")
			if !ok {
				ns = types.Unknown
			}
			child.Bind(name, ns)
			continue
		}
		child.Bind(name, m.MockExpression)
	}
	return child
}

// AnalysisError is the error Analyse returns when evaluating the program's
// top-level statements ends in an uncaught throw. Exceptions inferred
// inside a `@case` call are carried in CaseResult.Throws, never as a Go
// error.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string { return e.Message }
