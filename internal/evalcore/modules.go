package evalcore

import (
	"context"
	"sort"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/modresolve"
	"github.com/funvibe/typeflow/internal/types"
)

// evaluateModule runs a resolved compilation unit exactly once per
// CanonicalPath, caching its exports namespace (spec.md §6 "per-module
// memoised evaluation"). The cache entry is installed before the module
// body runs so an import cycle resolves to the (possibly still-empty)
// namespace under construction rather than recursing forever.
func (ev *Evaluator) evaluateModule(ctx context.Context, mod modresolve.Module) *environment.Environment {
	if cached, ok := ev.moduleCache[mod.CanonicalPath]; ok {
		return cached.exports
	}
	exportsEnv := environment.New()
	ev.moduleCache[mod.CanonicalPath] = moduleResult{exports: exportsEnv}
	ev.exportStack = append(ev.exportStack, exportsEnv)
	ev.EvalProgram(ctx, mod.AST, environment.New())
	ev.exportStack = ev.exportStack[:len(ev.exportStack)-1]
	return exportsEnv
}

// ResolveModuleNamespace resolves importPath and evaluates it (memoised,
// same as a real import), returning its exports as a namespace Object.
// Used to satisfy an `@mock{name, modulePath}` directive (spec.md §6),
// which replaces a binding with another module's whole export surface
// rather than a single inline TypeValue.
func (ev *Evaluator) ResolveModuleNamespace(ctx context.Context, importPath, fromDirectory string) (types.Value, bool) {
	mod, ok := ev.Resolver.Resolve(importPath, fromDirectory)
	if !ok {
		return nil, false
	}
	return namespaceObject(ev.evaluateModule(ctx, mod)), true
}

func (ev *Evaluator) currentExports() *environment.Environment {
	if len(ev.exportStack) == 0 {
		return nil
	}
	return ev.exportStack[len(ev.exportStack)-1]
}

// evalImport implements spec.md §4.6 "Import": named/default/namespace
// specifiers bind from the resolved module's export namespace. An
// unresolved specifier (the Resolver reports none) binds every local name
// to Unknown rather than failing the whole analysis.
func (ev *Evaluator) evalImport(ctx context.Context, n *ast.ImportDeclaration, env *environment.Environment) Outcome {
	mod, ok := ev.Resolver.Resolve(n.Source, "")
	if !ok {
		for _, spec := range n.Specifiers {
			env.Bind(spec.Local.Name, types.Unknown)
		}
		return normal(env)
	}
	exportsEnv := ev.evaluateModule(ctx, mod)
	for _, spec := range n.Specifiers {
		switch {
		case spec.Namespace:
			env.Bind(spec.Local.Name, namespaceObject(exportsEnv))
		case spec.Default:
			v, _ := exportsEnv.Lookup("default")
			env.Bind(spec.Local.Name, v)
		default:
			v, _ := exportsEnv.Lookup(spec.Imported)
			env.Bind(spec.Local.Name, v)
		}
	}
	return normal(env)
}

// evalExport implements spec.md §4.6 "Export": evaluates the wrapped
// local declaration (if any), then republishes each named binding into
// the module's exports namespace so importers can see it.
func (ev *Evaluator) evalExport(ctx context.Context, n *ast.ExportNamedDeclaration, env *environment.Environment) Outcome {
	out := normal(env)
	if n.Declaration != nil {
		out = ev.EvalStatement(ctx, n.Declaration, env)
	}
	exportsEnv := ev.currentExports()
	if exportsEnv != nil {
		for _, name := range n.Names {
			if v, ok := env.Lookup(name); ok {
				exportsEnv.Bind(name, v)
			}
		}
	}
	return out
}

func namespaceObject(exportsEnv *environment.Environment) types.Value {
	frame := exportsEnv.Frame()
	keys := make([]string, 0, len(frame))
	for k := range frame {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return types.NewObject(keys, frame)
}
