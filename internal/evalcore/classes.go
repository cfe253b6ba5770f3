package evalcore

import (
	"context"

	"github.com/funvibe/typeflow/internal/ast"
	"github.com/funvibe/typeflow/internal/environment"
	"github.com/funvibe/typeflow/internal/errorhierarchy"
	"github.com/funvibe/typeflow/internal/types"
)

// classInfo is the evaluator's own side-table for user-defined classes
// (spec.md §4.6 "Class"/"New"): a class is not itself a TypeValue (the
// lattice only needs to model its instances), so the method dictionary
// and constructor live here, keyed by class name, rather than inside
// types.Value's closed sum.
type classInfo struct {
	Super   string
	Ctor    *ast.ClassMethod
	Methods map[string]*ast.ClassMethod
	Closure *environment.Environment
}

func (ev *Evaluator) evalClassDeclaration(n *ast.ClassDeclaration, env *environment.Environment) Outcome {
	info := &classInfo{Methods: map[string]*ast.ClassMethod{}, Closure: env}
	if n.SuperClass != nil {
		info.Super = n.SuperClass.Name
	}
	for _, m := range n.Methods {
		if m.Kind == "constructor" {
			info.Ctor = m
			continue
		}
		info.Methods[m.Key.Name] = m
	}
	ev.Classes[n.ID.Name] = info
	// The class name itself is only ever used as a `new`/`instanceof`
	// callee, never read as a plain value — bind Unknown so an
	// unanticipated bare reference doesn't crash instead of degrading.
	env.Bind(n.ID.Name, types.Unknown)
	return normal(env)
}

// classChain walks the Super links from info up to its root ancestor and
// returns them root-first, so a subclass's method bindings are installed
// after (and therefore override) its ancestors'.
func classChain(ev *Evaluator, info *classInfo) []*classInfo {
	var chain []*classInfo
	for cur := info; cur != nil; cur = ev.Classes[cur.Super] {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// evalNew implements spec.md §4.6 "New": a built-in Error constructor
// produces Instance(ClassName, {message}); a known user class evaluates
// its constructor against a fresh `this`, then returns an Instance whose
// props are the `this` properties unioned with the class's method
// bindings; anything else degrades to Unknown rather than raising a host
// error.
func (ev *Evaluator) evalNew(ctx context.Context, n *ast.NewExpression, env *environment.Environment) exprResult {
	args, spreadThrow, hasThrow := ev.evalArgs(ctx, n.Arguments, env)
	if hasThrow {
		return spreadThrow
	}
	id, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return val(types.Unknown)
	}
	if errorhierarchy.IsBuiltin(id.Name) {
		msg := types.Value(types.Undefined)
		if len(args) > 0 {
			msg = args[0]
		}
		return val(ev.record(n, types.NewErrorInstance(id.Name, msg)))
	}
	info, ok := ev.Classes[id.Name]
	if !ok {
		return val(types.Unknown)
	}
	return ev.constructInstance(ctx, n, id.Name, info, args)
}

// constructInstance installs the class's method bindings onto a fresh
// `this` first — each method closes over its own defining class's scope
// with `this` already bound, so a method can read sibling methods and
// fields through the ordinary member-access path — then runs the nearest
// constructor in the Super chain against that `this`. The returned
// Instance's Props therefore hold both the constructor's assignments and
// the method bindings, per spec.md §4.6 "New".
func (ev *Evaluator) constructInstance(ctx context.Context, n ast.Node, className string, info *classInfo, args []types.Value) exprResult {
	this := types.Instance{ClassName: className, Props: map[string]types.Value{}}
	chain := classChain(ev, info)

	var ctor *ast.ClassMethod
	var ctorClosure *environment.Environment
	for _, ci := range chain {
		methodClosure := environment.NewEnclosed(ci.Closure)
		methodClosure.Bind("this", this)
		for name, m := range ci.Methods {
			this.Props[name] = types.Function{Name: name, Params: m.Params, Body: m.Body, Closure: methodClosure}
		}
		if ci.Ctor != nil {
			ctor, ctorClosure = ci.Ctor, methodClosure
		}
	}

	if ctor != nil {
		callEnv := environment.NewEnclosed(ctorClosure)
		callEnv.Bind("this", this)
		ev.bindParams(ctx, ctor.Params, args, callEnv)
		out := ev.EvalBlock(ctx, ctor.Body.Body, callEnv)
		if !isNever(out.Throw) {
			return thrown(out.Throw)
		}
	}
	return val(ev.record(n, this))
}

// instanceHasCallableMember reports whether name resolves to a Function
// on any Instance member of recv, so evalMethodCall can hand the call off
// to the generic callee-evaluation path instead of the built-in method
// tables (spec.md §4.6 "Call" applied to a class-method receiver).
func instanceHasCallableMember(recv types.Value, name string) bool {
	for _, m := range types.Members(recv) {
		inst, ok := m.(types.Instance)
		if !ok {
			continue
		}
		if fn, ok := inst.Props[name]; ok {
			if _, ok := underlyingFunction(fn); ok {
				return true
			}
		}
	}
	return false
}
