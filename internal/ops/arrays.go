package ops

import "github.com/funvibe/typeflow/internal/types"

// Caller invokes a function value with the given arguments, returning its
// value/throw pair. evalcore supplies the concrete implementation when it
// calls into array methods that take callbacks (map, filter, ...); ops
// stays a leaf package and never imports the evaluator (spec.md §4.7).
type Caller func(fn types.Value, args []types.Value) types.CallResult

// ArrayMethod dispatches the built-in Array.prototype surface (spec.md
// §4.1). elem is the element TypeValue for an Array receiver, or the
// union of the Tuple's slots for a Tuple receiver. call is used only by
// the methods that invoke a callback.
func ArrayMethod(name string, elem types.Value, args []types.Value, call Caller) (types.CallResult, bool) {
	switch name {
	case "map":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.Array{Elem: res.Value}, Throws: res.Throws}, true
	case "filter":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.Array{Elem: elem}, Throws: res.Throws}, true
	case "forEach":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.Undefined, Throws: res.Throws}, true
	case "find":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.MakeUnion(elem, types.Undefined), Throws: res.Throws}, true
	case "some", "every":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.Boolean, Throws: res.Throws}, true
	case "reduce":
		if len(args) == 0 {
			break
		}
		acc := types.Unknown
		if len(args) > 1 {
			acc = args[1]
		}
		res := call(args[0], []types.Value{acc, elem, types.Number})
		return types.CallResult{Value: res.Value, Throws: res.Throws}, true
	case "flatMap":
		if len(args) == 0 {
			break
		}
		res := call(args[0], []types.Value{elem, types.Number})
		return types.CallResult{Value: types.Array{Elem: flattenOneLevel(res.Value)}, Throws: res.Throws}, true
	case "includes":
		return types.NewCallResult(types.Boolean), true
	case "indexOf":
		return types.NewCallResult(types.Number), true
	case "join":
		return types.NewCallResult(types.String), true
	case "slice":
		return types.NewCallResult(types.Array{Elem: elem}), true
	case "concat":
		merged := elem
		for _, a := range args {
			merged = types.MakeUnion(merged, elementOf(a))
		}
		return types.NewCallResult(types.Array{Elem: merged}), true
	case "push":
		merged := elem
		for _, a := range args {
			merged = types.MakeUnion(merged, a)
		}
		return types.NewCallResult(types.Array{Elem: merged}), true
	}
	return types.CallResult{}, false
}

func elementOf(v types.Value) types.Value {
	switch t := v.(type) {
	case types.Array:
		return t.Elem
	case types.Tuple:
		return types.MakeUnion(t.Elems...)
	default:
		return t
	}
}

func flattenOneLevel(v types.Value) types.Value {
	switch t := v.(type) {
	case types.Array:
		return t.Elem
	case types.Tuple:
		return types.MakeUnion(t.Elems...)
	default:
		return v
	}
}
