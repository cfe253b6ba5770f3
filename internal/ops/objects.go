package ops

import "github.com/funvibe/typeflow/internal/types"

// ObjectStatic implements the Object.keys/values/entries static surface
// (spec.md §4.1). ok is false for any other static name, letting the
// evaluator fall back to Unknown for unmodelled globals.
func ObjectStatic(name string, arg types.Value) (types.Value, bool) {
	obj, ok := arg.(types.Object)
	if !ok {
		return nil, false
	}
	switch name {
	case "keys":
		elems := make([]types.Value, len(obj.Keys))
		for i, k := range obj.Keys {
			elems[i] = types.LitStr(k)
		}
		return types.Array{Elem: types.MakeUnion(elems...)}, true
	case "values":
		vals := make([]types.Value, 0, len(obj.Keys))
		for _, k := range obj.Keys {
			vals = append(vals, obj.Props[k])
		}
		return types.Array{Elem: types.MakeUnion(vals...)}, true
	case "entries":
		pairs := make([]types.Value, 0, len(obj.Keys))
		for _, k := range obj.Keys {
			pairs = append(pairs, types.Tuple{Elems: []types.Value{types.LitStr(k), obj.Props[k]}})
		}
		return types.Array{Elem: types.MakeUnion(pairs...)}, true
	}
	return nil, false
}
