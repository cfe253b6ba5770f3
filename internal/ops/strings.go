package ops

import (
	"strings"

	"github.com/funvibe/typeflow/internal/types"
)

// CallMethod dispatches a method call refined -> base -> primitive (spec.md
// §4.1), covering strings and, via call, array/tuple callback methods.
// recv is the receiver, args the already-evaluated argument values.
func CallMethod(recv types.Value, name string, args []types.Value, call Caller) types.CallResult {
	if r, ok := recv.(types.Refined); ok {
		if res := r.Refinement.Method(name, r, args); res.Applicable {
			return types.NewCallResult(res.Value)
		}
		return CallMethod(r.Base, name, args, call)
	}
	switch v := recv.(type) {
	case types.Literal:
		if v.Kind == types.LitString {
			if res, ok := stringMethod(name, v.Str, true, args); ok {
				return types.NewCallResult(res)
			}
		}
	case types.Primitive:
		if v.Tag == "string" {
			if res, ok := stringMethod(name, "", false, args); ok {
				return types.NewCallResult(res)
			}
		}
	case types.Array:
		if res, ok := ArrayMethod(name, v.Elem, args, call); ok {
			return res
		}
	case types.Tuple:
		if res, ok := ArrayMethod(name, types.MakeUnion(v.Elems...), args, call); ok {
			return res
		}
	}
	return types.NewCallResult(types.Unknown)
}

// Method is the no-callback convenience form for receivers known not to
// need one (plain string methods); it panics if dispatch reaches a
// callback-taking array method, which callers must route through
// CallMethod with a real Caller instead.
func Method(recv types.Value, name string, args []types.Value) types.Value {
	return CallMethod(recv, name, args, func(types.Value, []types.Value) types.CallResult {
		panic("ops: Method called without a Caller for a callback-taking method")
	}).Value
}

// stringMethod implements the built-in String.prototype surface (spec.md
// §4.1). When decided is false the receiver is only known to be *some*
// string, so only arity/shape-decidable results (never value-decidable
// ones) are returned.
func stringMethod(name, s string, decided bool, args []types.Value) (types.Value, bool) {
	switch name {
	case "toUpperCase":
		if decided {
			return types.LitStr(strings.ToUpper(s)), true
		}
		return types.String, true
	case "toLowerCase":
		if decided {
			return types.LitStr(strings.ToLower(s)), true
		}
		return types.String, true
	case "trim":
		if decided {
			return types.LitStr(strings.TrimSpace(s)), true
		}
		return types.String, true
	case "trimStart":
		if decided {
			return types.LitStr(strings.TrimLeft(s, " \t\n\r")), true
		}
		return types.String, true
	case "trimEnd":
		if decided {
			return types.LitStr(strings.TrimRight(s, " \t\n\r")), true
		}
		return types.String, true
	case "charAt":
		if decided {
			if i, ok := intArg(args, 0); ok {
				if i >= 0 && i < len(s) {
					return types.LitStr(string(s[i])), true
				}
				return types.LitStr(""), true
			}
		}
		return types.String, true
	case "charCodeAt":
		if decided {
			if i, ok := intArg(args, 0); ok && i >= 0 && i < len(s) {
				return types.LitNum(float64(s[i])), true
			}
		}
		return types.Number, true
	case "at":
		if decided {
			if i, ok := intArg(args, 0); ok {
				idx := i
				if idx < 0 {
					idx += len(s)
				}
				if idx >= 0 && idx < len(s) {
					return types.LitStr(string(s[idx])), true
				}
				return types.Undefined, true
			}
		}
		return types.MakeUnion(types.String, types.Undefined), true
	case "startsWith":
		if decided {
			if needle, ok := strArg(args, 0); ok {
				return types.LitBoolVal(strings.HasPrefix(s, needle)), true
			}
		}
		return types.Boolean, true
	case "endsWith":
		if decided {
			if needle, ok := strArg(args, 0); ok {
				return types.LitBoolVal(strings.HasSuffix(s, needle)), true
			}
		}
		return types.Boolean, true
	case "includes":
		if decided {
			if needle, ok := strArg(args, 0); ok {
				return types.LitBoolVal(strings.Contains(s, needle)), true
			}
		}
		return types.Boolean, true
	case "indexOf":
		if decided {
			if needle, ok := strArg(args, 0); ok {
				return types.LitNum(float64(strings.Index(s, needle))), true
			}
		}
		return types.Number, true
	case "lastIndexOf":
		if decided {
			if needle, ok := strArg(args, 0); ok {
				return types.LitNum(float64(strings.LastIndex(s, needle))), true
			}
		}
		return types.Number, true
	case "slice", "substring":
		if decided {
			if start, ok := intArg(args, 0); ok {
				end := len(s)
				if e, ok := intArg(args, 1); ok {
					end = e
				}
				if r, ok := sliceString(s, start, end, name == "slice"); ok {
					return types.LitStr(r), true
				}
			}
		}
		return types.String, true
	case "split":
		return types.Array{Elem: types.String}, true
	case "replace":
		if decided {
			if from, ok := strArg(args, 0); ok {
				if to, ok := strArg(args, 1); ok {
					return types.LitStr(strings.Replace(s, from, to, 1)), true
				}
			}
		}
		return types.String, true
	case "replaceAll":
		if decided {
			if from, ok := strArg(args, 0); ok {
				if to, ok := strArg(args, 1); ok {
					return types.LitStr(strings.ReplaceAll(s, from, to)), true
				}
			}
		}
		return types.String, true
	case "repeat":
		if decided {
			if n, ok := intArg(args, 0); ok && n >= 0 {
				return types.LitStr(strings.Repeat(s, n)), true
			}
		}
		return types.String, true
	case "padStart":
		if decided {
			if targetLen, ok := intArg(args, 0); ok {
				pad := " "
				if p, ok := strArg(args, 1); ok {
					pad = p
				}
				return types.LitStr(padString(s, targetLen, pad, true)), true
			}
		}
		return types.String, true
	case "padEnd":
		if decided {
			if targetLen, ok := intArg(args, 0); ok {
				pad := " "
				if p, ok := strArg(args, 1); ok {
					pad = p
				}
				return types.LitStr(padString(s, targetLen, pad, false)), true
			}
		}
		return types.String, true
	case "concat":
		if decided {
			out := s
			for _, a := range args {
				if lit, ok := a.(types.Literal); ok && lit.Kind == types.LitString {
					out += lit.Str
					continue
				}
				return types.String, true
			}
			return types.LitStr(out), true
		}
		return types.String, true
	}
	return nil, false
}

func intArg(args []types.Value, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	lit, ok := args[i].(types.Literal)
	if !ok || lit.Kind != types.LitNumber {
		return 0, false
	}
	return int(lit.Num), true
}

func strArg(args []types.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	lit, ok := args[i].(types.Literal)
	if !ok || lit.Kind != types.LitString {
		return "", false
	}
	return lit.Str, true
}

func sliceString(s string, start, end int, clampNegative bool) (string, bool) {
	n := len(s)
	if clampNegative {
		if start < 0 {
			start += n
		}
		if end < 0 {
			end += n
		}
	} else {
		if start < 0 {
			start = 0
		}
		if end < 0 {
			end = 0
		}
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		if clampNegative {
			return "", true
		}
		start, end = end, start
	}
	return s[start:end], true
}

func padString(s string, targetLen int, pad string, start bool) string {
	if len(pad) == 0 || len(s) >= targetLen {
		return s
	}
	need := targetLen - len(s)
	var b strings.Builder
	for b.Len() < need {
		b.WriteString(pad)
	}
	filler := b.String()[:need]
	if start {
		return filler + s
	}
	return s + filler
}
