package ops

import "github.com/funvibe/typeflow/internal/types"

func equality(op string, left, right types.Value) types.Value {
	leftLit, lok := left.(types.Literal)
	rightLit, rok := right.(types.Literal)
	if lok && rok {
		eq := types.Equal(leftLit, rightLit)
		if op == "!==" {
			eq = !eq
		}
		return types.LitBoolVal(eq)
	}
	return types.Boolean
}

func ordering(op string, left, right types.Value) types.Value {
	ll, lok := left.(types.Literal)
	rl, rok := right.(types.Literal)
	if lok && rok && ll.Kind == types.LitNumber && rl.Kind == types.LitNumber {
		return types.LitBoolVal(compareNum(op, ll.Num, rl.Num))
	}
	if lok && rok && ll.Kind == types.LitString && rl.Kind == types.LitString {
		return types.LitBoolVal(compareStr(op, ll.Str, rl.Str))
	}
	return types.Boolean
}

func compareNum(op string, l, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func compareStr(op string, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func unaryNot(v types.Value) types.Value {
	truthy, decidable := types.IsTruthy(v)
	if decidable {
		return types.LitBoolVal(!truthy)
	}
	return types.Boolean
}
