package types

import "strings"

// Instance is an instance of a (possibly user-defined, possibly built-in
// Error) class.
type Instance struct {
	ClassName string
	Props     map[string]Value
}

func (Instance) valueNode() {}

func (in Instance) String() string {
	return in.ClassName + "(" + propsPreview(in.Props) + ")"
}

func propsPreview(props map[string]Value) string {
	var parts []string
	for k, v := range props {
		parts = append(parts, k+": "+v.String())
	}
	return strings.Join(parts, ", ")
}

// NewErrorInstance builds an Instance for a built-in Error subclass with a
// message property, the shape `new()` produces for RangeError et al.
// (spec.md §4.6 "New").
func NewErrorInstance(className string, message Value) Instance {
	return Instance{ClassName: className, Props: map[string]Value{"message": message}}
}
