package types

import "strings"

// Object is a reference-semantics JS object with known property types.
// Keys preserves insertion order (spec.md: "ordered mapping name->TypeValue").
type Object struct {
	ID    ObjectID
	Keys  []string
	Props map[string]Value
}

func (Object) valueNode() {}

func (o Object) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range o.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(o.Props[k].String())
	}
	b.WriteString("}")
	return b.String()
}

// NewObject builds an Object with a fresh identity from an ordered
// key/value sequence.
func NewObject(keys []string, props map[string]Value) Object {
	return Object{ID: NewObjectID(), Keys: append([]string(nil), keys...), Props: props}
}

// Get returns the property value, or Undefined if absent (spec.md §4.1).
func (o Object) Get(name string) Value {
	if v, ok := o.Props[name]; ok {
		return v
	}
	return Undefined
}

// WithProp returns a new Object (same identity) with name set to v. Used
// for linear, non-aliasing mutation paths where the caller already holds
// the sole reference; aliasing mutation goes through environment's
// in-place Props map write instead (spec.md §4.3).
func (o Object) WithProp(name string, v Value) Object {
	newProps := make(map[string]Value, len(o.Props)+1)
	for k, val := range o.Props {
		newProps[k] = val
	}
	_, existed := newProps[name]
	newProps[name] = v
	keys := o.Keys
	if !existed {
		keys = append(append([]string(nil), o.Keys...), name)
	}
	return Object{ID: o.ID, Keys: keys, Props: newProps}
}

// Array is a homogeneous array type Array<Elem>.
type Array struct {
	Elem Value
}

func (Array) valueNode() {}
func (a Array) String() string { return a.Elem.String() + "[]" }

// Tuple is a fixed-length positional sequence.
type Tuple struct {
	Elems []Value
}

func (Tuple) valueNode() {}

func (t Tuple) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("]")
	return b.String()
}
