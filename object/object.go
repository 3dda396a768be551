// Package object provides the value types that canvasbox scripts operate on.
//
// Callers usually type assert an object.Object to a specific type, such as
// *object.Number:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Number:
//		// do something with obj.Value()
//	}
//
// Every value exposes a fixed attribute table through its own GetAttr. There
// is no prototype chain: an attribute is visible only if the value owns it
// directly.
package object

import (
	"context"
	"sort"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL        Type = "boolean"
	BUILTIN     Type = "builtin"
	ERROR       Type = "error"
	IMAGE       Type = "image"
	LIST        Type = "list"
	MAP         Type = "map"
	MODULE      Type = "module"
	NULL        Type = "null"
	NUMBER      Type = "number"
	PROMISE     Type = "promise"
	RECORD      Type = "record"
	SET         Type = "set"
	STRING      Type = "string"
	TYPED_ARRAY Type = "typed_array"
	UNDEFINED   Type = "undefined"
)

var (
	Undefined = &UndefinedType{}
	Null      = &NullType{}
	True      = &Bool{value: true}
	False     = &Bool{value: false}
)

// Object is the interface that all script values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Equals reports strict equality: same type and same value for
	// primitives, identity for everything else.
	Equals(other Object) bool

	// GetAttr returns a directly owned attribute of this object.
	GetAttr(name string) (Object, bool)

	// SetAttr sets the attribute with the given name on this object.
	SetAttr(name string, value Object) error

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool
}

// Callable is implemented by objects that can be invoked as functions.
type Callable interface {
	Call(ctx context.Context, args ...Object) (Object, error)
}

// Constructible is implemented by objects that can be used with "new".
type Constructible interface {
	Construct(ctx context.Context, args ...Object) (Object, error)
}

// Iterable is implemented by values that may be spread into a list or an
// argument list.
type Iterable interface {
	Items() []Object
}

// Freezable is implemented by values whose contents can be made read-only.
type Freezable interface {
	Freeze()
	IsFrozen() bool
}

// AsCallable returns obj as a Callable if it can be invoked. A namespace
// module is callable only when it was built with a call function.
func AsCallable(obj Object) (Callable, bool) {
	if m, ok := obj.(*Module); ok {
		return m, m.callable != nil
	}
	c, ok := obj.(Callable)
	return c, ok
}

// AsConstructible returns obj as a Constructible if it supports "new".
func AsConstructible(obj Object) (Constructible, bool) {
	if m, ok := obj.(*Module); ok {
		return m, m.constructor != nil
	}
	c, ok := obj.(Constructible)
	return c, ok
}

// TypeOf returns the result of the typeof operator for obj.
func TypeOf(obj Object) string {
	switch obj.(type) {
	case *UndefinedType:
		return "undefined"
	case *NullType:
		return "object"
	case *Bool:
		return "boolean"
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Builtin:
		return "function"
	}
	if _, ok := AsCallable(obj); ok {
		return "function"
	}
	if _, ok := AsConstructible(obj); ok {
		return "function"
	}
	return "object"
}

// IsPrimitive reports whether obj is undefined, null, a boolean, a number or
// a string.
func IsPrimitive(obj Object) bool {
	switch obj.(type) {
	case *UndefinedType, *NullType, *Bool, *Number, *String:
		return true
	}
	return false
}

// IsNullish reports whether obj is undefined or null.
func IsNullish(obj Object) bool {
	switch obj.(type) {
	case *UndefinedType, *NullType:
		return true
	}
	return false
}

// Keys returns the keys of an object map as a sorted slice of strings.
func Keys(m map[string]Object) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
