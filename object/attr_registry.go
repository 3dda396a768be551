package object

import (
	"context"
	"fmt"
	"slices"
)

// AttrDef combines an attribute's specification with its implementation.
// It is either a property (read through a getter) or a method (bound into a
// Builtin on access).
type AttrDef[T any] struct {
	Spec       AttrSpec
	IsProperty bool
	MinArgs    int
	// For methods:
	MethodImpl func(self T, ctx context.Context, args ...Object) (Object, error)
	// For properties:
	PropertyImpl func(self T) Object
}

// AttrRegistry holds the fixed attribute table of one value type. Values
// expose only what their registry defines, which is what keeps attribute
// lookup "directly owned".
type AttrRegistry[T any] struct {
	typeName string
	attrs    map[string]AttrDef[T]
	specs    []AttrSpec
}

// AttrBuilder provides a fluent API for defining a single attribute.
type AttrBuilder[T any] struct {
	registry    *AttrRegistry[T]
	name        string
	doc         string
	args        []string
	optionalIdx int // 1-based index where optional args start, 0 if none
	returns     string
}

// NewAttrRegistry creates a registry for the given type name.
func NewAttrRegistry[T any](typeName string) *AttrRegistry[T] {
	return &AttrRegistry[T]{
		typeName: typeName,
		attrs:    make(map[string]AttrDef[T]),
	}
}

// Define starts building a new attribute definition.
func (r *AttrRegistry[T]) Define(name string) *AttrBuilder[T] {
	return &AttrBuilder[T]{
		registry: r,
		name:     name,
	}
}

// Specs returns a copy of all registered attribute specifications in
// registration order.
func (r *AttrRegistry[T]) Specs() []AttrSpec {
	return slices.Clone(r.specs)
}

// Has reports whether the registry defines name.
func (r *AttrRegistry[T]) Has(name string) bool {
	_, ok := r.attrs[name]
	return ok
}

// GetAttr returns the named attribute bound to self. Properties are read
// immediately. Methods are returned as a Builtin bound to self. Calls with
// fewer than the required arguments fail with a TypeError; extra arguments
// are ignored.
func (r *AttrRegistry[T]) GetAttr(self T, name string) (Object, bool) {
	attr, ok := r.attrs[name]
	if !ok {
		return nil, false
	}
	if attr.IsProperty {
		return attr.PropertyImpl(self), true
	}
	minArgs := attr.MinArgs
	fullName := r.typeName + "." + name
	return &Builtin{
		name: fullName,
		fn: func(ctx context.Context, args ...Object) (Object, error) {
			if len(args) < minArgs {
				return nil, argsError(fullName, minArgs, len(args))
			}
			return attr.MethodImpl(self, ctx, args...)
		},
	}, true
}

// Doc sets the attribute's documentation string.
func (b *AttrBuilder[T]) Doc(doc string) *AttrBuilder[T] {
	b.doc = doc
	return b
}

// Arg adds a required argument by name.
func (b *AttrBuilder[T]) Arg(name string) *AttrBuilder[T] {
	b.args = append(b.args, name)
	return b
}

// Args adds multiple required arguments.
func (b *AttrBuilder[T]) Args(names ...string) *AttrBuilder[T] {
	b.args = append(b.args, names...)
	return b
}

// OptionalArg adds an optional argument. Optional args must come after all
// required args.
func (b *AttrBuilder[T]) OptionalArg(name string) *AttrBuilder[T] {
	if b.optionalIdx == 0 {
		b.optionalIdx = len(b.args) + 1
	}
	b.args = append(b.args, name)
	return b
}

// Returns sets the return type shown by introspection.
func (b *AttrBuilder[T]) Returns(typ string) *AttrBuilder[T] {
	b.returns = typ
	return b
}

// Impl sets the method implementation and registers the attribute.
// Panics if an attribute with the same name is already registered.
func (b *AttrBuilder[T]) Impl(fn func(T, context.Context, ...Object) (Object, error)) {
	r := b.registry
	if _, exists := r.attrs[b.name]; exists {
		panic(fmt.Sprintf("%s: attribute %q already registered", r.typeName, b.name))
	}
	spec := AttrSpec{
		Name:    b.name,
		Doc:     b.doc,
		Args:    b.args,
		Returns: b.returns,
	}
	minArgs := len(b.args)
	if b.optionalIdx > 0 {
		minArgs = b.optionalIdx - 1
	}
	r.attrs[b.name] = AttrDef[T]{Spec: spec, MinArgs: minArgs, MethodImpl: fn}
	r.specs = append(r.specs, spec)
}

// Getter sets the property getter and registers the attribute.
// Panics if an attribute with the same name is already registered.
func (b *AttrBuilder[T]) Getter(fn func(T) Object) {
	r := b.registry
	if _, exists := r.attrs[b.name]; exists {
		panic(fmt.Sprintf("%s: attribute %q already registered", r.typeName, b.name))
	}
	if len(b.args) > 0 {
		panic(fmt.Sprintf("%s: property %q cannot have arguments", r.typeName, b.name))
	}
	spec := AttrSpec{
		Name:    b.name,
		Doc:     b.doc,
		Returns: b.returns,
	}
	r.attrs[b.name] = AttrDef[T]{Spec: spec, IsProperty: true, PropertyImpl: fn}
	r.specs = append(r.specs, spec)
}

// argsError returns a grammatically correct argument count error.
func argsError(name string, expected, got int) *Error {
	if expected == 1 {
		return TypeErrorf("%s requires 1 argument, got %d", name, got)
	}
	return TypeErrorf("%s requires %d arguments, got %d", name, expected, got)
}

// Arg extracts and type-asserts an argument from the args slice.
func Arg[T Object](args []Object, index int, name string) (T, error) {
	var zero T
	if index >= len(args) {
		return zero, TypeErrorf("%s: missing argument %d", name, index+1)
	}
	v, ok := args[index].(T)
	if !ok {
		return zero, TypeErrorf("%s: argument %d must be a %s, got %s",
			name, index+1, typeLabel(zero), TypeOf(args[index]))
	}
	return v, nil
}

func typeLabel(obj Object) string {
	switch any(obj).(type) {
	case *String:
		return "string"
	case *Number:
		return "number"
	case *Bool:
		return "boolean"
	case *List:
		return "list"
	case *Record:
		return "record"
	case *Image:
		return "image"
	case *TypedArray:
		return "typed array"
	}
	return "value"
}
