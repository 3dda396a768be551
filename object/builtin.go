package object

import (
	"context"
	"fmt"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin wraps a Go function and implements Object. Methods returned by
// GetAttr are Builtins already bound to their receiver.
type Builtin struct {
	// The function that this object wraps.
	fn BuiltinFunction

	// The name of the function.
	name string

	// The name of the namespace this function belongs to, if any. Used by
	// Key() to return the fully-qualified name (e.g., "Math.sqrt").
	moduleName string
}

// NewBuiltin creates a new builtin function with the given name and function.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

// InModule sets the namespace name for this builtin.
func (b *Builtin) InModule(moduleName string) *Builtin {
	b.moduleName = moduleName
	return b
}

func (b *Builtin) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot assign to read only property '%s' of function '%s'", name, b.Key())
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Interface() interface{} {
	return nil
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("function %s() { [native code] }", b.Key())
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) GetAttr(name string) (Object, bool) {
	switch name {
	case "name":
		return NewString(b.Key()), true
	}
	return nil, false
}

// Key returns a string that identifies this builtin function.
func (b *Builtin) Key() string {
	if b.moduleName == "" {
		return b.name
	}
	return b.moduleName + "." + b.name
}

func (b *Builtin) Equals(other Object) bool {
	return b == other
}
