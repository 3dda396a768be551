package object

import (
	"context"
	"fmt"
	"sort"
)

// Module is a namespace value such as Math or JSON. It may also be callable
// (Number("3")) or constructible (new Map()). A module's members are fixed
// when it is built.
type Module struct {
	name        string
	members     map[string]Object
	callable    BuiltinFunction
	constructor BuiltinFunction
}

// NewModule returns a namespace holding the given members. Builtin members
// are tagged with the module name.
func NewModule(name string, members map[string]Object) *Module {
	m := &Module{name: name, members: make(map[string]Object, len(members))}
	for k, v := range members {
		if b, ok := v.(*Builtin); ok && b.moduleName == "" {
			b.moduleName = name
		}
		m.members[k] = v
	}
	return m
}

// NewClass returns a module that can also be called and/or used with new.
// Either function may be nil.
func NewClass(name string, members map[string]Object, call, construct BuiltinFunction) *Module {
	m := NewModule(name, members)
	m.callable = call
	m.constructor = construct
	return m
}

func (m *Module) Type() Type {
	return MODULE
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Inspect() string {
	if m.callable != nil || m.constructor != nil {
		return fmt.Sprintf("function %s() { [native code] }", m.name)
	}
	return fmt.Sprintf("[object %s]", m.name)
}

func (m *Module) String() string {
	return m.Inspect()
}

func (m *Module) Interface() interface{} {
	return nil
}

func (m *Module) Equals(other Object) bool {
	return m == other
}

func (m *Module) IsTruthy() bool {
	return true
}

func (m *Module) GetAttr(name string) (Object, bool) {
	if v, ok := m.members[name]; ok {
		return v, true
	}
	if name == "name" && (m.callable != nil || m.constructor != nil) {
		return NewString(m.name), true
	}
	return nil, false
}

func (m *Module) SetAttr(name string, value Object) error {
	return frozenError(name)
}

// MemberNames returns the sorted member names of the module.
func (m *Module) MemberNames() []string {
	names := make([]string, 0, len(m.members))
	for k := range m.members {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Call invokes the module as a function.
func (m *Module) Call(ctx context.Context, args ...Object) (Object, error) {
	if m.callable == nil {
		return nil, TypeErrorf("%s is not a function", m.name)
	}
	return m.callable(ctx, args...)
}

// Construct invokes the module with new.
func (m *Module) Construct(ctx context.Context, args ...Object) (Object, error) {
	if m.constructor == nil {
		return nil, TypeErrorf("%s is not a constructor", m.name)
	}
	return m.constructor(ctx, args...)
}
