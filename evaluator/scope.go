package evaluator

import (
	"sort"

	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/deepnoodle-ai/canvasbox/registry"
)

// Scope is a frame of local bindings. The only frames are the ones a catch
// clause creates for its parameter. A nil *Scope is valid and empty.
type Scope struct {
	parent   *Scope
	bindings map[string]*registry.Binding
}

// NewScope returns an empty frame whose parent is parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: map[string]*registry.Binding{}}
}

// Parent returns the enclosing frame.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Lookup finds the binding for name in this frame or an ancestor.
func (s *Scope) Lookup(name string) (*registry.Binding, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if b, ok := frame.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Has reports whether name is bound in this frame or an ancestor.
func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Set binds name in this frame, replacing any previous binding here.
func (s *Scope) Set(name string, value object.Object, isConst bool) {
	s.bindings[name] = &registry.Binding{Value: value, Const: isConst}
}

// Names returns every name bound in the chain.
func (s *Scope) Names() []string {
	seen := map[string]bool{}
	var names []string
	for frame := s; frame != nil; frame = frame.parent {
		for name := range frame.bindings {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// resolve reads name through the scope chain, then the overlay and its
// table.
func resolve(ec *Context, scope *Scope, name string) (object.Object, bool) {
	if b, ok := scope.Lookup(name); ok {
		return b.Value, true
	}
	return ec.Overlay.Lookup(name)
}

func visible(ec *Context, scope *Scope, name string) bool {
	return scope.Has(name) || ec.Overlay.Has(name)
}

// declare binds a new name in the innermost frame, or in the overlay when
// there is no frame.
func declare(ec *Context, scope *Scope, name string, value object.Object, isConst bool) error {
	if visible(ec, scope, name) {
		return &registry.ErrAlreadyDeclared{Name: name}
	}
	if scope != nil {
		scope.Set(name, value, isConst)
		return nil
	}
	return ec.Overlay.Declare(name, value, isConst)
}

// errConstAssignment is thrown for a write to a const binding.
func errConstAssignment() error {
	return object.NewThrownError(object.TypeErrorf("Assignment to constant variable."))
}

// store writes value to the storage location that holds name. A name that
// is only visible in the shared table is shadowed in the overlay. ok is
// false when the name is not visible at all.
func store(ec *Context, scope *Scope, name string, value object.Object) (ok bool, err error) {
	if b, found := scope.Lookup(name); found {
		if b.Const {
			return true, errConstAssignment()
		}
		b.Value = value
		return true, nil
	}
	if b, found := ec.Overlay.Binding(name); found {
		if b.Const {
			return true, errConstAssignment()
		}
		b.Value = value
		return true, nil
	}
	if ec.Overlay.Table().Has(name) {
		ec.Overlay.Shadow(name, value)
		return true, nil
	}
	return false, nil
}
