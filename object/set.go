package object

import (
	"context"
	"strings"
)

var setAttrs = NewAttrRegistry[*Set]("Set")

func init() {
	setAttrs.Define("size").
		Doc("Number of values").
		Returns("number").
		Getter(func(s *Set) Object {
			return NewNumber(float64(s.m.Len()))
		})

	setAttrs.Define("add").
		Doc("Add a value").
		Arg("value").
		Returns("Set").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			if err := s.Add(args[0]); err != nil {
				return nil, err
			}
			return s, nil
		})

	setAttrs.Define("has").
		Doc("Whether a value is present").
		Arg("value").
		Returns("boolean").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			return NewBool(s.Has(args[0])), nil
		})

	setAttrs.Define("delete").
		Doc("Remove a value, reporting whether it was present").
		Arg("value").
		Returns("boolean").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			removed, err := s.m.Delete(args[0])
			if err != nil {
				return nil, err
			}
			return NewBool(removed), nil
		})

	setAttrs.Define("clear").
		Doc("Remove all values").
		Returns("undefined").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			if err := s.m.Clear(); err != nil {
				return nil, err
			}
			return Undefined, nil
		})

	setAttrs.Define("values").
		Doc("List of values in insertion order").
		Returns("list").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			return NewList(s.Items()), nil
		})

	setAttrs.Define("forEach").
		Doc("Call a function with each value").
		Arg("callback").
		Returns("undefined").
		Impl(func(s *Set, ctx context.Context, args ...Object) (Object, error) {
			fn, err := callbackArg(args[0], "Set.forEach")
			if err != nil {
				return nil, err
			}
			for _, v := range s.Items() {
				if _, err := fn.Call(ctx, v, v, s); err != nil {
					return nil, err
				}
			}
			return Undefined, nil
		})
}

// Set is an insertion-ordered collection of unique values, compared with
// SameValueZero.
type Set struct {
	m *Map
}

// NewSet returns a Set holding items, dropping duplicates.
func NewSet(items []Object) *Set {
	s := &Set{m: NewMap()}
	for _, item := range items {
		s.m.Set(item, item)
	}
	return s
}

// Add inserts value.
func (s *Set) Add(value Object) error {
	return s.m.Set(value, value)
}

// Has reports whether value is present.
func (s *Set) Has(value Object) bool {
	_, ok := s.m.Get(value)
	return ok
}

// Items returns the values in insertion order.
func (s *Set) Items() []Object {
	return s.m.Keys()
}

func (s *Set) Len() int {
	return s.m.Len()
}

func (s *Set) Type() Type {
	return SET
}

func (s *Set) Inspect() string {
	return inspectIn(s, cycleGuard{})
}

func (s *Set) inspect(g cycleGuard) string {
	items := s.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = inspectIn(item, g)
	}
	if len(parts) == 0 {
		return "Set(0) {}"
	}
	return "Set(" + FormatNumber(float64(len(parts))) + ") { " + strings.Join(parts, ", ") + " }"
}

func (s *Set) String() string {
	return "[object Set]"
}

func (s *Set) Interface() interface{} {
	return goValueIn(s, cycleGuard{})
}

func (s *Set) goValue(g cycleGuard) any {
	items := s.Items()
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = goValueIn(item, g)
	}
	return out
}

func (s *Set) Equals(other Object) bool {
	return s == other
}

func (s *Set) IsTruthy() bool {
	return true
}

func (s *Set) Attrs() []AttrSpec {
	return setAttrs.Specs()
}

func (s *Set) GetAttr(name string) (Object, bool) {
	return setAttrs.GetAttr(s, name)
}

func (s *Set) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot create property '%s' on a Set", name)
}

func (s *Set) Freeze() {
	s.m.Freeze()
}

func (s *Set) IsFrozen() bool {
	return s.m.IsFrozen()
}
