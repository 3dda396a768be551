package object

import (
	"context"
	"math"
	"strings"
)

var mapAttrs = NewAttrRegistry[*Map]("Map")

func init() {
	mapAttrs.Define("size").
		Doc("Number of entries").
		Returns("number").
		Getter(func(m *Map) Object {
			return NewNumber(float64(len(m.entries)))
		})

	mapAttrs.Define("get").
		Doc("Value stored under a key, or undefined").
		Arg("key").
		Returns("any").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			if v, ok := m.Get(args[0]); ok {
				return v, nil
			}
			return Undefined, nil
		})

	mapAttrs.Define("set").
		Doc("Store a value under a key").
		Args("key", "value").
		Returns("Map").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			if err := m.Set(args[0], args[1]); err != nil {
				return nil, err
			}
			return m, nil
		})

	mapAttrs.Define("has").
		Doc("Whether a key is present").
		Arg("key").
		Returns("boolean").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			_, ok := m.Get(args[0])
			return NewBool(ok), nil
		})

	mapAttrs.Define("delete").
		Doc("Remove a key, reporting whether it was present").
		Arg("key").
		Returns("boolean").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			removed, err := m.Delete(args[0])
			if err != nil {
				return nil, err
			}
			return NewBool(removed), nil
		})

	mapAttrs.Define("clear").
		Doc("Remove all entries").
		Returns("undefined").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			if err := m.Clear(); err != nil {
				return nil, err
			}
			return Undefined, nil
		})

	mapAttrs.Define("keys").
		Doc("List of keys in insertion order").
		Returns("list").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			return NewList(m.Keys()), nil
		})

	mapAttrs.Define("values").
		Doc("List of values in insertion order").
		Returns("list").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			out := make([]Object, len(m.entries))
			for i, e := range m.entries {
				out[i] = e.value
			}
			return NewList(out), nil
		})

	mapAttrs.Define("entries").
		Doc("List of [key, value] pairs in insertion order").
		Returns("list").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			return NewList(m.Items()), nil
		})

	mapAttrs.Define("forEach").
		Doc("Call a function with each value and key").
		Arg("callback").
		Returns("undefined").
		Impl(func(m *Map, ctx context.Context, args ...Object) (Object, error) {
			fn, err := callbackArg(args[0], "Map.forEach")
			if err != nil {
				return nil, err
			}
			for _, e := range m.entries {
				if _, err := fn.Call(ctx, e.value, e.key, m); err != nil {
					return nil, err
				}
			}
			return Undefined, nil
		})
}

// hashKey identifies a value under SameValueZero: primitives by value,
// everything else by identity.
type hashKey struct {
	kind byte
	num  float64
	str  string
	ref  Object
}

func keyOf(obj Object) hashKey {
	switch obj := obj.(type) {
	case *Number:
		if math.IsNaN(obj.value) {
			return hashKey{kind: 'N'}
		}
		if obj.value == 0 {
			// +0 and -0 are the same key.
			return hashKey{kind: 'n'}
		}
		return hashKey{kind: 'n', num: obj.value}
	case *String:
		return hashKey{kind: 's', str: obj.value}
	case *Bool:
		if obj.value {
			return hashKey{kind: 't'}
		}
		return hashKey{kind: 'f'}
	case *UndefinedType:
		return hashKey{kind: 'u'}
	case *NullType:
		return hashKey{kind: '0'}
	}
	return hashKey{kind: 'o', ref: obj}
}

type entry struct {
	key   Object
	value Object
}

type entryList []entry

func (l *entryList) remove(key Object) bool {
	k := keyOf(key)
	for i, e := range *l {
		if keyOf(e.key) == k {
			*l = append((*l)[:i:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Map is an insertion-ordered key/value container whose keys may be any
// value.
type Map struct {
	entries entryList
	index   map[hashKey]int
	frozen  bool
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) lookup(key Object) (int, bool) {
	i, ok := m.index[keyOf(key)]
	return i, ok
}

func (m *Map) reindex() {
	m.index = make(map[hashKey]int, len(m.entries))
	for i, e := range m.entries {
		m.index[keyOf(e.key)] = i
	}
}

// Get returns the value stored under key.
func (m *Map) Get(key Object) (Object, bool) {
	i, ok := m.lookup(key)
	if !ok {
		return nil, false
	}
	return m.entries[i].value, true
}

// Set stores value under key.
func (m *Map) Set(key, value Object) error {
	if m.frozen {
		return frozenError("set")
	}
	if i, ok := m.lookup(key); ok {
		m.entries[i].value = value
		return nil
	}
	if m.index == nil {
		m.index = map[hashKey]int{}
	}
	m.index[keyOf(key)] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, value: value})
	return nil
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key Object) (bool, error) {
	if m.frozen {
		return false, frozenError("delete")
	}
	removed := m.entries.remove(key)
	m.reindex()
	return removed, nil
}

// Clear removes every entry.
func (m *Map) Clear() error {
	if m.frozen {
		return frozenError("clear")
	}
	m.entries = nil
	m.index = nil
	return nil
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Object {
	out := make([]Object, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// Items returns [key, value] pairs, used when spreading a Map.
func (m *Map) Items() []Object {
	out := make([]Object, len(m.entries))
	for i, e := range m.entries {
		out[i] = NewList([]Object{e.key, e.value})
	}
	return out
}

func (m *Map) Len() int {
	return len(m.entries)
}

func (m *Map) Type() Type {
	return MAP
}

func (m *Map) Inspect() string {
	return inspectIn(m, cycleGuard{})
}

func (m *Map) inspect(g cycleGuard) string {
	var sb strings.Builder
	sb.WriteString("Map(")
	sb.WriteString(FormatNumber(float64(len(m.entries))))
	sb.WriteString(") {")
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(inspectIn(e.key, g))
		sb.WriteString(" => ")
		sb.WriteString(inspectIn(e.value, g))
	}
	if len(m.entries) > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

func (m *Map) String() string {
	return "[object Map]"
}

func (m *Map) Interface() interface{} {
	return goValueIn(m, cycleGuard{})
}

func (m *Map) goValue(g cycleGuard) any {
	out := make(map[string]interface{}, len(m.entries))
	for _, e := range m.entries {
		out[toString(e.key, g)] = goValueIn(e.value, g)
	}
	return out
}

func (m *Map) Equals(other Object) bool {
	return m == other
}

func (m *Map) IsTruthy() bool {
	return true
}

func (m *Map) Attrs() []AttrSpec {
	return mapAttrs.Specs()
}

func (m *Map) GetAttr(name string) (Object, bool) {
	return mapAttrs.GetAttr(m, name)
}

func (m *Map) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot create property '%s' on a Map", name)
}

func (m *Map) Freeze() {
	m.frozen = true
}

func (m *Map) IsFrozen() bool {
	return m.frozen
}
