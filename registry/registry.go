// Package registry holds the identifiers visible to canvasbox scripts.
//
// A Table is an immutable name to value map built once and shared by every
// evaluation. An Overlay sits on top of a Table for one evaluation and holds
// the caller's extra bindings together with everything the script declares.
// Lookups consult the overlay first, so the shared table is never written.
package registry

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// Table is a frozen set of named capabilities.
type Table struct {
	values map[string]object.Object
	names  []string
}

// NewTable returns a table holding a copy of values.
func NewTable(values map[string]object.Object) *Table {
	t := &Table{values: make(map[string]object.Object, len(values))}
	for name, value := range values {
		t.values[name] = value
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// Get returns the value bound to name.
func (t *Table) Get(name string) (object.Object, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[name]
	return v, ok
}

// Has reports whether name is bound.
func (t *Table) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Names returns the bound names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of bound names.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// With returns a new table holding the entries of t plus values. Entries in
// values replace entries of the same name. t is not modified.
func (t *Table) With(values map[string]object.Object) *Table {
	merged := make(map[string]object.Object, t.Len()+len(values))
	if t != nil {
		for name, value := range t.values {
			merged[name] = value
		}
	}
	for name, value := range values {
		merged[name] = value
	}
	return NewTable(merged)
}

// Without returns a new table lacking the given names.
func (t *Table) Without(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	kept := map[string]object.Object{}
	if t != nil {
		for name, value := range t.values {
			if !drop[name] {
				kept[name] = value
			}
		}
	}
	return NewTable(kept)
}

// Binding is a single overlay entry.
type Binding struct {
	Value object.Object
	Const bool
}

// ErrAlreadyDeclared is returned by Overlay.Declare for a visible name.
type ErrAlreadyDeclared struct {
	Name string
}

func (e *ErrAlreadyDeclared) Error() string {
	return fmt.Sprintf("The identifier `%s` has already been declared", e.Name)
}

// Overlay holds the per-evaluation bindings layered over a Table. It is
// owned by one evaluation and is not safe for concurrent use.
type Overlay struct {
	table    *Table
	bindings map[string]*Binding
}

// NewOverlay returns an empty overlay over table. table may be nil.
func NewOverlay(table *Table) *Overlay {
	return &Overlay{table: table, bindings: map[string]*Binding{}}
}

// Table returns the table beneath the overlay.
func (o *Overlay) Table() *Table {
	return o.table
}

// Bind sets a caller-supplied extra. It replaces any previous binding of the
// same name and shadows a table entry.
func (o *Overlay) Bind(name string, value object.Object) {
	o.bindings[name] = &Binding{Value: value}
}

// Lookup resolves name through the overlay, then the table.
func (o *Overlay) Lookup(name string) (object.Object, bool) {
	if b, ok := o.bindings[name]; ok {
		return b.Value, true
	}
	return o.table.Get(name)
}

// Binding returns the overlay's own binding for name, if any.
func (o *Overlay) Binding(name string) (*Binding, bool) {
	b, ok := o.bindings[name]
	return b, ok
}

// Has reports whether name is visible through the overlay or the table.
func (o *Overlay) Has(name string) bool {
	_, ok := o.Lookup(name)
	return ok
}

// Declare binds a new name in the overlay. A name that is already visible,
// whether in the overlay or the table, is rejected.
func (o *Overlay) Declare(name string, value object.Object, isConst bool) error {
	if o.Has(name) {
		return &ErrAlreadyDeclared{Name: name}
	}
	o.bindings[name] = &Binding{Value: value, Const: isConst}
	return nil
}

// Shadow writes value into the overlay binding for name, creating one when
// the name is only visible in the table.
func (o *Overlay) Shadow(name string, value object.Object) {
	if b, ok := o.bindings[name]; ok {
		b.Value = value
		return
	}
	o.bindings[name] = &Binding{Value: value}
}

// Names returns every visible name in sorted order.
func (o *Overlay) Names() []string {
	seen := make(map[string]bool, len(o.bindings)+o.table.Len())
	var names []string
	for name := range o.bindings {
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range o.table.Names() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
