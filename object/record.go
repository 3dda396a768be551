package object

import (
	"strconv"
	"strings"
)

// Record is a structural record, the result of an object literal. Keys keep
// insertion order. A record has no attributes other than its own keys.
//
// Records built by literals are sealed: existing keys may be reassigned, but
// no new key can be added. Frozen records reject every write.
type Record struct {
	keys   []string
	values map[string]Object
	sealed bool
	frozen bool
}

// NewRecord returns an empty, extensible record.
func NewRecord() *Record {
	return &Record{values: map[string]Object{}}
}

// NewRecordFrom returns a record holding the given entries in key order.
func NewRecordFrom(keys []string, values map[string]Object) *Record {
	r := NewRecord()
	for _, k := range keys {
		r.Put(k, values[k])
	}
	return r
}

// Put stores a value regardless of sealing. It is used while building a
// record.
func (r *Record) Put(key string, value Object) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Object, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) Type() Type {
	return RECORD
}

func (r *Record) Inspect() string {
	return inspectIn(r, cycleGuard{})
}

func (r *Record) inspect(g cycleGuard) string {
	if len(r.keys) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, k := range r.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(inspectKey(k))
		sb.WriteString(": ")
		sb.WriteString(inspectIn(r.values[k], g))
	}
	sb.WriteString(" }")
	return sb.String()
}

func inspectKey(k string) string {
	if k == "" {
		return `""`
	}
	for i, c := range k {
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return strconv.Quote(k)
	}
	return k
}

func (r *Record) String() string {
	return "[object Object]"
}

func (r *Record) Interface() interface{} {
	return goValueIn(r, cycleGuard{})
}

func (r *Record) goValue(g cycleGuard) any {
	out := make(map[string]interface{}, len(r.keys))
	for _, k := range r.keys {
		out[k] = goValueIn(r.values[k], g)
	}
	return out
}

func (r *Record) Equals(other Object) bool {
	return r == other
}

func (r *Record) IsTruthy() bool {
	return true
}

func (r *Record) GetAttr(name string) (Object, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) SetAttr(name string, value Object) error {
	if r.frozen {
		return frozenError(name)
	}
	if _, ok := r.values[name]; !ok && r.sealed {
		return sealedError(name)
	}
	r.Put(name, value)
	return nil
}

// Seal prevents new keys from being added.
func (r *Record) Seal() {
	r.sealed = true
}

func (r *Record) IsSealed() bool {
	return r.sealed || r.frozen
}

func (r *Record) Freeze() {
	r.frozen = true
	r.sealed = true
}

func (r *Record) IsFrozen() bool {
	return r.frozen
}
