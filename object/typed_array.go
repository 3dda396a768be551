package object

import (
	"context"
	"math"
	"strings"
)

// ArrayKind selects the element type of a TypedArray.
type ArrayKind int

const (
	Int8 ArrayKind = iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

var arrayKindNames = map[ArrayKind]string{
	Int8:         "Int8Array",
	Uint8:        "Uint8Array",
	Uint8Clamped: "Uint8ClampedArray",
	Int16:        "Int16Array",
	Uint16:       "Uint16Array",
	Int32:        "Int32Array",
	Uint32:       "Uint32Array",
	Float32:      "Float32Array",
	Float64:      "Float64Array",
}

// ArrayKinds lists every typed array kind in constructor order.
var ArrayKinds = []ArrayKind{Int8, Uint8, Uint8Clamped, Int16, Uint16, Int32, Uint32, Float32, Float64}

func (k ArrayKind) String() string {
	return arrayKindNames[k]
}

// BytesPerElement returns the element size of the kind.
func (k ArrayKind) BytesPerElement() int {
	switch k {
	case Int8, Uint8, Uint8Clamped:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	}
	return 8
}

// Coerce converts a number to what an element of this kind stores.
func (k ArrayKind) Coerce(f float64) float64 {
	switch k {
	case Int8:
		return float64(int8(float64ToUint32(f)))
	case Uint8:
		return float64(uint8(float64ToUint32(f)))
	case Uint8Clamped:
		if math.IsNaN(f) || f <= 0 {
			return 0
		}
		if f >= 255 {
			return 255
		}
		return math.RoundToEven(f)
	case Int16:
		return float64(int16(float64ToUint32(f)))
	case Uint16:
		return float64(uint16(float64ToUint32(f)))
	case Int32:
		return float64(int32(float64ToUint32(f)))
	case Uint32:
		return float64(float64ToUint32(f))
	case Float32:
		return float64(float32(f))
	}
	return f
}

// MaxTypedArrayLength bounds the size of a typed array.
const MaxTypedArrayLength = 1 << 26

var typedArrayAttrs = NewAttrRegistry[*TypedArray]("TypedArray")

func init() {
	typedArrayAttrs.Define("length").
		Doc("Number of elements").
		Returns("number").
		Getter(func(a *TypedArray) Object {
			return NewNumber(float64(len(a.values)))
		})

	typedArrayAttrs.Define("byteLength").
		Doc("Size in bytes").
		Returns("number").
		Getter(func(a *TypedArray) Object {
			return NewNumber(float64(len(a.values) * a.kind.BytesPerElement()))
		})

	typedArrayAttrs.Define("BYTES_PER_ELEMENT").
		Doc("Size of one element in bytes").
		Returns("number").
		Getter(func(a *TypedArray) Object {
			return NewNumber(float64(a.kind.BytesPerElement()))
		})

	typedArrayAttrs.Define("fill").
		Doc("Fill with a value").
		Arg("value").
		OptionalArg("start").
		OptionalArg("end").
		Returns("typed array").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			if a.frozen {
				return nil, frozenError("0")
			}
			v := a.kind.Coerce(ToNumber(args[0]))
			start := relativeIndex(argOr(args, 1), len(a.values), 0)
			end := relativeIndex(argOr(args, 2), len(a.values), len(a.values))
			for i := start; i < end; i++ {
				a.values[i] = v
			}
			return a, nil
		})

	typedArrayAttrs.Define("slice").
		Doc("Copy a section into a new array of the same kind").
		OptionalArg("start").
		OptionalArg("end").
		Returns("typed array").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			start := relativeIndex(argOr(args, 0), len(a.values), 0)
			end := relativeIndex(argOr(args, 1), len(a.values), len(a.values))
			if start > end {
				end = start
			}
			values := make([]float64, end-start)
			copy(values, a.values[start:end])
			return &TypedArray{kind: a.kind, values: values}, nil
		})

	typedArrayAttrs.Define("set").
		Doc("Copy values from a list or typed array").
		Arg("source").
		OptionalArg("offset").
		Returns("undefined").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			if a.frozen {
				return nil, frozenError("0")
			}
			src, ok := args[0].(Iterable)
			if !ok {
				return nil, TypeErrorf("%s.set: source must be a list or typed array", a.kind)
			}
			offset := int(ToIntegerOrInfinity(argOr(args, 1)))
			items := src.Items()
			if offset < 0 || offset+len(items) > len(a.values) {
				return nil, RangeErrorf("offset is out of bounds")
			}
			for i, item := range items {
				a.values[offset+i] = a.kind.Coerce(ToNumber(item))
			}
			return Undefined, nil
		})

	typedArrayAttrs.Define("join").
		Doc("Join the elements into a string").
		OptionalArg("separator").
		Returns("string").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			sep := ","
			if len(args) > 0 && args[0] != Undefined {
				sep = ToString(args[0])
			}
			return NewString(joinItems(a.Items(), sep, cycleGuard{})), nil
		})

	typedArrayAttrs.Define("includes").
		Doc("Whether the array contains a value").
		Arg("value").
		Returns("boolean").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			n, ok := args[0].(*Number)
			if !ok {
				return False, nil
			}
			for _, v := range a.values {
				if SameValueZero(NewNumber(v), n) {
					return True, nil
				}
			}
			return False, nil
		})

	typedArrayAttrs.Define("indexOf").
		Doc("Index of the first equal element, or -1").
		Arg("value").
		Returns("number").
		Impl(func(a *TypedArray, ctx context.Context, args ...Object) (Object, error) {
			if n, ok := args[0].(*Number); ok {
				for i, v := range a.values {
					if v == n.value {
						return NewNumber(float64(i)), nil
					}
				}
			}
			return NewNumber(-1), nil
		})
}

// TypedArray is a fixed-length numeric buffer. Elements are stored as
// float64 and coerced to the kind's range on every write.
type TypedArray struct {
	kind   ArrayKind
	values []float64
	frozen bool
}

// NewTypedArray returns a zero-filled array of the given length.
func NewTypedArray(kind ArrayKind, length int) (*TypedArray, error) {
	if length < 0 || length > MaxTypedArrayLength {
		return nil, RangeErrorf("Invalid typed array length: %d", length)
	}
	return &TypedArray{kind: kind, values: make([]float64, length)}, nil
}

// NewTypedArrayFrom returns an array holding the coerced numeric values of
// items.
func NewTypedArrayFrom(kind ArrayKind, items []Object) (*TypedArray, error) {
	a, err := NewTypedArray(kind, len(items))
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		a.values[i] = kind.Coerce(ToNumber(item))
	}
	return a, nil
}

// NewUint8ArrayFromBytes wraps a byte slice, such as encoded PNG data.
func NewUint8ArrayFromBytes(b []byte) *TypedArray {
	values := make([]float64, len(b))
	for i, c := range b {
		values[i] = float64(c)
	}
	return &TypedArray{kind: Uint8, values: values}
}

// Kind returns the element kind.
func (a *TypedArray) Kind() ArrayKind {
	return a.kind
}

// Bytes returns the elements truncated to bytes. It is meaningful for the
// 8-bit kinds.
func (a *TypedArray) Bytes() []byte {
	out := make([]byte, len(a.values))
	for i, v := range a.values {
		out[i] = byte(int64(v))
	}
	return out
}

// Items returns the elements as numbers.
func (a *TypedArray) Items() []Object {
	out := make([]Object, len(a.values))
	for i, v := range a.values {
		out[i] = NewNumber(v)
	}
	return out
}

func (a *TypedArray) Len() int {
	return len(a.values)
}

func (a *TypedArray) Type() Type {
	return TYPED_ARRAY
}

func (a *TypedArray) Inspect() string {
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = FormatNumber(v)
	}
	return a.kind.String() + "(" + FormatNumber(float64(len(a.values))) + ") [" + strings.Join(parts, ", ") + "]"
}

func (a *TypedArray) String() string {
	return joinItems(a.Items(), ",", cycleGuard{})
}

func (a *TypedArray) Interface() interface{} {
	out := make([]float64, len(a.values))
	copy(out, a.values)
	return out
}

func (a *TypedArray) Equals(other Object) bool {
	return a == other
}

func (a *TypedArray) IsTruthy() bool {
	return true
}

func (a *TypedArray) Attrs() []AttrSpec {
	return typedArrayAttrs.Specs()
}

func (a *TypedArray) GetAttr(name string) (Object, bool) {
	if i, ok := ParseIndex(name); ok {
		if i >= len(a.values) {
			return nil, false
		}
		return NewNumber(a.values[i]), true
	}
	return typedArrayAttrs.GetAttr(a, name)
}

// SetAttr writes an element. Out of range index writes are ignored, as
// they are for typed arrays.
func (a *TypedArray) SetAttr(name string, value Object) error {
	if i, ok := ParseIndex(name); ok {
		if a.frozen {
			return frozenError(name)
		}
		if i < len(a.values) {
			a.values[i] = a.kind.Coerce(ToNumber(value))
		}
		return nil
	}
	return TypeErrorf("Cannot create property '%s' on a %s", name, a.kind)
}

// Freeze makes the elements read-only.
func (a *TypedArray) Freeze() {
	a.frozen = true
}

func (a *TypedArray) IsFrozen() bool {
	return a.frozen
}
