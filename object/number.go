package object

import (
	"context"
	"math"
	"strconv"
)

var numberAttrs = NewAttrRegistry[*Number]("Number")

func init() {
	numberAttrs.Define("toFixed").
		Doc("Format using fixed-point notation").
		OptionalArg("digits").
		Returns("string").
		Impl(func(n *Number, ctx context.Context, args ...Object) (Object, error) {
			digits := 0
			if len(args) > 0 {
				d, err := ToIntegerArg(args[0], "toFixed")
				if err != nil {
					return nil, err
				}
				digits = d
			}
			if digits < 0 || digits > 100 {
				return nil, RangeErrorf("toFixed() digits argument must be between 0 and 100")
			}
			if math.IsNaN(n.value) || math.IsInf(n.value, 0) || math.Abs(n.value) >= 1e21 {
				return NewString(FormatNumber(n.value)), nil
			}
			return NewString(strconv.FormatFloat(n.value, 'f', digits, 64)), nil
		})

	numberAttrs.Define("toString").
		Doc("Convert to a string in the given radix").
		OptionalArg("radix").
		Returns("string").
		Impl(func(n *Number, ctx context.Context, args ...Object) (Object, error) {
			radix := 10
			if len(args) > 0 && args[0] != Undefined {
				r, err := ToIntegerArg(args[0], "toString")
				if err != nil {
					return nil, err
				}
				radix = r
			}
			if radix < 2 || radix > 36 {
				return nil, RangeErrorf("toString() radix must be between 2 and 36")
			}
			if radix == 10 || n.value != math.Trunc(n.value) || math.IsInf(n.value, 0) {
				return NewString(FormatNumber(n.value)), nil
			}
			return NewString(strconv.FormatInt(int64(n.value), radix)), nil
		})
}

// Number wraps float64 and implements Object. All script numbers are IEEE
// 754 doubles.
type Number struct {
	value float64
}

// NewNumber returns a number object.
func NewNumber(value float64) *Number {
	return &Number{value: value}
}

// NaN returns a new NaN number.
func NaN() *Number {
	return &Number{value: math.NaN()}
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() float64 {
	return n.value
}

func (n *Number) Inspect() string {
	return FormatNumber(n.value)
}

func (n *Number) String() string {
	return n.Inspect()
}

func (n *Number) Interface() interface{} {
	return n.value
}

// Equals follows strict equality, so NaN is not equal to itself and +0
// equals -0.
func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && o.value == n.value
}

func (n *Number) IsTruthy() bool {
	return n.value != 0 && !math.IsNaN(n.value)
}

func (n *Number) Attrs() []AttrSpec {
	return numberAttrs.Specs()
}

func (n *Number) GetAttr(name string) (Object, bool) {
	return numberAttrs.GetAttr(n, name)
}

func (n *Number) SetAttr(name string, value Object) error {
	return nil
}
