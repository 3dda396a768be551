package object

import (
	"math"

	"github.com/deepnoodle-ai/canvasbox/op"
)

// BinaryFunc is the pure transform behind one binary operator.
type BinaryFunc func(a, b Object) (Object, error)

// UnaryFunc is the pure transform behind one unary operator.
type UnaryFunc func(a Object) (Object, error)

var binaryOps = map[op.BinaryOpType]BinaryFunc{
	op.Add:                add,
	op.Subtract:           numeric(func(x, y float64) float64 { return x - y }),
	op.Multiply:           numeric(func(x, y float64) float64 { return x * y }),
	op.Divide:             numeric(func(x, y float64) float64 { return x / y }),
	op.Modulo:             numeric(math.Mod),
	op.Power:              numeric(power),
	op.Equal:              boolean(LooseEquals),
	op.NotEqual:           boolean(func(a, b Object) bool { return !LooseEquals(a, b) }),
	op.StrictEqual:        boolean(StrictEquals),
	op.StrictNotEqual:     boolean(func(a, b Object) bool { return !StrictEquals(a, b) }),
	op.LessThan:           relational(func(c int) bool { return c < 0 }),
	op.LessThanOrEqual:    relational(func(c int) bool { return c <= 0 }),
	op.GreaterThan:        relational(func(c int) bool { return c > 0 }),
	op.GreaterThanOrEqual: relational(func(c int) bool { return c >= 0 }),
	op.And: func(a, b Object) (Object, error) {
		if a.IsTruthy() {
			return b, nil
		}
		return a, nil
	},
	op.Or: func(a, b Object) (Object, error) {
		if a.IsTruthy() {
			return a, nil
		}
		return b, nil
	},
	op.BitwiseAnd: int32s(func(x, y int32) int32 { return x & y }),
	op.BitwiseOr:  int32s(func(x, y int32) int32 { return x | y }),
	op.Xor:        int32s(func(x, y int32) int32 { return x ^ y }),
	op.LShift: func(a, b Object) (Object, error) {
		return NewNumber(float64(int32(uint32(ToInt32(a)) << (ToUint32(b) & 31)))), nil
	},
	op.RShift: func(a, b Object) (Object, error) {
		return NewNumber(float64(ToInt32(a) >> (ToUint32(b) & 31))), nil
	},
	op.URShift: func(a, b Object) (Object, error) {
		return NewNumber(float64(ToUint32(a) >> (ToUint32(b) & 31))), nil
	},
	op.In: in,
}

var unaryOps = map[op.UnaryOpType]UnaryFunc{
	op.Plus: func(a Object) (Object, error) {
		return NewNumber(ToNumber(a)), nil
	},
	op.Negate: func(a Object) (Object, error) {
		return NewNumber(-ToNumber(a)), nil
	},
	op.BitwiseNot: func(a Object) (Object, error) {
		return NewNumber(float64(^ToInt32(a))), nil
	},
	op.Not: func(a Object) (Object, error) {
		return Not(a), nil
	},
	op.TypeOf: func(a Object) (Object, error) {
		return NewString(TypeOf(a)), nil
	},
}

// LookupBinaryOp returns the transform for a binary operator.
func LookupBinaryOp(t op.BinaryOpType) (BinaryFunc, bool) {
	fn, ok := binaryOps[t]
	return fn, ok
}

// LookupUnaryOp returns the transform for a unary operator.
func LookupUnaryOp(t op.UnaryOpType) (UnaryFunc, bool) {
	fn, ok := unaryOps[t]
	return fn, ok
}

// BinaryOp applies a binary operator to two evaluated operands.
func BinaryOp(t op.BinaryOpType, a, b Object) (Object, error) {
	fn, ok := binaryOps[t]
	if !ok {
		return nil, TypeErrorf("unsupported operator %s", t)
	}
	return fn(a, b)
}

// UnaryOp applies a unary operator to an evaluated operand.
func UnaryOp(t op.UnaryOpType, a Object) (Object, error) {
	fn, ok := unaryOps[t]
	if !ok {
		return nil, TypeErrorf("unsupported operator %s", t)
	}
	return fn(a)
}

func numeric(fn func(x, y float64) float64) BinaryFunc {
	return func(a, b Object) (Object, error) {
		return NewNumber(fn(ToNumber(a), ToNumber(b))), nil
	}
}

func int32s(fn func(x, y int32) int32) BinaryFunc {
	return func(a, b Object) (Object, error) {
		return NewNumber(float64(fn(ToInt32(a), ToInt32(b)))), nil
	}
}

func boolean(fn func(a, b Object) bool) BinaryFunc {
	return func(a, b Object) (Object, error) {
		return NewBool(fn(a, b)), nil
	}
}

func relational(test func(c int) bool) BinaryFunc {
	return func(a, b Object) (Object, error) {
		c, ok := compare(a, b)
		if !ok {
			return False, nil
		}
		return NewBool(test(c)), nil
	}
}

func add(a, b Object) (Object, error) {
	pa, pb := ToPrimitive(a), ToPrimitive(b)
	_, aStr := pa.(*String)
	_, bStr := pb.(*String)
	if aStr || bStr {
		s := ToString(pa) + ToString(pb)
		if len(s) > MaxStringLength {
			return nil, RangeErrorf("Invalid string length")
		}
		return NewString(s), nil
	}
	return NewNumber(ToNumber(pa) + ToNumber(pb)), nil
}

// power follows the exponent operator, which differs from math.Pow for a
// NaN exponent and for a base of +/-1 raised to an infinite power.
func power(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}
	return math.Pow(x, y)
}

// compare orders two operands after ToPrimitive: strings lexically,
// everything else numerically. ok is false when either side is NaN.
func compare(a, b Object) (int, bool) {
	pa, pb := ToPrimitive(a), ToPrimitive(b)
	sa, aStr := pa.(*String)
	sb, bStr := pb.(*String)
	if aStr && bStr {
		switch {
		case sa.value < sb.value:
			return -1, true
		case sa.value > sb.value:
			return 1, true
		}
		return 0, true
	}
	x, y := ToNumber(pa), ToNumber(pb)
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return 0, false
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

func in(a, b Object) (Object, error) {
	if IsPrimitive(b) {
		return nil, TypeErrorf("Cannot use 'in' operator to search for '%s' in %s",
			ToString(a), ToString(b))
	}
	_, ok := b.GetAttr(ToPropertyKey(a))
	return NewBool(ok), nil
}

// StrictEquals implements === for any pair of values.
func StrictEquals(a, b Object) bool {
	return a.Equals(b)
}

// LooseEquals implements == with the abstract-equality coercions: null and
// undefined equal each other, booleans and strings compare as numbers, and
// objects compare to primitives through ToPrimitive.
func LooseEquals(a, b Object) bool {
	if a.Type() == b.Type() {
		return a.Equals(b)
	}
	if IsNullish(a) || IsNullish(b) {
		return IsNullish(a) && IsNullish(b)
	}
	switch a.(type) {
	case *Bool:
		return LooseEquals(NewNumber(ToNumber(a)), b)
	}
	switch b.(type) {
	case *Bool:
		return LooseEquals(a, NewNumber(ToNumber(b)))
	}
	aPrim, bPrim := IsPrimitive(a), IsPrimitive(b)
	switch {
	case aPrim && bPrim:
		// number and string
		return ToNumber(a) == ToNumber(b)
	case aPrim:
		return LooseEquals(a, ToPrimitive(b))
	case bPrim:
		return LooseEquals(ToPrimitive(a), b)
	}
	return false
}
