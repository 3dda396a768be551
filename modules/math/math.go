// Package math provides the Math namespace.
package math

import (
	"context"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/deepnoodle-ai/canvasbox/object"
)

func arg(args []object.Object, i int) float64 {
	if i < len(args) {
		return object.ToNumber(args[i])
	}
	return math.NaN()
}

// unary wraps a float64 function so it coerces its first argument the way
// every Math function does. A missing argument is NaN.
func unary(fn func(float64) float64) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return object.NewNumber(fn(arg(args, 0))), nil
	}
}

func binary(fn func(x, y float64) float64) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return object.NewNumber(fn(arg(args, 0), arg(args, 1))), nil
	}
}

// Round rounds half up, toward positive infinity, keeping negative zero.
func Round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == math.Trunc(x) {
		return x
	}
	r := math.Floor(x + 0.5)
	if r == 0 && x < 0 {
		return math.Copysign(0, -1)
	}
	return r
}

func Sign(x float64) float64 {
	switch {
	case math.IsNaN(x), x == 0:
		return x
	case x > 0:
		return 1
	}
	return -1
}

func Max(ctx context.Context, args ...object.Object) (object.Object, error) {
	result := math.Inf(-1)
	for _, a := range args {
		v := object.ToNumber(a)
		if math.IsNaN(v) {
			return object.NaN(), nil
		}
		if v > result || (v == 0 && result == 0 && !math.Signbit(v)) {
			result = v
		}
	}
	return object.NewNumber(result), nil
}

func Min(ctx context.Context, args ...object.Object) (object.Object, error) {
	result := math.Inf(1)
	for _, a := range args {
		v := object.ToNumber(a)
		if math.IsNaN(v) {
			return object.NaN(), nil
		}
		if v < result || (v == 0 && result == 0 && math.Signbit(v)) {
			result = v
		}
	}
	return object.NewNumber(result), nil
}

func Hypot(ctx context.Context, args ...object.Object) (object.Object, error) {
	sum, sawNaN := 0.0, false
	for _, a := range args {
		v := object.ToNumber(a)
		if math.IsInf(v, 0) {
			return object.NewNumber(math.Inf(1)), nil
		}
		if math.IsNaN(v) {
			sawNaN = true
		}
		sum += v * v
	}
	if sawNaN {
		return object.NaN(), nil
	}
	return object.NewNumber(math.Sqrt(sum)), nil
}

func Pow(x, y float64) float64 {
	if math.IsNaN(y) || (math.Abs(x) == 1 && math.IsInf(y, 0)) {
		return math.NaN()
	}
	return math.Pow(x, y)
}

func Random(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewNumber(rand.Float64()), nil
}

func Clz32(ctx context.Context, args ...object.Object) (object.Object, error) {
	var v uint32
	if len(args) > 0 {
		v = object.ToUint32(args[0])
	}
	return object.NewNumber(float64(bits.LeadingZeros32(v))), nil
}

func Imul(ctx context.Context, args ...object.Object) (object.Object, error) {
	var a, b int32
	if len(args) > 0 {
		a = object.ToInt32(args[0])
	}
	if len(args) > 1 {
		b = object.ToInt32(args[1])
	}
	return object.NewNumber(float64(a * b)), nil
}

func Module() *object.Module {
	return object.NewModule("Math", map[string]object.Object{
		"E":       object.NewNumber(math.E),
		"LN10":    object.NewNumber(math.Ln10),
		"LN2":     object.NewNumber(math.Ln2),
		"LOG10E":  object.NewNumber(math.Log10E),
		"LOG2E":   object.NewNumber(math.Log2E),
		"PI":      object.NewNumber(math.Pi),
		"SQRT1_2": object.NewNumber(math.Sqrt2 / 2),
		"SQRT2":   object.NewNumber(math.Sqrt2),
		"abs":     object.NewBuiltin("abs", unary(math.Abs)),
		"acos":    object.NewBuiltin("acos", unary(math.Acos)),
		"acosh":   object.NewBuiltin("acosh", unary(math.Acosh)),
		"asin":    object.NewBuiltin("asin", unary(math.Asin)),
		"asinh":   object.NewBuiltin("asinh", unary(math.Asinh)),
		"atan":    object.NewBuiltin("atan", unary(math.Atan)),
		"atan2":   object.NewBuiltin("atan2", binary(math.Atan2)),
		"atanh":   object.NewBuiltin("atanh", unary(math.Atanh)),
		"cbrt":    object.NewBuiltin("cbrt", unary(math.Cbrt)),
		"ceil":    object.NewBuiltin("ceil", unary(math.Ceil)),
		"clz32":   object.NewBuiltin("clz32", Clz32),
		"cos":     object.NewBuiltin("cos", unary(math.Cos)),
		"cosh":    object.NewBuiltin("cosh", unary(math.Cosh)),
		"exp":     object.NewBuiltin("exp", unary(math.Exp)),
		"expm1":   object.NewBuiltin("expm1", unary(math.Expm1)),
		"floor":   object.NewBuiltin("floor", unary(math.Floor)),
		"fround":  object.NewBuiltin("fround", unary(func(x float64) float64 { return float64(float32(x)) })),
		"hypot":   object.NewBuiltin("hypot", Hypot),
		"imul":    object.NewBuiltin("imul", Imul),
		"log":     object.NewBuiltin("log", unary(math.Log)),
		"log10":   object.NewBuiltin("log10", unary(math.Log10)),
		"log1p":   object.NewBuiltin("log1p", unary(math.Log1p)),
		"log2":    object.NewBuiltin("log2", unary(math.Log2)),
		"max":     object.NewBuiltin("max", Max),
		"min":     object.NewBuiltin("min", Min),
		"pow":     object.NewBuiltin("pow", binary(Pow)),
		"random":  object.NewBuiltin("random", Random),
		"round":   object.NewBuiltin("round", unary(Round)),
		"sign":    object.NewBuiltin("sign", unary(Sign)),
		"sin":     object.NewBuiltin("sin", unary(math.Sin)),
		"sinh":    object.NewBuiltin("sinh", unary(math.Sinh)),
		"sqrt":    object.NewBuiltin("sqrt", unary(math.Sqrt)),
		"tan":     object.NewBuiltin("tan", unary(math.Tan)),
		"tanh":    object.NewBuiltin("tanh", unary(math.Tanh)),
		"trunc":   object.NewBuiltin("trunc", unary(math.Trunc)),
	})
}
