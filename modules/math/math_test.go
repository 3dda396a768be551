package math

import (
	"context"
	"math"
	"testing"

	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, name string, args ...object.Object) float64 {
	t.Helper()
	fn, ok := Module().GetAttr(name)
	require.True(t, ok, name)
	result, err := fn.(*object.Builtin).Call(context.Background(), args...)
	require.NoError(t, err)
	return result.(*object.Number).Value()
}

func num(f float64) object.Object { return object.NewNumber(f) }

func TestFunctions(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		args     []object.Object
		expected float64
	}{
		{"abs", "abs", []object.Object{num(-3.5)}, 3.5},
		{"abs string", "abs", []object.Object{object.NewString("-2")}, 2},
		{"floor", "floor", []object.Object{num(2.7)}, 2},
		{"ceil", "ceil", []object.Object{num(2.1)}, 3},
		{"round half", "round", []object.Object{num(2.5)}, 3},
		{"round negative half", "round", []object.Object{num(-2.5)}, -2},
		{"trunc", "trunc", []object.Object{num(-2.7)}, -2},
		{"sign", "sign", []object.Object{num(-9)}, -1},
		{"sqrt", "sqrt", []object.Object{num(16)}, 4},
		{"cbrt", "cbrt", []object.Object{num(27)}, 3},
		{"pow", "pow", []object.Object{num(2), num(8)}, 256},
		{"hypot", "hypot", []object.Object{num(3), num(4)}, 5},
		{"max", "max", []object.Object{num(1), num(7), num(3)}, 7},
		{"min", "min", []object.Object{num(1), num(7), num(-3)}, -3},
		{"max empty", "max", nil, math.Inf(-1)},
		{"min empty", "min", nil, math.Inf(1)},
		{"clz32", "clz32", []object.Object{num(1)}, 31},
		{"imul", "imul", []object.Object{num(0xffffffff), num(5)}, -5},
		{"fround", "fround", []object.Object{num(5.5)}, 5.5},
		{"atan2", "atan2", []object.Object{num(0), num(1)}, 0},
		{"log2", "log2", []object.Object{num(8)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, call(t, tt.fn, tt.args...))
		})
	}
}

func TestNaNResults(t *testing.T) {
	require.True(t, math.IsNaN(call(t, "abs")))
	require.True(t, math.IsNaN(call(t, "max", num(1), object.NewString("x"))))
	require.True(t, math.IsNaN(call(t, "pow", num(1), num(math.Inf(1)))))
	require.True(t, math.IsNaN(call(t, "hypot", num(1), object.NaN())))
	require.Equal(t, math.Inf(1), call(t, "hypot", object.NaN(), num(math.Inf(-1))))
}

func TestSignedZero(t *testing.T) {
	require.True(t, math.Signbit(call(t, "round", num(-0.2))))
	require.True(t, math.Signbit(call(t, "min", num(0), num(math.Copysign(0, -1)))))
	require.False(t, math.Signbit(call(t, "max", num(math.Copysign(0, -1)), num(0))))
}

func TestRandom(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := call(t, "random")
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestConstants(t *testing.T) {
	m := Module()
	pi, ok := m.GetAttr("PI")
	require.True(t, ok)
	require.Equal(t, math.Pi, pi.(*object.Number).Value())
	require.Error(t, m.SetAttr("PI", num(3)))
	require.Equal(t, "object", object.TypeOf(m))
}

func TestDocsMatchModule(t *testing.T) {
	m := Module()
	for _, doc := range Docs() {
		_, ok := m.GetAttr(doc.Name)
		require.True(t, ok, doc.Name)
	}
}
