package builtins

import (
	"context"
	"math"
	"testing"

	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/stretchr/testify/require"
)

func assertObjectEqual(t *testing.T, got, want object.Object) {
	t.Helper()
	require.True(t, object.StrictEquals(got, want) || got.Inspect() == want.Inspect(),
		"got %s, want %s", got.Inspect(), want.Inspect())
}

func num(f float64) *object.Number { return object.NewNumber(f) }

func str(s string) *object.String { return object.NewString(s) }

func list(items ...object.Object) *object.List { return object.NewList(items) }

func TestGlobals(t *testing.T) {
	globals := Globals()
	for _, name := range []string{"Uint8ClampedArray", "Float64Array", "TypeError", "EvalError", "Promise"} {
		require.Contains(t, globals, name)
	}
	require.NotContains(t, globals, "eval")
	require.NotContains(t, globals, "Function")
	require.NotSame(t, globals["Object"], Globals()["Object"])
}

type testCase struct {
	name     string
	fn       object.BuiltinFunction
	args     []object.Object
	expected object.Object
}

func TestConversions(t *testing.T) {
	ctx := context.Background()
	tests := []testCase{
		{"parseFloat prefix", ParseFloat, []object.Object{str("3.5px")}, num(3.5)},
		{"parseFloat exponent", ParseFloat, []object.Object{str("  1e3")}, num(1000)},
		{"parseFloat infinity", ParseFloat, []object.Object{str("-Infinityx")}, num(math.Inf(-1))},
		{"parseInt", ParseInt, []object.Object{str("42abc")}, num(42)},
		{"parseInt negative", ParseInt, []object.Object{str("-17")}, num(-17)},
		{"parseInt hex prefix", ParseInt, []object.Object{str("0xff")}, num(255)},
		{"parseInt radix", ParseInt, []object.Object{str("101"), num(2)}, num(5)},
		{"parseInt radix 36", ParseInt, []object.Object{str("z"), num(36)}, num(35)},
		{"isFinite", IsFinite, []object.Object{str("12")}, object.True},
		{"isFinite infinity", IsFinite, []object.Object{num(math.Inf(1))}, object.False},
		{"isNaN string", IsNaN, []object.Object{str("abc")}, object.True},
		{"isNaN empty", IsNaN, []object.Object{str("")}, object.False},
		{"encodeURIComponent", EncodeURIComponent, []object.Object{str("a b&c/é")}, str("a%20b%26c%2F%C3%A9")},
		{"encodeURI", EncodeURI, []object.Object{str("http://x.y/a b?q=1#f")}, str("http://x.y/a%20b?q=1#f")},
		{"decodeURIComponent", DecodeURIComponent, []object.Object{str("a%20b%26c%2F%C3%A9")}, str("a b&c/é")},
		{"decodeURI keeps reserved", DecodeURI, []object.Object{str("a%20b%2Fc")}, str("a b%2Fc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.fn(ctx, tt.args...)
			require.NoError(t, err)
			assertObjectEqual(t, result, tt.expected)
		})
	}
}

func TestParseNaN(t *testing.T) {
	ctx := context.Background()
	for _, args := range [][]object.Object{
		{str("abc")},
		{str("")},
		{str("12"), num(1)},
		{str("12"), num(37)},
	} {
		result, err := ParseInt(ctx, args...)
		require.NoError(t, err)
		require.True(t, math.IsNaN(result.(*object.Number).Value()))
	}
	result, err := ParseFloat(ctx, str(".x"))
	require.NoError(t, err)
	require.True(t, math.IsNaN(result.(*object.Number).Value()))
}

func TestMalformedURI(t *testing.T) {
	_, err := DecodeURIComponent(context.Background(), str("%E0%A4%A"))
	var scriptErr *object.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, "URIError", scriptErr.Name())

	_, err = DecodeURIComponent(context.Background(), str("%FF"))
	require.Error(t, err)
}

func TestPrimitiveClasses(t *testing.T) {
	ctx := context.Background()
	result, err := NumberClass().Call(ctx, str(" 12 "))
	require.NoError(t, err)
	assertObjectEqual(t, result, num(12))

	result, err = NumberClass().Call(ctx)
	require.NoError(t, err)
	assertObjectEqual(t, result, num(0))

	result, err = StringClass().Call(ctx, list(num(1), num(2)))
	require.NoError(t, err)
	assertObjectEqual(t, result, str("1,2"))

	result, err = BooleanClass().Call(ctx, str(""))
	require.NoError(t, err)
	assertObjectEqual(t, result, object.False)

	fromCharCode, ok := StringClass().GetAttr("fromCharCode")
	require.True(t, ok)
	result, err = fromCharCode.(*object.Builtin).Call(ctx, num(72), num(105))
	require.NoError(t, err)
	assertObjectEqual(t, result, str("Hi"))

	isInteger, _ := NumberClass().GetAttr("isInteger")
	result, err = isInteger.(*object.Builtin).Call(ctx, num(3))
	require.NoError(t, err)
	assertObjectEqual(t, result, object.True)
	result, err = isInteger.(*object.Builtin).Call(ctx, str("3"))
	require.NoError(t, err)
	assertObjectEqual(t, result, object.False)
}

func TestObjectHelpers(t *testing.T) {
	ctx := context.Background()
	record := object.NewRecord()
	record.Put("a", num(1))
	record.Put("b", num(2))

	result, err := Keys(ctx, record)
	require.NoError(t, err)
	assertObjectEqual(t, result, list(str("a"), str("b")))

	result, err = Values(ctx, record)
	require.NoError(t, err)
	assertObjectEqual(t, result, list(num(1), num(2)))

	result, err = Entries(ctx, list(str("x")))
	require.NoError(t, err)
	assertObjectEqual(t, result, list(list(str("0"), str("x"))))

	_, err = Keys(ctx, object.Null)
	require.Error(t, err)

	result, err = FromEntries(ctx, list(list(str("k"), num(9))))
	require.NoError(t, err)
	require.Equal(t, `{ k: 9 }`, result.Inspect())
}

func TestAssignAndFreeze(t *testing.T) {
	ctx := context.Background()
	target := object.NewRecord()
	target.Put("a", num(1))
	source := object.NewRecord()
	source.Put("a", num(5))
	source.Put("b", num(6))

	result, err := Assign(ctx, target, source)
	require.NoError(t, err)
	require.Same(t, target, result)
	require.Equal(t, `{ a: 5, b: 6 }`, target.Inspect())

	sealed := object.NewRecord()
	sealed.Put("a", num(1))
	sealed.Seal()
	_, err = Assign(ctx, sealed, source)
	var scriptErr *object.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, object.TypeErrorName, scriptErr.Name())

	frozen, err := Freeze(ctx, target)
	require.NoError(t, err)
	isFrozen, err := IsFrozen(ctx, frozen)
	require.NoError(t, err)
	assertObjectEqual(t, isFrozen, object.True)
	require.Error(t, target.SetAttr("a", num(0)))

	isFrozen, err = IsFrozen(ctx, list())
	require.NoError(t, err)
	assertObjectEqual(t, isFrozen, object.False)

	isFrozen, err = IsFrozen(ctx, num(1))
	require.NoError(t, err)
	assertObjectEqual(t, isFrozen, object.True)
}

func TestArray(t *testing.T) {
	ctx := context.Background()
	result, err := IsArray(ctx, list())
	require.NoError(t, err)
	assertObjectEqual(t, result, object.True)

	result, err = ArrayOf(ctx, num(1), num(2))
	require.NoError(t, err)
	assertObjectEqual(t, result, list(num(1), num(2)))

	result, err = ArrayFrom(ctx, str("hi"))
	require.NoError(t, err)
	assertObjectEqual(t, result, list(str("h"), str("i")))

	double := object.NewBuiltin("double", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return num(object.ToNumber(args[0]) * 2), nil
	})
	result, err = ArrayFrom(ctx, object.NewSet([]object.Object{num(1), num(1), num(3)}), double)
	require.NoError(t, err)
	assertObjectEqual(t, result, list(num(2), num(6)))

	result, err = ArrayClass().Construct(ctx, num(2))
	require.NoError(t, err)
	assertObjectEqual(t, result, list(object.Undefined, object.Undefined))

	_, err = ArrayClass().Call(ctx, num(-1))
	require.Error(t, err)
}

func TestTypedArrayClasses(t *testing.T) {
	ctx := context.Background()
	clamped := TypedArrayClass(object.Uint8Clamped)

	result, err := clamped.Construct(ctx, list(num(300), num(-5), num(1.5)))
	require.NoError(t, err)
	require.Equal(t, "Uint8ClampedArray(3) [255, 0, 2]", result.Inspect())

	result, err = TypedArrayClass(object.Int16).Construct(ctx, num(2))
	require.NoError(t, err)
	require.Equal(t, "Int16Array(2) [0, 0]", result.Inspect())

	_, err = clamped.Call(ctx)
	require.Error(t, err)

	_, err = clamped.Construct(ctx, num(-1))
	require.Error(t, err)

	bpe, ok := TypedArrayClass(object.Float64).GetAttr("BYTES_PER_ELEMENT")
	require.True(t, ok)
	assertObjectEqual(t, bpe, num(8))
}

func TestPromiseClass(t *testing.T) {
	ctx := context.Background()
	resolved, err := PromiseResolve(ctx, num(1))
	require.NoError(t, err)
	value, err := resolved.(*object.Promise).Await(ctx)
	require.NoError(t, err)
	assertObjectEqual(t, value, num(1))

	rejected, err := PromiseReject(ctx, str("no"))
	require.NoError(t, err)
	_, err = rejected.(*object.Promise).Await(ctx)
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	assertObjectEqual(t, thrown.Value, str("no"))

	all, err := PromiseAll(ctx, list(resolved, num(2)))
	require.NoError(t, err)
	value, err = all.(*object.Promise).Await(ctx)
	require.NoError(t, err)
	assertObjectEqual(t, value, list(num(1), num(2)))

	executor := object.NewBuiltin("executor", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return args[0].(*object.Builtin).Call(ctx, str("done"))
	})
	p, err := PromiseClass().Construct(ctx, executor)
	require.NoError(t, err)
	value, err = p.(*object.Promise).Await(ctx)
	require.NoError(t, err)
	assertObjectEqual(t, value, str("done"))

	_, err = PromiseClass().Construct(ctx, num(1))
	require.Error(t, err)
}

func TestContainers(t *testing.T) {
	ctx := context.Background()
	m, err := MapClass().Construct(ctx, list(list(str("a"), num(1)), list(num(1), str("one"))))
	require.NoError(t, err)
	require.Equal(t, 2, m.(*object.Map).Len())

	_, err = MapClass().Construct(ctx, list(num(1)))
	require.Error(t, err)

	s, err := SetClass().Construct(ctx, list(num(1), num(1), str("1")))
	require.NoError(t, err)
	require.Equal(t, 2, s.(*object.Set).Len())

	_, err = SetClass().Call(ctx)
	require.Error(t, err)
}
