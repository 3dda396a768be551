package json

import (
	"context"
	"math"
	"testing"

	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/stretchr/testify/require"
)

func stringify(t *testing.T, args ...object.Object) object.Object {
	t.Helper()
	result, err := Stringify(context.Background(), args...)
	require.NoError(t, err)
	return result
}

func record(kv ...any) *object.Record {
	r := object.NewRecord()
	for i := 0; i < len(kv); i += 2 {
		r.Put(kv[i].(string), kv[i+1].(object.Object))
	}
	return r
}

func num(f float64) object.Object { return object.NewNumber(f) }

func str(s string) object.Object { return object.NewString(s) }

func TestParse(t *testing.T) {
	result, err := Parse(context.Background(), str(`{"b": [1, 2.5, "x"], "a": {"n": null, "t": true}}`))
	require.NoError(t, err)
	r, ok := result.(*object.Record)
	require.True(t, ok)
	require.Equal(t, []string{"b", "a"}, r.Keys())
	require.False(t, r.IsSealed())
	require.Equal(t, `{ b: [1, 2.5, "x"], a: { n: null, t: true } }`, r.Inspect())
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`1e3`, "1000"},
		{`"a\nb"`, `"a\nb"`},
		{`false`, "false"},
		{` [] `, "[]"},
		{`1e400`, "Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := Parse(context.Background(), str(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.expected, result.Inspect())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{``, `{`, `[1,]`, `{"a" 1}`, `1 2`, `undefined`} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(context.Background(), str(input))
			var scriptErr *object.Error
			require.ErrorAs(t, err, &scriptErr)
			require.Equal(t, object.SyntaxErrorName, scriptErr.Name())
		})
	}
	_, err := Parse(context.Background())
	require.Error(t, err)
}

func TestStringify(t *testing.T) {
	fn := object.NewBuiltin("f", nil)
	tests := []struct {
		name     string
		value    object.Object
		expected string
	}{
		{"number", num(1.5), "1.5"},
		{"nan", object.NaN(), "null"},
		{"infinity", num(math.Inf(-1)), "null"},
		{"string escapes", str("a\"b\\\n\x01"), `"a\"b\\\n\u0001"`},
		{"null", object.Null, "null"},
		{"list", object.NewList([]object.Object{num(1), object.Undefined, fn}), "[1,null,null]"},
		{"record", record("a", num(1), "u", object.Undefined, "f", fn, "b", str("x")), `{"a":1,"b":"x"}`},
		{"map", object.NewMap(), "{}"},
		{"set", object.NewSet(nil), "{}"},
		{"error", object.TypeErrorf("bad"), "{}"},
		{"empty record", object.NewRecord(), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stringify(t, tt.value)
			require.Equal(t, tt.expected, result.(*object.String).Value())
		})
	}
}

func TestStringifyUndefined(t *testing.T) {
	require.Equal(t, object.Undefined, stringify(t))
	require.Equal(t, object.Undefined, stringify(t, object.Undefined))
	require.Equal(t, object.Undefined, stringify(t, object.NewBuiltin("f", nil)))
}

func TestStringifyIndent(t *testing.T) {
	value := record("a", object.NewList([]object.Object{num(1), num(2)}), "b", object.NewRecord())
	result := stringify(t, value, object.Null, num(2))
	require.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}", result.(*object.String).Value())

	result = stringify(t, object.NewList([]object.Object{num(1)}), object.Null, str("\t"))
	require.Equal(t, "[\n\t1\n]", result.(*object.String).Value())

	result = stringify(t, object.NewList([]object.Object{num(1)}), object.Null, num(40))
	require.Equal(t, "[\n          1\n]", result.(*object.String).Value())
}

func TestStringifyReplacer(t *testing.T) {
	value := record("a", num(1), "b", num(2), "c", num(3))
	result := stringify(t, value, object.NewList([]object.Object{str("a"), str("c")}))
	require.Equal(t, `{"a":1,"c":3}`, result.(*object.String).Value())

	double := object.NewBuiltin("double", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if n, ok := args[1].(*object.Number); ok {
			return num(n.Value() * 2), nil
		}
		return args[1], nil
	})
	result = stringify(t, value, double)
	require.Equal(t, `{"a":2,"b":4,"c":6}`, result.(*object.String).Value())
}

func TestStringifyCircular(t *testing.T) {
	r := object.NewRecord()
	r.Put("self", r)
	_, err := Stringify(context.Background(), r)
	var scriptErr *object.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, object.TypeErrorName, scriptErr.Name())
	require.Contains(t, scriptErr.Message(), "circular")

	// Repeated but acyclic references are fine.
	shared := object.NewList(nil)
	value := object.NewList([]object.Object{shared, shared})
	require.Equal(t, "[[],[]]", stringify(t, value).(*object.String).Value())
}

func TestRoundTrip(t *testing.T) {
	text := `{"name":"box","size":[3,4],"nested":{"ok":true,"none":null}}`
	parsed, err := Parse(context.Background(), str(text))
	require.NoError(t, err)
	require.Equal(t, text, stringify(t, parsed).(*object.String).Value())
}

func TestModule(t *testing.T) {
	m := Module()
	_, ok := m.GetAttr("parse")
	require.True(t, ok)
	_, ok = m.GetAttr("stringify")
	require.True(t, ok)
	require.Equal(t, "object", object.TypeOf(m))
}
