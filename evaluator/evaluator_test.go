package evaluator

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/object"
	"github.com/deepnoodle-ai/canvasbox/parser"
	"github.com/deepnoodle-ai/canvasbox/registry"
	"github.com/stretchr/testify/require"
)

func testTable() *registry.Table {
	return registry.NewTable(map[string]object.Object{
		"undefined": object.Undefined,
		"NaN":       object.NaN(),
		"Math": object.NewModule("Math", map[string]object.Object{
			"PI": object.NewNumber(3.14),
		}),
		"Error": object.NewErrorClass(object.ErrorName),
	})
}

func evalWith(t *testing.T, src string, table *registry.Table, opts ...ContextOption) (object.Object, *Context, error) {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	ec := NewContext(src, registry.NewOverlay(table), opts...)
	result, err := Evaluate(context.Background(), program, ec, nil)
	return result, ec, err
}

func eval(t *testing.T, src string) (object.Object, error) {
	t.Helper()
	result, _, err := evalWith(t, src, testTable())
	return result, err
}

func requireValue(t *testing.T, src string, want object.Object) {
	t.Helper()
	got, err := eval(t, src)
	require.NoError(t, err, src)
	require.True(t, object.StrictEquals(want, got) || want.Inspect() == got.Inspect(),
		"%s: got %s, want %s", src, got.Inspect(), want.Inspect())
}

func requirePolicy(t *testing.T, err error, kind errors.Kind) *errors.PolicyError {
	t.Helper()
	var policy *errors.PolicyError
	require.ErrorAs(t, err, &policy)
	require.Equal(t, kind, policy.Kind, policy.Error())
	return policy
}

func requireThrown(t *testing.T, err error) object.Object {
	t.Helper()
	var thrown *object.ThrownError
	require.ErrorAs(t, err, &thrown)
	return thrown.Value
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want object.Object
	}{
		{`1 + 2`, object.NewNumber(3)},
		{`"a" + "b"`, object.NewString("ab")},
		{`2 ** 10`, object.NewNumber(1024)},
		{`1 == "1"`, object.True},
		{`1 === "1"`, object.False},
		{`true ? "yes" : "no"`, object.NewString("yes")},
		{`typeof Math`, object.NewString("object")},
		{`-(3)`, object.NewNumber(-3)},
		{`!0`, object.True},
		{`"PI" in Math`, object.True},
		{`Math.PI`, object.NewNumber(3.14)},
		{`[1, 2][1]`, object.NewNumber(2)},
		{`({a: 1, a: 2}).a`, object.NewNumber(2)},
		{`({["x" + 1]: true}).x1`, object.True},
		{`await 5`, object.NewNumber(5)},
		{``, object.Undefined},
		{`;`, object.Undefined},
		{`if (0) { 1 }`, object.Undefined},
		{`if (0) { 1 } else if (1) { 2 } else { 3 }`, object.NewNumber(2)},
		{"`a${1 + 1}b${\"c\"}`", object.NewString("a2bc")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			requireValue(t, tt.src, tt.want)
		})
	}
}

func TestSpread(t *testing.T) {
	requireValue(t, `[1, ...[2, 3], 4]`, object.NewList([]object.Object{
		object.NewNumber(1), object.NewNumber(2), object.NewNumber(3), object.NewNumber(4),
	}))
	requireValue(t, `[..."ab"]`, object.NewList([]object.Object{
		object.NewString("a"), object.NewString("b"),
	}))

	_, err := eval(t, `...[1]`)
	requirePolicy(t, err, errors.MisplacedSpread)

	_, err = eval(t, `let r = {...[1]}`)
	requirePolicy(t, err, errors.MisplacedSpread)

	_, err = eval(t, `[...5]`)
	policy := requirePolicy(t, err, errors.NotIterable)
	require.Equal(t, 4, policy.Offset)
}

func TestSpreadArguments(t *testing.T) {
	sum := object.NewBuiltin("sum", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		total := 0.0
		for _, arg := range args {
			total += object.ToNumber(arg)
		}
		return object.NewNumber(total), nil
	})
	table := testTable().With(map[string]object.Object{"sum": sum})
	result, _, err := evalWith(t, `sum(1, ...[2, 3], 4)`, table)
	require.NoError(t, err)
	require.Equal(t, 10.0, result.(*object.Number).Value())
}

func TestDeclarations(t *testing.T) {
	requireValue(t, `let a = 1, b; a`, object.NewNumber(1))
	requireValue(t, `let b; b`, object.Undefined)
	requireValue(t, `let a = 1`, object.Undefined)

	_, err := eval(t, `let x = 1; let x = 2;`)
	policy := requirePolicy(t, err, errors.AlreadyDeclaredIdentifier)
	require.Equal(t, 15, policy.Offset)
	require.Equal(t, "The identifier `x` has already been declared (at 1:15)", policy.Error())

	_, err = eval(t, `var Math = 1`)
	requirePolicy(t, err, errors.AlreadyDeclaredIdentifier)
}

func TestUnknownIdentifier(t *testing.T) {
	_, err := eval(t, `y + 1`)
	policy := requirePolicy(t, err, errors.UnknownIdentifier)
	require.Equal(t, 0, policy.Offset)
	require.Equal(t, "The identifier `y` is not defined", policy.Message)

	_, err = eval(t, "let a = 1\nMaht.PI")
	policy = requirePolicy(t, err, errors.UnknownIdentifier)
	require.Equal(t, 2, policy.Line)
	require.Equal(t, 0, policy.Column)
	require.Equal(t, "Did you mean `Math`?", policy.Hint)

	_, err = eval(t, `z = 1`)
	requirePolicy(t, err, errors.UnknownIdentifier)
}

func TestAssignment(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{`let a = 1; a = 5; a`, 5},
		{`let a = 1; a += 2; a`, 3},
		{`let a = 8; a -= 3`, 5},
		{`let a = 2; a *= 4; a`, 8},
		{`let a = 9; a /= 3; a`, 3},
		{`let a = 9; a %= 4; a`, 1},
		{`let a = 2; a **= 3; a`, 8},
		{`let a = 1; a <<= 3; a`, 8},
		{`let a = -8; a >>= 1; a`, -4},
		{`let a = -1; a >>>= 28; a`, 15},
		{`let a = 6; a &= 3; a`, 2},
		{`let a = 4; a |= 1; a`, 5},
		{`let a = 5; a ^= 1; a`, 4},
		{`let a = 3; a &&= 7; a`, 7},
		{`let a = 0; a ||= 9; a`, 9},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			requireValue(t, tt.src, object.NewNumber(tt.want))
		})
	}
}

func TestConstAssignment(t *testing.T) {
	_, err := eval(t, `const a = 1; a = 2`)
	value := requireThrown(t, err)
	require.Equal(t, "TypeError: Assignment to constant variable.", value.(*object.Error).Error())

	requireValue(t, `const a = 1; let r = 0; try { a += 1 } catch (e) { r = e.name }; r`,
		object.NewString("TypeError"))
}

func TestAssignmentShadowsTable(t *testing.T) {
	table := testTable()
	result, ec, err := evalWith(t, `NaN = 5; NaN`, table)
	require.NoError(t, err)
	require.Equal(t, 5.0, result.(*object.Number).Value())

	original, _ := table.Get("NaN")
	require.NotEqual(t, result, original)
	b, ok := ec.Overlay.Binding("NaN")
	require.True(t, ok)
	require.Equal(t, result, b.Value)
}

func TestMemberAssignment(t *testing.T) {
	requireValue(t, `let r = {a: 1}; r.a = 3; r.a`, object.NewNumber(3))
	requireValue(t, `let r = {a: 1}; r["a"] += 4; r.a`, object.NewNumber(5))
	requireValue(t, `let l = [1]; l[1] = 2; l`, object.NewList([]object.Object{
		object.NewNumber(1), object.NewNumber(2),
	}))

	_, err := eval(t, `let r = {a: 1}; r.b = 2`)
	value := requireThrown(t, err)
	require.Equal(t, object.TypeErrorName, value.(*object.Error).Name())

	_, err = eval(t, `let r = {}; r.constructor = 1`)
	requirePolicy(t, err, errors.SandboxPropertyError)

	_, err = eval(t, `let r = {}; r["__proto__"] = 1`)
	requirePolicy(t, err, errors.SandboxPropertyError)

	_, err = eval(t, `let u; u.x = 1`)
	requireThrown(t, err)
}

func TestPropertyAccess(t *testing.T) {
	_, err := eval(t, `"a".constructor`)
	policy := requirePolicy(t, err, errors.SandboxPropertyError)
	require.Equal(t, "The property access to `constructor` is forbidden", policy.Message)
	require.Equal(t, 4, policy.Offset)

	_, err = eval(t, `let k = "constructor"; Math[k]`)
	requirePolicy(t, err, errors.SandboxPropertyError)

	_, err = eval(t, `missing.constructor`)
	requirePolicy(t, err, errors.SandboxPropertyError)

	_, err = eval(t, `({}).__proto__`)
	requirePolicy(t, err, errors.SandboxPropertyError)

	_, err = eval(t, `let r = {a: 1}; r.b`)
	value := requireThrown(t, err)
	require.Equal(t, "ReferenceError: The property `b` does not exist", value.(*object.Error).Error())

	_, err = eval(t, `[1][5]`)
	requireThrown(t, err)

	_, err = eval(t, `let u; u.x`)
	value = requireThrown(t, err)
	require.Equal(t, "TypeError: Cannot read properties of undefined (reading 'x')", value.(*object.Error).Error())

	requireValue(t, `let r = "none"; try { ({}).b } catch (e) { r = e.name }; r`,
		object.NewString("ReferenceError"))
}

func TestBoundMethods(t *testing.T) {
	requireValue(t, `let l = [3]; let push = l.push; push(4); l.length`, object.NewNumber(2))
	requireValue(t, `"abc".toUpperCase()`, object.NewString("ABC"))
}

func TestTryCatch(t *testing.T) {
	requireValue(t, `try { throw 5 } catch (e) { e + 1 }`, object.NewNumber(6))
	requireValue(t, `try { 1 } catch (e) { 2 }`, object.NewNumber(1))
	requireValue(t, `try { throw 1 } catch { "caught" }`, object.NewString("caught"))

	_, err := eval(t, `try { throw 5 } catch (e) { e }; e`)
	requirePolicy(t, err, errors.UnknownIdentifier)

	_, err = eval(t, `try { throw "x" } finally { 1 }`)
	require.Equal(t, "x", requireThrown(t, err).(*object.String).Value())
}

func TestNestedCatchScopes(t *testing.T) {
	src := `try { throw 1 } catch (a) { try { throw 2 } catch (b) { a + b } }`
	requireValue(t, src, object.NewNumber(3))

	src = `let a = 10; try { throw 1 } catch (a) { a }`
	requireValue(t, src, object.NewNumber(1))

	src = `try { throw 1 } catch (e) { let inner = e + 1; inner }`
	requireValue(t, src, object.NewNumber(2))

	_, err := eval(t, `try { throw 1 } catch (e) { let inner = 2 }; inner`)
	requirePolicy(t, err, errors.UnknownIdentifier)
}

func TestFinally(t *testing.T) {
	requireValue(t, `try { 1 } finally { 2 }`, object.NewNumber(1))
	requireValue(t, `try { throw 1 } catch (e) { 3 } finally { 4 }`, object.NewNumber(3))

	_, err := eval(t, `try { throw 1 } finally { throw 2 }`)
	require.Equal(t, 2.0, requireThrown(t, err).(*object.Number).Value())

	_, err = eval(t, `try { throw 1 } catch (e) { throw 3 } finally { throw 4 }`)
	require.Equal(t, 4.0, requireThrown(t, err).(*object.Number).Value())

	requireValue(t, `let n = 0; try { n = 1 } finally { n = n + 1 }; n`, object.NewNumber(2))
}

func TestPolicyErrorsAreNotCaught(t *testing.T) {
	_, err := eval(t, `try { y } catch (e) { 1 }`)
	requirePolicy(t, err, errors.UnknownIdentifier)

	_, err = eval(t, `let r = 0; try { Math.constructor } catch (e) { r = 1 } finally { r = 2 }`)
	requirePolicy(t, err, errors.SandboxPropertyError)
}

func TestThrowErrorValues(t *testing.T) {
	_, err := eval(t, `throw new Error("boom")`)
	var scriptErr *object.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, "Error: boom", scriptErr.Error())

	requireValue(t, `try { throw Error("x") } catch (e) { e.message }`, object.NewString("x"))
}

func TestUnsupported(t *testing.T) {
	for _, src := range []string{
		`let a = 1; a++`,
		`let a = 1; --a`,
		`void 0`,
		`let a = {b: 1}; delete a.b`,
		`1 instanceof Math`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := eval(t, src)
			policy := requirePolicy(t, err, errors.UnsupportedFeature)
			require.Equal(t, "Unsupported feature", policy.Message)
		})
	}

	_, err := eval(t, `/ab+c/i`)
	policy := requirePolicy(t, err, errors.SandboxError)
	require.Equal(t, "RegExp is not available", policy.Message)
}

func TestNotInvocable(t *testing.T) {
	_, err := eval(t, `let a = 1; a()`)
	policy := requirePolicy(t, err, errors.NotCallable)
	require.Equal(t, "Tried to call a non-function", policy.Message)

	_, err = eval(t, `Math()`)
	requirePolicy(t, err, errors.NotCallable)

	_, err = eval(t, `new Math()`)
	policy = requirePolicy(t, err, errors.NotConstructible)
	require.Equal(t, "Constructor is not a function", policy.Message)
}

func TestBuiltinErrorsAreThrown(t *testing.T) {
	bad := object.NewBuiltin("bad", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, object.TypeErrorf("bad input")
	})
	plain := object.NewBuiltin("plain", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, fmt.Errorf("disk on fire")
	})
	table := testTable().With(map[string]object.Object{"bad": bad, "plain": plain})

	result, _, err := evalWith(t, `try { bad() } catch (e) { e.name + ": " + e.message }`, table)
	require.NoError(t, err)
	require.Equal(t, "TypeError: bad input", result.(*object.String).Value())

	_, _, err = evalWith(t, `plain()`, table)
	value := requireThrown(t, err)
	require.Equal(t, "Error: disk on fire", value.(*object.Error).Error())
}

func TestTemplateOrder(t *testing.T) {
	var calls []string
	counter := 0
	tick := object.NewBuiltin("tick", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		counter++
		calls = append(calls, object.ToString(args[0]))
		return object.NewNumber(float64(counter)), nil
	})
	table := testTable().With(map[string]object.Object{"tick": tick})
	result, _, err := evalWith(t, "`<${tick(\"a\")} and ${tick(\"b\")}>`", table)
	require.NoError(t, err)
	require.Equal(t, "<1 and 2>", result.(*object.String).Value())
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestOperandOrder(t *testing.T) {
	var calls []string
	mark := object.NewBuiltin("mark", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		calls = append(calls, object.ToString(args[0]))
		return args[0], nil
	})
	table := testTable().With(map[string]object.Object{"mark": mark})
	result, _, err := evalWith(t, `mark(0) && mark(1)`, table)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.(*object.Number).Value())
	require.Equal(t, []string{"0", "1"}, calls)
}

func TestAwaitRejectedFetch(t *testing.T) {
	fetch := object.NewBuiltin("fetch", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		promise := object.NewPromise()
		go promise.Reject(object.Errorf("The url %s must have one of the following extensions: .png, .jpg, .jpeg",
			object.ToString(args[0])))
		return promise, nil
	})
	table := testTable().With(map[string]object.Object{"fetch": fetch})

	src := `let r = "none"; try { await fetch("http://x/a.txt") } catch (e) { r = e.message }; r`
	result, _, err := evalWith(t, src, table)
	require.NoError(t, err)
	require.Equal(t, "The url http://x/a.txt must have one of the following extensions: .png, .jpg, .jpeg",
		result.(*object.String).Value())

	_, _, err = evalWith(t, `await fetch("http://x/a.txt")`, table)
	var policy *errors.PolicyError
	require.False(t, stderrors.As(err, &policy))
	requireThrown(t, err)
}

func TestAwaitResolved(t *testing.T) {
	table := testTable().With(map[string]object.Object{
		"later": object.ResolvedPromise(object.NewString("done")),
	})
	result, _, err := evalWith(t, `await later`, table)
	require.NoError(t, err)
	require.Equal(t, "done", result.(*object.String).Value())
}

func TestDepthExceeded(t *testing.T) {
	_, _, err := evalWith(t, `1 + 1 + 1 + 1 + 1 + 1 + 1 + 1`, testTable(), WithMaxDepth(5))
	requirePolicy(t, err, errors.DepthExceeded)

	result, ec, err := evalWith(t, `1 + 1 + 1`, testTable(), WithMaxDepth(16))
	require.NoError(t, err)
	require.Equal(t, 3.0, result.(*object.Number).Value())
	require.Equal(t, 0, ec.Depth())
}

func TestCancelledContext(t *testing.T) {
	src := `1 + 1`
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evaluate(ctx, program, NewContext(src, registry.NewOverlay(testTable())), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAwaitCancelled(t *testing.T) {
	table := testTable().With(map[string]object.Object{"never": object.NewPromise()})
	src := `try { await never } catch (e) { 1 }`
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	go cancel()
	_, err = Evaluate(ctx, program, NewContext(src, registry.NewOverlay(table)), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilenameInPolicyErrors(t *testing.T) {
	_, _, err := evalWith(t, `nope`, testTable(), WithFilename("draw.js"))
	policy := requirePolicy(t, err, errors.UnknownIdentifier)
	require.Equal(t, "draw.js", policy.Filename)
}

func TestConcurrentEvaluations(t *testing.T) {
	table := testTable()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("extra%d", i)
			overlay := registry.NewOverlay(table)
			overlay.Bind(name, object.NewNumber(float64(i)))
			src := fmt.Sprintf("let local = %s; local * 2", name)
			program, err := parser.Parse(context.Background(), src)
			require.NoError(t, err)
			result, err := Evaluate(context.Background(), program, NewContext(src, overlay), nil)
			require.NoError(t, err)
			require.Equal(t, float64(i*2), result.(*object.Number).Value())

			other := fmt.Sprintf("extra%d", (i+1)%16)
			require.False(t, overlay.Has(other))
		}(i)
	}
	wg.Wait()
	require.False(t, table.Has("local"))
}
