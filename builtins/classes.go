package builtins

import (
	"context"

	"github.com/deepnoodle-ai/canvasbox/object"
)

func requiresNew(name string) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, object.TypeErrorf("Constructor %s requires 'new'", name)
	}
}

// TypedArrayClass returns the constructor for one typed array kind. It
// accepts a length, an iterable, or nothing.
func TypedArrayClass(kind object.ArrayKind) *object.Module {
	construct := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		arg := argOrUndefined(args, 0)
		if object.IsNullish(arg) {
			return object.NewTypedArray(kind, 0)
		}
		if items, ok := object.Iterate(arg); ok {
			return object.NewTypedArrayFrom(kind, items)
		}
		length, err := object.ToIntegerArg(arg, kind.String())
		if err != nil {
			return nil, err
		}
		return object.NewTypedArray(kind, length)
	}
	from := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		items, ok := object.Iterate(argOrUndefined(args, 0))
		if !ok {
			return nil, object.TypeErrorf("%s.from requires an iterable", kind)
		}
		return object.NewTypedArrayFrom(kind, items)
	}
	of := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return object.NewTypedArrayFrom(kind, args)
	}
	return object.NewClass(kind.String(), map[string]object.Object{
		"BYTES_PER_ELEMENT": object.NewNumber(float64(kind.BytesPerElement())),
		"from":              object.NewBuiltin("from", from),
		"of":                object.NewBuiltin("of", of),
	}, requiresNew(kind.String()), construct)
}

func PromiseResolve(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.ResolvedPromise(argOrUndefined(args, 0)), nil
}

func PromiseReject(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.RejectedPromise(argOrUndefined(args, 0)), nil
}

func PromiseAll(ctx context.Context, args ...object.Object) (object.Object, error) {
	items, ok := object.Iterate(argOrUndefined(args, 0))
	if !ok {
		return nil, object.TypeErrorf("%s is not iterable", object.ToString(argOrUndefined(args, 0)))
	}
	return object.All(items), nil
}

// newPromise runs a callable executor with resolve and reject functions.
// Scripts cannot define functions, so the executor is always a host
// capability.
func newPromise(ctx context.Context, args ...object.Object) (object.Object, error) {
	executor, ok := object.AsCallable(argOrUndefined(args, 0))
	if !ok {
		return nil, object.TypeErrorf("Promise resolver %s is not a function", argOrUndefined(args, 0).Inspect())
	}
	promise := object.NewPromise()
	resolve := object.NewBuiltin("resolve", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		promise.Resolve(argOrUndefined(args, 0))
		return object.Undefined, nil
	})
	reject := object.NewBuiltin("reject", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		promise.Reject(argOrUndefined(args, 0))
		return object.Undefined, nil
	})
	if _, err := executor.Call(ctx, resolve, reject); err != nil {
		thrown := object.AsThrown(err)
		promise.Reject(thrown.Value)
	}
	return promise, nil
}

func PromiseClass() *object.Module {
	return object.NewClass("Promise", map[string]object.Object{
		"resolve": object.NewBuiltin("resolve", PromiseResolve),
		"reject":  object.NewBuiltin("reject", PromiseReject),
		"all":     object.NewBuiltin("all", PromiseAll),
	}, requiresNew("Promise"), newPromise)
}

// MapClass constructs a Map, optionally from an iterable of [key, value]
// pairs.
func MapClass() *object.Module {
	construct := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		m := object.NewMap()
		arg := argOrUndefined(args, 0)
		if object.IsNullish(arg) {
			return m, nil
		}
		items, ok := object.Iterate(arg)
		if !ok {
			return nil, object.TypeErrorf("%s is not iterable", arg.Inspect())
		}
		for _, item := range items {
			pair, ok := item.(*object.List)
			if !ok {
				return nil, object.TypeErrorf("Iterator value %s is not an entry object", item.Inspect())
			}
			entry := pair.Items()
			key, value := object.Object(object.Undefined), object.Object(object.Undefined)
			if len(entry) > 0 {
				key = entry[0]
			}
			if len(entry) > 1 {
				value = entry[1]
			}
			if err := m.Set(key, value); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	return object.NewClass("Map", nil, requiresNew("Map"), construct)
}

func SetClass() *object.Module {
	construct := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		arg := argOrUndefined(args, 0)
		if object.IsNullish(arg) {
			return object.NewSet(nil), nil
		}
		items, ok := object.Iterate(arg)
		if !ok {
			return nil, object.TypeErrorf("%s is not iterable", arg.Inspect())
		}
		return object.NewSet(items), nil
	}
	return object.NewClass("Set", nil, requiresNew("Set"), construct)
}
