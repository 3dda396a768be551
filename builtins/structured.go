package builtins

import (
	"context"
	"strconv"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// ownEntries lists the enumerable own keys of obj with their values. Only
// records, lists, strings and typed arrays have any.
func ownEntries(obj object.Object) ([]string, []object.Object, error) {
	switch obj := obj.(type) {
	case *object.UndefinedType, *object.NullType:
		return nil, nil, object.TypeErrorf("Cannot convert undefined or null to object")
	case *object.Record:
		keys := obj.Keys()
		values := make([]object.Object, len(keys))
		for i, k := range keys {
			values[i], _ = obj.Get(k)
		}
		return keys, values, nil
	case *object.List, *object.String, *object.TypedArray:
		items, _ := object.Iterate(obj)
		keys := make([]string, len(items))
		for i := range items {
			keys[i] = strconv.Itoa(i)
		}
		return keys, items, nil
	}
	return nil, nil, nil
}

func Keys(ctx context.Context, args ...object.Object) (object.Object, error) {
	keys, _, err := ownEntries(argOrUndefined(args, 0))
	if err != nil {
		return nil, err
	}
	items := make([]object.Object, len(keys))
	for i, k := range keys {
		items[i] = object.NewString(k)
	}
	return object.NewList(items), nil
}

func Values(ctx context.Context, args ...object.Object) (object.Object, error) {
	_, values, err := ownEntries(argOrUndefined(args, 0))
	if err != nil {
		return nil, err
	}
	return object.NewList(values), nil
}

func Entries(ctx context.Context, args ...object.Object) (object.Object, error) {
	keys, values, err := ownEntries(argOrUndefined(args, 0))
	if err != nil {
		return nil, err
	}
	items := make([]object.Object, len(keys))
	for i, k := range keys {
		items[i] = object.NewList([]object.Object{object.NewString(k), values[i]})
	}
	return object.NewList(items), nil
}

// Assign copies the own entries of every source onto target. Writes go
// through SetAttr, so a sealed target rejects keys it does not already have.
func Assign(ctx context.Context, args ...object.Object) (object.Object, error) {
	if err := object.RequireAtLeast("Object.assign", 1, args); err != nil {
		return nil, err
	}
	target := args[0]
	if object.IsNullish(target) {
		return nil, object.TypeErrorf("Cannot convert undefined or null to object")
	}
	for _, source := range args[1:] {
		if object.IsNullish(source) {
			continue
		}
		keys, values, err := ownEntries(source)
		if err != nil {
			return nil, err
		}
		for i, k := range keys {
			if err := target.SetAttr(k, values[i]); err != nil {
				return nil, err
			}
		}
	}
	return target, nil
}

func Freeze(ctx context.Context, args ...object.Object) (object.Object, error) {
	obj := argOrUndefined(args, 0)
	if f, ok := obj.(object.Freezable); ok {
		f.Freeze()
	}
	return obj, nil
}

// IsFrozen reports true for primitives and for values that can never be
// written, such as builtins and namespaces.
func IsFrozen(ctx context.Context, args ...object.Object) (object.Object, error) {
	obj := argOrUndefined(args, 0)
	if f, ok := obj.(object.Freezable); ok {
		return object.NewBool(f.IsFrozen()), nil
	}
	switch obj.(type) {
	case *object.Builtin, *object.Module, *object.Image:
		return object.True, nil
	}
	return object.NewBool(object.IsPrimitive(obj)), nil
}

// FromEntries builds an unsealed record from [key, value] pairs.
func FromEntries(ctx context.Context, args ...object.Object) (object.Object, error) {
	items, ok := object.Iterate(argOrUndefined(args, 0))
	if !ok {
		return nil, object.TypeErrorf("%s is not iterable", object.ToString(argOrUndefined(args, 0)))
	}
	record := object.NewRecord()
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
		record.Put(object.ToPropertyKey(key), value)
	}
	return record, nil
}

func ObjectModule() *object.Module {
	return object.NewModule("Object", map[string]object.Object{
		"keys":        object.NewBuiltin("keys", Keys),
		"values":      object.NewBuiltin("values", Values),
		"entries":     object.NewBuiltin("entries", Entries),
		"assign":      object.NewBuiltin("assign", Assign),
		"freeze":      object.NewBuiltin("freeze", Freeze),
		"isFrozen":    object.NewBuiltin("isFrozen", IsFrozen),
		"fromEntries": object.NewBuiltin("fromEntries", FromEntries),
	})
}

func IsArray(ctx context.Context, args ...object.Object) (object.Object, error) {
	_, ok := argOrUndefined(args, 0).(*object.List)
	return object.NewBool(ok), nil
}

func ArrayOf(ctx context.Context, args ...object.Object) (object.Object, error) {
	items := make([]object.Object, len(args))
	copy(items, args)
	return object.NewList(items), nil
}

// ArrayFrom copies an iterable into a new list, optionally mapping each item
// through a callable with (item, index).
func ArrayFrom(ctx context.Context, args ...object.Object) (object.Object, error) {
	source := argOrUndefined(args, 0)
	items, ok := object.Iterate(source)
	if !ok {
		if object.IsNullish(source) {
			return nil, object.TypeErrorf("%s is not iterable", object.ToString(source))
		}
		return object.NewList(nil), nil
	}
	if len(args) < 2 || object.IsNullish(args[1]) {
		return object.NewList(items), nil
	}
	fn, ok := object.AsCallable(args[1])
	if !ok {
		return nil, object.TypeErrorf("%s is not a function", args[1].Inspect())
	}
	out := make([]object.Object, len(items))
	for i, item := range items {
		mapped, err := fn.Call(ctx, item, object.NewNumber(float64(i)))
		if err != nil {
			return nil, err
		}
		out[i] = mapped
	}
	return object.NewList(out), nil
}

// newArray implements Array(n) and Array(a, b, ...).
func newArray(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return ArrayOf(ctx, args...)
	}
	n, ok := args[0].(*object.Number)
	if !ok {
		return object.NewList([]object.Object{args[0]}), nil
	}
	length := n.Value()
	if length < 0 || length != float64(int(length)) || int(length) > object.MaxListLength {
		return nil, object.RangeErrorf("Invalid array length")
	}
	items := make([]object.Object, int(length))
	for i := range items {
		items[i] = object.Undefined
	}
	return object.NewList(items), nil
}

func ArrayClass() *object.Module {
	return object.NewClass("Array", map[string]object.Object{
		"isArray": object.NewBuiltin("isArray", IsArray),
		"of":      object.NewBuiltin("of", ArrayOf),
		"from":    object.NewBuiltin("from", ArrayFrom),
	}, newArray, newArray)
}
