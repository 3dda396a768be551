package object

import (
	"context"
	"fmt"
	"image"
	"reflect"
	"sort"
	"strings"
)

var (
	errorInterface  = reflect.TypeOf((*error)(nil)).Elem()
	objectInterface = reflect.TypeOf((*Object)(nil)).Elem()
)

// maxConvertDepth bounds recursion through nested or cyclic Go values.
const maxConvertDepth = 64

// FromGoValue converts a Go value into a script value. Values that already
// implement Object are returned unchanged. Everything else is copied:
// maps and structs become frozen records, slices and arrays become frozen
// lists, recursively. Map keys are sorted so the resulting key order is
// stable.
func FromGoValue(v any) (Object, error) {
	return fromGo(reflect.ValueOf(v), 0)
}

func fromGo(v reflect.Value, depth int) (Object, error) {
	if depth > maxConvertDepth {
		return nil, fmt.Errorf("value nested deeper than %d levels", maxConvertDepth)
	}
	if !v.IsValid() {
		return Null, nil
	}
	if v.Type().Implements(objectInterface) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return Null, nil
		}
		return v.Interface().(Object), nil
	}
	switch x := v.Interface().(type) {
	case BuiltinFunction:
		return NewBuiltin("native", x), nil
	case func(context.Context, ...Object) (Object, error):
		return NewBuiltin("native", x), nil
	case image.Image:
		return NewImage(x, ""), nil
	case []byte:
		a := NewUint8ArrayFromBytes(x)
		return a, nil
	}
	if v.Type().Implements(errorInterface) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return Null, nil
		}
		return FromGoError(v.Interface().(error)), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return NewBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewNumber(float64(v.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NewNumber(float64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return NewNumber(v.Float()), nil
	case reflect.String:
		return NewString(v.String()), nil
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return Null, nil
		}
		return fromGo(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return Null, nil
		}
		items := make([]Object, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := fromGo(v.Index(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = item
		}
		ls := NewList(items)
		ls.Freeze()
		return ls, nil
	case reflect.Map:
		if v.IsNil() {
			return Null, nil
		}
		keys := make([]string, 0, v.Len())
		values := make(map[string]Object, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			item, err := fromGo(iter.Value(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			keys = append(keys, k)
			values[k] = item
		}
		sort.Strings(keys)
		r := NewRecordFrom(keys, values)
		r.Freeze()
		return r, nil
	case reflect.Struct:
		return structToRecord(v, depth)
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// structToRecord copies exported fields, named by their json tag when one
// is present, in declaration order.
func structToRecord(v reflect.Value, depth int) (Object, error) {
	t := v.Type()
	r := NewRecord()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		item, err := fromGo(v.Field(i), depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		r.Put(name, item)
	}
	r.Freeze()
	return r, nil
}

// ToGoValue converts a script value to plain Go data: maps, slices,
// float64, string, bool and nil.
func ToGoValue(obj Object) any {
	return obj.Interface()
}

// ReadOnlyCopy returns a frozen shallow copy of a data value: a record,
// list, Map, Set or typed array. Writes through the copy fail and never
// reach the original. Any other value, such as a function, module or
// capability handle, is returned unchanged.
func ReadOnlyCopy(obj Object) Object {
	switch v := obj.(type) {
	case *Record:
		r := NewRecordFrom(v.keys, v.values)
		r.Freeze()
		return r
	case *List:
		items := make([]Object, len(v.items))
		copy(items, v.items)
		ls := NewList(items)
		ls.Freeze()
		return ls
	case *Map:
		m := &Map{entries: make(entryList, len(v.entries))}
		copy(m.entries, v.entries)
		m.reindex()
		m.Freeze()
		return m
	case *Set:
		s := NewSet(v.Items())
		s.Freeze()
		return s
	case *TypedArray:
		values := make([]float64, len(v.values))
		copy(values, v.values)
		return &TypedArray{kind: v.kind, values: values, frozen: true}
	}
	return obj
}
