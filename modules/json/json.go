// Package json provides the JSON namespace.
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deepnoodle-ai/canvasbox/object"
)

// Parse converts JSON text into script values. Objects become unsealed
// records whose keys keep their source order.
func Parse(ctx context.Context, args ...object.Object) (object.Object, error) {
	text := "undefined"
	if len(args) > 0 {
		text = object.ToString(args[0])
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, syntaxError(err, dec)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, object.SyntaxErrorf("Unexpected non-whitespace character after JSON at position %d", dec.InputOffset())
	}
	return value, nil
}

func syntaxError(err error, dec *json.Decoder) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return object.SyntaxErrorf("Unexpected token in JSON at position %d", syntax.Offset-1)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return object.SyntaxErrorf("Unexpected end of JSON input")
	}
	return object.SyntaxErrorf("%s at position %d", err.Error(), dec.InputOffset())
}

func decodeValue(dec *json.Decoder) (object.Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '[':
			var items []object.Object
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return object.NewList(items), nil
		case '{':
			record := object.NewRecord()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected string key")
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				record.Put(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return record, nil
		}
		return nil, fmt.Errorf("unexpected %q", rune(tok))
	case json.Number:
		f, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return object.NewNumber(f), nil
			}
			return nil, err
		}
		return object.NewNumber(f), nil
	case string:
		return object.NewString(tok), nil
	case bool:
		return object.NewBool(tok), nil
	case nil:
		return object.Null, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Stringify serializes a value. The optional replacer is a callable taking
// (key, value) or a list of allowed keys; the optional space is a number of
// spaces or an indent string, capped at 10.
func Stringify(ctx context.Context, args ...object.Object) (object.Object, error) {
	var value object.Object = object.Undefined
	if len(args) > 0 {
		value = args[0]
	}
	enc := &encoder{ctx: ctx}
	if len(args) > 1 {
		enc.setReplacer(args[1])
	}
	if len(args) > 2 {
		enc.indent = indentOf(args[2])
	}
	value, err := enc.replace("", value)
	if err != nil {
		return nil, err
	}
	ok, err := enc.encode(value, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return object.Undefined, nil
	}
	return object.NewString(enc.buf.String()), nil
}

func indentOf(space object.Object) string {
	switch space := space.(type) {
	case *object.Number:
		n := int(math.Min(10, math.Max(0, space.Value())))
		return strings.Repeat(" ", n)
	case *object.String:
		s := space.Value()
		if utf8.RuneCountInString(s) > 10 {
			s = string([]rune(s)[:10])
		}
		return s
	}
	return ""
}

type encoder struct {
	ctx      context.Context
	buf      bytes.Buffer
	indent   string
	replacer object.Callable
	allowed  map[string]bool
	stack    []object.Object
}

func (e *encoder) setReplacer(r object.Object) {
	if fn, ok := object.AsCallable(r); ok {
		e.replacer = fn
		return
	}
	if ls, ok := r.(*object.List); ok {
		e.allowed = map[string]bool{}
		for _, item := range ls.Items() {
			switch item.(type) {
			case *object.String, *object.Number:
				e.allowed[object.ToString(item)] = true
			}
		}
	}
}

// skipped reports whether a value is omitted from objects and written as
// null in arrays.
func skipped(v object.Object) bool {
	switch v.(type) {
	case *object.UndefinedType, *object.Builtin:
		return true
	}
	_, callable := object.AsCallable(v)
	_, constructible := object.AsConstructible(v)
	return callable || constructible
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) push(v object.Object) error {
	for _, seen := range e.stack {
		if seen == v {
			return object.TypeErrorf("Converting circular structure to JSON")
		}
	}
	e.stack = append(e.stack, v)
	return nil
}

func (e *encoder) pop() {
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *encoder) replace(key string, v object.Object) (object.Object, error) {
	if e.replacer == nil {
		return v, nil
	}
	return e.replacer.Call(e.ctx, object.NewString(key), v)
}

// encode writes v and reports whether anything was written.
func (e *encoder) encode(v object.Object, depth int) (bool, error) {
	if skipped(v) {
		return false, nil
	}
	switch v := v.(type) {
	case *object.NullType:
		e.buf.WriteString("null")
	case *object.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Value()))
	case *object.Number:
		f := v.Value()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			e.buf.WriteString("null")
		} else {
			e.buf.WriteString(object.FormatNumber(f))
		}
	case *object.String:
		writeString(&e.buf, v.Value())
	case *object.List:
		return true, e.encodeArray(v, v.Items(), depth)
	case *object.Record:
		keys := v.Keys()
		values := make([]object.Object, len(keys))
		for i, k := range keys {
			values[i], _ = v.Get(k)
		}
		return true, e.encodeObject(v, keys, values, depth)
	case *object.TypedArray:
		items := v.Items()
		keys := make([]string, len(items))
		for i := range items {
			keys[i] = strconv.Itoa(i)
		}
		return true, e.encodeObject(v, keys, items, depth)
	default:
		// Maps, sets, errors and namespaces have no enumerable own keys.
		e.buf.WriteString("{}")
	}
	return true, nil
}

func (e *encoder) encodeArray(owner object.Object, items []object.Object, depth int) error {
	if err := e.push(owner); err != nil {
		return err
	}
	defer e.pop()
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		item, err := e.replace(strconv.Itoa(i), item)
		if err != nil {
			return err
		}
		ok, err := e.encode(item, depth+1)
		if err != nil {
			return err
		}
		if !ok {
			e.buf.WriteString("null")
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) encodeObject(owner object.Object, keys []string, values []object.Object, depth int) error {
	if err := e.push(owner); err != nil {
		return err
	}
	defer e.pop()
	e.buf.WriteByte('{')
	wrote := false
	for i, key := range keys {
		if e.allowed != nil && !e.allowed[key] {
			continue
		}
		value, err := e.replace(key, values[i])
		if err != nil {
			return err
		}
		if skipped(value) {
			continue
		}
		if wrote {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		writeString(&e.buf, key)
		e.buf.WriteByte(':')
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		if _, err := e.encode(value, depth+1); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		e.newline(depth)
	}
	e.buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&15])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func Module() *object.Module {
	return object.NewModule("JSON", map[string]object.Object{
		"parse":     object.NewBuiltin("parse", Parse),
		"stringify": object.NewBuiltin("stringify", Stringify),
	})
}
