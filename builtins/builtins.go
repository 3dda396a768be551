// Package builtins defines the default set of global values visible to
// scripts. Nothing here reaches the host: there is no eval, no Function, no
// Reflect and no clock.
package builtins

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/deepnoodle-ai/canvasbox/object"
)

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

func IsFinite(ctx context.Context, args ...object.Object) (object.Object, error) {
	f := object.ToNumber(argOrUndefined(args, 0))
	return object.NewBool(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
}

func IsNaN(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewBool(math.IsNaN(object.ToNumber(argOrUndefined(args, 0)))), nil
}

// ParseFloat reads the longest decimal prefix of its argument.
func ParseFloat(ctx context.Context, args ...object.Object) (object.Object, error) {
	s := strings.TrimSpace(object.ToString(argOrUndefined(args, 0)))
	match := floatPrefix.FindString(s)
	if match == "" {
		return object.NaN(), nil
	}
	return object.NewNumber(object.StringToNumber(match)), nil
}

// ParseInt reads an integer prefix in the given radix, which defaults to 10
// or to 16 for a "0x" prefix.
func ParseInt(ctx context.Context, args ...object.Object) (object.Object, error) {
	s := strings.TrimSpace(object.ToString(argOrUndefined(args, 0)))
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	radix := int(object.ToInt32(argOrUndefined(args, 1)))
	stripPrefix := true
	if radix != 0 {
		if radix < 2 || radix > 36 {
			return object.NaN(), nil
		}
		stripPrefix = radix == 16
	} else {
		radix = 10
	}
	if stripPrefix && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		radix = 16
	}
	result, digits := 0.0, 0
	for _, c := range s {
		d := digitValue(c)
		if d < 0 || d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return object.NaN(), nil
	}
	return object.NewNumber(sign * result), nil
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

const (
	uriUnreserved = "-_.!~*'()"
	uriReserved   = ";/?:@&=+$,#"
)

func EncodeURI(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(encodeURI(object.ToString(argOrUndefined(args, 0)), uriUnreserved+uriReserved)), nil
}

func EncodeURIComponent(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(encodeURI(object.ToString(argOrUndefined(args, 0)), uriUnreserved)), nil
}

func DecodeURI(ctx context.Context, args ...object.Object) (object.Object, error) {
	s, err := decodeURI(object.ToString(argOrUndefined(args, 0)), uriReserved)
	if err != nil {
		return nil, err
	}
	return object.NewString(s), nil
}

func DecodeURIComponent(ctx context.Context, args ...object.Object) (object.Object, error) {
	s, err := decodeURI(object.ToString(argOrUndefined(args, 0)), "")
	if err != nil {
		return nil, err
	}
	return object.NewString(s), nil
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func encodeURI(s, keep string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlphaNum(c) || strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func errMalformedURI() error {
	return object.NewError("URIError", "URI malformed")
}

// decodeURI decodes percent escapes. Escapes that decode to a byte in
// preserve are left as written.
func decodeURI(s, preserve string) (string, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", errMalformedURI()
		}
		hi, lo := hexValue(s[i+1]), hexValue(s[i+2])
		if hi < 0 || lo < 0 {
			return "", errMalformedURI()
		}
		c := byte(hi<<4 | lo)
		if c < 0x80 && strings.IndexByte(preserve, c) >= 0 {
			out = append(out, s[i:i+3]...)
		} else {
			out = append(out, c)
		}
		i += 2
	}
	decoded := string(out)
	if !utf8.ValidString(decoded) {
		return "", errMalformedURI()
	}
	return decoded, nil
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func BooleanClass() *object.Module {
	fn := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return object.NewBool(argOrUndefined(args, 0).IsTruthy()), nil
	}
	return object.NewClass("Boolean", nil, fn, fn)
}

func NumberClass() *object.Module {
	fn := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) == 0 {
			return object.NewNumber(0), nil
		}
		return object.NewNumber(object.ToNumber(args[0])), nil
	}
	isInteger := func(obj object.Object) bool {
		n, ok := obj.(*object.Number)
		if !ok {
			return false
		}
		f := n.Value()
		return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
	}
	return object.NewClass("Number", map[string]object.Object{
		"MAX_SAFE_INTEGER":  object.NewNumber(1<<53 - 1),
		"MIN_SAFE_INTEGER":  object.NewNumber(-(1<<53 - 1)),
		"MAX_VALUE":         object.NewNumber(math.MaxFloat64),
		"MIN_VALUE":         object.NewNumber(math.SmallestNonzeroFloat64),
		"EPSILON":           object.NewNumber(math.Nextafter(1, 2) - 1),
		"POSITIVE_INFINITY": object.NewNumber(math.Inf(1)),
		"NEGATIVE_INFINITY": object.NewNumber(math.Inf(-1)),
		"NaN":               object.NaN(),
		"isInteger": object.NewBuiltin("isInteger", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			return object.NewBool(isInteger(argOrUndefined(args, 0))), nil
		}),
		"isSafeInteger": object.NewBuiltin("isSafeInteger", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			arg := argOrUndefined(args, 0)
			return object.NewBool(isInteger(arg) && math.Abs(object.ToNumber(arg)) <= 1<<53-1), nil
		}),
		"isFinite": object.NewBuiltin("isFinite", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			n, ok := argOrUndefined(args, 0).(*object.Number)
			return object.NewBool(ok && !math.IsInf(n.Value(), 0) && !math.IsNaN(n.Value())), nil
		}),
		"isNaN": object.NewBuiltin("isNaN", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			n, ok := argOrUndefined(args, 0).(*object.Number)
			return object.NewBool(ok && math.IsNaN(n.Value())), nil
		}),
		"parseFloat": object.NewBuiltin("parseFloat", ParseFloat),
		"parseInt":   object.NewBuiltin("parseInt", ParseInt),
	}, fn, fn)
}

func StringClass() *object.Module {
	fn := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) == 0 {
			return object.NewString(""), nil
		}
		return object.NewString(object.ToString(args[0])), nil
	}
	fromCharCode := func(ctx context.Context, args ...object.Object) (object.Object, error) {
		units := make([]uint16, len(args))
		for i, arg := range args {
			units[i] = uint16(object.ToUint32(arg))
		}
		return object.NewString(string(utf16.Decode(units))), nil
	}
	return object.NewClass("String", map[string]object.Object{
		"fromCharCode": object.NewBuiltin("fromCharCode", fromCharCode),
	}, fn, fn)
}

func argOrUndefined(args []object.Object, i int) object.Object {
	if i < len(args) {
		return args[i]
	}
	return object.Undefined
}

// Globals returns a fresh map of every default global except the ones
// contributed by the modules packages.
func Globals() map[string]object.Object {
	globals := map[string]object.Object{
		"undefined":          object.Undefined,
		"NaN":                object.NaN(),
		"Infinity":           object.NewNumber(math.Inf(1)),
		"isFinite":           object.NewBuiltin("isFinite", IsFinite),
		"isNaN":              object.NewBuiltin("isNaN", IsNaN),
		"parseFloat":         object.NewBuiltin("parseFloat", ParseFloat),
		"parseInt":           object.NewBuiltin("parseInt", ParseInt),
		"encodeURI":          object.NewBuiltin("encodeURI", EncodeURI),
		"encodeURIComponent": object.NewBuiltin("encodeURIComponent", EncodeURIComponent),
		"decodeURI":          object.NewBuiltin("decodeURI", DecodeURI),
		"decodeURIComponent": object.NewBuiltin("decodeURIComponent", DecodeURIComponent),
		"Boolean":            BooleanClass(),
		"Number":             NumberClass(),
		"String":             StringClass(),
		"Object":             ObjectModule(),
		"Array":              ArrayClass(),
		"Promise":            PromiseClass(),
		"Map":                MapClass(),
		"Set":                SetClass(),
	}
	for _, kind := range object.ArrayKinds {
		globals[kind.String()] = TypedArrayClass(kind)
	}
	for _, name := range []string{
		object.ErrorName,
		object.EvalErrorName,
		object.RangeErrorName,
		object.ReferenceErrorName,
		object.SyntaxErrorName,
		object.TypeErrorName,
	} {
		globals[name] = object.NewErrorClass(name)
	}
	return globals
}
