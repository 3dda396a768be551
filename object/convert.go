package object

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// FormatNumber renders a float64 the way Number.prototype.toString does in
// radix 10: integers without a fraction, exponent form outside 1e-7..1e21.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Shortest round-trip digits, e.g. "1.2345e+06".
	e := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(e, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mantissa, ".", "", 1)
	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		expSign := "+"
		if n-1 < 0 {
			expSign = "-"
		}
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		out += "e" + expSign + strconv.Itoa(abs(n-1))
	}
	return sign + out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// StringToNumber converts script string contents to a number. Surrounding
// whitespace is ignored, an empty string is 0, and anything unparsable is
// NaN.
func StringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values still parse to +/-Inf.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToPrimitive converts obj to a primitive. Objects become their string form.
func ToPrimitive(obj Object) Object {
	if IsPrimitive(obj) {
		return obj
	}
	return NewString(ToString(obj))
}

// ToNumber implements numeric coercion.
func ToNumber(obj Object) float64 {
	switch obj := obj.(type) {
	case *Number:
		return obj.value
	case *UndefinedType:
		return math.NaN()
	case *NullType:
		return 0
	case *Bool:
		if obj.value {
			return 1
		}
		return 0
	case *String:
		return StringToNumber(obj.value)
	}
	return StringToNumber(ToString(obj))
}

// ToString implements string coercion.
func ToString(obj Object) string {
	return toString(obj, cycleGuard{})
}

func toString(obj Object, g cycleGuard) string {
	switch obj := obj.(type) {
	case *String:
		return obj.value
	case *Number:
		return FormatNumber(obj.value)
	case *Bool, *UndefinedType, *NullType:
		return obj.Inspect()
	case *List:
		return obj.join(",", g)
	case *TypedArray:
		return joinItems(obj.Items(), ",", g)
	case *Record:
		return "[object Object]"
	case *Error:
		return obj.Error()
	case fmt.Stringer:
		return obj.String()
	}
	return obj.Inspect()
}

func joinItems(items []Object, sep string, g cycleGuard) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if IsNullish(item) {
			continue
		}
		parts[i] = toString(item, g)
	}
	return strings.Join(parts, sep)
}

// ToPropertyKey converts a computed member key to an attribute name.
func ToPropertyKey(obj Object) string {
	return ToString(ToPrimitive(obj))
}

// ToInt32 implements the signed 32-bit integer conversion used by bitwise
// operators.
func ToInt32(obj Object) int32 {
	return int32(ToUint32(obj))
}

// ToUint32 implements the unsigned 32-bit integer conversion.
func ToUint32(obj Object) uint32 {
	return float64ToUint32(ToNumber(obj))
}

func float64ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

// ToIntegerOrInfinity truncates the numeric value of obj toward zero. NaN
// becomes 0.
func ToIntegerOrInfinity(obj Object) float64 {
	f := ToNumber(obj)
	if math.IsNaN(f) {
		return 0
	}
	return math.Trunc(f)
}

// ToIntegerArg converts a builtin argument to an int. Infinite values are
// clamped to the int range.
func ToIntegerArg(obj Object, name string) (int, error) {
	switch obj.(type) {
	case *Builtin, *Module:
		return 0, TypeErrorf("%s: expected a number, got %s", name, TypeOf(obj))
	}
	f := ToIntegerOrInfinity(obj)
	if f > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	if f < math.MinInt32 {
		return math.MinInt32, nil
	}
	return int(f), nil
}

// relativeIndex resolves a possibly negative index argument against length,
// clamped to [0, length].
func relativeIndex(obj Object, length int, def int) int {
	if obj == nil || obj == Undefined {
		return def
	}
	f := ToIntegerOrInfinity(obj)
	if f < 0 {
		f += float64(length)
		if f < 0 {
			return 0
		}
		return int(f)
	}
	if f > float64(length) {
		return length
	}
	return int(f)
}

// ParseIndex reports whether name is a canonical array index such as "0" or
// "12", returning its value.
func ParseIndex(name string) (int, bool) {
	if name == "" || len(name) > 10 {
		return 0, false
	}
	if len(name) > 1 && name[0] == '0' {
		return 0, false
	}
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// SameValueZero is the equality used by Map, Set, and includes: like strict
// equality except that NaN equals NaN.
func SameValueZero(a, b Object) bool {
	if an, ok := a.(*Number); ok {
		if bn, ok := b.(*Number); ok {
			if math.IsNaN(an.value) && math.IsNaN(bn.value) {
				return true
			}
			return an.value == bn.value
		}
		return false
	}
	return a.Equals(b)
}

// argOr returns args[i] or undefined when it is absent.
func argOr(args []Object, i int) Object {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}
