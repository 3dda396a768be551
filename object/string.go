package object

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

var stringAttrs = NewAttrRegistry[*String]("String")

func init() {
	stringAttrs.Define("length").
		Doc("Number of UTF-16 code units").
		Returns("number").
		Getter(func(s *String) Object {
			return NewNumber(float64(len(s.units())))
		})

	stringAttrs.Define("at").
		Doc("Character at an index, counting back from the end when negative").
		Arg("index").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			i := int(ToIntegerOrInfinity(args[0]))
			if i < 0 {
				i += len(u)
			}
			if i < 0 || i >= len(u) {
				return Undefined, nil
			}
			return NewString(fromUnits(u[i : i+1])), nil
		})

	stringAttrs.Define("charAt").
		Doc("Character at an index").
		OptionalArg("index").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			i := ToIntegerOrInfinity(argOr(args, 0))
			if i < 0 || i >= float64(len(u)) {
				return NewString(""), nil
			}
			return NewString(fromUnits(u[int(i) : int(i)+1])), nil
		})

	stringAttrs.Define("charCodeAt").
		Doc("UTF-16 code unit at an index").
		OptionalArg("index").
		Returns("number").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			i := ToIntegerOrInfinity(argOr(args, 0))
			if i < 0 || i >= float64(len(u)) {
				return NaN(), nil
			}
			return NewNumber(float64(u[int(i)])), nil
		})

	stringAttrs.Define("includes").
		Doc("Whether the string contains a substring").
		Arg("search").
		OptionalArg("position").
		Returns("boolean").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			from := clampIndex(argOr(args, 1), len(u))
			return NewBool(indexUnits(u, toUnits(ToString(args[0])), from) >= 0), nil
		})

	stringAttrs.Define("indexOf").
		Doc("Index of the first occurrence of a substring, or -1").
		Arg("search").
		OptionalArg("position").
		Returns("number").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			from := clampIndex(argOr(args, 1), len(u))
			return NewNumber(float64(indexUnits(u, toUnits(ToString(args[0])), from))), nil
		})

	stringAttrs.Define("lastIndexOf").
		Doc("Index of the last occurrence of a substring, or -1").
		Arg("search").
		Returns("number").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			needle := toUnits(ToString(args[0]))
			for i := len(u) - len(needle); i >= 0; i-- {
				if unitsEqual(u[i:i+len(needle)], needle) {
					return NewNumber(float64(i)), nil
				}
			}
			return NewNumber(-1), nil
		})

	stringAttrs.Define("slice").
		Doc("Extract a section, with negative indexes counting from the end").
		OptionalArg("start").
		OptionalArg("end").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			start := relativeIndex(argOr(args, 0), len(u), 0)
			end := relativeIndex(argOr(args, 1), len(u), len(u))
			if start >= end {
				return NewString(""), nil
			}
			return NewString(fromUnits(u[start:end])), nil
		})

	stringAttrs.Define("substring").
		Doc("Extract the characters between two indexes").
		OptionalArg("start").
		OptionalArg("end").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			start := clampIndex(argOr(args, 0), len(u))
			end := len(u)
			if len(args) > 1 && args[1] != Undefined {
				end = clampIndex(args[1], len(u))
			}
			if start > end {
				start, end = end, start
			}
			return NewString(fromUnits(u[start:end])), nil
		})

	stringAttrs.Define("toUpperCase").
		Doc("Convert to upper case").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.ToUpper(s.value)), nil
		})

	stringAttrs.Define("toLowerCase").
		Doc("Convert to lower case").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.ToLower(s.value)), nil
		})

	stringAttrs.Define("trim").
		Doc("Remove leading and trailing whitespace").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.TrimSpace(s.value)), nil
		})

	stringAttrs.Define("trimStart").
		Doc("Remove leading whitespace").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.TrimLeft(s.value, " \t\n\r\v\f")), nil
		})

	stringAttrs.Define("trimEnd").
		Doc("Remove trailing whitespace").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.TrimRight(s.value, " \t\n\r\v\f")), nil
		})

	stringAttrs.Define("split").
		Doc("Split into a list of strings").
		OptionalArg("separator").
		OptionalArg("limit").
		Returns("list").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			limit := -1
			if len(args) > 1 && args[1] != Undefined {
				limit = int(ToUint32(args[1]))
			}
			var parts []string
			switch {
			case len(args) == 0 || args[0] == Undefined:
				parts = []string{s.value}
			case ToString(args[0]) == "":
				for _, unit := range s.units() {
					parts = append(parts, fromUnits([]uint16{unit}))
				}
			default:
				parts = strings.Split(s.value, ToString(args[0]))
			}
			if limit >= 0 && limit < len(parts) {
				parts = parts[:limit]
			}
			items := make([]Object, len(parts))
			for i, p := range parts {
				items[i] = NewString(p)
			}
			return NewList(items), nil
		})

	stringAttrs.Define("startsWith").
		Doc("Whether the string starts with a prefix").
		Arg("search").
		OptionalArg("position").
		Returns("boolean").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			from := clampIndex(argOr(args, 1), len(u))
			needle := toUnits(ToString(args[0]))
			if from+len(needle) > len(u) {
				return False, nil
			}
			return NewBool(unitsEqual(u[from:from+len(needle)], needle)), nil
		})

	stringAttrs.Define("endsWith").
		Doc("Whether the string ends with a suffix").
		Arg("search").
		OptionalArg("length").
		Returns("boolean").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			u := s.units()
			end := len(u)
			if len(args) > 1 && args[1] != Undefined {
				end = clampIndex(args[1], len(u))
			}
			needle := toUnits(ToString(args[0]))
			start := end - len(needle)
			if start < 0 {
				return False, nil
			}
			return NewBool(unitsEqual(u[start:end], needle)), nil
		})

	stringAttrs.Define("repeat").
		Doc("Repeat the string count times").
		Arg("count").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			n := ToIntegerOrInfinity(args[0])
			if n < 0 || n > MaxStringLength {
				return nil, RangeErrorf("Invalid count value: %s", FormatNumber(ToNumber(args[0])))
			}
			if int(n)*len(s.value) > MaxStringLength {
				return nil, RangeErrorf("Invalid string length")
			}
			return NewString(strings.Repeat(s.value, int(n))), nil
		})

	stringAttrs.Define("padStart").
		Doc("Pad the start of the string to a target length").
		Arg("length").
		OptionalArg("pad").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			fill, err := s.padding(args)
			if err != nil {
				return nil, err
			}
			return NewString(fill + s.value), nil
		})

	stringAttrs.Define("padEnd").
		Doc("Pad the end of the string to a target length").
		Arg("length").
		OptionalArg("pad").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			fill, err := s.padding(args)
			if err != nil {
				return nil, err
			}
			return NewString(s.value + fill), nil
		})

	stringAttrs.Define("replace").
		Doc("Replace the first occurrence of a substring").
		Args("pattern", "replacement").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.Replace(s.value, ToString(args[0]), ToString(args[1]), 1)), nil
		})

	stringAttrs.Define("replaceAll").
		Doc("Replace every occurrence of a substring").
		Args("pattern", "replacement").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.ReplaceAll(s.value, ToString(args[0]), ToString(args[1]))), nil
		})

	stringAttrs.Define("concat").
		Doc("Append the string forms of the arguments").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			var sb strings.Builder
			sb.WriteString(s.value)
			for _, arg := range args {
				sb.WriteString(ToString(arg))
			}
			return NewString(sb.String()), nil
		})

	stringAttrs.Define("normalize").
		Doc("Unicode normalization: NFC, NFD, NFKC, or NFKD").
		OptionalArg("form").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			form := "NFC"
			if len(args) > 0 && args[0] != Undefined {
				form = ToString(args[0])
			}
			var f norm.Form
			switch form {
			case "NFC":
				f = norm.NFC
			case "NFD":
				f = norm.NFD
			case "NFKC":
				f = norm.NFKC
			case "NFKD":
				f = norm.NFKD
			default:
				return nil, RangeErrorf("The normalization form should be one of NFC, NFD, NFKC, NFKD.")
			}
			return NewString(f.String(s.value)), nil
		})

	stringAttrs.Define("toString").
		Doc("The string itself").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return s, nil
		})
}

// MaxStringLength bounds strings built by repeat and padding.
const MaxStringLength = 1 << 24

// String wraps string and implements Object.
type String struct {
	value string
}

// NewString returns a string object.
func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

func (s *String) Attrs() []AttrSpec {
	return stringAttrs.Specs()
}

// GetAttr returns a method, the length, or the character at a numeric
// index.
func (s *String) GetAttr(name string) (Object, bool) {
	if i, ok := ParseIndex(name); ok {
		u := s.units()
		if i >= len(u) {
			return nil, false
		}
		return NewString(fromUnits(u[i : i+1])), true
	}
	return stringAttrs.GetAttr(s, name)
}

// SetAttr is a silent no-op, matching writes to primitives.
func (s *String) SetAttr(name string, value Object) error {
	return nil
}

// Items returns the string's characters, used when spreading.
func (s *String) Items() []Object {
	var items []Object
	for _, r := range s.value {
		items = append(items, NewString(string(r)))
	}
	return items
}

func (s *String) units() []uint16 {
	return toUnits(s.value)
}

func (s *String) padding(args []Object) (string, error) {
	target := int(ToIntegerOrInfinity(args[0]))
	if target > MaxStringLength {
		return "", RangeErrorf("Invalid string length")
	}
	pad := " "
	if len(args) > 1 && args[1] != Undefined {
		pad = ToString(args[1])
	}
	u := s.units()
	padUnits := toUnits(pad)
	if target <= len(u) || len(padUnits) == 0 {
		return "", nil
	}
	fill := make([]uint16, 0, target-len(u))
	for len(fill) < target-len(u) {
		fill = append(fill, padUnits...)
	}
	return fromUnits(fill[:target-len(u)]), nil
}

func toUnits(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func fromUnits(u []uint16) string {
	return string(utf16.Decode(u))
}

func unitsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexUnits(hay, needle []uint16, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		if unitsEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// clampIndex converts a position argument to an int in [0, length].
func clampIndex(obj Object, length int) int {
	f := ToIntegerOrInfinity(obj)
	if f < 0 {
		return 0
	}
	if f > float64(length) {
		return length
	}
	return int(f)
}
