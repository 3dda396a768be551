package object

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

var listAttrs = NewAttrRegistry[*List]("Array")

func init() {
	listAttrs.Define("length").
		Doc("Number of items").
		Returns("number").
		Getter(func(ls *List) Object {
			return NewNumber(float64(len(ls.items)))
		})

	listAttrs.Define("at").
		Doc("Item at an index, counting back from the end when negative").
		Arg("index").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			i := int(ToIntegerOrInfinity(args[0]))
			if i < 0 {
				i += len(ls.items)
			}
			if i < 0 || i >= len(ls.items) {
				return Undefined, nil
			}
			return ls.items[i], nil
		})

	listAttrs.Define("push").
		Doc("Append items and return the new length").
		Returns("number").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError(fmt.Sprint(len(ls.items)))
			}
			ls.items = append(ls.items, args...)
			return NewNumber(float64(len(ls.items))), nil
		})

	listAttrs.Define("pop").
		Doc("Remove and return the last item").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError(fmt.Sprint(len(ls.items) - 1))
			}
			if len(ls.items) == 0 {
				return Undefined, nil
			}
			last := ls.items[len(ls.items)-1]
			ls.items = ls.items[:len(ls.items)-1]
			return last, nil
		})

	listAttrs.Define("shift").
		Doc("Remove and return the first item").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError("0")
			}
			if len(ls.items) == 0 {
				return Undefined, nil
			}
			first := ls.items[0]
			ls.items = ls.items[1:]
			return first, nil
		})

	listAttrs.Define("unshift").
		Doc("Prepend items and return the new length").
		Returns("number").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError("0")
			}
			items := make([]Object, 0, len(args)+len(ls.items))
			items = append(items, args...)
			ls.items = append(items, ls.items...)
			return NewNumber(float64(len(ls.items))), nil
		})

	listAttrs.Define("join").
		Doc("Join the string forms of the items").
		OptionalArg("separator").
		Returns("string").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			sep := ","
			if len(args) > 0 && args[0] != Undefined {
				sep = ToString(args[0])
			}
			return NewString(ls.join(sep, cycleGuard{})), nil
		})

	listAttrs.Define("includes").
		Doc("Whether the list contains a value").
		Arg("value").
		Returns("boolean").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			for _, item := range ls.items {
				if SameValueZero(item, args[0]) {
					return True, nil
				}
			}
			return False, nil
		})

	listAttrs.Define("indexOf").
		Doc("Index of the first strictly equal item, or -1").
		Arg("value").
		Returns("number").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			for i, item := range ls.items {
				if item.Equals(args[0]) {
					return NewNumber(float64(i)), nil
				}
			}
			return NewNumber(-1), nil
		})

	listAttrs.Define("lastIndexOf").
		Doc("Index of the last strictly equal item, or -1").
		Arg("value").
		Returns("number").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			for i := len(ls.items) - 1; i >= 0; i-- {
				if ls.items[i].Equals(args[0]) {
					return NewNumber(float64(i)), nil
				}
			}
			return NewNumber(-1), nil
		})

	listAttrs.Define("slice").
		Doc("Copy a section, with negative indexes counting from the end").
		OptionalArg("start").
		OptionalArg("end").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			start := relativeIndex(argOr(args, 0), len(ls.items), 0)
			end := relativeIndex(argOr(args, 1), len(ls.items), len(ls.items))
			if start >= end {
				return NewList(nil), nil
			}
			return NewList(cloneItems(ls.items[start:end])), nil
		})

	listAttrs.Define("concat").
		Doc("Return a new list with the arguments appended, flattening lists").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			items := cloneItems(ls.items)
			for _, arg := range args {
				if other, ok := arg.(*List); ok {
					items = append(items, other.items...)
				} else {
					items = append(items, arg)
				}
			}
			return NewList(items), nil
		})

	listAttrs.Define("reverse").
		Doc("Reverse the list in place").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError("0")
			}
			for i, j := 0, len(ls.items)-1; i < j; i, j = i+1, j-1 {
				ls.items[i], ls.items[j] = ls.items[j], ls.items[i]
			}
			return ls, nil
		})

	listAttrs.Define("fill").
		Doc("Fill the list with a value").
		Arg("value").
		OptionalArg("start").
		OptionalArg("end").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError("0")
			}
			start := relativeIndex(argOr(args, 1), len(ls.items), 0)
			end := relativeIndex(argOr(args, 2), len(ls.items), len(ls.items))
			for i := start; i < end; i++ {
				ls.items[i] = args[0]
			}
			return ls, nil
		})

	listAttrs.Define("sort").
		Doc("Sort in place, by string order or with a comparison function").
		OptionalArg("compare").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			if ls.frozen {
				return nil, frozenError("0")
			}
			if err := sortItems(ctx, ls.items, argOr(args, 0)); err != nil {
				return nil, err
			}
			return ls, nil
		})

	listAttrs.Define("map").
		Doc("Call a function on every item and collect the results").
		Arg("callback").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			fn, err := callbackArg(args[0], "Array.map")
			if err != nil {
				return nil, err
			}
			out := make([]Object, len(ls.items))
			for i, item := range ls.items {
				v, err := fn.Call(ctx, item, NewNumber(float64(i)), ls)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return NewList(out), nil
		})

	listAttrs.Define("filter").
		Doc("Keep the items for which a function returns a truthy value").
		Arg("callback").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			var out []Object
			err := ls.each(ctx, args[0], "Array.filter", func(i int, item, result Object) bool {
				if result.IsTruthy() {
					out = append(out, item)
				}
				return true
			})
			if err != nil {
				return nil, err
			}
			return NewList(out), nil
		})

	listAttrs.Define("forEach").
		Doc("Call a function on every item").
		Arg("callback").
		Returns("undefined").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			err := ls.each(ctx, args[0], "Array.forEach", func(int, Object, Object) bool { return true })
			if err != nil {
				return nil, err
			}
			return Undefined, nil
		})

	listAttrs.Define("some").
		Doc("Whether a function returns a truthy value for any item").
		Arg("callback").
		Returns("boolean").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			found := false
			err := ls.each(ctx, args[0], "Array.some", func(i int, item, result Object) bool {
				found = result.IsTruthy()
				return !found
			})
			if err != nil {
				return nil, err
			}
			return NewBool(found), nil
		})

	listAttrs.Define("every").
		Doc("Whether a function returns a truthy value for every item").
		Arg("callback").
		Returns("boolean").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			all := true
			err := ls.each(ctx, args[0], "Array.every", func(i int, item, result Object) bool {
				all = result.IsTruthy()
				return all
			})
			if err != nil {
				return nil, err
			}
			return NewBool(all), nil
		})

	listAttrs.Define("find").
		Doc("The first item for which a function returns a truthy value").
		Arg("callback").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			var found Object = Undefined
			err := ls.each(ctx, args[0], "Array.find", func(i int, item, result Object) bool {
				if result.IsTruthy() {
					found = item
					return false
				}
				return true
			})
			if err != nil {
				return nil, err
			}
			return found, nil
		})

	listAttrs.Define("findIndex").
		Doc("The index of the first item for which a function returns a truthy value").
		Arg("callback").
		Returns("number").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			found := -1
			err := ls.each(ctx, args[0], "Array.findIndex", func(i int, item, result Object) bool {
				if result.IsTruthy() {
					found = i
					return false
				}
				return true
			})
			if err != nil {
				return nil, err
			}
			return NewNumber(float64(found)), nil
		})

	listAttrs.Define("reduce").
		Doc("Fold the items into one value with a function").
		Arg("callback").
		OptionalArg("initial").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			fn, err := callbackArg(args[0], "Array.reduce")
			if err != nil {
				return nil, err
			}
			items := ls.items
			var acc Object
			if len(args) > 1 {
				acc = args[1]
			} else {
				if len(items) == 0 {
					return nil, TypeErrorf("Reduce of empty array with no initial value")
				}
				acc, items = items[0], items[1:]
			}
			offset := len(ls.items) - len(items)
			for i, item := range items {
				acc, err = fn.Call(ctx, acc, item, NewNumber(float64(i+offset)), ls)
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	listAttrs.Define("flat").
		Doc("Flatten nested lists one level deep").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			var out []Object
			for _, item := range ls.items {
				if inner, ok := item.(*List); ok {
					out = append(out, inner.items...)
				} else {
					out = append(out, item)
				}
			}
			return NewList(out), nil
		})

	listAttrs.Define("toString").
		Doc("Join the items with commas").
		Returns("string").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			return NewString(ls.join(",", cycleGuard{})), nil
		})
}

// MaxListLength bounds lists grown by index assignment.
const MaxListLength = 1 << 24

// List is an ordered sequence of values, the result of a list literal.
type List struct {
	items  []Object
	frozen bool
}

// NewList returns a list holding items. The slice is not copied.
func NewList(items []Object) *List {
	if items == nil {
		items = []Object{}
	}
	return &List{items: items}
}

func (ls *List) Type() Type {
	return LIST
}

// Items returns the list's backing slice.
func (ls *List) Items() []Object {
	return ls.items
}

// Len returns the number of items.
func (ls *List) Len() int {
	return len(ls.items)
}

func (ls *List) Inspect() string {
	return inspectIn(ls, cycleGuard{})
}

func (ls *List) inspect(g cycleGuard) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, item := range ls.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(inspectIn(item, g))
	}
	sb.WriteString("]")
	return sb.String()
}

// join converts the items to strings. A list met again while it is being
// joined contributes an empty string.
func (ls *List) join(sep string, g cycleGuard) string {
	if !g.enter(ls) {
		return ""
	}
	defer g.leave(ls)
	return joinItems(ls.items, sep, g)
}

func (ls *List) String() string {
	return ls.Inspect()
}

func (ls *List) Interface() interface{} {
	return goValueIn(ls, cycleGuard{})
}

func (ls *List) goValue(g cycleGuard) any {
	out := make([]interface{}, len(ls.items))
	for i, item := range ls.items {
		out[i] = goValueIn(item, g)
	}
	return out
}

func (ls *List) Equals(other Object) bool {
	return ls == other
}

func (ls *List) IsTruthy() bool {
	return true
}

func (ls *List) Attrs() []AttrSpec {
	return listAttrs.Specs()
}

// GetAttr returns a method, the length, or the item at a numeric index.
func (ls *List) GetAttr(name string) (Object, bool) {
	if i, ok := ParseIndex(name); ok {
		if i >= len(ls.items) {
			return nil, false
		}
		return ls.items[i], true
	}
	return listAttrs.GetAttr(ls, name)
}

// SetAttr stores an item at a numeric index. Writing at the current length
// appends; writing further out is a RangeError. Setting length truncates.
func (ls *List) SetAttr(name string, value Object) error {
	if ls.frozen {
		return frozenError(name)
	}
	if i, ok := ParseIndex(name); ok {
		switch {
		case i < len(ls.items):
			ls.items[i] = value
		case i == len(ls.items) && i < MaxListLength:
			ls.items = append(ls.items, value)
		default:
			return RangeErrorf("Index %d is out of range for a list of length %d", i, len(ls.items))
		}
		return nil
	}
	if name == "length" {
		n := ToNumber(value)
		if n < 0 || n != float64(int(n)) {
			return RangeErrorf("Invalid array length")
		}
		if int(n) < len(ls.items) {
			ls.items = ls.items[:int(n)]
			return nil
		}
		for len(ls.items) < int(n) && len(ls.items) < MaxListLength {
			ls.items = append(ls.items, Undefined)
		}
		return nil
	}
	if listAttrs.Has(name) {
		return frozenError(name)
	}
	return TypeErrorf("Cannot create property '%s' on a list", name)
}

func (ls *List) Freeze() {
	ls.frozen = true
}

func (ls *List) IsFrozen() bool {
	return ls.frozen
}

// each calls fn on every item with the callback result until visit returns
// false.
func (ls *List) each(ctx context.Context, callback Object, name string, visit func(i int, item, result Object) bool) error {
	fn, err := callbackArg(callback, name)
	if err != nil {
		return err
	}
	for i, item := range ls.items {
		result, err := fn.Call(ctx, item, NewNumber(float64(i)), ls)
		if err != nil {
			return err
		}
		if !visit(i, item, result) {
			return nil
		}
	}
	return nil
}

func callbackArg(obj Object, name string) (Callable, error) {
	fn, ok := AsCallable(obj)
	if !ok {
		return nil, TypeErrorf("%s is not a function", obj.Inspect())
	}
	return fn, nil
}

func cloneItems(items []Object) []Object {
	out := make([]Object, len(items))
	copy(out, items)
	return out
}

// sortItems sorts in place. Without a comparator, items are ordered by their
// string form and undefined sorts last.
func sortItems(ctx context.Context, items []Object, compare Object) error {
	var sortErr error
	if compare == Undefined {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a == Undefined {
				return false
			}
			if b == Undefined {
				return true
			}
			return ToString(a) < ToString(b)
		})
		return nil
	}
	fn, err := callbackArg(compare, "Array.sort")
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		result, err := fn.Call(ctx, items[i], items[j])
		if err != nil {
			sortErr = err
			return false
		}
		return ToNumber(result) < 0
	})
	return sortErr
}
