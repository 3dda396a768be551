package object

// RequireAtLeast fails with a TypeError when fewer than min arguments were
// given.
func RequireAtLeast(funcName string, min int, args []Object) error {
	if len(args) < min {
		return argsError(funcName, min, len(args))
	}
	return nil
}

// RequireRange fails with a TypeError when the argument count falls outside
// [min, max].
func RequireRange(funcName string, min, max int, args []Object) error {
	n := len(args)
	switch {
	case n < min && min == max:
		return argsError(funcName, min, n)
	case n < min:
		return TypeErrorf("%s requires at least %d %s, got %d", funcName, min, pluralize("argument", min != 1), n)
	case n > max:
		return TypeErrorf("%s accepts at most %d %s, got %d", funcName, max, pluralize("argument", max != 1), n)
	}
	return nil
}

func pluralize(s string, do bool) string {
	if do {
		return s + "s"
	}
	return s
}

// AsString returns the contents of a string argument.
func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", TypeErrorf("expected a string, got %s", TypeOf(obj))
	}
	return s.value, nil
}

// AsNumber returns the value of a number argument.
func AsNumber(obj Object) (float64, error) {
	n, ok := obj.(*Number)
	if !ok {
		return 0, TypeErrorf("expected a number, got %s", TypeOf(obj))
	}
	return n.value, nil
}

// AsInt returns a number argument truncated to an int.
func AsInt(obj Object) (int, error) {
	f, err := AsNumber(obj)
	if err != nil {
		return 0, err
	}
	if f != f {
		return 0, TypeErrorf("expected a number, got NaN")
	}
	return int(f), nil
}

// AsList returns the items of a list argument.
func AsList(obj Object) ([]Object, error) {
	ls, ok := obj.(*List)
	if !ok {
		return nil, TypeErrorf("expected a list, got %s", TypeOf(obj))
	}
	return ls.items, nil
}
