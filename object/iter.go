package object

// Iterate returns the items produced by spreading obj. Lists, strings, Sets,
// Maps, and typed arrays are iterable; anything else reports false.
func Iterate(obj Object) ([]Object, bool) {
	switch obj := obj.(type) {
	case *List:
		return cloneItems(obj.items), true
	case Iterable:
		return obj.Items(), true
	}
	return nil, false
}

// IsIterable reports whether obj may be spread.
func IsIterable(obj Object) bool {
	_, ok := obj.(Iterable)
	return ok
}
