package object

// AttrSpec describes an attribute available on a value. It feeds the
// "Did you mean" hints and the CLI's describe output.
type AttrSpec struct {
	// Name is the attribute name (e.g., "push", "setColor").
	Name string

	// Doc is a short description of what the attribute does.
	Doc string

	// Args lists parameter names (e.g., ["x", "y"]).
	Args []string

	// Returns describes the return type (e.g., "list", "string").
	Returns string
}

// Introspectable is implemented by values that can describe their
// attributes.
type Introspectable interface {
	Attrs() []AttrSpec
}

// AttrNames returns just the attribute names from a slice of AttrSpec.
func AttrNames(attrs []AttrSpec) []string {
	names := make([]string, len(attrs))
	for i, attr := range attrs {
		names[i] = attr.Name
	}
	return names
}

// FindAttr searches for an attribute by name in a slice of AttrSpec.
func FindAttr(attrs []AttrSpec, name string) (AttrSpec, bool) {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr, true
		}
	}
	return AttrSpec{}, false
}

// AttrNamesOf returns the names a value exposes, including record keys and
// module members.
func AttrNamesOf(obj Object) []string {
	switch obj := obj.(type) {
	case *Record:
		return obj.Keys()
	case *Module:
		return obj.MemberNames()
	case Introspectable:
		return AttrNames(obj.Attrs())
	}
	return nil
}
