package object

// UndefinedType is the type of the undefined value.
type UndefinedType struct{}

func (u *UndefinedType) Type() Type             { return UNDEFINED }
func (u *UndefinedType) Inspect() string        { return "undefined" }
func (u *UndefinedType) String() string         { return "undefined" }
func (u *UndefinedType) Interface() interface{} { return nil }
func (u *UndefinedType) IsTruthy() bool         { return false }

func (u *UndefinedType) Equals(other Object) bool {
	_, ok := other.(*UndefinedType)
	return ok
}

func (u *UndefinedType) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (u *UndefinedType) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot set properties of undefined (setting '%s')", name)
}

// NullType is the type of the null value.
type NullType struct{}

func (n *NullType) Type() Type             { return NULL }
func (n *NullType) Inspect() string        { return "null" }
func (n *NullType) String() string         { return "null" }
func (n *NullType) Interface() interface{} { return nil }
func (n *NullType) IsTruthy() bool         { return false }

func (n *NullType) Equals(other Object) bool {
	_, ok := other.(*NullType)
	return ok
}

func (n *NullType) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (n *NullType) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot set properties of null (setting '%s')", name)
}
