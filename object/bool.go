package object

// Bool wraps bool and implements Object.
type Bool struct {
	*base
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o.value == b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

func (b *Bool) SetAttr(name string, value Object) error {
	return nil
}

// NewBool returns the shared True or False value.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Not returns the negation of the truthiness of obj.
func Not(obj Object) *Bool {
	return NewBool(!obj.IsTruthy())
}
