package object

type base struct{}

func (b *base) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (b *base) SetAttr(name string, value Object) error {
	return TypeErrorf("Cannot create property '%s'", name)
}

func (b *base) IsTruthy() bool {
	return true
}

// frozenError is returned for a write to a frozen value.
func frozenError(name string) *Error {
	return TypeErrorf("Cannot assign to read only property '%s' of object", name)
}

// sealedError is returned when a new key is added to a sealed record.
func sealedError(name string) *Error {
	return TypeErrorf("Cannot add property %s, object is not extensible", name)
}
