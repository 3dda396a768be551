package object

import (
	"errors"
	"fmt"
)

// ThrownError is a script-level failure. Value holds the thrown object
// exactly as the script produced it, so a catch clause rebinds the original
// value. Go callers unwrap it with errors.As.
type ThrownError struct {
	Value Object
}

// NewThrownError wraps a thrown value.
func NewThrownError(value Object) *ThrownError {
	return &ThrownError{Value: value}
}

func (e *ThrownError) Error() string {
	if err, ok := e.Value.(*Error); ok {
		return err.Error()
	}
	return fmt.Sprintf("Uncaught %s", e.Value.Inspect())
}

// Unwrap exposes a thrown error value to errors.As.
func (e *ThrownError) Unwrap() error {
	if err, ok := e.Value.(*Error); ok {
		return err
	}
	return nil
}

// AsThrown converts an error returned by a builtin into a script-level
// failure. A *ThrownError is returned unchanged, a script *Error is thrown
// as-is, and any other error is wrapped in a plain Error.
func AsThrown(err error) *ThrownError {
	var thrown *ThrownError
	if errors.As(err, &thrown) {
		return thrown
	}
	return &ThrownError{Value: FromGoError(err)}
}
