package object

import (
	"context"
	"errors"
	"fmt"
)

// Error names of the script-visible error hierarchy.
const (
	ErrorName          = "Error"
	EvalErrorName      = "EvalError"
	RangeErrorName     = "RangeError"
	ReferenceErrorName = "ReferenceError"
	SyntaxErrorName    = "SyntaxError"
	TypeErrorName      = "TypeError"
)

var errorAttrs = NewAttrRegistry[*Error]("Error")

func init() {
	errorAttrs.Define("name").
		Doc("The error class name").
		Returns("string").
		Getter(func(e *Error) Object { return NewString(e.name) })

	errorAttrs.Define("message").
		Doc("The error message").
		Returns("string").
		Getter(func(e *Error) Object { return NewString(e.message) })

	errorAttrs.Define("toString").
		Doc("Format as name: message").
		Returns("string").
		Impl(func(e *Error, ctx context.Context, args ...Object) (Object, error) {
			return NewString(e.Error()), nil
		})
}

// Error is a script error value, such as the result of new TypeError("x").
// It also implements the Go error interface so builtins can return it
// directly.
type Error struct {
	*base
	name    string
	message string
	cause   error
}

// NewError returns an error value with the given class name and message.
func NewError(name, message string) *Error {
	return &Error{name: name, message: message}
}

// Errorf returns a plain Error with a formatted message.
func Errorf(format string, args ...interface{}) *Error {
	return NewError(ErrorName, fmt.Sprintf(format, args...))
}

// TypeErrorf returns a TypeError with a formatted message.
func TypeErrorf(format string, args ...interface{}) *Error {
	return NewError(TypeErrorName, fmt.Sprintf(format, args...))
}

// RangeErrorf returns a RangeError with a formatted message.
func RangeErrorf(format string, args ...interface{}) *Error {
	return NewError(RangeErrorName, fmt.Sprintf(format, args...))
}

// ReferenceErrorf returns a ReferenceError with a formatted message.
func ReferenceErrorf(format string, args ...interface{}) *Error {
	return NewError(ReferenceErrorName, fmt.Sprintf(format, args...))
}

// SyntaxErrorf returns a SyntaxError with a formatted message.
func SyntaxErrorf(format string, args ...interface{}) *Error {
	return NewError(SyntaxErrorName, fmt.Sprintf(format, args...))
}

// FromGoError converts an arbitrary Go error into a script error value.
// Errors that already are script errors are returned unchanged.
func FromGoError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{name: ErrorName, message: err.Error(), cause: err}
}

func (e *Error) Type() Type {
	return ERROR
}

// Name returns the error class name, such as "TypeError".
func (e *Error) Name() string {
	return e.name
}

// Message returns the error message.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Inspect() string {
	return e.Error()
}

func (e *Error) String() string {
	return e.Error()
}

func (e *Error) Interface() interface{} {
	return map[string]interface{}{"name": e.name, "message": e.message}
}

func (e *Error) Equals(other Object) bool {
	return e == other
}

func (e *Error) Attrs() []AttrSpec {
	return errorAttrs.Specs()
}

func (e *Error) GetAttr(name string) (Object, bool) {
	return errorAttrs.GetAttr(e, name)
}

func (e *Error) SetAttr(name string, value Object) error {
	switch name {
	case "message":
		e.message = ToString(value)
		return nil
	case "name":
		e.name = ToString(value)
		return nil
	}
	return e.base.SetAttr(name, value)
}

func (e *Error) Error() string {
	if e.message == "" {
		return e.name
	}
	return e.name + ": " + e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsError reports whether obj is a script error value.
func IsError(obj Object) bool {
	_, ok := obj.(*Error)
	return ok
}

// NewErrorClass returns the constructor module for one error class, such
// as TypeError. Calling it with or without "new" creates an error value.
func NewErrorClass(name string) *Module {
	create := func(ctx context.Context, args ...Object) (Object, error) {
		message := ""
		if len(args) > 0 && args[0] != Undefined {
			message = ToString(args[0])
		}
		return NewError(name, message), nil
	}
	return NewClass(name, nil, create, create)
}
