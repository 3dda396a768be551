// Package errors defines the sandbox policy error family and the formatter
// used to present errors with source context.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a policy violation.
type Kind string

const (
	UnknownIdentifier         Kind = "UnknownIdentifier"
	AlreadyDeclaredIdentifier Kind = "AlreadyDeclaredIdentifier"
	SandboxPropertyError      Kind = "SandboxPropertyError"
	SandboxError              Kind = "SandboxError"
	UnsupportedFeature        Kind = "UnsupportedFeature"
	MisplacedSpread           Kind = "MisplacedSpread"
	NotIterable               Kind = "NotIterable"
	NotCallable               Kind = "NotCallable"
	NotConstructible          Kind = "NotConstructible"
	DepthExceeded             Kind = "DepthExceeded"
)

var kindCodes = map[Kind]ErrorCode{
	UnknownIdentifier:         E4001,
	AlreadyDeclaredIdentifier: E4002,
	SandboxPropertyError:      E4003,
	SandboxError:              E4004,
	UnsupportedFeature:        E4005,
	MisplacedSpread:           E4006,
	NotIterable:               E4007,
	NotCallable:               E4008,
	NotConstructible:          E4009,
	DepthExceeded:             E4010,
}

// Code returns the error code assigned to the kind.
func (k Kind) Code() ErrorCode {
	return kindCodes[k]
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// PolicyError reports that a script tried something the sandbox does not
// allow. Policy errors abort the evaluation and are never visible to script
// try/catch.
type PolicyError struct {
	Kind     Kind
	Code     ErrorCode
	Message  string
	Offset   int    // byte offset within the source
	Line     int    // 1-based
	Column   int    // 0-based, in bytes from the line start
	Filename string // optional
	Source   string // text of the offending line
	Hint     string // optional suggestion
}

// NewPolicyError creates a policy error of the given kind located at offset
// within source.
func NewPolicyError(kind Kind, source string, offset int, message string) *PolicyError {
	line, column := LineColumn(source, offset)
	return &PolicyError{
		Kind:    kind,
		Code:    kind.Code(),
		Message: message,
		Offset:  offset,
		Line:    line,
		Column:  column,
		Source:  lineText(source, line),
	}
}

// PolicyErrorf is like NewPolicyError with a formatted message.
func PolicyErrorf(kind Kind, source string, offset int, format string, args ...any) *PolicyError {
	return NewPolicyError(kind, source, offset, fmt.Sprintf(format, args...))
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s (at %d:%d)", e.Message, e.Line, e.Column)
}

// WithHint returns the error with a hint attached.
func (e *PolicyError) WithHint(hint string) *PolicyError {
	e.Hint = hint
	return e
}

// WithFilename returns the error with a filename attached.
func (e *PolicyError) WithFilename(name string) *PolicyError {
	e.Filename = name
	return e
}

// Is matches another *PolicyError of the same kind, so callers can write
// errors.Is(err, &PolicyError{Kind: UnknownIdentifier}).
func (e *PolicyError) Is(target error) bool {
	t, ok := target.(*PolicyError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *PolicyError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the policy error to a FormattedError for display.
func (e *PolicyError) ToFormatted() *FormattedError {
	f := &FormattedError{
		Code:     e.Code,
		Kind:     "policy error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column + 1,
		Hint:     e.Hint,
	}
	if e.Source != "" {
		f.SourceLines = []SourceLineEntry{{Number: e.Line, Text: e.Source, IsMain: true}}
	}
	return f
}

// LineColumn converts a byte offset into a 1-based line and a 0-based column.
// An offset that falls on a line break belongs to the line it terminates.
func LineColumn(source string, offset int) (line, column int) {
	line = 1
	scanned := 0
	for _, text := range strings.Split(source, "\n") {
		next := scanned + len(text)
		if next >= offset {
			return line, offset - scanned
		}
		scanned = next + 1
		line++
	}
	return line, 0
}

func lineText(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
