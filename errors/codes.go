package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E4xxx: Sandbox policy violations
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Invalid escape sequence
	E1011 ErrorCode = "E1011" // Reserved word

	// Policy violations (E4xxx)
	E4001 ErrorCode = "E4001" // Unknown identifier
	E4002 ErrorCode = "E4002" // Identifier already declared
	E4003 ErrorCode = "E4003" // Forbidden property access
	E4004 ErrorCode = "E4004" // Forbidden construct
	E4005 ErrorCode = "E4005" // Unsupported feature
	E4006 ErrorCode = "E4006" // Misplaced spread
	E4007 ErrorCode = "E4007" // Value is not iterable
	E4008 ErrorCode = "E4008" // Value is not callable
	E4009 ErrorCode = "E4009" // Value is not constructible
	E4010 ErrorCode = "E4010" // Evaluation depth exceeded
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",
	E1010: "invalid escape sequence",
	E1011: "reserved word",

	E4001: "unknown identifier",
	E4002: "identifier already declared",
	E4003: "forbidden property access",
	E4004: "forbidden construct",
	E4005: "unsupported feature",
	E4006: "misplaced spread",
	E4007: "value is not iterable",
	E4008: "value is not callable",
	E4009: "value is not constructible",
	E4010: "evaluation depth exceeded",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '4':
		return "policy"
	default:
		return "unknown"
	}
}
