// Package op defines the operator kinds understood by the evaluator and the
// mapping from source symbols to those kinds.
package op

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add BinaryOpType = iota + 1
	Subtract
	Multiply
	Divide
	Modulo
	Power
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	And
	Or
	BitwiseAnd
	BitwiseOr
	Xor
	LShift
	RShift
	URShift
	In
)

var binarySymbols = map[BinaryOpType]string{
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	Divide:             "/",
	Modulo:             "%",
	Power:              "**",
	Equal:              "==",
	NotEqual:           "!=",
	StrictEqual:        "===",
	StrictNotEqual:     "!==",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	And:                "&&",
	Or:                 "||",
	BitwiseAnd:         "&",
	BitwiseOr:          "|",
	Xor:                "^",
	LShift:             "<<",
	RShift:             ">>",
	URShift:            ">>>",
	In:                 "in",
}

var binaryBySymbol = map[string]BinaryOpType{}

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	return binarySymbols[bop]
}

// IsComparison reports whether the operation yields a boolean from
// comparing its operands.
func (bop BinaryOpType) IsComparison() bool {
	return bop >= Equal && bop <= GreaterThanOrEqual
}

// UnaryOpType describes an operation that takes a single operand.
type UnaryOpType uint16

const (
	Plus UnaryOpType = iota + 1
	Negate
	BitwiseNot
	Not
	TypeOf
)

var unarySymbols = map[UnaryOpType]string{
	Plus:       "+",
	Negate:     "-",
	BitwiseNot: "~",
	Not:        "!",
	TypeOf:     "typeof",
}

var unaryBySymbol = map[string]UnaryOpType{}

func (uop UnaryOpType) String() string {
	return unarySymbols[uop]
}

func init() {
	for t, sym := range binarySymbols {
		binaryBySymbol[sym] = t
	}
	for t, sym := range unarySymbols {
		unaryBySymbol[sym] = t
	}
}

// LookupBinary returns the binary operation for a source symbol. Symbols
// that parse but have no operation, such as "instanceof", are not found.
func LookupBinary(symbol string) (BinaryOpType, bool) {
	t, ok := binaryBySymbol[symbol]
	return t, ok
}

// LookupUnary returns the unary operation for a source symbol. "void" and
// "delete" are not found.
func LookupUnary(symbol string) (UnaryOpType, bool) {
	t, ok := unaryBySymbol[symbol]
	return t, ok
}

// AssignmentOperator returns the binary operator applied by a compound
// assignment, which is the assignment symbol with its trailing "=" removed.
// Plain "=" yields an empty symbol.
func AssignmentOperator(symbol string) string {
	if len(symbol) == 0 || symbol[len(symbol)-1] != '=' {
		return symbol
	}
	return symbol[:len(symbol)-1]
}
