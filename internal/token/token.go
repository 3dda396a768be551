// Package token defines the keywords and tokens produced when lexing canvasbox
// scripts.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the source
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AMPERSAND        Type = "&"
	AMPERSAND_EQUALS Type = "&="
	AND              Type = "&&"
	AND_EQUALS       Type = "&&="
	ARROW            Type = "=>"
	ASSIGN           Type = "="
	ASTERISK         Type = "*"
	ASTERISK_EQUALS  Type = "*="
	AWAIT            Type = "AWAIT"
	BANG             Type = "!"
	BITOR            Type = "|"
	BITOR_EQUALS     Type = "|="
	CARET            Type = "^"
	CARET_EQUALS     Type = "^="
	CATCH            Type = "CATCH"
	COLON            Type = ":"
	COMMA            Type = ","
	CONST            Type = "CONST"
	DELETE           Type = "DELETE"
	ELSE             Type = "ELSE"
	EOF              Type = "EOF"
	EQ               Type = "=="
	EQ_STRICT        Type = "==="
	FALSE            Type = "FALSE"
	FINALLY          Type = "FINALLY"
	GT               Type = ">"
	GT_EQUALS        Type = ">="
	GT_GT            Type = ">>"
	GT_GT_EQUALS     Type = ">>="
	GT_GT_GT         Type = ">>>"
	GT_GT_GT_EQUALS  Type = ">>>="
	IDENT            Type = "IDENT"
	IF               Type = "IF"
	ILLEGAL          Type = "ILLEGAL"
	IN               Type = "IN"
	INSTANCEOF       Type = "INSTANCEOF"
	LBRACE           Type = "{"
	LBRACKET         Type = "["
	LET              Type = "LET"
	LPAREN           Type = "("
	LT               Type = "<"
	LT_EQUALS        Type = "<="
	LT_LT            Type = "<<"
	LT_LT_EQUALS     Type = "<<="
	MINUS            Type = "-"
	MINUS_EQUALS     Type = "-="
	MINUS_MINUS      Type = "--"
	MOD              Type = "%"
	MOD_EQUALS       Type = "%="
	NEW              Type = "NEW"
	NEWLINE          Type = "EOL"
	NOT_EQ           Type = "!="
	NOT_EQ_STRICT    Type = "!=="
	NULL             Type = "NULL"
	NUMBER           Type = "NUMBER"
	OR               Type = "||"
	OR_EQUALS        Type = "||="
	PERIOD           Type = "."
	PLUS             Type = "+"
	PLUS_EQUALS      Type = "+="
	PLUS_PLUS        Type = "++"
	POW              Type = "**"
	POW_EQUALS       Type = "**="
	QUESTION         Type = "?"
	RBRACE           Type = "}"
	RBRACKET         Type = "]"
	REGEXP           Type = "REGEXP"
	RESERVED         Type = "RESERVED"
	RPAREN           Type = ")"
	SEMICOLON        Type = ";"
	SLASH            Type = "/"
	SLASH_EQUALS     Type = "/="
	SPREAD           Type = "..."
	STRING           Type = "STRING"
	TEMPLATE         Type = "TEMPLATE"
	THROW            Type = "THROW"
	TILDE            Type = "~"
	TRUE             Type = "TRUE"
	TRY              Type = "TRY"
	TYPEOF           Type = "TYPEOF"
	VAR              Type = "VAR"
	VOID             Type = "VOID"
)

// Reserved keywords
var keywords = map[string]Type{
	"await":      AWAIT,
	"catch":      CATCH,
	"const":      CONST,
	"delete":     DELETE,
	"else":       ELSE,
	"false":      FALSE,
	"finally":    FINALLY,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
}

// Keywords of the host language that are not part of the grammar. They are
// lexed as RESERVED so the parser can reject them with a clear message.
var reserved = map[string]bool{
	"break":    true,
	"class":    true,
	"continue": true,
	"do":       true,
	"export":   true,
	"for":      true,
	"function": true,
	"import":   true,
	"return":   true,
	"switch":   true,
	"while":    true,
	"with":     true,
	"yield":    true,
}

// LookupIdentifier reports the token type for an identifier-shaped word.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	if reserved[identifier] {
		return RESERVED
	}
	return IDENT
}
