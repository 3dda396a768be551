// Package lexer turns script source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input string

	// position of the current character
	pos int

	// position of the next character
	readPos int

	// current character
	ch rune

	// local line number and byte offset of that line's start
	line      int
	lineStart int

	// base is the absolute position of input[0] within the enclosing source.
	// It is non-zero when lexing a template interpolation.
	base token.Position

	// type of the previous significant token, used to tell a regular
	// expression literal apart from division
	prev token.Type

	file string
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFile sets the filename reported in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// WithBase makes reported positions absolute, treating the start of the input
// as the given position.
func WithBase(base token.Position) Option {
	return func(l *Lexer) {
		l.base = base
	}
}

// New creates a Lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	if l.file == "" {
		l.file = l.base.File
	}
	l.readChar()
	return l
}

// Filename returns the name of the file being lexed.
func (l *Lexer) Filename() string {
	return l.file
}

// SetFilename sets the name of the file being lexed.
func (l *Lexer) SetFilename(name string) {
	l.file = name
}

// Next returns the next token from the input.
func (l *Lexer) Next() (token.Token, error) {
	tok, err := l.next()
	if tok.Type != token.NEWLINE {
		l.prev = tok.Type
	}
	return tok, err
}

func (l *Lexer) next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.newToken(token.ILLEGAL, "", l.position()), err
	}
	start := l.position()
	switch l.ch {
	case 0:
		if l.pos >= len(l.input) {
			return l.newToken(token.EOF, "", start), nil
		}
		return l.single(token.ILLEGAL), fmt.Errorf("invalid character NUL")
	case '\n':
		return l.single(token.NEWLINE), nil
	case ';':
		return l.single(token.SEMICOLON), nil
	case ',':
		return l.single(token.COMMA), nil
	case ':':
		return l.single(token.COLON), nil
	case '?':
		return l.single(token.QUESTION), nil
	case '(':
		return l.single(token.LPAREN), nil
	case ')':
		return l.single(token.RPAREN), nil
	case '{':
		return l.single(token.LBRACE), nil
	case '}':
		return l.single(token.RBRACE), nil
	case '[':
		return l.single(token.LBRACKET), nil
	case ']':
		return l.single(token.RBRACKET), nil
	case '~':
		return l.single(token.TILDE), nil
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			return l.operator(token.SPREAD, 3), nil
		}
		return l.single(token.PERIOD), nil
	case '=':
		switch {
		case l.hasPrefix("==="):
			return l.operator(token.EQ_STRICT, 3), nil
		case l.hasPrefix("=="):
			return l.operator(token.EQ, 2), nil
		case l.hasPrefix("=>"):
			return l.operator(token.ARROW, 2), nil
		}
		return l.single(token.ASSIGN), nil
	case '!':
		switch {
		case l.hasPrefix("!=="):
			return l.operator(token.NOT_EQ_STRICT, 3), nil
		case l.hasPrefix("!="):
			return l.operator(token.NOT_EQ, 2), nil
		}
		return l.single(token.BANG), nil
	case '+':
		switch {
		case l.hasPrefix("++"):
			return l.operator(token.PLUS_PLUS, 2), nil
		case l.hasPrefix("+="):
			return l.operator(token.PLUS_EQUALS, 2), nil
		}
		return l.single(token.PLUS), nil
	case '-':
		switch {
		case l.hasPrefix("--"):
			return l.operator(token.MINUS_MINUS, 2), nil
		case l.hasPrefix("-="):
			return l.operator(token.MINUS_EQUALS, 2), nil
		}
		return l.single(token.MINUS), nil
	case '*':
		switch {
		case l.hasPrefix("**="):
			return l.operator(token.POW_EQUALS, 3), nil
		case l.hasPrefix("**"):
			return l.operator(token.POW, 2), nil
		case l.hasPrefix("*="):
			return l.operator(token.ASTERISK_EQUALS, 2), nil
		}
		return l.single(token.ASTERISK), nil
	case '/':
		if l.regexpAllowed() {
			return l.readRegexp()
		}
		if l.hasPrefix("/=") {
			return l.operator(token.SLASH_EQUALS, 2), nil
		}
		return l.single(token.SLASH), nil
	case '%':
		if l.hasPrefix("%=") {
			return l.operator(token.MOD_EQUALS, 2), nil
		}
		return l.single(token.MOD), nil
	case '&':
		switch {
		case l.hasPrefix("&&="):
			return l.operator(token.AND_EQUALS, 3), nil
		case l.hasPrefix("&&"):
			return l.operator(token.AND, 2), nil
		case l.hasPrefix("&="):
			return l.operator(token.AMPERSAND_EQUALS, 2), nil
		}
		return l.single(token.AMPERSAND), nil
	case '|':
		switch {
		case l.hasPrefix("||="):
			return l.operator(token.OR_EQUALS, 3), nil
		case l.hasPrefix("||"):
			return l.operator(token.OR, 2), nil
		case l.hasPrefix("|="):
			return l.operator(token.BITOR_EQUALS, 2), nil
		}
		return l.single(token.BITOR), nil
	case '^':
		if l.hasPrefix("^=") {
			return l.operator(token.CARET_EQUALS, 2), nil
		}
		return l.single(token.CARET), nil
	case '<':
		switch {
		case l.hasPrefix("<<="):
			return l.operator(token.LT_LT_EQUALS, 3), nil
		case l.hasPrefix("<<"):
			return l.operator(token.LT_LT, 2), nil
		case l.hasPrefix("<="):
			return l.operator(token.LT_EQUALS, 2), nil
		}
		return l.single(token.LT), nil
	case '>':
		switch {
		case l.hasPrefix(">>>="):
			return l.operator(token.GT_GT_GT_EQUALS, 4), nil
		case l.hasPrefix(">>>"):
			return l.operator(token.GT_GT_GT, 3), nil
		case l.hasPrefix(">>="):
			return l.operator(token.GT_GT_EQUALS, 3), nil
		case l.hasPrefix(">>"):
			return l.operator(token.GT_GT, 2), nil
		case l.hasPrefix(">="):
			return l.operator(token.GT_EQUALS, 2), nil
		}
		return l.single(token.GT), nil
	case '"', '\'':
		return l.readString()
	case '`':
		return l.readTemplate()
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isIdentStart(l.ch) {
		ident := l.readIdentifier()
		return l.newToken(token.LookupIdentifier(ident), ident, start), nil
	}
	ch := l.ch
	tok := l.single(token.ILLEGAL)
	return tok, fmt.Errorf("invalid or unexpected token %q", ch)
}

// State is a snapshot of the lexer's read position.
type State struct {
	pos       int
	readPos   int
	ch        rune
	line      int
	lineStart int
	prev      token.Type
}

// SaveState captures the current read position so the parser can look
// ahead and then rewind.
func (l *Lexer) SaveState() State {
	return State{
		pos:       l.pos,
		readPos:   l.readPos,
		ch:        l.ch,
		line:      l.line,
		lineStart: l.lineStart,
		prev:      l.prev,
	}
}

// RestoreState rewinds the lexer to a previously saved state.
func (l *Lexer) RestoreState(s State) {
	l.pos = s.pos
	l.readPos = s.readPos
	l.ch = s.ch
	l.line = s.line
	l.lineStart = s.lineStart
	l.prev = s.prev
}

// Slice returns the source text between two positions produced by this
// lexer.
func (l *Lexer) Slice(start, end token.Position) string {
	i, j := start.Char-l.base.Char, end.Char-l.base.Char
	if i < 0 || j > len(l.input) || i > j {
		return ""
	}
	return l.input[i:j]
}

// GetLineText returns the full line of source text containing the token.
func (l *Lexer) GetLineText(tok token.Token) string {
	offset := tok.StartPosition.Char - l.base.Char
	if offset < 0 || offset > len(l.input) {
		return ""
	}
	start := strings.LastIndexByte(l.input[:offset], '\n') + 1
	end := strings.IndexByte(l.input[offset:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : offset+end]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPos
	}
	l.ch = r
	l.pos = l.readPos
	l.readPos += width
}

func (l *Lexer) peekChar() rune {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(n int) rune {
	idx := l.readPos
	for i := 0; i < n; i++ {
		if idx >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[idx:])
		idx += w
	}
	if idx >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[idx:])
	return r
}

func (l *Lexer) hasPrefix(s string) bool {
	return l.pos < len(l.input) && strings.HasPrefix(l.input[l.pos:], s)
}

// position returns the absolute position of the current character.
func (l *Lexer) position() token.Position {
	pos := token.Position{
		Char: l.base.Char + l.pos,
		Line: l.base.Line + l.line,
		File: l.file,
	}
	if l.line == 0 {
		pos.LineStart = l.base.LineStart
		pos.Column = l.base.Column + l.pos
	} else {
		pos.LineStart = l.base.Char + l.lineStart
		pos.Column = l.pos - l.lineStart
	}
	return pos
}

func (l *Lexer) newToken(t token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          t,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) single(t token.Type) token.Token {
	start := l.position()
	literal := string(l.ch)
	l.readChar()
	return l.newToken(t, literal, start)
}

func (l *Lexer) operator(t token.Type, width int) token.Token {
	start := l.position()
	literal := l.input[l.pos : l.pos+width]
	for i := 0; i < width; i++ {
		l.readChar()
	}
	return l.newToken(t, literal, start)
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == 0 {
					return fmt.Errorf("unterminated comment")
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return nil
		}
	}
}

// regexpAllowed reports whether a '/' at the current position starts a
// regular expression literal rather than a division operator.
func (l *Lexer) regexpAllowed() bool {
	if l.peekChar() == '/' || l.peekChar() == '*' {
		return false
	}
	switch l.prev {
	case token.IDENT, token.NUMBER, token.STRING, token.TEMPLATE,
		token.RPAREN, token.RBRACKET, token.RBRACE, token.TRUE,
		token.FALSE, token.NULL, token.REGEXP, token.PLUS_PLUS,
		token.MINUS_MINUS:
		return false
	}
	return true
}

func (l *Lexer) readRegexp() (token.Token, error) {
	start := l.position()
	begin := l.pos
	l.readChar() // opening slash
	inClass := false
	for {
		switch l.ch {
		case 0, '\n':
			return l.newToken(token.ILLEGAL, l.input[begin:l.pos], start),
				fmt.Errorf("unterminated regular expression literal")
		case '\\':
			l.readChar()
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.readChar()
				for isLetter(l.ch) {
					l.readChar()
				}
				return l.newToken(token.REGEXP, l.input[begin:l.pos], start), nil
			}
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	begin := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.pos]
}

func (l *Lexer) readNumber() (token.Token, error) {
	start := l.position()
	begin := l.pos
	if l.ch == '0' && strings.ContainsRune("xXbBoO", l.peekChar()) {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		literal := l.input[begin:l.pos]
		if _, err := strconv.ParseInt(literal, 0, 64); err != nil {
			return l.newToken(token.ILLEGAL, literal, start), fmt.Errorf("invalid number literal %q", literal)
		}
		return l.newToken(token.NUMBER, literal, start), nil
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) || l.ch == '.' && begin == l.pos {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '.' && !isIdentStart(l.peekChar()) && l.peekChar() != '.' {
		// "1." is a complete number
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	literal := l.input[begin:l.pos]
	if isIdentStart(l.ch) {
		bad := literal + string(l.ch)
		l.readChar()
		return l.newToken(token.ILLEGAL, bad, start), fmt.Errorf("invalid number literal %q", bad)
	}
	return l.newToken(token.NUMBER, literal, start), nil
}

func (l *Lexer) readString() (token.Token, error) {
	start := l.position()
	quote := l.ch
	l.readChar()
	begin := l.pos
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return l.newToken(token.ILLEGAL, l.input[begin:l.pos], start),
				fmt.Errorf("unterminated string literal")
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	raw := l.input[begin:l.pos]
	l.readChar() // closing quote
	value, err := Unescape(raw)
	if err != nil {
		return l.newToken(token.ILLEGAL, raw, start), err
	}
	return l.newToken(token.STRING, value, start), nil
}

// readTemplate reads a backtick string. The literal is the raw text between
// the backticks; interpolations are split out by the parser.
func (l *Lexer) readTemplate() (token.Token, error) {
	start := l.position()
	l.readChar()
	begin := l.pos
	depth := 0
	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input):
			return l.newToken(token.ILLEGAL, l.input[begin:l.pos], start),
				fmt.Errorf("unterminated template literal")
		case l.ch == '\\':
			l.readChar()
		case l.ch == '$' && l.peekChar() == '{':
			depth++
			l.readChar()
		case l.ch == '{' && depth > 0:
			depth++
		case l.ch == '}' && depth > 0:
			depth--
		case l.ch == '`' && depth == 0:
			raw := l.input[begin:l.pos]
			l.readChar()
			return l.newToken(token.TEMPLATE, raw, start), nil
		}
		l.readChar()
	}
}

// Unescape processes backslash escape sequences in a string literal body.
func Unescape(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if i+3 > len(raw) {
				return "", fmt.Errorf("invalid hexadecimal escape sequence")
			}
			v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid hexadecimal escape sequence '\\x%s'", raw[i+1:i+3])
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			if i+5 > len(raw) {
				return "", fmt.Errorf("invalid Unicode escape sequence")
			}
			v, err := strconv.ParseUint(raw[i+1:i+5], 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid Unicode escape sequence '\\u%s'", raw[i+1:i+5])
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String(), nil
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || isLetter(ch) || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch) || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}
