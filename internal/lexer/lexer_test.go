package lexer

import (
	"testing"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func requireTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] - tokentype wrong", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d] - literal wrong", i)
	}
}

func TestNull(t *testing.T) {
	requireTokens(t, "a = null;", []expectedToken{
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NULL, "null"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestNextToken1(t *testing.T) {
	requireTokens(t, "%=+(){},;?|| &&`/foo`++--***=..&~", []expectedToken{
		{token.MOD_EQUALS, "%="},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.QUESTION, "?"},
		{token.OR, "||"},
		{token.AND, "&&"},
		{token.TEMPLATE, "/foo"},
		{token.PLUS_PLUS, "++"},
		{token.MINUS_MINUS, "--"},
		{token.POW, "**"},
		{token.ASTERISK_EQUALS, "*="},
		{token.PERIOD, "."},
		{token.PERIOD, "."},
		{token.AMPERSAND, "&"},
		{token.TILDE, "~"},
		{token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	requireTokens(t, "a === b !== c == d != e >>> f >>>= g >> h << i ** j ...k", []expectedToken{
		{token.IDENT, "a"},
		{token.EQ_STRICT, "==="},
		{token.IDENT, "b"},
		{token.NOT_EQ_STRICT, "!=="},
		{token.IDENT, "c"},
		{token.EQ, "=="},
		{token.IDENT, "d"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "e"},
		{token.GT_GT_GT, ">>>"},
		{token.IDENT, "f"},
		{token.GT_GT_GT_EQUALS, ">>>="},
		{token.IDENT, "g"},
		{token.GT_GT, ">>"},
		{token.IDENT, "h"},
		{token.LT_LT, "<<"},
		{token.IDENT, "i"},
		{token.POW, "**"},
		{token.IDENT, "j"},
		{token.SPREAD, "..."},
		{token.IDENT, "k"},
		{token.EOF, ""},
	})
}

func TestNextToken2(t *testing.T) {
	input := `let five=5;
const ten =10;
if (5 < 10) {
  x = true;
} else {
  x = false;
}
10 === 10;
"foobar"
'foo bar'
[1, 2];
{a: 1.5}
typeof new Canvas(1, 2)
`
	requireTokens(t, input, []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.CONST, "const"},
		{token.IDENT, "ten"},
		{token.ASSIGN, "="},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.NUMBER, "5"},
		{token.LT, "<"},
		{token.NUMBER, "10"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.FALSE, "false"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.NUMBER, "10"},
		{token.EQ_STRICT, "==="},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.STRING, "foobar"},
		{token.NEWLINE, "\n"},
		{token.STRING, "foo bar"},
		{token.NEWLINE, "\n"},
		{token.LBRACKET, "["},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2"},
		{token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.NUMBER, "1.5"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.TYPEOF, "typeof"},
		{token.NEW, "new"},
		{token.IDENT, "Canvas"},
		{token.LPAREN, "("},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2"},
		{token.RPAREN, ")"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestUnicodeLexer(t *testing.T) {
	requireTokens(t, `世界 $el _x1`, []expectedToken{
		{token.IDENT, "世界"},
		{token.IDENT, "$el"},
		{token.IDENT, "_x1"},
		{token.EOF, ""},
	})
}

func TestString(t *testing.T) {
	requireTokens(t, `"\n\r\t\\\"" '\x41é'`, []expectedToken{
		{token.STRING, "\n\r\t\\\""},
		{token.STRING, "Aé"},
		{token.EOF, ""},
	})
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok, err := l.Next()
	require.Error(t, err)
	require.Equal(t, token.ILLEGAL, tok.Type)
}

func TestSimpleComment(t *testing.T) {
	input := `=+// This is a comment
// This is still a comment
let a = 1;
// This is a final
// comment on two-lines`
	requireTokens(t, input, []expectedToken{
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.NEWLINE, "\n"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestMultiLineComment(t *testing.T) {
	input := `=+/* This is a comment

let c = 2; */
let a = 1;`
	requireTokens(t, input, []expectedToken{
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestNumbers(t *testing.T) {
	requireTokens(t, "0 42 1.5 .5 1e3 2.5E-2 0xff 0b101 0o17", []expectedToken{
		{token.NUMBER, "0"},
		{token.NUMBER, "42"},
		{token.NUMBER, "1.5"},
		{token.NUMBER, ".5"},
		{token.NUMBER, "1e3"},
		{token.NUMBER, "2.5E-2"},
		{token.NUMBER, "0xff"},
		{token.NUMBER, "0b101"},
		{token.NUMBER, "0o17"},
		{token.EOF, ""},
	})
}

func TestInvalidNumbers(t *testing.T) {
	for _, input := range []string{"3x", "0xzz", "12abc"} {
		l := New(input)
		_, err := l.Next()
		require.Error(t, err, input)
	}
}

func TestRegexpVersusDivision(t *testing.T) {
	requireTokens(t, "a / b\n/ab+c/gi", []expectedToken{
		{token.IDENT, "a"},
		{token.SLASH, "/"},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.SLASH, "/"},
		{token.IDENT, "ab"},
		{token.PLUS, "+"},
		{token.IDENT, "c"},
		{token.SLASH, "/"},
		{token.IDENT, "gi"},
		{token.EOF, ""},
	})
	requireTokens(t, "let r = /a[/]b/g", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "r"},
		{token.ASSIGN, "="},
		{token.REGEXP, "/a[/]b/g"},
		{token.EOF, ""},
	})
}

func TestTemplate(t *testing.T) {
	requireTokens(t, "`a ${ {b: 1}.b } c` + 1", []expectedToken{
		{token.TEMPLATE, "a ${ {b: 1}.b } c"},
		{token.PLUS, "+"},
		{token.NUMBER, "1"},
		{token.EOF, ""},
	})
}

func TestReserved(t *testing.T) {
	requireTokens(t, "for while function", []expectedToken{
		{token.RESERVED, "for"},
		{token.RESERVED, "while"},
		{token.RESERVED, "function"},
		{token.EOF, ""},
	})
}

func TestPositions(t *testing.T) {
	l := New("let a\n  = 12")
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, 4, toks[1].StartPosition.Char)
	eq := toks[3]
	require.Equal(t, token.ASSIGN, eq.Type)
	require.Equal(t, 8, eq.StartPosition.Char)
	require.Equal(t, 1, eq.StartPosition.Line)
	require.Equal(t, 2, eq.StartPosition.Column)
	require.Equal(t, "  = 12", l.GetLineText(eq))
}

func TestBasePosition(t *testing.T) {
	base := token.Position{Char: 20, LineStart: 15, Line: 2, Column: 5}
	l := New("x + y", WithBase(base))
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, 20, tok.StartPosition.Char)
	require.Equal(t, 5, tok.StartPosition.Column)
	l.Next()
	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, "y", tok.Literal)
	require.Equal(t, 24, tok.StartPosition.Char)
	require.Equal(t, 9, tok.StartPosition.Column)
	require.Equal(t, 2, tok.StartPosition.Line)
}

func TestUnescape(t *testing.T) {
	s, err := Unescape(`a\tb\\c`)
	require.NoError(t, err)
	require.Equal(t, "a\tb\\c", s)
	_, err = Unescape(`\uZZZZ`)
	require.Error(t, err)
}

func TestSaveRestoreState(t *testing.T) {
	l := New("a\n\n.b / 2")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.IDENT, tok.Type)

	state := l.SaveState()
	for _, want := range []token.Type{token.NEWLINE, token.NEWLINE, token.PERIOD, token.IDENT} {
		tok, err = l.Next()
		require.NoError(t, err)
		require.Equal(t, want, tok.Type)
	}

	l.RestoreState(state)
	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, token.NEWLINE, tok.Type)
	require.Equal(t, 1, tok.StartPosition.Char)
	require.Equal(t, 0, tok.StartPosition.Line)

	// The division after "b" must still lex as an operator after rewinding.
	for range 3 {
		_, err = l.Next()
		require.NoError(t, err)
	}
	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, token.SLASH, tok.Type)
}

func TestSlice(t *testing.T) {
	l := New(`x = "a\tb"`)
	var str token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Type == token.STRING {
			str = tok
		}
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, "a\tb", str.Literal)
	require.Equal(t, `"a\tb"`, l.Slice(str.StartPosition, str.EndPosition))
	require.Equal(t, "", l.Slice(str.EndPosition, str.StartPosition))
}
