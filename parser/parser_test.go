package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/canvasbox/ast"
	cberrors "github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.NoError(t, err, input)
	return program
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	program := parseOK(t, input)
	require.Len(t, program.Stmts, 1, input)
	stmt, ok := program.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", program.Stmts[0])
	return stmt.X
}

func parseErr(t *testing.T, input string) *Errors {
	t.Helper()
	_, err := Parse(context.Background(), input)
	require.Error(t, err, input)
	var errs *Errors
	require.True(t, errors.As(err, &errs), "expected *Errors, got %T", err)
	return errs
}

func TestTokenLineCol(t *testing.T) {
	code := `
let x = 5;
let y = 10;
	`
	program := parseOK(t, code)
	require.Len(t, program.Stmts, 2)

	stmt1 := program.Stmts[0].(*ast.Var)
	stmt2 := program.Stmts[1].(*ast.Var)

	require.Equal(t, 2, stmt1.Pos().LineNumber())
	require.Equal(t, 1, stmt1.Pos().ColumnNumber())
	require.Equal(t, 1, stmt1.Pos().Char)
	require.Equal(t, 2, stmt1.End().LineNumber())
	require.Equal(t, 10, stmt1.End().ColumnNumber())

	require.Equal(t, 3, stmt2.Pos().LineNumber())
	require.Equal(t, 12, stmt2.Pos().Char)
	require.Equal(t, 11, stmt2.End().ColumnNumber())
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b === c", "((a == b) === c)"},
		{"a !== b != c", "((a !== b) != c)"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"a & b | c ^ d", "((a & b) | (c ^ d))"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"x in y && z", "((x in y) && z)"},
		{"a instanceof B", "(a instanceof B)"},
		{"-x * y", "((-x) * y)"},
		{"!a.b", "(!a.b)"},
		{"typeof x === 'number'", `((typeof x) === "number")`},
		{"~a >>> 1", "((~a) >>> 1)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"x = y = 3", "x = y = 3"},
		{"x += a ? 1 : 2", "x += (a ? 1 : 2)"},
		{"a.b(1, 2)[c]", "a.b(1, 2)[c]"},
		{"a++", "(a++)"},
		{"--a", "(--a)"},
		{"await fetch(u)", "await fetch(u)"},
		{"void 0", "(void 0)"},
		{"x +\n y", "(x + y)"},
		{"f(\n  1,\n  2,\n)", "f(1, 2)"},
		{"a % b / c", "((a % b) / c)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, parseExpr(t, tt.input).String())
		})
	}
}

func TestNewExpression(t *testing.T) {
	expr := parseExpr(t, `new Canvas(200, 100).setColor("red")`)
	require.Equal(t, `new Canvas(200, 100).setColor("red")`, expr.String())

	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	attr, ok := call.Fun.(*ast.GetAttr)
	require.True(t, ok)
	n, ok := attr.X.(*ast.New)
	require.True(t, ok)
	require.Len(t, n.Args, 2)

	bare := parseExpr(t, "new Map")
	require.Equal(t, "new Map()", bare.String())
	require.Empty(t, bare.(*ast.New).Args)
}

func TestMemberChainAcrossLines(t *testing.T) {
	program := parseOK(t, "new Canvas(10, 10)\n  .setColor('red')\n\n  .printRectangle(0, 0, 5, 5)\nx")
	require.Len(t, program.Stmts, 2)
	require.Equal(t, `new Canvas(10, 10).setColor("red").printRectangle(0, 0, 5, 5)`, program.Stmts[0].String())
	require.Equal(t, "x", program.Stmts[1].String())
}

func TestVarStatements(t *testing.T) {
	program := parseOK(t, "let a = 1, b\nconst c = [1, 2]\nvar d = {x: 1}")
	require.Len(t, program.Stmts, 3)

	let := program.Stmts[0].(*ast.Var)
	require.Equal(t, "let", let.Kind)
	require.Len(t, let.Decls, 2)
	require.Equal(t, "a", let.Decls[0].Name.Name)
	require.Nil(t, let.Decls[1].Value)
	require.Equal(t, "let a = 1, b", let.String())

	c := program.Stmts[1].(*ast.Var)
	require.True(t, c.IsConst())

	d := program.Stmts[2].(*ast.Var)
	require.Equal(t, "var", d.Kind)
	_, ok := d.Decls[0].Value.(*ast.Record)
	require.True(t, ok)
}

func TestVarErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"const x", "missing initializer in const declaration"},
		{"let {a} = b", "destructuring is not supported"},
		{"let [a] = b", "destructuring is not supported"},
		{"let 1 = 2", "unexpected 1 while parsing let statement (expected identifier)"},
		{"let x = 1 2", `unexpected token "2" following statement`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			errs := parseErr(t, tt.input)
			require.Contains(t, errs.First().Message(), tt.msg)
		})
	}
}

func TestIfElse(t *testing.T) {
	program := parseOK(t, "if (a > 1) {\n  x = 1\n}\nelse if (b) y = 2\nelse {\n}\nz")
	require.Len(t, program.Stmts, 2)
	stmt := program.Stmts[0].(*ast.If)
	require.Equal(t, "(a > 1)", stmt.Cond.String())
	_, ok := stmt.Consequence.(*ast.Block)
	require.True(t, ok)
	nested, ok := stmt.Alternative.(*ast.If)
	require.True(t, ok)
	_, ok = nested.Consequence.(*ast.ExprStmt)
	require.True(t, ok)
	_, ok = nested.Alternative.(*ast.Block)
	require.True(t, ok)

	single := parseOK(t, "if (x) y = 1; z").Stmts
	require.Len(t, single, 2)
	require.Nil(t, single[0].(*ast.If).Alternative)
}

func TestTryCatchFinally(t *testing.T) {
	program := parseOK(t, "try {\n  throw 5\n}\ncatch (e) {\n  e + 1\n}\nfinally {\n  done = true\n}")
	require.Len(t, program.Stmts, 1)
	stmt := program.Stmts[0].(*ast.Try)
	require.Equal(t, "e", stmt.CatchIdent.Name)
	require.Len(t, stmt.Body.Stmts, 1)
	_, ok := stmt.Body.Stmts[0].(*ast.Throw)
	require.True(t, ok)
	require.NotNil(t, stmt.FinallyBlock)

	noBinding := parseOK(t, "try { x } catch { y }").Stmts[0].(*ast.Try)
	require.Nil(t, noBinding.CatchIdent)
	require.NotNil(t, noBinding.CatchBlock)

	onlyFinally := parseOK(t, "try { x } finally { y }").Stmts[0].(*ast.Try)
	require.Nil(t, onlyFinally.CatchBlock)

	errs := parseErr(t, "try { x }")
	require.Contains(t, errs.First().Message(), "requires a catch or finally clause")
}

func TestThrow(t *testing.T) {
	stmt := parseOK(t, "throw new Error('x')").Stmts[0].(*ast.Throw)
	require.Equal(t, `throw new Error("x")`, stmt.String())

	errs := parseErr(t, "throw\n1")
	require.Contains(t, errs.First().Message(), "illegal newline after throw")
}

func TestBlocksAndEmptyStatements(t *testing.T) {
	program := parseOK(t, "{ let a = 1; a }\n;x;")
	require.Len(t, program.Stmts, 3)
	block := program.Stmts[0].(*ast.Block)
	require.Len(t, block.Stmts, 2)
	_, ok := program.Stmts[1].(*ast.Empty)
	require.True(t, ok)
	require.Equal(t, "x", program.Stmts[2].String())
}

func TestRecordLiteral(t *testing.T) {
	expr := parseExpr(t, `({a: 1, "b c": 2, 3: x, [k]: v, if: 4, short, ...rest,})`)
	rec, ok := expr.(*ast.Record)
	require.True(t, ok)
	require.Len(t, rec.Items, 7)

	require.Equal(t, "a", rec.Items[0].Key.(*ast.Ident).Name)
	require.Equal(t, "b c", rec.Items[1].Key.(*ast.String).Value)
	require.Equal(t, float64(3), rec.Items[2].Key.(*ast.Number).Value)
	require.True(t, rec.Items[3].Computed)
	require.Equal(t, "if", rec.Items[4].Key.(*ast.Ident).Name)
	require.Equal(t, "short", rec.Items[5].Value.(*ast.Ident).Name)
	require.Nil(t, rec.Items[6].Key)
	_, ok = rec.Items[6].Value.(*ast.Spread)
	require.True(t, ok)

	multiline := parseExpr(t, "({\n  a: 1,\n  b: 2\n})").(*ast.Record)
	require.Len(t, multiline.Items, 2)

	require.Empty(t, parseExpr(t, "({})").(*ast.Record).Items)
}

func TestListLiteral(t *testing.T) {
	list := parseExpr(t, "[1, ...[2, 3],\n 4]").(*ast.List)
	require.Len(t, list.Items, 3)
	spread, ok := list.Items[1].(*ast.Spread)
	require.True(t, ok)
	require.Equal(t, "[2, 3]", spread.X.String())
	require.Equal(t, "[1, ...[2, 3], 4]", list.String())

	errs := parseErr(t, "[1,,2]")
	require.Contains(t, errs.First().Message(), "unexpected comma")
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"3.5", 3.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
	}
	for _, tt := range tests {
		num, ok := parseExpr(t, tt.input).(*ast.Number)
		require.True(t, ok, tt.input)
		require.Equal(t, tt.want, num.Value, tt.input)
	}

	str := parseExpr(t, `'a\nb'`).(*ast.String)
	require.Equal(t, "a\nb", str.Value)
	require.Equal(t, `'a\nb'`, str.Literal)

	require.Equal(t, true, parseExpr(t, "true").(*ast.Bool).Value)
	_, ok := parseExpr(t, "null").(*ast.Null)
	require.True(t, ok)

	re := parseExpr(t, "/ab+c/gi").(*ast.RegExp)
	require.Equal(t, "ab+c", re.Pattern)
	require.Equal(t, "gi", re.Flags)
}

func TestTemplate(t *testing.T) {
	program := parseOK(t, "let s = `a${x + 1}b`")
	tmpl := program.Stmts[0].(*ast.Var).Decls[0].Value.(*ast.Template)
	require.Len(t, tmpl.Parts, 3)

	first := tmpl.Parts[0].(*ast.String)
	require.Equal(t, "a", first.Value)
	require.Equal(t, 9, first.Pos().Char)

	infix := tmpl.Parts[1].(*ast.Infix)
	require.Equal(t, "(x + 1)", infix.String())
	require.Equal(t, 12, infix.Pos().Char)
	require.Equal(t, 16, infix.Y.Pos().Char)

	last := tmpl.Parts[2].(*ast.String)
	require.Equal(t, "b", last.Value)
	require.Equal(t, 18, last.Pos().Char)
}

func TestTemplateMultiline(t *testing.T) {
	tmpl := parseExpr(t, "`line1\n${value}`").(*ast.Template)
	require.Len(t, tmpl.Parts, 2)
	ident := tmpl.Parts[1].(*ast.Ident)
	require.Equal(t, "value", ident.Name)
	require.Equal(t, 9, ident.Pos().Char)
	require.Equal(t, 1, ident.Pos().Line)
	require.Equal(t, 2, ident.Pos().Column)
}

func TestTemplateErrors(t *testing.T) {
	errs := parseErr(t, "x = `${1 + }`")
	first := errs.First()
	require.Contains(t, first.Message(), "unexpected end of file")
	require.Equal(t, 11, first.StartPosition().Char)

	errs = parseErr(t, "`${}`")
	require.Contains(t, errs.First().Message(), "empty template interpolation")

	errs = parseErr(t, "`${a b}`")
	require.Contains(t, errs.First().Message(), "in template interpolation")
}

func TestAssignments(t *testing.T) {
	ops := []string{"=", "+=", "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", ">>>=", "&=", "|=", "^=", "&&=", "||="}
	for _, op := range ops {
		assign, ok := parseExpr(t, "a.b "+op+" 1").(*ast.Assign)
		require.True(t, ok, op)
		require.Equal(t, op, assign.Op)
		_, ok = assign.Target.(*ast.GetAttr)
		require.True(t, ok, op)
	}

	idx := parseExpr(t, "a[0] = 1").(*ast.Assign)
	_, ok := idx.Target.(*ast.Index)
	require.True(t, ok)

	errs := parseErr(t, "a + b = 1")
	require.Equal(t, cberrors.E1005, errs.First().Code())
}

func TestUnsupportedSyntax(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"function f() {}", "`function` is not supported"},
		{"for (;;) {}", "`for` is not supported"},
		{"while (x) {}", "`while` is not supported"},
		{"return 1", "`return` is not supported"},
		{"class A {}", "`class` is not supported"},
		{"x => x", "arrow functions are not supported"},
		{"() => 1", "arrow functions are not supported"},
		{"(a, b)", "comma expressions are not supported"},
		{"({ f() {} })", "methods are not supported in records"},
		{"-2 ** 2", "unary operator used immediately before exponentiation"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			errs := parseErr(t, tt.input)
			require.Contains(t, errs.First().Message(), tt.msg)
		})
	}
}

func TestKeywordPropertyNames(t *testing.T) {
	require.Equal(t, "a.new", parseExpr(t, "a.new").String())
	require.Equal(t, "a.for", parseExpr(t, "a.for").String())
	require.Equal(t, "a.null", parseExpr(t, "a.null").String())
}

func TestLexerErrors(t *testing.T) {
	errs := parseErr(t, `"unterminated`)
	require.Equal(t, "syntax error", errs.First().Type())
	require.Equal(t, cberrors.E1002, errs.First().Code())

	errs = parseErr(t, "x = 12abc")
	require.Equal(t, cberrors.E1008, errs.First().Code())
}

func TestMultipleErrors(t *testing.T) {
	errs := parseErr(t, "let = 1\nlet = 2")
	require.Equal(t, 2, errs.Count())
	require.Len(t, errs.Unwrap(), 2)
	require.Contains(t, errs.Error(), "(and 1 more errors)")

	friendly := errs.FriendlyErrorMessage()
	require.Contains(t, friendly, "found 2 errors")
	require.Len(t, errs.ToFormattedMultiple(), 2)
}

func TestErrorFormatting(t *testing.T) {
	_, err := Parse(context.Background(), "let x = 1\nlet y = @", WithFilename("draw.js"))
	require.Error(t, err)
	var errs *Errors
	require.True(t, errors.As(err, &errs))
	first := errs.First()
	require.Equal(t, "draw.js", first.File())
	require.Equal(t, "let y = @", first.SourceCode())
	require.True(t, strings.HasSuffix(first.Error(), "(at draw.js:2:8)"), first.Error())

	formatted := first.ToFormatted()
	require.Equal(t, 2, formatted.Line)
	require.Equal(t, 9, formatted.Column)

	var formattable cberrors.FormattableError = errs
	require.Equal(t, formatted.Message, formattable.ToFormatted().Message)
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	_, err := Parse(context.Background(), input, WithMaxDepth(10))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth exceeded")

	_, err = Parse(context.Background(), input)
	require.NoError(t, err)
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestEmptyProgram(t *testing.T) {
	program := parseOK(t, "\n// only a comment\n")
	require.Empty(t, program.Stmts)
}
