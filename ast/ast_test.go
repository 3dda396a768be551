package ast

import (
	"testing"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(char int) token.Position {
	return token.Position{Char: char, Column: char}
}

func ident(char int, name string) *Ident {
	return &Ident{NamePos: pos(char), Name: name}
}

func num(char int, lit string, v float64) *Number {
	return &Number{ValuePos: pos(char), Literal: lit, Value: v}
}

func TestVarString(t *testing.T) {
	program := &Program{
		Stmts: []Node{
			&Var{
				KindPos: pos(0),
				Kind:    "let",
				Decls: []*Declarator{
					{Name: ident(4, "myVar"), Value: ident(12, "anotherVar")},
					{Name: ident(24, "other")},
				},
			},
		},
	}
	require.Equal(t, "let myVar = anotherVar, other\n", program.String())
	require.Equal(t, 0, program.Pos().Char)
	require.Equal(t, 29, program.End().Char)
}

func TestConstVar(t *testing.T) {
	v := &Var{KindPos: pos(0), Kind: "const", Decls: []*Declarator{{Name: ident(6, "x"), Value: num(10, "1", 1)}}}
	require.True(t, v.IsConst())
	require.Equal(t, "const x = 1", v.String())
	require.Equal(t, 11, v.End().Char)
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		node Expr
		want string
	}{
		{&Prefix{OpPos: pos(0), Op: "-", X: ident(1, "x")}, "(-x)"},
		{&Prefix{OpPos: pos(0), Op: "typeof", X: ident(7, "x")}, "(typeof x)"},
		{&Infix{X: num(0, "1", 1), Op: "+", Y: num(4, "2", 2)}, "(1 + 2)"},
		{&Ternary{Cond: ident(0, "a"), Consequence: ident(4, "b"), Alternative: ident(8, "c")}, "(a ? b : c)"},
		{&Call{Fun: ident(0, "f"), Args: []Expr{num(2, "1", 1), &Spread{X: ident(8, "xs")}}}, "f(1, ...xs)"},
		{&New{Fun: ident(4, "Canvas"), Args: []Expr{}}, "new Canvas()"},
		{&GetAttr{X: ident(0, "a"), Attr: ident(2, "b")}, "a.b"},
		{&Index{X: ident(0, "a"), Index: &String{Value: "k"}}, `a["k"]`},
		{&Await{X: ident(6, "p")}, "await p"},
		{&Assign{Target: ident(0, "x"), Op: "+=", Value: num(5, "2", 2)}, "x += 2"},
		{&Update{Op: "++", X: ident(0, "i"), Postfix: true}, "(i++)"},
		{&Update{Op: "--", X: ident(2, "i")}, "(--i)"},
		{&List{Items: []Expr{num(1, "1", 1), &Null{}}}, "[1, null]"},
		{&Bool{Literal: "true", Value: true}, "true"},
		{&RegExp{Literal: "/a+/g", Pattern: "a+", Flags: "g"}, "/a+/g"},
		{&Template{Raw: "a${b}"}, "`a${b}`"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestRecordString(t *testing.T) {
	rec := &Record{Items: []RecordItem{
		{Key: ident(1, "a"), Value: num(4, "1", 1)},
		{Key: ident(8, "k"), Computed: true, Value: ident(12, "v")},
		{Value: &Spread{X: ident(18, "rest")}},
	}}
	require.Equal(t, "{a: 1, [k]: v, ...rest}", rec.String())
}

func TestStatementStrings(t *testing.T) {
	body := &Block{Stmts: []Node{&ExprStmt{X: ident(0, "a")}, &ExprStmt{X: ident(3, "b")}}}
	require.Equal(t, "{ a; b }", body.String())

	stmt := &If{
		Cond:        ident(4, "x"),
		Consequence: body,
		Alternative: &Block{},
	}
	require.Equal(t, "if (x) { a; b } else {  }", stmt.String())

	try := &Try{
		Body:         &Block{Stmts: []Node{&Throw{Value: num(6, "1", 1)}}},
		CatchIdent:   ident(20, "e"),
		CatchBlock:   &Block{},
		FinallyBlock: &Block{Rbrace: pos(40)},
	}
	require.Equal(t, "try { throw 1 } catch (e) {  } finally {  }", try.String())
	require.Equal(t, 41, try.End().Char)

	require.Equal(t, ";", (&Empty{}).String())
}

func TestPositions(t *testing.T) {
	call := &Call{Fun: ident(3, "f"), Lparen: pos(4), Rparen: pos(7)}
	require.Equal(t, 3, call.Pos().Char)
	require.Equal(t, 8, call.End().Char)
	require.Equal(t, 3, Offset(call))

	postfix := &Update{OpPos: pos(5), Op: "++", X: ident(4, "i"), Postfix: true}
	require.Equal(t, 4, postfix.Pos().Char)
	require.Equal(t, 7, postfix.End().Char)

	prefix := &Update{OpPos: pos(0), Op: "--", X: ident(2, "i")}
	require.Equal(t, 0, prefix.Pos().Char)
	require.Equal(t, 3, prefix.End().Char)

	require.Equal(t, token.NoPos, (&Program{}).Pos())
}

func TestNodeKinds(t *testing.T) {
	var _ Stmt = &Var{}
	var _ Stmt = &If{}
	var _ Stmt = &Try{}
	var _ Stmt = &Throw{}
	var _ Stmt = &Block{}
	var _ Stmt = &ExprStmt{}
	var _ Stmt = &Empty{}
	var _ Expr = &Ident{}
	var _ Expr = &Template{}
	var _ Expr = &Record{}
	var _ Expr = &Update{}
}
