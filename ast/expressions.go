package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Ident is an expression node that refers to a binding by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!false", "-x" and "typeof x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!", "-", "+", "~", "typeof", "void", "delete"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	if len(x.Op) > 1 {
		out.WriteString(" ")
	}
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Spread represents a spread element (...expr). It is only meaningful as an
// element of a list literal or as a call argument.
type Spread struct {
	Ellipsis token.Position // position of "..."
	X        Expr           // expression being spread
}

func (x *Spread) exprNode() {}

func (x *Spread) Pos() token.Position { return x.Ellipsis }
func (x *Spread) End() token.Position { return x.X.End() }

func (x *Spread) String() string { return "..." + x.X.String() }

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y" and "a === b".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator symbol
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Ternary is a conditional expression: cond ? a : b.
type Ternary struct {
	Cond        Expr
	Question    token.Position
	Consequence Expr
	Alternative Expr
}

func (x *Ternary) exprNode() {}

func (x *Ternary) Pos() token.Position { return x.Cond.Pos() }
func (x *Ternary) End() token.Position { return x.Alternative.End() }

func (x *Ternary) String() string {
	return "(" + x.Cond.String() + " ? " + x.Consequence.String() + " : " + x.Alternative.String() + ")"
}

// Call is a function call expression.
type Call struct {
	Fun    Expr           // function expression
	Lparen token.Position // position of "("
	Args   []Expr         // arguments, possibly including *Spread
	Rparen token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	return x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// New is a construction expression: new Fun(args).
type New struct {
	NewPos token.Position // position of "new"
	Fun    Expr           // constructor expression
	Args   []Expr         // arguments, possibly including *Spread
	Rparen token.Position // position of ")", or of the callee end when omitted
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position { return x.Rparen.Advance(1) }

func (x *New) String() string {
	return "new " + x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// GetAttr is a dotted property access: x.attr.
type GetAttr struct {
	X      Expr           // object expression
	Period token.Position // position of "."
	Attr   *Ident         // property name
}

func (x *GetAttr) exprNode() {}

func (x *GetAttr) Pos() token.Position { return x.X.Pos() }
func (x *GetAttr) End() token.Position { return x.Attr.End() }

func (x *GetAttr) String() string { return x.X.String() + "." + x.Attr.String() }

// Index is a computed property access: x[index].
type Index struct {
	X      Expr           // object expression
	Lbrack token.Position // position of "["
	Index  Expr           // property expression
	Rbrack token.Position // position of "]"
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string { return x.X.String() + "[" + x.Index.String() + "]" }

// Await suspends until its operand settles.
type Await struct {
	AwaitPos token.Position
	X        Expr
}

func (x *Await) exprNode() {}

func (x *Await) Pos() token.Position { return x.AwaitPos }
func (x *Await) End() token.Position { return x.X.End() }

func (x *Await) String() string { return "await " + x.X.String() }

// Assign is an assignment expression such as "x = 1" or "a.b += 2".
// Target is an *Ident, *GetAttr or *Index.
type Assign struct {
	Target Expr
	OpPos  token.Position // position of the operator
	Op     string         // "=", "+=", "**=", ...
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Update is an increment or decrement (x++, --x). The grammar accepts it so
// the evaluator can reject it with a precise location.
type Update struct {
	OpPos   token.Position
	Op      string // "++" or "--"
	X       Expr
	Postfix bool
}

func (x *Update) exprNode() {}

func (x *Update) Pos() token.Position {
	if x.Postfix {
		return x.X.Pos()
	}
	return x.OpPos
}

func (x *Update) End() token.Position {
	if x.Postfix {
		return x.OpPos.Advance(len(x.Op))
	}
	return x.X.End()
}

func (x *Update) String() string {
	if x.Postfix {
		return "(" + x.X.String() + x.Op + ")"
	}
	return "(" + x.Op + x.X.String() + ")"
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
