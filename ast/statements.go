package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Program is the root node of a parsed script.
type Program struct {
	Stmts []Node
}

func (x *Program) stmtNode() {}

func (x *Program) Pos() token.Position {
	if len(x.Stmts) > 0 {
		return x.Stmts[0].Pos()
	}
	return token.NoPos
}

func (x *Program) End() token.Position {
	if len(x.Stmts) > 0 {
		return x.Stmts[len(x.Stmts)-1].End()
	}
	return token.NoPos
}

func (x *Program) String() string {
	var out bytes.Buffer
	for _, s := range x.Stmts {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Block is a braced sequence of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Node
	Rbrace token.Position
}

func (x *Block) stmtNode() {}

func (x *Block) Pos() token.Position { return x.Lbrace }
func (x *Block) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Block) String() string {
	parts := make([]string, 0, len(x.Stmts))
	for _, s := range x.Stmts {
		parts = append(parts, s.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// ExprStmt is an expression evaluated for its value or side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) stmtNode() {}

func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }
func (x *ExprStmt) End() token.Position { return x.X.End() }

func (x *ExprStmt) String() string { return x.X.String() }

// Empty is a lone semicolon.
type Empty struct {
	Semicolon token.Position
}

func (x *Empty) stmtNode() {}

func (x *Empty) Pos() token.Position { return x.Semicolon }
func (x *Empty) End() token.Position { return x.Semicolon.Advance(1) }

func (x *Empty) String() string { return ";" }

// Declarator binds one name in a Var statement.
type Declarator struct {
	Name  *Ident
	Value Expr // nil when no initializer is given
}

func (x *Declarator) String() string {
	if x.Value == nil {
		return x.Name.String()
	}
	return x.Name.String() + " = " + x.Value.String()
}

// Var is a binding statement: let, const or var with one or more declarators.
type Var struct {
	KindPos token.Position
	Kind    string // "let", "const" or "var"
	Decls   []*Declarator
}

func (x *Var) stmtNode() {}

func (x *Var) Pos() token.Position { return x.KindPos }

func (x *Var) End() token.Position {
	last := x.Decls[len(x.Decls)-1]
	if last.Value != nil {
		return last.Value.End()
	}
	return last.Name.End()
}

// IsConst reports whether the bindings are read-only.
func (x *Var) IsConst() bool { return x.Kind == "const" }

func (x *Var) String() string {
	parts := make([]string, 0, len(x.Decls))
	for _, d := range x.Decls {
		parts = append(parts, d.String())
	}
	return x.Kind + " " + strings.Join(parts, ", ")
}

// If is a conditional statement. Alternative is nil, a *Block, or another *If.
type If struct {
	IfPos       token.Position
	Cond        Expr
	Consequence Node
	Alternative Node
}

func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.IfPos }

func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(x.Cond.String())
	out.WriteString(") ")
	out.WriteString(x.Consequence.String())
	if x.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(x.Alternative.String())
	}
	return out.String()
}

// Try is a try/catch/finally statement. At least one of CatchBlock and
// FinallyBlock is set. CatchIdent is nil for "catch { ... }".
type Try struct {
	TryPos       token.Position
	Body         *Block
	CatchIdent   *Ident
	CatchBlock   *Block
	FinallyBlock *Block
}

func (x *Try) stmtNode() {}

func (x *Try) Pos() token.Position { return x.TryPos }

func (x *Try) End() token.Position {
	if x.FinallyBlock != nil {
		return x.FinallyBlock.End()
	}
	if x.CatchBlock != nil {
		return x.CatchBlock.End()
	}
	return x.Body.End()
}

func (x *Try) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(x.Body.String())
	if x.CatchBlock != nil {
		out.WriteString(" catch ")
		if x.CatchIdent != nil {
			out.WriteString("(" + x.CatchIdent.String() + ") ")
		}
		out.WriteString(x.CatchBlock.String())
	}
	if x.FinallyBlock != nil {
		out.WriteString(" finally ")
		out.WriteString(x.FinallyBlock.String())
	}
	return out.String()
}

// Throw raises its value as a script-level failure.
type Throw struct {
	ThrowPos token.Position
	Value    Expr
}

func (x *Throw) stmtNode() {}

func (x *Throw) Pos() token.Position { return x.ThrowPos }
func (x *Throw) End() token.Position { return x.Value.End() }

func (x *Throw) String() string { return "throw " + x.Value.String() }
