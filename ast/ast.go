// Package ast defines the abstract syntax tree for canvasbox scripts.
//
// The tree is a closed set of node types. Every node records the position of
// its first character, and the evaluator uses that position's byte offset
// when it reports a diagnostic.
package ast

import "github.com/deepnoodle-ai/canvasbox/internal/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Offset returns the byte offset of the node within its source.
func Offset(n Node) int {
	return n.Pos().Char
}
