package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Children returns the non-nil direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil && !isNilNode(n) {
				out = append(out, n)
			}
		}
	}
	switch n := node.(type) {
	case *Program:
		add(n.Stmts...)
	case *Block:
		add(n.Stmts...)
	case *ExprStmt:
		add(n.X)
	case *Var:
		for _, d := range n.Decls {
			add(d.Name)
			if d.Value != nil {
				add(d.Value)
			}
		}
	case *If:
		add(n.Cond, n.Consequence, n.Alternative)
	case *Try:
		if n.Body != nil {
			add(n.Body)
		}
		if n.CatchIdent != nil {
			add(n.CatchIdent)
		}
		if n.CatchBlock != nil {
			add(n.CatchBlock)
		}
		if n.FinallyBlock != nil {
			add(n.FinallyBlock)
		}
	case *Throw:
		add(n.Value)
	case *Prefix:
		add(n.X)
	case *Spread:
		add(n.X)
	case *Infix:
		add(n.X, n.Y)
	case *Ternary:
		add(n.Cond, n.Consequence, n.Alternative)
	case *Call:
		add(n.Fun)
		for _, arg := range n.Args {
			add(arg)
		}
	case *New:
		add(n.Fun)
		for _, arg := range n.Args {
			add(arg)
		}
	case *GetAttr:
		add(n.X)
	case *Index:
		add(n.X, n.Index)
	case *Await:
		add(n.X)
	case *Assign:
		add(n.Target, n.Value)
	case *Update:
		add(n.X)
	case *Template:
		for _, part := range n.Parts {
			add(part)
		}
	case *List:
		for _, item := range n.Items {
			add(item)
		}
	case *Record:
		for _, item := range n.Items {
			if item.Key != nil {
				add(item.Key)
			}
			add(item.Value)
		}
	}
	return out
}

// isNilNode catches typed nil pointers stored in a Node interface, such as
// an If with no else branch.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *If:
		return v == nil
	case *Ident:
		return v == nil
	}
	return false
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
