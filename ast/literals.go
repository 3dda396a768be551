package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Number is a numeric literal.
type Number struct {
	ValuePos token.Position
	Literal  string
	Value    float64
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string { return x.Literal }

// String is a quoted string literal, or a literal chunk of a template.
type String struct {
	ValuePos token.Position
	Literal  string // source text as written
	Value    string // cooked value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Template is a backtick string with ${} interpolations. Parts holds literal
// chunks (*String) and interpolated expressions in source order.
type Template struct {
	Backtick token.Position
	Raw      string
	Parts    []Expr
	EndPos   token.Position
}

func (x *Template) exprNode() {}

func (x *Template) Pos() token.Position { return x.Backtick }
func (x *Template) End() token.Position { return x.EndPos }

func (x *Template) String() string { return "`" + x.Raw + "`" }

// Bool is a boolean literal.
type Bool struct {
	ValuePos token.Position
	Literal  string
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Bool) String() string { return x.Literal }

// Null is the null literal.
type Null struct {
	NullPos token.Position
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) }

func (x *Null) String() string { return "null" }

// RegExp is a regular expression literal such as /ab+c/gi.
type RegExp struct {
	ValuePos token.Position
	Literal  string
	Pattern  string
	Flags    string
}

func (x *RegExp) exprNode() {}

func (x *RegExp) Pos() token.Position { return x.ValuePos }
func (x *RegExp) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *RegExp) String() string { return x.Literal }

// List is a sequence literal: [a, ...b, c].
type List struct {
	Lbrack token.Position
	Items  []Expr
	Rbrack token.Position
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }

func (x *List) String() string { return "[" + joinExprs(x.Items) + "]" }

// RecordItem is one key/value pair of a record literal. Key is an *Ident for
// a plain name, a *String or *Number for a quoted key, or any expression when
// Computed is set. A spread item has a nil Key and a *Spread Value.
type RecordItem struct {
	Key      Expr
	Computed bool
	Value    Expr
}

// Record is a structural-record literal: {a: 1, "b": 2, [k]: v}.
type Record struct {
	Lbrace token.Position
	Items  []RecordItem
	Rbrace token.Position
}

func (x *Record) exprNode() {}

func (x *Record) Pos() token.Position { return x.Lbrace }
func (x *Record) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Record) String() string {
	var out bytes.Buffer
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		switch {
		case item.Key == nil:
			items = append(items, item.Value.String())
		case item.Computed:
			items = append(items, "["+item.Key.String()+"]: "+item.Value.String())
		default:
			items = append(items, item.Key.String()+": "+item.Value.String())
		}
	}
	out.WriteString("{")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("}")
	return out.String()
}
