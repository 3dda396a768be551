package parser

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/internal/lexer"
	"github.com/deepnoodle-ai/canvasbox/internal/tmpl"
	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Literal parsing methods for the Parser.
// This file contains methods that parse literal values:
// - Numbers, strings, booleans and null
// - Template strings with ${} interpolation
// - Regular expression literals
// - List and record literals

func (p *Parser) parseNumber() ast.Node {
	tok := p.curToken
	lit := tok.Literal
	var value float64
	if len(lit) > 1 && lit[0] == '0' && strings.ContainsRune("xXbBoO", rune(lit[1])) {
		n, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return p.setTokenErrorCode(tok, errors.E1008, "invalid number literal %q", lit)
		}
		value = float64(n)
	} else {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			// Out of range literals become Infinity, as in JavaScript.
			if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
				return p.setTokenErrorCode(tok, errors.E1008, "invalid number literal %q", lit)
			}
		}
		value = f
	}
	return &ast.Number{ValuePos: tok.StartPosition, Literal: lit, Value: value}
}

func (p *Parser) parseBoolean() ast.Node {
	return &ast.Bool{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.curToken.Literal,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parseNull() ast.Node {
	return &ast.Null{NullPos: p.curToken.StartPosition}
}

func (p *Parser) parseString() ast.Node {
	tok := p.curToken
	return &ast.String{
		ValuePos: tok.StartPosition,
		Literal:  p.l.Slice(tok.StartPosition, tok.EndPosition),
		Value:    tok.Literal,
	}
}

func (p *Parser) parseRegExp() ast.Node {
	tok := p.curToken
	lit := tok.Literal
	end := strings.LastIndexByte(lit, '/')
	return &ast.RegExp{
		ValuePos: tok.StartPosition,
		Literal:  lit,
		Pattern:  lit[1:end],
		Flags:    lit[end+1:],
	}
}

// parseTemplate splits a backtick string into literal chunks and
// interpolated expressions. Each interpolation is parsed by a child parser
// whose lexer reports absolute positions within the enclosing source.
func (p *Parser) parseTemplate() ast.Node {
	tok := p.curToken
	raw := tok.Literal
	body := tok.StartPosition.Advance(1)
	t, err := tmpl.Parse(raw)
	if err != nil {
		return p.setTokenErrorCode(tok, errors.E1007, "%s", err.Error())
	}
	node := &ast.Template{Backtick: tok.StartPosition, Raw: raw, EndPos: tok.EndPosition}
	for _, f := range t.Fragments() {
		pos := positionAt(body, raw, f.Offset())
		if !f.IsVariable() {
			value, err := lexer.Unescape(f.Value())
			if err != nil {
				return p.setTokenErrorCode(tok, errors.E1010, "%s", err.Error())
			}
			node.Parts = append(node.Parts, &ast.String{ValuePos: pos, Literal: f.Value(), Value: value})
			continue
		}
		if strings.TrimSpace(f.Value()) == "" {
			return p.setTokenErrorCode(tok, errors.E1004, "empty template interpolation")
		}
		expr := p.parseInterpolation(f.Value(), pos)
		if expr == nil {
			return nil
		}
		node.Parts = append(node.Parts, expr)
	}
	return node
}

func (p *Parser) parseInterpolation(src string, base token.Position) ast.Expr {
	base.File = p.filename
	child := New(lexer.New(src, lexer.WithBase(base)),
		WithFilename(p.filename), WithMaxDepth(p.maxDepth-p.depth))
	child.ctx = p.ctx
	child.eatNewlines()
	var expr ast.Expr
	if !child.hasErrors() {
		expr = child.parseExpression(LOWEST)
	}
	if expr != nil && !child.hasErrors() {
		child.nextToken()
		child.eatNewlines()
		if !child.curTokenIs(token.EOF) {
			child.setTokenError(child.curToken, "unexpected %s in template interpolation", tokenDescription(child.curToken))
		}
	}
	if child.hasErrors() {
		p.errors = append(p.errors, child.errors...)
		return nil
	}
	return expr
}

// positionAt returns the position of text[n:] given that text starts at
// start.
func positionAt(start token.Position, text string, n int) token.Position {
	pos := start
	for i := 0; i < n && i < len(text); i++ {
		if text[i] == '\n' {
			pos.Line++
			pos.LineStart = pos.Char + 1
			pos.Column = -1
		}
		pos.Char++
		pos.Column++
	}
	return pos
}

func (p *Parser) parseList() ast.Node {
	lbrack := p.curToken.StartPosition
	items := p.parseExprList("list", token.RBRACKET)
	if items == nil {
		return nil
	}
	return &ast.List{Lbrack: lbrack, Items: items, Rbrack: p.curToken.StartPosition}
}

// parseRecord parses a record literal. Keys may be names (including
// keywords), strings, numbers or a computed [expr]. A bare name is shorthand
// for name: name.
func (p *Parser) parseRecord() ast.Node {
	lbrace := p.curToken.StartPosition
	var items []ast.RecordItem
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	for !p.curTokenIs(token.RBRACE) {
		item, ok := p.parseRecordItem()
		if !ok {
			return nil
		}
		items = append(items, item)
		p.skipNewlinesAndPeek(token.RBRACE)
		if p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			break
		}
		p.skipNewlinesAndPeek(token.COMMA)
		if !p.expectPeek("record", token.COMMA) {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		p.eatNewlines()
	}
	return &ast.Record{Lbrace: lbrace, Items: items, Rbrace: p.curToken.StartPosition}
}

func (p *Parser) parseRecordItem() (ast.RecordItem, bool) {
	var item ast.RecordItem
	switch {
	case p.curTokenIs(token.SPREAD):
		spread, ok := p.parseSpread().(*ast.Spread)
		if !ok {
			return item, false
		}
		item.Value = spread
		return item, true
	case p.curTokenIs(token.LBRACKET):
		if err := p.nextToken(); err != nil {
			return item, false
		}
		key := p.parseExpression(LOWEST)
		if key == nil || !p.expectPeek("computed key", token.RBRACKET) {
			return item, false
		}
		item.Key, item.Computed = key, true
	case p.curTokenIs(token.STRING):
		item.Key = p.parseString().(ast.Expr)
	case p.curTokenIs(token.NUMBER):
		num, ok := p.parseNumber().(ast.Expr)
		if !ok {
			return item, false
		}
		item.Key = num
	case isNameToken(p.curToken):
		name := p.newIdent(p.curToken)
		item.Key = name
		if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.NEWLINE)) {
			item.Value = &ast.Ident{NamePos: name.NamePos, Name: name.Name}
			return item, true
		}
		if p.peekTokenIs(token.LPAREN) {
			p.setTokenErrorCode(p.curToken, errors.E1011, "methods are not supported in records")
			return item, false
		}
	default:
		p.setTokenErrorCode(p.curToken, errors.E1006, "invalid record key %s", tokenDescription(p.curToken))
		return item, false
	}
	if !p.expectPeek("record", token.COLON) {
		return item, false
	}
	if err := p.nextToken(); err != nil {
		return item, false
	}
	p.eatNewlines()
	item.Value = p.parseExpression(LOWEST)
	if item.Value == nil {
		return item, false
	}
	return item, true
}
