package parser

import (
	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Expression parsing methods for the Parser.
// This file contains methods that parse expression constructs:
// - Identifiers and prefix/infix expressions
// - Grouped and ternary expressions
// - Calls, construction and member access
// - Await, spread and update operators

func (p *Parser) parseIdent() ast.Node {
	return p.newIdent(p.curToken)
}

func (p *Parser) parsePrefixExpr() ast.Node {
	opTok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil
	}
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	// -2 ** 2 is ambiguous and rejected, as in JavaScript.
	if p.peekTokenIs(token.POW) {
		return p.setTokenError(p.peekToken,
			"unary operator used immediately before exponentiation expression; use parentheses")
	}
	return &ast.Prefix{OpPos: opTok.StartPosition, Op: opTok.Literal, X: right}
}

func (p *Parser) parsePrefixUpdate() ast.Node {
	opTok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil
	}
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.Update{OpPos: opTok.StartPosition, Op: opTok.Literal, X: operand}
}

func (p *Parser) parseAwait() ast.Node {
	awaitPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.Await{AwaitPos: awaitPos, X: operand}
}

func (p *Parser) parseSpread() ast.Node {
	ellipsis := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	operand := p.parseExpression(ASSIGN)
	if operand == nil {
		return nil
	}
	return &ast.Spread{Ellipsis: ellipsis, X: operand}
}

func (p *Parser) parseInfixExpr(leftNode ast.Node) ast.Node {
	left, ok := leftNode.(ast.Expr)
	if !ok {
		return p.setTokenError(p.curToken, "invalid expression")
	}
	opTok := p.curToken
	precedence := p.currentPrecedence()
	// ** is right-associative: 2 ** 3 ** 2 = 2 ** (3 ** 2)
	if p.curTokenIs(token.POW) {
		precedence--
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: opTok.StartPosition, Op: opTok.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Node {
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	if p.curTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.ARROW) {
			return p.setTokenErrorCode(p.peekToken, errors.E1011, "arrow functions are not supported")
		}
		return p.setTokenErrorCode(p.curToken, errors.E1004, "empty parentheses")
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(token.COMMA) {
		return p.setTokenError(p.peekToken, "comma expressions are not supported")
	}
	p.skipNewlinesAndPeek(token.RPAREN)
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrow(_ ast.Node) ast.Node {
	return p.setTokenErrorCode(p.curToken, errors.E1011, "arrow functions are not supported")
}

func (p *Parser) parseReserved() ast.Node {
	return p.setTokenErrorCode(p.curToken, errors.E1011, "`%s` is not supported", p.curToken.Literal)
}

func (p *Parser) parseTernary(condNode ast.Node) ast.Node {
	cond, ok := condNode.(ast.Expr)
	if !ok {
		return p.setTokenError(p.curToken, "invalid ternary condition")
	}
	question := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	consequence := p.parseExpression(LOWEST)
	if consequence == nil {
		return nil
	}
	p.skipNewlinesAndPeek(token.COLON)
	if !p.expectPeek("ternary expression", token.COLON) {
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	alternative := p.parseExpression(ASSIGN)
	if alternative == nil {
		return nil
	}
	return &ast.Ternary{
		Cond:        cond,
		Question:    question,
		Consequence: consequence,
		Alternative: alternative,
	}
}

func (p *Parser) parseCall(fnNode ast.Node) ast.Node {
	fn, ok := fnNode.(ast.Expr)
	if !ok {
		return p.setTokenError(p.curToken, "invalid call target")
	}
	lparen := p.curToken.StartPosition
	args := p.parseExprList("call arguments", token.RPAREN)
	if args == nil {
		return nil
	}
	return &ast.Call{Fun: fn, Lparen: lparen, Args: args, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseNew() ast.Node {
	newPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	callee := p.parseExpression(CALL)
	if callee == nil {
		return nil
	}
	node := &ast.New{NewPos: newPos, Fun: callee, Rparen: p.curToken.StartPosition}
	if !p.peekTokenIs(token.LPAREN) {
		node.Args = []ast.Expr{}
		return node
	}
	p.nextToken()
	args := p.parseExprList("new expression", token.RPAREN)
	if args == nil {
		return nil
	}
	node.Args = args
	node.Rparen = p.curToken.StartPosition
	return node
}

// parseName reads a property name after "." or as a record key. Keywords are
// valid property names.
func (p *Parser) parseName(context string) *ast.Ident {
	if !isNameToken(p.peekToken) {
		p.peekError(context, token.IDENT, p.peekToken)
		return nil
	}
	p.nextToken()
	return p.newIdent(p.curToken)
}

func isNameToken(t token.Token) bool {
	if t.Type == token.IDENT || t.Type == token.RESERVED {
		return true
	}
	if t.Literal == "" {
		return false
	}
	return token.LookupIdentifier(t.Literal) == t.Type
}

func (p *Parser) parseGetAttr(objNode ast.Node) ast.Node {
	obj, ok := objNode.(ast.Expr)
	if !ok {
		return p.setTokenError(p.curToken, "invalid attribute access")
	}
	period := p.curToken.StartPosition
	name := p.parseName("attribute access")
	if name == nil {
		return nil
	}
	return &ast.GetAttr{X: obj, Period: period, Attr: name}
}

func (p *Parser) parseIndex(objNode ast.Node) ast.Node {
	obj, ok := objNode.(ast.Expr)
	if !ok {
		return p.setTokenError(p.curToken, "invalid index target")
	}
	lbrack := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	p.skipNewlinesAndPeek(token.RBRACKET)
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Index{X: obj, Lbrack: lbrack, Index: index, Rbrack: p.curToken.StartPosition}
}

// parseExprList parses a comma separated list of expressions terminated by
// end, with curToken on the opening delimiter. Newlines are allowed between
// items and a trailing comma is accepted. On return curToken is end.
func (p *Parser) parseExprList(context string, end token.Type) []ast.Expr {
	list := []ast.Expr{}
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	for !p.curTokenIs(end) {
		if p.curTokenIs(token.COMMA) {
			p.setTokenError(p.curToken, "unexpected comma in %s", context)
			return nil
		}
		item := p.parseExpression(LOWEST)
		if item == nil {
			return nil
		}
		list = append(list, item)
		p.skipNewlinesAndPeek(end)
		if p.peekTokenIs(end) {
			p.nextToken()
			break
		}
		p.skipNewlinesAndPeek(token.COMMA)
		if !p.expectPeek(context, token.COMMA) {
			return nil
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		p.eatNewlines()
	}
	return list
}
