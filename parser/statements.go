package parser

import (
	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

// Statement parsing methods for the Parser.
// Each method starts with curToken on the statement's first token and
// leaves curToken on its last token.

func (p *Parser) parseVar() ast.Node {
	kindTok := p.curToken
	stmt := &ast.Var{KindPos: kindTok.StartPosition, Kind: kindTok.Literal}
	context := kindTok.Literal + " statement"
	for {
		if p.peekTokenIs(token.LBRACE) || p.peekTokenIs(token.LBRACKET) {
			p.setTokenErrorCode(p.peekToken, errors.E1006, "destructuring is not supported")
			return nil
		}
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		decl := &ast.Declarator{Name: p.newIdent(p.curToken)}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			if err := p.nextToken(); err != nil {
				return nil
			}
			p.eatNewlines()
			decl.Value = p.parseExpression(LOWEST)
			if decl.Value == nil {
				return nil
			}
		} else if stmt.IsConst() {
			p.setTokenError(p.curToken, "missing initializer in const declaration")
			return nil
		}
		stmt.Decls = append(stmt.Decls, decl)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.NEWLINE) {
			p.nextToken()
			p.skipNewlinesAndPeek(token.IDENT)
		}
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Node {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

func (p *Parser) parseThrow() ast.Node {
	throwPos := p.curToken.StartPosition
	if p.peekTokenIs(token.NEWLINE) || statementTerminators[p.peekToken.Type] {
		p.setTokenError(p.curToken, "illegal newline after throw")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Throw{ThrowPos: throwPos, Value: value}
}

// parseBlock parses a braced statement list. curToken must be "{".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	if err := p.nextToken(); err != nil {
		return nil
	}
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenErrorCode(p.curToken, errors.E1007, "unterminated block statement")
			return nil
		}
		stmt := p.parseStatementStrict()
		if p.hadNewError() {
			return nil
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

// parseBody parses the statement controlled by if/else: a block or a single
// statement.
func (p *Parser) parseBody(context string) ast.Node {
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	if p.curTokenIs(token.EOF) {
		p.peekError(context, token.LBRACE, p.curToken)
		return nil
	}
	stmt := p.parseStatementStrict()
	if stmt == nil && !p.hadNewError() {
		p.setTokenErrorCode(p.curToken, errors.E1004, "missing statement in %s", context)
	}
	return stmt
}

func (p *Parser) parseIf() ast.Node {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	if !p.expectPeek("if statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	p.eatNewlines()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	p.skipNewlinesAndPeek(token.RPAREN)
	if !p.expectPeek("if statement", token.RPAREN) {
		return nil
	}
	stmt.Consequence = p.parseBody("if statement")
	if stmt.Consequence == nil {
		return nil
	}
	if !p.skipNewlinesAndPeek(token.ELSE) {
		return stmt
	}
	p.nextToken()
	stmt.Alternative = p.parseBody("else clause")
	if stmt.Alternative == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseTry() ast.Node {
	stmt := &ast.Try{TryPos: p.curToken.StartPosition}
	if !p.skipNewlinesAndPeek(token.LBRACE) {
		p.peekError("try statement", token.LBRACE, p.peekToken)
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	if p.skipNewlinesAndPeek(token.CATCH) {
		p.nextToken()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek("catch clause", token.IDENT) {
				return nil
			}
			stmt.CatchIdent = p.newIdent(p.curToken)
			if !p.expectPeek("catch clause", token.RPAREN) {
				return nil
			}
		}
		if !p.skipNewlinesAndPeek(token.LBRACE) {
			p.peekError("catch clause", token.LBRACE, p.peekToken)
			return nil
		}
		p.nextToken()
		stmt.CatchBlock = p.parseBlock()
		if stmt.CatchBlock == nil {
			return nil
		}
	}
	if p.skipNewlinesAndPeek(token.FINALLY) {
		p.nextToken()
		if !p.skipNewlinesAndPeek(token.LBRACE) {
			p.peekError("finally clause", token.LBRACE, p.peekToken)
			return nil
		}
		p.nextToken()
		stmt.FinallyBlock = p.parseBlock()
		if stmt.FinallyBlock == nil {
			return nil
		}
	}
	if stmt.CatchBlock == nil && stmt.FinallyBlock == nil {
		p.setTokenError(p.curToken, "try statement requires a catch or finally clause")
		return nil
	}
	return stmt
}

func (p *Parser) parseAssign(left ast.Node) ast.Node {
	opTok := p.curToken
	switch left.(type) {
	case *ast.Ident, *ast.GetAttr, *ast.Index:
	default:
		p.setTokenErrorCode(opTok, errors.E1005, "invalid assignment target")
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	p.eatNewlines()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Assign{
		Target: left.(ast.Expr),
		OpPos:  opTok.StartPosition,
		Op:     opTok.Literal,
		Value:  value,
	}
}

func (p *Parser) parsePostfix(left ast.Node) ast.Node {
	operand, ok := left.(ast.Expr)
	if !ok {
		return p.setTokenErrorCode(p.curToken, errors.E1005, "invalid operand for %s", p.curToken.Literal)
	}
	return &ast.Update{
		OpPos:   p.curToken.StartPosition,
		Op:      p.curToken.Literal,
		X:       operand,
		Postfix: true,
	}
}
