// Package parser is used to generate the abstract syntax tree (AST) for a
// canvasbox script.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/canvasbox/ast"
	"github.com/deepnoodle-ai/canvasbox/errors"
	"github.com/deepnoodle-ai/canvasbox/internal/lexer"
	"github.com/deepnoodle-ai/canvasbox/internal/token"
)

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// statementTerminators defines tokens that can end a statement.
//
// A trailing operator continues an expression onto the next line, and a
// line that starts with "." continues a member chain. Any other newline ends
// the statement.
var statementTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.NEWLINE:   true,
	token.RBRACE:    true,
	token.EOF:       true,
}

// Parse the provided input as script source and return the AST. This is a
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input, lexer.WithFile(probe.filename))
	return New(l, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	l *lexer.Lexer

	prevToken token.Token
	curToken  token.Token
	peekToken token.Token

	errors []ParserError

	// error count at the start of the current statement, so inner methods
	// can tell whether they added one
	stmtErrorCount int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename == "" {
		p.filename = l.Filename()
	} else {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.AWAIT, p.parseAwait)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.DELETE, p.parsePrefixExpr)
	p.registerPrefix(token.EOF, p.illegalToken)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	p.registerPrefix(token.LBRACE, p.parseRecord)
	p.registerPrefix(token.LBRACKET, p.parseList)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.MINUS_MINUS, p.parsePrefixUpdate)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.PLUS, p.parsePrefixExpr)
	p.registerPrefix(token.PLUS_PLUS, p.parsePrefixUpdate)
	p.registerPrefix(token.REGEXP, p.parseRegExp)
	p.registerPrefix(token.RESERVED, p.parseReserved)
	p.registerPrefix(token.SPREAD, p.parseSpread)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TEMPLATE, p.parseTemplate)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.TYPEOF, p.parsePrefixExpr)
	p.registerPrefix(token.VOID, p.parsePrefixExpr)

	for _, t := range []token.Type{
		token.AMPERSAND, token.AND, token.ASTERISK, token.BITOR, token.CARET,
		token.EQ, token.EQ_STRICT, token.GT, token.GT_EQUALS, token.GT_GT,
		token.GT_GT_GT, token.IN, token.INSTANCEOF, token.LT, token.LT_EQUALS,
		token.LT_LT, token.MINUS, token.MOD, token.NOT_EQ, token.NOT_EQ_STRICT,
		token.OR, token.PLUS, token.POW, token.SLASH,
	} {
		p.registerInfix(t, p.parseInfixExpr)
	}
	for t := range assignOperators {
		p.registerInfix(t, p.parseAssign)
	}
	p.registerInfix(token.ARROW, p.parseArrow)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.PERIOD, p.parseGetAttr)
	p.registerInfix(token.QUESTION, p.parseTernary)
	return p
}

// advanceToken moves to the next token without error checking. It is used
// by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() error {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return nil
	}
	// Lexer errors are syntax errors and leave the parse broken.
	p.addError(NewSyntaxError(ErrorOpts{
		Code:          lexerErrorCode(err),
		Cause:         err,
		File:          p.filename,
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
	return err
}

// Parse the program that is provided via the lexer. If there are errors the
// returned error is an *Errors and the AST holds only the statements that
// parsed cleanly.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	if p.hasErrors() {
		return nil, NewErrors(p.errors)
	}
	var statements []ast.Node
	for p.curToken.Type != token.EOF {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatementStrict()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	program := &ast.Program{Stmts: statements}
	if p.hasErrors() {
		return program, NewErrors(p.errors)
	}
	return program, nil
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err ParserError) {
	p.errors = append(p.errors, err)
}

func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached.
func (p *Parser) synchronize() {
	first := true
	for !p.curTokenIs(token.EOF) {
		if statementTerminators[p.curToken.Type] {
			return
		}
		// The failed statement may itself start with a keyword.
		if !first {
			switch p.curToken.Type {
			case token.LET, token.CONST, token.VAR, token.IF, token.TRY, token.THROW:
				return
			}
		}
		first = false
		prevPos := p.curToken.StartPosition
		p.advanceToken()
		if p.curToken.StartPosition == prevPos {
			return
		}
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.setTokenErrorCode(t, errors.E1001, "invalid syntax (unexpected %q)", t.Literal)
}

// peekError records that the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.setTokenErrorCode(got, errors.E1001, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

func (p *Parser) parseStatementStrict() ast.Node {
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	switch stmt.(type) {
	case *ast.Block, *ast.If, *ast.Try, *ast.Empty:
		return stmt
	}
	if !p.curTokenIs(token.SEMICOLON) && !statementTerminators[p.peekToken.Type] {
		p.setTokenErrorCode(p.peekToken, errors.E1001, "unexpected token %q following statement", p.peekToken.Literal)
		return nil
	}
	return stmt
}

func (p *Parser) parseStatement() ast.Node {
	var stmt ast.Node
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		stmt = p.parseVar()
	case token.IF:
		return p.parseIf()
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		stmt = p.parseThrow()
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		return &ast.Empty{Semicolon: p.curToken.StartPosition}
	case token.NEWLINE:
		return nil
	default:
		stmt = p.parseExpressionStatement()
	}
	if stmt != nil && p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseNode(precedence int) ast.Node {
	if p.hadNewError() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenErrorCode(p.curToken, errors.E1009, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if p.hadNewError() || left == nil {
		return nil
	}
	for {
		// A line starting with "." continues a member chain.
		if p.peekTokenIs(token.NEWLINE) && precedence < INDEX {
			p.skipNewlinesAndPeek(token.PERIOD)
		}
		if precedence < POSTFIX && (p.peekTokenIs(token.PLUS_PLUS) || p.peekTokenIs(token.MINUS_MINUS)) {
			p.nextToken()
			left = p.parsePostfix(left)
			continue
		}
		if p.peekTokenIs(token.SEMICOLON) || precedence >= p.peekPrecedence() {
			break
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		left = infix(left)
		if p.hadNewError() || left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	node := p.parseNode(precedence)
	if node == nil || p.hadNewError() {
		return nil
	}
	if expr, ok := node.(ast.Expr); ok {
		return expr
	}
	p.setTokenErrorCode(p.prevToken, errors.E1004, "expected expression")
	return nil
}

func (p *Parser) illegalToken() ast.Node {
	if p.curTokenIs(token.EOF) {
		p.setTokenErrorCode(p.curToken, errors.E1004, "unexpected end of file")
		return nil
	}
	p.setTokenErrorCode(p.curToken, errors.E1003, "illegal token %s", p.curToken.Literal)
	return nil
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...any) ast.Node {
	return p.setTokenErrorCode(t, errors.E1003, msg, args...)
}

func (p *Parser) setTokenErrorCode(t token.Token, code errors.ErrorCode, msg string, args ...any) ast.Node {
	p.addError(NewParserError(ErrorOpts{
		Code:          code,
		ErrType:       "parse error",
		Message:       fmt.Sprintf(msg, args...),
		File:          p.filename,
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
	}))
	return nil
}

func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the given type, and records an
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) currentPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) eatNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		if err := p.nextToken(); err != nil {
			return
		}
	}
}

// skipNewlinesAndPeek reports whether the given token type follows after
// optional newlines. When it does, the newlines are consumed and peekToken
// is the target. Otherwise no tokens are consumed.
func (p *Parser) skipNewlinesAndPeek(target token.Type) bool {
	if p.peekTokenIs(target) {
		return true
	}
	if !p.peekTokenIs(token.NEWLINE) {
		return false
	}
	savedPrev, savedCur, savedPeek := p.prevToken, p.curToken, p.peekToken
	savedLexer := p.l.SaveState()
	for p.peekTokenIs(token.NEWLINE) {
		p.advanceToken()
	}
	if p.peekTokenIs(target) {
		// Keep the current token on the construct being parsed.
		p.prevToken, p.curToken = savedPrev, savedCur
		return true
	}
	p.prevToken, p.curToken, p.peekToken = savedPrev, savedCur, savedPeek
	p.l.RestoreState(savedLexer)
	return false
}
