// Package parser is used to generate the abstract syntax tree (AST) for a
// Ledger IR source unit.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/internal/lexer"
	"github.com/deepnoodle-ai/lirc/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as Ledger IR source and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Unit, error) {
	return New(lexer.New(input), options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors and positions.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxErrors sets how many syntax errors are collected before parsing
// stops. The default is DefaultMaxErrors.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxErrors = n
		}
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

const (
	// DefaultMaxErrors is the number of errors collected before giving up.
	DefaultMaxErrors = 10

	// DefaultMaxDepth is the default maximum nesting depth for parsing.
	DefaultMaxDepth = 200
)

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*errors.SyntaxError

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename  string
	maxErrors int
	depth     int
	maxDepth  int
}

// New returns a Parser for the source unit provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxErrors:      DefaultMaxErrors,
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.ADDRESS, p.parseAddress)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.BYTES, p.parseBytes)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.IDENT, p.parseIdentOrCall)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.TXNSENDER, p.parseTxnSender)

	for _, t := range []token.Type{
		token.AND, token.ASTERISK, token.EQ, token.GT, token.GT_EQUALS,
		token.LT, token.LT_EQUALS, token.MINUS, token.MOD, token.NOT_EQ,
		token.OR, token.PLUS, token.SLASH,
	} {
		p.registerInfix(t, p.parseInfixExpr)
	}
	return p
}

// Parse the source unit provided via the lexer. On failure the returned
// error is an *errors.ParseError holding every syntax error found, and the
// returned unit may be partial.
func (p *Parser) Parse(ctx context.Context) (*ast.Unit, error) {
	p.ctx = ctx
	unit := &ast.Unit{}
	var scriptImports []*ast.Import

	for !p.curTokenIs(token.EOF) && !p.tooManyErrors() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := p.curToken.StartPosition.Char
		switch p.curToken.Type {
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				scriptImports = append(scriptImports, imp)
				continue
			}
		case token.MODULE:
			if m := p.parseModule(); m != nil {
				unit.Modules = append(unit.Modules, m)
				continue
			}
		case token.MAIN:
			mainTok := p.curToken
			if fn := p.parseMain(); fn != nil {
				if unit.Script != nil {
					p.errorAt(mainTok, errors.E1009, "duplicate main function: a source unit declares at most one script")
				} else {
					unit.Script = &ast.Script{Main: fn}
				}
				continue
			}
		default:
			p.errorAt(p.curToken, errors.E1001, "expected module, import or main, found %s", describe(p.curToken))
		}
		p.synchronizeTopLevel(start)
	}

	if unit.Script != nil {
		unit.Script.Imports = scriptImports
	} else if len(scriptImports) > 0 {
		p.errorAt(scriptImports[0].Token, errors.E1003, "top-level import requires a main function")
	}
	unit.EOF = p.curToken.StartPosition

	if len(p.errors) > 0 {
		return unit, errors.NewParseError(p.errors...)
	}
	return unit, nil
}

// nextToken moves to the next token from the lexer. Lexer errors are
// recorded as syntax errors and the offending input is skipped.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	for {
		tok, err := p.l.Next()
		if err == nil {
			p.peekToken = tok
			return
		}
		pos, msg := tok.StartPosition, err.Error()
		if lexErr, ok := err.(*lexer.Error); ok {
			pos, msg = lexErr.Position, lexErr.Message
		}
		p.addError(&errors.SyntaxError{
			Code:       errors.E1002,
			Message:    msg,
			Filename:   p.filename,
			Line:       pos.LineNumber(),
			Column:     pos.ColumnNumber(),
			SourceLine: p.l.GetLineText(pos),
		})
	}
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has type t. Otherwise it records
// an error naming what was expected.
func (p *Parser) expect(t token.Type, what string) (token.Token, bool) {
	if p.curTokenIs(t) {
		tok := p.curToken
		p.nextToken()
		return tok, true
	}
	code := errors.E1001
	if p.curTokenIs(token.EOF) && (t == token.RBRACE || t == token.RPAREN) {
		code = errors.E1007
	}
	p.errorAt(p.curToken, code, "expected %s, found %s", what, describe(p.curToken))
	return p.curToken, false
}

func (p *Parser) expectIdent(what string) *ast.Ident {
	if !p.curTokenIs(token.IDENT) {
		code := errors.E1006
		if token.IsKeyword(p.curToken.Literal) {
			p.errorAt(p.curToken, code, "expected %s, found reserved word %q", what, p.curToken.Literal)
		} else {
			p.errorAt(p.curToken, code, "expected %s, found %s", what, describe(p.curToken))
		}
		return nil
	}
	ident := ast.NewIdent(p.curToken)
	p.nextToken()
	return ident
}

func (p *Parser) addError(err *errors.SyntaxError) {
	p.errors = append(p.errors, err)
}

func (p *Parser) errorAt(tok token.Token, code errors.ErrorCode, format string, args ...any) {
	start := tok.StartPosition
	se := &errors.SyntaxError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Filename:   p.filename,
		Line:       start.LineNumber(),
		Column:     start.ColumnNumber(),
		SourceLine: p.l.GetLineText(start),
	}
	if tok.EndPosition.Line == start.Line && tok.EndPosition.Char > start.Char {
		se.EndColumn = tok.EndPosition.ColumnNumber()
	}
	p.addError(se)
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= p.maxErrors
}

// synchronizeTopLevel skips tokens until the start of the next module,
// import or main function. It always makes progress from start.
func (p *Parser) synchronizeTopLevel(start int) {
	if p.curToken.StartPosition.Char == start && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.MODULE, token.MAIN, token.IMPORT:
			return
		}
		p.nextToken()
	}
}

// synchronizeStatement skips past the end of the current statement: the next
// ';' at the current nesting level is consumed, a closing '}' is not.
func (p *Parser) synchronizeStatement() {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

func (p *Parser) enter(tok token.Token) bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorAt(tok, errors.E1003, "maximum nesting depth of %d exceeded", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case token.INT:
		return fmt.Sprintf("integer %s", tok.Literal)
	case token.ADDRESS:
		return fmt.Sprintf("address %s", tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}
