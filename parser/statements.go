package parser

import (
	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/internal/token"
)

// parseBlock parses `{ stmt* }`. A malformed statement is reported and
// skipped so later statements are still checked. Returns nil only when the
// block itself is unterminated.
func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.curToken
	if !p.enter(lbrace) {
		p.leave()
		return nil
	}
	defer p.leave()

	block := &ast.Block{Lbrace: lbrace.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.tooManyErrors() {
			return nil
		}
		if err := p.ctx.Err(); err != nil {
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronizeStatement()
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, errors.E1007, "unterminated block: expected '}', found %s", describe(p.curToken))
		return nil
	}
	block.Rbrace = p.curToken.StartPosition
	p.nextToken()
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.ASSERT:
		return p.parseAssert()
	case token.ABORT:
		return p.parseAbort()
	case token.LBRACE:
		if b := p.parseBlock(); b != nil {
			return b
		}
		return nil
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	case token.SEMICOLON:
		p.errorAt(p.curToken, errors.E1003, "empty statement")
		return nil
	}
	if p.prefixParseFns[p.curToken.Type] != nil {
		return p.parseExprStmt()
	}
	p.errorAt(p.curToken, errors.E1001, "unexpected %s at start of statement", describe(p.curToken))
	return nil
}

// let x: u64 [= value];
func (p *Parser) parseLet() ast.Stmt {
	stmt := &ast.Let{Token: p.curToken}
	p.nextToken()
	if stmt.Name = p.expectIdent("variable name"); stmt.Name == nil {
		return nil
	}
	if _, ok := p.expect(token.COLON, "':' and a type after variable name"); !ok {
		return nil
	}
	if stmt.Type = p.parseType(); stmt.Type == nil {
		return nil
	}
	if p.curTokenIs(token.ASSIGN) {
		p.nextToken()
		if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
			return nil
		}
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after let statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi.StartPosition
	return stmt
}

func (p *Parser) parseAssign() ast.Stmt {
	stmt := &ast.Assign{Name: ast.NewIdent(p.curToken)}
	p.nextToken() // name
	p.nextToken() // =
	if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
		return nil
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after assignment")
	if !ok {
		return nil
	}
	stmt.Semi = semi.StartPosition
	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{Token: p.curToken}
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
			return nil
		}
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after return")
	if !ok {
		return nil
	}
	stmt.Semi = semi.StartPosition
	return stmt
}

func (p *Parser) parseCondition(keyword string) ast.Expr {
	if _, ok := p.expect(token.LPAREN, "'(' after "+keyword); !ok {
		return nil
	}
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN, "')' after "+keyword+" condition"); !ok {
		return nil
	}
	return cond
}

func (p *Parser) parseBody(keyword string) *ast.Block {
	if !p.curTokenIs(token.LBRACE) {
		p.errorAt(p.curToken, errors.E1001, "expected '{' after %s condition, found %s", keyword, describe(p.curToken))
		return nil
	}
	return p.parseBlock()
}

// if (cond) { ... } [else { ... } | else if ...]
func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{Token: p.curToken}
	p.nextToken()
	if stmt.Cond = p.parseCondition("if"); stmt.Cond == nil {
		return nil
	}
	if stmt.Consequence = p.parseBody("if"); stmt.Consequence == nil {
		return nil
	}
	if !p.curTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()
	switch {
	case p.curTokenIs(token.IF):
		alt := p.parseIf()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	case p.curTokenIs(token.LBRACE):
		alt := p.parseBlock()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	default:
		p.errorAt(p.curToken, errors.E1001, "expected '{' or 'if' after 'else', found %s", describe(p.curToken))
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{Token: p.curToken}
	p.nextToken()
	if stmt.Cond = p.parseCondition("while"); stmt.Cond == nil {
		return nil
	}
	if stmt.Body = p.parseBody("while"); stmt.Body == nil {
		return nil
	}
	return stmt
}

// assert(cond, code);
func (p *Parser) parseAssert() ast.Stmt {
	stmt := &ast.Assert{Token: p.curToken}
	p.nextToken()
	if _, ok := p.expect(token.LPAREN, "'(' after assert"); !ok {
		return nil
	}
	if stmt.Cond = p.parseExpression(LOWEST); stmt.Cond == nil {
		return nil
	}
	if _, ok := p.expect(token.COMMA, "',' and an abort code in assert"); !ok {
		return nil
	}
	if stmt.Code = p.parseExpression(LOWEST); stmt.Code == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN, "')' after assert arguments"); !ok {
		return nil
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after assert")
	if !ok {
		return nil
	}
	stmt.Semi = semi.StartPosition
	return stmt
}

// abort(code);
func (p *Parser) parseAbort() ast.Stmt {
	stmt := &ast.Abort{Token: p.curToken}
	p.nextToken()
	if _, ok := p.expect(token.LPAREN, "'(' after abort"); !ok {
		return nil
	}
	if stmt.Code = p.parseExpression(LOWEST); stmt.Code == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN, "')' after abort code"); !ok {
		return nil
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after abort")
	if !ok {
		return nil
	}
	stmt.Semi = semi.StartPosition
	return stmt
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	call, ok := expr.(*ast.Call)
	if !ok {
		p.errorAt(start, errors.E1003, "expression statement must be a function call, found %s", expr.String())
		return nil
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after call")
	if !ok {
		return nil
	}
	return &ast.ExprStmt{X: call, Semi: semi.StartPosition}
}
