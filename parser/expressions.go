package parser

import (
	"encoding/hex"
	"strconv"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/internal/token"
	"github.com/deepnoodle-ai/lirc/types"
)

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if !p.enter(p.curToken) {
		p.leave()
		return nil
	}
	defer p.leave()

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(p.curToken, errors.E1004, "expected expression, found %s", describe(p.curToken))
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for !p.curTokenIs(token.SEMICOLON) && precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken.Type]
		if infix == nil {
			return left
		}
		if left = infix(left); left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	expr := &ast.Prefix{Token: p.curToken, Op: p.curToken.Literal}
	p.nextToken()
	if expr.X = p.parseExpression(PREFIX); expr.X == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	expr := &ast.Infix{X: left, OpPos: p.curToken.StartPosition, Op: p.curToken.Literal}
	precedence := p.curPrecedence()
	p.nextToken()
	if expr.Y = p.parseExpression(precedence); expr.Y == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN, "')'"); !ok {
		return nil
	}
	return expr
}

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseUint(tok.Literal, 10, 64)
	if err != nil {
		p.errorAt(tok, errors.E1008, "integer literal %s does not fit in u64", tok.Literal)
		return nil
	}
	p.nextToken()
	return &ast.Int{Token: tok, Value: value}
}

func (p *Parser) parseBoolean() ast.Expr {
	expr := &ast.BoolLit{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	p.nextToken()
	return expr
}

func (p *Parser) parseAddress() ast.Expr {
	tok := p.curToken
	addr, err := types.ParseAddress(tok.Literal)
	if err != nil {
		p.errorAt(tok, errors.E1002, "invalid address %s: %v", tok.Literal, err)
		return nil
	}
	p.nextToken()
	return &ast.AddressLit{Token: tok, Value: addr}
}

func (p *Parser) parseBytes() ast.Expr {
	tok := p.curToken
	value, err := hex.DecodeString(tok.Literal)
	if err != nil {
		p.errorAt(tok, errors.E1002, "invalid byte array literal: %v", err)
		return nil
	}
	p.nextToken()
	return &ast.BytesLit{Token: tok, Value: value}
}

func (p *Parser) parseTxnSender() ast.Expr {
	expr := &ast.TxnSender{Token: p.curToken}
	p.nextToken()
	if _, ok := p.expect(token.LPAREN, "'(' after get_txn_sender"); !ok {
		return nil
	}
	rparen, ok := p.expect(token.RPAREN, "')': get_txn_sender takes no arguments")
	if !ok {
		return nil
	}
	expr.Rparen = rparen.StartPosition
	return expr
}

// parseIdentOrCall parses a variable reference, a local call f(...) or a
// qualified call M.f(...).
func (p *Parser) parseIdentOrCall() ast.Expr {
	ident := ast.NewIdent(p.curToken)
	p.nextToken()
	switch {
	case p.curTokenIs(token.PERIOD):
		p.nextToken()
		name := p.expectIdent("function name after '" + ident.Name + ".'")
		if name == nil {
			return nil
		}
		if !p.curTokenIs(token.LPAREN) {
			p.errorAt(p.curToken, errors.E1001, "expected '(' to call %s.%s, found %s", ident.Name, name.Name, describe(p.curToken))
			return nil
		}
		return p.parseCall(&ast.Call{Module: ident, Name: name})
	case p.curTokenIs(token.LPAREN):
		return p.parseCall(&ast.Call{Name: ident})
	}
	return ident
}

func (p *Parser) parseCall(call *ast.Call) ast.Expr {
	p.nextToken() // (
	for !p.curTokenIs(token.RPAREN) {
		if len(call.Args) > 0 {
			if _, ok := p.expect(token.COMMA, "',' or ')' in argument list"); !ok {
				return nil
			}
		}
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	call.Rparen = p.curToken.StartPosition
	p.nextToken()
	return call
}
