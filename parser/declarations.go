package parser

import (
	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/internal/token"
	"github.com/deepnoodle-ai/lirc/types"
)

// parseImport parses `import 0x1.Math [as M];`
func (p *Parser) parseImport() *ast.Import {
	imp := &ast.Import{Token: p.curToken}
	p.nextToken()
	if !p.curTokenIs(token.ADDRESS) {
		p.errorAt(p.curToken, errors.E1001, "expected module address after 'import', found %s", describe(p.curToken))
		return nil
	}
	addr, err := types.ParseAddress(p.curToken.Literal)
	if err != nil {
		p.errorAt(p.curToken, errors.E1002, "invalid address %s: %v", p.curToken.Literal, err)
		return nil
	}
	imp.Address = addr
	p.nextToken()
	if _, ok := p.expect(token.PERIOD, "'.'"); !ok {
		return nil
	}
	if imp.Module = p.expectIdent("module name"); imp.Module == nil {
		return nil
	}
	if p.curTokenIs(token.AS) {
		p.nextToken()
		if imp.Alias = p.expectIdent("import alias"); imp.Alias == nil {
			return nil
		}
	}
	semi, ok := p.expect(token.SEMICOLON, "';' after import")
	if !ok {
		return nil
	}
	imp.Semi = semi.StartPosition
	return imp
}

// parseModule parses a module declaration including its imports and
// functions. A malformed function signature abandons the module.
func (p *Parser) parseModule() *ast.Module {
	m := &ast.Module{Token: p.curToken}
	p.nextToken()
	if m.Name = p.expectIdent("module name"); m.Name == nil {
		return nil
	}
	if _, ok := p.expect(token.LBRACE, "'{' after module name"); !ok {
		return nil
	}
	for p.curTokenIs(token.IMPORT) {
		imp := p.parseImport()
		if imp == nil {
			return nil
		}
		m.Imports = append(m.Imports, imp)
	}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.tooManyErrors() {
			return nil
		}
		fn := p.parseFunction()
		if fn == nil {
			return nil
		}
		m.Functions = append(m.Functions, fn)
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, errors.E1007, "expected '}' to close module %s, found %s", m.Name.Name, describe(p.curToken))
		return nil
	}
	m.Rbrace = p.curToken.StartPosition
	p.nextToken()
	return m
}

// parseFunction parses `{public | native} fun name(params)[: type]` followed
// by a body, or by ';' for native functions. Modifiers may appear in either
// order, each at most once.
func (p *Parser) parseFunction() *ast.Function {
	fn := &ast.Function{Token: p.curToken}
	for p.curTokenIs(token.PUBLIC) || p.curTokenIs(token.NATIVE) {
		seen := &fn.Public
		if p.curTokenIs(token.NATIVE) {
			seen = &fn.Native
		}
		if *seen {
			p.errorAt(p.curToken, errors.E1001, "duplicate modifier '%s'", p.curToken.Literal)
			return nil
		}
		*seen = true
		p.nextToken()
	}
	if _, ok := p.expect(token.FUN, "'fun'"); !ok {
		return nil
	}
	if fn.Name = p.expectIdent("function name"); fn.Name == nil {
		return nil
	}
	if !p.parseSignature(fn) {
		return nil
	}
	if fn.Native {
		semi, ok := p.expect(token.SEMICOLON, "';' after native function declaration")
		if !ok {
			return nil
		}
		fn.Semi = semi.StartPosition
		return fn
	}
	if !p.curTokenIs(token.LBRACE) {
		p.errorAt(p.curToken, errors.E1001, "expected '{' to begin body of %s, found %s", fn.Name.Name, describe(p.curToken))
		return nil
	}
	if fn.Body = p.parseBlock(); fn.Body == nil {
		return nil
	}
	return fn
}

// parseMain parses the script entry point `main(params) { ... }`.
func (p *Parser) parseMain() *ast.Function {
	fn := &ast.Function{Token: p.curToken, Name: ast.NewIdent(p.curToken)}
	p.nextToken()
	if !p.parseSignature(fn) {
		return nil
	}
	if fn.Return != nil {
		p.errorAt(p.curToken, errors.E1003, "main function cannot declare a return type")
		return nil
	}
	if !p.curTokenIs(token.LBRACE) {
		p.errorAt(p.curToken, errors.E1001, "expected '{' to begin body of main, found %s", describe(p.curToken))
		return nil
	}
	if fn.Body = p.parseBlock(); fn.Body == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseSignature(fn *ast.Function) bool {
	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return false
	}
	for !p.curTokenIs(token.RPAREN) {
		if len(fn.Params) > 0 {
			if _, ok := p.expect(token.COMMA, "',' or ')' in parameter list"); !ok {
				return false
			}
		}
		param := &ast.Param{}
		if param.Name = p.expectIdent("parameter name"); param.Name == nil {
			return false
		}
		if _, ok := p.expect(token.COLON, "':' after parameter name"); !ok {
			return false
		}
		if param.Type = p.parseType(); param.Type == nil {
			return false
		}
		fn.Params = append(fn.Params, param)
	}
	p.nextToken() // )
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		if fn.Return = p.parseType(); fn.Return == nil {
			return false
		}
	}
	return true
}

func (p *Parser) parseType() *ast.Type {
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, errors.E1005, "expected type, found %s", describe(p.curToken))
		return nil
	}
	kind := ast.LookupType(p.curToken.Literal)
	if kind == ast.InvalidType {
		p.errorAt(p.curToken, errors.E1005, "unknown type %q (expected u64, bool, address or bytearray)", p.curToken.Literal)
		return nil
	}
	t := &ast.Type{Token: p.curToken, Kind: kind}
	p.nextToken()
	return t
}
