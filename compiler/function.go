package compiler

import (
	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/types"
)

// funcCompiler emits the body of one function.
type funcCompiler struct {
	*unitCompiler
	fn      *ast.Function
	returns []bytecode.SignatureToken
	symbols *SymbolTable
	code    []bytecode.Instruction
}

func (u *unitCompiler) compileFunction(fn *ast.Function) ([]bytecode.SignatureToken, []bytecode.Instruction, error) {
	fc := &funcCompiler{
		unitCompiler: u,
		fn:           fn,
		returns:      signatureOf(fn).Returns,
		symbols:      NewSymbolTable(MaxLocals),
	}
	for _, p := range fn.Params {
		if _, err := fc.symbols.InsertVariable(p.Name.Name, tokenOf(p.Type)); err != nil {
			if fc.symbols.IsDefined(p.Name.Name) {
				return nil, nil, u.errorAt(p.Name, errors.E2006, p.Name.Name, nil,
					"parameter %s is declared more than once in %s", p.Name.Name, fn.Name.Name)
			}
			return nil, nil, u.errorAt(p.Name, errors.E2012, fn.Name.Name, nil, "%s: %v", fn.Name.Name, err)
		}
	}
	if err := fc.compileStatements(fn.Body.Stmts); err != nil {
		return nil, nil, err
	}
	if !terminates(fn.Body) {
		if len(fc.returns) > 0 {
			return nil, nil, u.errorAt(fn.Name, errors.E2007, fn.Name.Name, nil,
				"function %s must end with a return statement returning %s", fn.Name.Name, fc.returns[0])
		}
		fc.emit(op.Ret, 0)
	}
	if len(fc.code) >= bytecode.MaxTableSize {
		return nil, nil, u.errorAt(fn.Name, errors.E2012, fn.Name.Name, nil,
			"function %s compiles to %d instructions (limit %d)", fn.Name.Name, len(fc.code), bytecode.MaxTableSize-1)
	}
	return fc.symbols.Locals(), fc.code, nil
}

// terminates reports whether control can never fall through stmt.
func terminates(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return, *ast.Abort:
		return true
	case *ast.Block:
		for _, inner := range s.Stmts {
			if terminates(inner) {
				return true
			}
		}
	case *ast.If:
		return s.Alternative != nil && terminates(s.Consequence) && terminates(s.Alternative)
	}
	return false
}

func (fc *funcCompiler) emit(code op.Code, arg uint64) int {
	fc.code = append(fc.code, bytecode.Instruction{Op: code, Arg: arg})
	return len(fc.code) - 1
}

// patch points the branch at pos to the next instruction to be emitted.
func (fc *funcCompiler) patch(pos int) {
	fc.code[pos].Arg = uint64(len(fc.code))
}

func (fc *funcCompiler) compileStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := fc.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCompiler) compileStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Let:
		return fc.compileLet(s)
	case *ast.Assign:
		return fc.compileAssign(s)
	case *ast.Return:
		return fc.compileReturn(s)
	case *ast.If:
		return fc.compileIf(s)
	case *ast.While:
		return fc.compileWhile(s)
	case *ast.Assert:
		return fc.compileAssert(s)
	case *ast.Abort:
		if err := fc.expect(s.Code, bytecode.U64, "abort code"); err != nil {
			return err
		}
		fc.emit(op.Abort, 0)
		return nil
	case *ast.ExprStmt:
		returns, err := fc.compileCall(s.X)
		if err != nil {
			return err
		}
		for range returns {
			fc.emit(op.Pop, 0)
		}
		return nil
	case *ast.Block:
		return fc.compileBlock(s)
	}
	return fc.errorAt(stmt, errors.E2004, "", nil, "unsupported statement %s", stmt.String())
}

func (fc *funcCompiler) compileBlock(b *ast.Block) error {
	outer := fc.symbols
	fc.symbols = outer.NewBlock()
	defer func() { fc.symbols = outer }()
	return fc.compileStatements(b.Stmts)
}

func (fc *funcCompiler) compileLet(s *ast.Let) error {
	typ := tokenOf(s.Type)
	if s.Value != nil {
		if err := fc.expect(s.Value, typ, "initializer of "+s.Name.Name); err != nil {
			return err
		}
	} else {
		fc.emitZero(typ)
	}
	if fc.symbols.IsDefined(s.Name.Name) {
		return fc.errorAt(s.Name, errors.E2006, s.Name.Name, nil, "variable %s is already declared in this block", s.Name.Name)
	}
	sym, err := fc.symbols.InsertVariable(s.Name.Name, typ)
	if err != nil {
		return fc.errorAt(s.Name, errors.E2012, s.Name.Name, nil, "function %s: %v", fc.fn.Name.Name, err)
	}
	fc.emit(op.StLoc, uint64(sym.Index()))
	return nil
}

// emitZero pushes the default value of typ.
func (fc *funcCompiler) emitZero(typ bytecode.SignatureToken) {
	switch typ {
	case bytecode.U64:
		fc.emit(op.LdU64, 0)
	case bytecode.Bool:
		fc.emit(op.LdFalse, 0)
	case bytecode.Address:
		fc.emit(op.LdAddr, uint64(fc.tb.address(types.ZeroAddress)))
	case bytecode.ByteArray:
		fc.emit(op.LdBytes, uint64(fc.tb.byteArray(nil)))
	}
}

func (fc *funcCompiler) compileAssign(s *ast.Assign) error {
	sym, ok := fc.symbols.Resolve(s.Name.Name)
	if !ok {
		return fc.undefinedVariable(s.Name)
	}
	if err := fc.expect(s.Value, sym.Type(), "assignment to "+s.Name.Name); err != nil {
		return err
	}
	fc.emit(op.StLoc, uint64(sym.Index()))
	return nil
}

func (fc *funcCompiler) compileReturn(s *ast.Return) error {
	name := fc.fn.Name.Name
	switch {
	case len(fc.returns) == 0 && s.Value != nil:
		return fc.errorAt(s.Value, errors.E2004, name, nil, "function %s cannot return a value", name)
	case len(fc.returns) > 0 && s.Value == nil:
		return fc.errorAt(s, errors.E2004, name, nil, "function %s must return a %s value", name, fc.returns[0])
	case s.Value != nil:
		if err := fc.expect(s.Value, fc.returns[0], "return value of "+name); err != nil {
			return err
		}
	}
	fc.emit(op.Ret, 0)
	return nil
}

func (fc *funcCompiler) compileIf(s *ast.If) error {
	if err := fc.expect(s.Cond, bytecode.Bool, "if condition"); err != nil {
		return err
	}
	brFalse := fc.emit(op.BrFalse, Placeholder)
	if err := fc.compileBlock(s.Consequence); err != nil {
		return err
	}
	if s.Alternative == nil {
		fc.patch(brFalse)
		return nil
	}
	skip := -1
	if !terminates(s.Consequence) {
		skip = fc.emit(op.Branch, Placeholder)
	}
	fc.patch(brFalse)
	var err error
	if block, ok := s.Alternative.(*ast.Block); ok {
		err = fc.compileBlock(block)
	} else {
		err = fc.compileStatement(s.Alternative)
	}
	if err != nil {
		return err
	}
	if skip >= 0 {
		fc.patch(skip)
	}
	return nil
}

func (fc *funcCompiler) compileWhile(s *ast.While) error {
	start := len(fc.code)
	if err := fc.expect(s.Cond, bytecode.Bool, "while condition"); err != nil {
		return err
	}
	exit := fc.emit(op.BrFalse, Placeholder)
	if err := fc.compileBlock(s.Body); err != nil {
		return err
	}
	fc.emit(op.Branch, uint64(start))
	fc.patch(exit)
	return nil
}

// compileAssert emits: cond; BR_TRUE done; code; ABORT; done:
func (fc *funcCompiler) compileAssert(s *ast.Assert) error {
	if err := fc.expect(s.Cond, bytecode.Bool, "assert condition"); err != nil {
		return err
	}
	done := fc.emit(op.BrTrue, Placeholder)
	if err := fc.expect(s.Code, bytecode.U64, "assert abort code"); err != nil {
		return err
	}
	fc.emit(op.Abort, 0)
	fc.patch(done)
	return nil
}

func (fc *funcCompiler) undefinedVariable(id *ast.Ident) error {
	suggestions := errors.SuggestSimilar(id.Name, fc.symbols.AllNames())
	return fc.errorAt(id, errors.E2001, id.Name, suggestions, "undefined variable %s", id.Name)
}
