package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/op"
)

// expect compiles expr and checks that it has type want.
func (fc *funcCompiler) expect(expr ast.Expr, want bytecode.SignatureToken, context string) error {
	got, err := fc.compileExpr(expr)
	if err != nil {
		return err
	}
	if got != want {
		return fc.errorAt(expr, errors.E2004, want.String(), nil,
			"type mismatch in %s: expected %s, found %s", context, want, got)
	}
	return nil
}

// compileExpr emits code that pushes the value of expr and returns its type.
func (fc *funcCompiler) compileExpr(expr ast.Expr) (bytecode.SignatureToken, error) {
	switch e := expr.(type) {
	case *ast.Int:
		fc.emit(op.LdU64, e.Value)
		return bytecode.U64, nil
	case *ast.BoolLit:
		if e.Value {
			fc.emit(op.LdTrue, 0)
		} else {
			fc.emit(op.LdFalse, 0)
		}
		return bytecode.Bool, nil
	case *ast.AddressLit:
		fc.emit(op.LdAddr, uint64(fc.tb.address(e.Value)))
		return bytecode.Address, nil
	case *ast.BytesLit:
		fc.emit(op.LdBytes, uint64(fc.tb.byteArray(e.Value)))
		return bytecode.ByteArray, nil
	case *ast.TxnSender:
		fc.emit(op.GetTxnSender, 0)
		return bytecode.Address, nil
	case *ast.Ident:
		sym, ok := fc.symbols.Resolve(e.Name)
		if !ok {
			return 0, fc.undefinedVariable(e)
		}
		fc.emit(op.CopyLoc, uint64(sym.Index()))
		return sym.Type(), nil
	case *ast.Prefix:
		if err := fc.expect(e.X, bytecode.Bool, "operand of "+e.Op); err != nil {
			return 0, err
		}
		fc.emit(op.Not, 0)
		return bytecode.Bool, nil
	case *ast.Infix:
		return fc.compileInfix(e)
	case *ast.Call:
		returns, err := fc.compileCall(e)
		if err != nil {
			return 0, err
		}
		if len(returns) == 0 {
			return 0, fc.errorAt(e, errors.E2004, e.Callee(), nil, "%s does not return a value", e.Callee())
		}
		return returns[0], nil
	}
	return 0, fc.errorAt(expr, errors.E2004, "", nil, "unsupported expression %s", expr.String())
}

func (fc *funcCompiler) compileInfix(e *ast.Infix) (bytecode.SignatureToken, error) {
	code, ok := op.BinaryOperator(e.Op)
	if !ok {
		return 0, fc.errorAt(e, errors.E2004, e.Op, nil, "unknown operator %s", e.Op)
	}
	switch {
	case op.IsArithmetic(code), op.IsOrdering(code):
		if err := fc.expect(e.X, bytecode.U64, fmt.Sprintf("left operand of %s", e.Op)); err != nil {
			return 0, err
		}
		if err := fc.expect(e.Y, bytecode.U64, fmt.Sprintf("right operand of %s", e.Op)); err != nil {
			return 0, err
		}
		fc.emit(code, 0)
		if op.IsArithmetic(code) {
			return bytecode.U64, nil
		}
		return bytecode.Bool, nil
	case code == op.And || code == op.Or:
		if err := fc.expect(e.X, bytecode.Bool, fmt.Sprintf("left operand of %s", e.Op)); err != nil {
			return 0, err
		}
		if err := fc.expect(e.Y, bytecode.Bool, fmt.Sprintf("right operand of %s", e.Op)); err != nil {
			return 0, err
		}
		fc.emit(code, 0)
		return bytecode.Bool, nil
	}
	// == and != compare two values of the same type.
	left, err := fc.compileExpr(e.X)
	if err != nil {
		return 0, err
	}
	if err := fc.expect(e.Y, left, fmt.Sprintf("right operand of %s", e.Op)); err != nil {
		return 0, err
	}
	fc.emit(code, 0)
	return bytecode.Bool, nil
}

// compileCall pushes the arguments, emits the call and returns the callee's
// return types.
func (fc *funcCompiler) compileCall(call *ast.Call) ([]bytecode.SignatureToken, error) {
	handle, sig, err := fc.resolveCall(call)
	if err != nil {
		return nil, err
	}
	if len(call.Args) != len(sig.Params) {
		return nil, fc.errorAt(call, errors.E2005, call.Callee(), nil,
			"%s expects %d argument%s, found %d", call.Callee(), len(sig.Params), plural(len(sig.Params)), len(call.Args))
	}
	for i, arg := range call.Args {
		if err := fc.expect(arg, sig.Params[i], fmt.Sprintf("argument %d of %s", i+1, call.Callee())); err != nil {
			return nil, err
		}
	}
	fc.emit(op.Call, uint64(handle))
	return sig.Returns, nil
}

func (fc *funcCompiler) resolveCall(call *ast.Call) (uint16, bytecode.FunctionSignature, error) {
	name := call.Name.Name
	if call.Module == nil {
		if fc.self == nil {
			return 0, bytecode.FunctionSignature{}, fc.errorAt(call.Name, errors.E2002, name, nil,
				"undefined function %s: scripts must call module functions as Module.%s", name, name)
		}
		if _, ok := fc.self.funcs[name]; !ok {
			suggestions := errors.SuggestSimilar(name, fc.self.functionNames())
			return 0, bytecode.FunctionSignature{}, fc.errorAt(call.Name, errors.E2002, name, suggestions,
				"undefined function %s in module %s", name, fc.selfName)
		}
		return fc.handles[name], fc.self.funcs[name].sig, nil
	}

	imp, ok := fc.imports[call.Module.Name]
	if !ok {
		suggestions := errors.SuggestSimilar(call.Module.Name, fc.importNames())
		return 0, bytecode.FunctionSignature{}, fc.errorAt(call.Module, errors.E2003, call.Module.Name, suggestions,
			"module %s is not imported", call.Module.Name)
	}
	if imp.module == fc.self {
		if _, ok := fc.self.funcs[name]; ok {
			return fc.handles[name], fc.self.funcs[name].sig, nil
		}
	}
	info, ok := imp.module.funcs[name]
	if !ok {
		suggestions := errors.SuggestSimilar(name, imp.module.functionNames())
		return 0, bytecode.FunctionSignature{}, fc.errorAt(call.Name, errors.E2002, call.Callee(), suggestions,
			"undefined function %s in module %s", call.Callee(), imp.module.id)
	}
	if !info.public {
		return 0, bytecode.FunctionSignature{}, fc.errorAt(call.Name, errors.E2011, call.Callee(), nil,
			"function %s of module %s is not public", name, imp.module.id)
	}
	return fc.tb.functionHandle(imp.handle, name, info.sig), info.sig, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
