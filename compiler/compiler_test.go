package compiler

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/parser"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/stretchr/testify/require"
)

var (
	zeroAddr = types.ZeroAddress
	oneAddr  = types.MustParseAddress("0x1")
	twoAddr  = types.MustParseAddress("0x2")
)

const mathSource = `
module Math {
    public fun max(a: u64, b: u64): u64 {
        if (a >= b) {
            return a;
        } else {
            return b;
        }
    }

    public fun min(a: u64, b: u64): u64 {
        if (a <= b) {
            return a;
        }
        return b;
    }

    fun secret(): u64 {
        return 42;
    }
}
`

func parse(t *testing.T, src string) *ast.Unit {
	t.Helper()
	unit, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	return unit
}

func compileModule(t *testing.T, addr types.Address, src string, deps ...*verifier.VerifiedModule) *verifier.VerifiedModule {
	t.Helper()
	unit := parse(t, src)
	require.Len(t, unit.Modules, 1)
	m, err := CompileModule(addr, unit.Modules[0], deps, WithSource(src))
	require.Nil(t, err)
	verified, err := verifier.VerifyModule(m)
	require.Nil(t, err)
	return verified
}

func compileProgram(t *testing.T, addr types.Address, src string, deps ...*verifier.VerifiedModule) *bytecode.CompiledProgram {
	t.Helper()
	program, err := CompileProgram(addr, parse(t, src), deps, WithSource(src))
	require.Nil(t, err)
	for _, m := range program.Modules() {
		_, err := verifier.VerifyModule(m)
		require.Nil(t, err)
	}
	require.Nil(t, verifier.VerifyScript(program.Script()))
	return program
}

func compileErr(t *testing.T, src string, deps ...*verifier.VerifiedModule) *errors.CompileError {
	t.Helper()
	_, err := CompileProgram(twoAddr, parse(t, src), deps, WithFilename("test.lir"), WithSource(src))
	require.Error(t, err)
	var cerr *errors.CompileError
	require.ErrorAs(t, err, &cerr)
	return cerr
}

func ins(code op.Code, arg uint64) bytecode.Instruction {
	return bytecode.Instruction{Op: code, Arg: arg}
}

func TestCompileModule(t *testing.T) {
	math := compileModule(t, oneAddr, mathSource)
	require.Equal(t, "Math", math.Name())
	require.Equal(t, oneAddr, math.Address())
	require.Equal(t, []string{"max", "min", "secret"}, math.FunctionNames())

	sig, public, ok := math.LookupFunction("max")
	require.True(t, ok)
	require.True(t, public)
	require.Equal(t, "(u64, u64): u64", sig.String())

	_, public, ok = math.LookupFunction("secret")
	require.True(t, ok)
	require.False(t, public)

	def, _, ok := math.Module().LookupFunction("max")
	require.True(t, ok)
	require.Equal(t, []bytecode.SignatureToken{bytecode.U64, bytecode.U64}, def.Locals)
	require.Equal(t, []bytecode.Instruction{
		ins(op.CopyLoc, 0),
		ins(op.CopyLoc, 1),
		ins(op.Ge, 0),
		ins(op.BrFalse, 6),
		ins(op.CopyLoc, 0),
		ins(op.Ret, 0),
		ins(op.CopyLoc, 1),
		ins(op.Ret, 0),
	}, def.Code)

	def, _, ok = math.Module().LookupFunction("min")
	require.True(t, ok)
	require.Equal(t, []bytecode.Instruction{
		ins(op.CopyLoc, 0),
		ins(op.CopyLoc, 1),
		ins(op.Le, 0),
		ins(op.BrFalse, 6),
		ins(op.CopyLoc, 0),
		ins(op.Ret, 0),
		ins(op.CopyLoc, 1),
		ins(op.Ret, 0),
	}, def.Code)
}

func TestCompileScriptWithDependency(t *testing.T) {
	math := compileModule(t, oneAddr, mathSource)
	program := compileProgram(t, twoAddr, `
import 0x1.Math;
main(a: u64, b: u64) {
    let c: u64 = Math.max(a, b);
    assert(c >= a, 7);
    return;
}`, math)
	require.Equal(t, 0, program.ModuleCount())

	script := program.Script()
	require.Equal(t, []bytecode.SignatureToken{bytecode.U64, bytecode.U64}, script.Parameters())
	main := script.Main()
	require.Equal(t, []bytecode.SignatureToken{bytecode.U64, bytecode.U64, bytecode.U64}, main.Locals)
	require.Equal(t, []bytecode.Instruction{
		ins(op.CopyLoc, 0),
		ins(op.CopyLoc, 1),
		ins(op.Call, 0),
		ins(op.StLoc, 2),
		ins(op.CopyLoc, 2),
		ins(op.CopyLoc, 0),
		ins(op.Ge, 0),
		ins(op.BrTrue, 10),
		ins(op.LdU64, 7),
		ins(op.Abort, 0),
		ins(op.Ret, 0),
	}, main.Code)

	id, ok := script.ModuleIDAt(0)
	require.True(t, ok)
	require.Equal(t, "0x1.Math", id.String())
	require.Equal(t, "Math.max", script.FunctionName(0))
}

func TestCompileProgramWithLocalModules(t *testing.T) {
	program := compileProgram(t, twoAddr, `
module Counter {
    public fun next(n: u64): u64 {
        return Counter.step(n) + 1;
    }

    fun step(n: u64): u64 {
        return n * 2;
    }
}

module Wallet {
    import 0x2.Counter as C;

    public fun bump(n: u64): u64 {
        return C.next(n);
    }
}

import 0x2.Wallet;
main(n: u64) {
    let x: u64 = Wallet.bump(n);
    if (x > 100) {
        abort(1);
    }
}`)
	require.Equal(t, 2, program.ModuleCount())
	require.Equal(t, "0x2.Counter", program.ModuleAt(0).ID().String())
	require.Equal(t, "0x2.Wallet", program.ModuleAt(1).ID().String())

	main := program.Script().Main()
	require.Equal(t, op.Ret, main.Code[len(main.Code)-1].Op)
}

func TestCompileModuleCallsLaterFunction(t *testing.T) {
	m := compileModule(t, twoAddr, `
module Loop {
    public fun sum(n: u64): u64 {
        let total: u64;
        let i: u64 = 0;
        while (i < n) {
            i = i + 1;
            total = add(total, i);
        }
        return total;
    }

    fun add(a: u64, b: u64): u64 {
        return a + b;
    }
}`)
	def, _, ok := m.Module().LookupFunction("sum")
	require.True(t, ok)
	require.Equal(t, []bytecode.SignatureToken{bytecode.U64, bytecode.U64, bytecode.U64}, def.Locals)
	// let without a value stores the zero value
	require.Equal(t, ins(op.LdU64, 0), def.Code[0])
	require.Equal(t, ins(op.StLoc, 1), def.Code[1])
}

func TestZeroDefaults(t *testing.T) {
	program := compileProgram(t, twoAddr, `
main() {
    let a: address;
    let b: bytearray;
    let c: bool;
    let d: address = 0xcafe;
    let e: bytearray = h"beef";
    if (a == d || c) {
        abort(1);
    }
    if (b != e) {
        return;
    }
}`)
	script := program.Script()
	require.Equal(t, 2, script.AddressCount())
	require.Equal(t, types.ZeroAddress, script.AddressAt(0))
	require.Equal(t, types.MustParseAddress("0xcafe"), script.AddressAt(1))
	require.Equal(t, 2, script.ByteArrayCount())
	require.Equal(t, []byte{}, script.ByteArrayAt(0))
	require.Equal(t, []byte{0xbe, 0xef}, script.ByteArrayAt(1))
	code := script.Main().Code
	require.Equal(t, ins(op.LdAddr, 0), code[0])
	require.Equal(t, ins(op.LdBytes, 0), code[2])
	require.Equal(t, ins(op.LdFalse, 0), code[4])
}

func TestNestedScopes(t *testing.T) {
	program := compileProgram(t, twoAddr, `
main(flag: bool) {
    let x: u64 = 1;
    if (flag) {
        let x: bool = true;
        assert(x, 1);
    } else if (!flag) {
        let y: u64 = x;
        assert(y == 1, 2);
    } else {
        x = 3;
    }
    {
        let z: address = get_txn_sender();
    }
}`)
	main := program.Script().Main()
	require.Equal(t, []bytecode.SignatureToken{
		bytecode.Bool, bytecode.U64, bytecode.Bool, bytecode.U64, bytecode.Address,
	}, main.Locals)
}

func TestVoidCallStatement(t *testing.T) {
	program := compileProgram(t, twoAddr, `
module Log {
    public fun note(v: u64) {
        if (v == 0) {
            abort(9);
        }
    }

    public fun twice(v: u64): u64 {
        return v * 2;
    }
}

import 0x2.Log;
main() {
    Log.note(1);
    Log.twice(2);
}`)
	require.Equal(t, []bytecode.Instruction{
		ins(op.LdU64, 1),
		ins(op.Call, 0),
		ins(op.LdU64, 2),
		ins(op.Call, 1),
		ins(op.Pop, 0),
		ins(op.Ret, 0),
	}, program.Script().Main().Code)
}

func TestNativeFunctions(t *testing.T) {
	src := `
module Account {
    public native fun balance(addr: address): u64;
    native public fun deposit(addr: address, amount: u64);
}`
	m := compileModule(t, zeroAddr, src)
	sig, public, ok := m.LookupFunction("deposit")
	require.True(t, ok)
	require.True(t, public)
	require.Equal(t, "(address, u64)", sig.String())

	def, _, ok := m.Module().LookupFunction("balance")
	require.True(t, ok)
	require.True(t, def.IsNative())
	require.Empty(t, def.Code)
	require.Equal(t, []bytecode.SignatureToken{bytecode.Address}, def.Locals)

	unit := parse(t, src)
	_, err := CompileModule(oneAddr, unit.Modules[0], nil)
	require.Error(t, err)
	var cerr *errors.CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, errors.E2008, cerr.Code)
	require.Equal(t, "balance", cerr.Symbol)
}

func TestCompileErrors(t *testing.T) {
	math := compileModule(t, oneAddr, mathSource)

	tests := []struct {
		name        string
		input       string
		code        errors.ErrorCode
		symbol      string
		msg         string
		line        int
		suggestions []string
	}{
		{
			name:        "undefined variable",
			input:       "main(count: u64) {\n    let x: u64 = cout;\n}",
			code:        errors.E2001,
			symbol:      "cout",
			msg:         "undefined variable cout",
			line:        2,
			suggestions: []string{"count"},
		},
		{
			name:   "undefined function in module",
			input:  "module M {\n    fun f() { missing(); }\n}\nmain() {}",
			code:   errors.E2002,
			symbol: "missing",
			msg:    "undefined function missing in module M",
			line:   2,
		},
		{
			name:   "unqualified call from script",
			input:  "main() {\n    f();\n}",
			code:   errors.E2002,
			symbol: "f",
			msg:    "scripts must call module functions as Module.f",
		},
		{
			name:        "undefined function in dependency",
			input:       "import 0x1.Math;\nmain() {\n    let x: u64 = Math.maxx(1, 2);\n}",
			code:        errors.E2002,
			symbol:      "Math.maxx",
			msg:         "undefined function Math.maxx in module 0x1.Math",
			line:        3,
			suggestions: []string{"max"},
		},
		{
			name:        "unresolved import",
			input:       "import 0x1.Maths;\nmain() {}",
			code:        errors.E2003,
			symbol:      "0x1.Maths",
			msg:         "unresolved module import 0x1.Maths",
			line:        1,
			suggestions: []string{"Math"},
		},
		{
			name:        "module not imported",
			input:       "import 0x1.Math;\nmain() {\n    let x: u64 = Mth.max(1, 2);\n}",
			code:        errors.E2003,
			symbol:      "Mth",
			msg:         "module Mth is not imported",
			suggestions: []string{"Math"},
		},
		{
			name:   "type mismatch in let",
			input:  "main() {\n    let x: bool = 1;\n}",
			code:   errors.E2004,
			symbol: "bool",
			msg:    "type mismatch in initializer of x: expected bool, found u64",
		},
		{
			name:   "type mismatch in argument",
			input:  "import 0x1.Math;\nmain() {\n    let x: u64 = Math.max(1, true);\n}",
			code:   errors.E2004,
			symbol: "u64",
			msg:    "argument 2 of Math.max: expected u64, found bool",
		},
		{
			name:   "comparing different types",
			input:  "main(a: address) {\n    assert(a == 1, 1);\n}",
			code:   errors.E2004,
			symbol: "address",
			msg:    "right operand of ==: expected address, found u64",
		},
		{
			name:   "void call in expression",
			input:  "module M {\n    public fun f() {}\n}\nimport 0x2.M;\nmain() {\n    let x: u64 = M.f();\n}",
			code:   errors.E2004,
			symbol: "M.f",
			msg:    "M.f does not return a value",
		},
		{
			name:   "return value from main",
			input:  "main() {\n    return 1;\n}",
			code:   errors.E2004,
			symbol: "main",
			msg:    "function main cannot return a value",
		},
		{
			name:   "return value from void function",
			input:  "module M {\n    fun f() { return 2; }\n}\nmain() {}",
			code:   errors.E2004,
			symbol: "f",
			msg:    "function f cannot return a value",
			line:   2,
		},
		{
			name:   "argument count",
			input:  "import 0x1.Math;\nmain() {\n    let x: u64 = Math.max(1);\n}",
			code:   errors.E2005,
			symbol: "Math.max",
			msg:    "Math.max expects 2 arguments, found 1",
		},
		{
			name:   "duplicate function",
			input:  "module M {\n    fun f() {}\n    fun f() {}\n}\nmain() {}",
			code:   errors.E2006,
			symbol: "f",
			msg:    "function f is defined more than once in module M",
			line:   3,
		},
		{
			name:   "duplicate variable",
			input:  "main() {\n    let x: u64 = 1;\n    let x: u64 = 2;\n}",
			code:   errors.E2006,
			symbol: "x",
			msg:    "variable x is already declared in this block",
			line:   3,
		},
		{
			name:   "duplicate parameter",
			input:  "main(a: u64, a: bool) {}",
			code:   errors.E2006,
			symbol: "a",
		},
		{
			name:   "duplicate module",
			input:  "module M {}\nmodule M {}\nmain() {}",
			code:   errors.E2006,
			symbol: "0x2.M",
			msg:    "module 0x2.M is declared more than once",
			line:   2,
		},
		{
			name:   "missing return",
			input:  "module M {\n    fun f(a: u64): u64 {\n        if (a > 1) { return 1; }\n    }\n}\nmain() {}",
			code:   errors.E2007,
			symbol: "f",
			msg:    "function f must end with a return statement returning u64",
		},
		{
			name:   "native outside zero address",
			input:  "module M {\n    native fun f();\n}\nmain() {}",
			code:   errors.E2008,
			symbol: "f",
		},
		{
			name:   "private function",
			input:  "import 0x1.Math;\nmain() {\n    let x: u64 = Math.secret();\n}",
			code:   errors.E2011,
			symbol: "Math.secret",
			msg:    "function secret of module 0x1.Math is not public",
		},
		{
			name:   "missing script",
			input:  "module M {}",
			code:   errors.E2009,
			msg:    "no main function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cerr := compileErr(t, tt.input, math)
			require.Equal(t, tt.code, cerr.Code)
			require.Equal(t, tt.symbol, cerr.Symbol)
			if tt.msg != "" {
				require.Contains(t, cerr.Message, tt.msg)
			}
			if tt.line > 0 {
				require.Equal(t, tt.line, cerr.Line)
				require.Equal(t, "test.lir", cerr.Filename)
				require.NotEmpty(t, cerr.SourceLine)
			}
			var got []string
			for _, s := range cerr.Suggestions {
				got = append(got, s.Value)
			}
			require.Equal(t, tt.suggestions, got)
		})
	}
}

func TestErrorPosition(t *testing.T) {
	cerr := compileErr(t, "main() {\n    let total: u64 = amount;\n}")
	require.Equal(t, 2, cerr.Line)
	require.Equal(t, 22, cerr.Column)
	require.Equal(t, 28, cerr.EndColumn)
	require.Equal(t, "    let total: u64 = amount;", cerr.SourceLine)
}

func TestBaselineSymbolWithoutDependency(t *testing.T) {
	cerr := compileErr(t, "import 0x1.Math;\nmain() {\n    let x: u64 = Math.max(1, 2);\n}")
	require.Equal(t, errors.E2003, cerr.Code)
	require.Equal(t, "0x1.Math", cerr.Symbol)
}

func TestFirstMatchWins(t *testing.T) {
	first := compileModule(t, oneAddr, `
module Math {
    public fun max(a: u64, b: u64): u64 { return a; }
}`)
	second := compileModule(t, oneAddr, `
module Math {
    public fun max(a: bool, b: bool): bool { return a; }
}`)
	program := compileProgram(t, twoAddr, `
import 0x1.Math;
main() {
    let x: u64 = Math.max(1, 2);
}`, first, second)
	require.Equal(t, "(u64, u64): u64", program.Script().SignatureAt(0).String())

	cerr := compileErr(t, "import 0x1.Math;\nmain() {\n    let x: u64 = Math.max(1, 2);\n}", second, first)
	require.Equal(t, errors.E2004, cerr.Code)
}

func TestModuleShadowsDependency(t *testing.T) {
	math := compileModule(t, twoAddr, mathSource)
	cerr := compileErr(t, "module Math {\n    public fun one(): u64 { return 1; }\n}\nimport 0x2.Math;\nmain() {}", math)
	require.Equal(t, errors.E2006, cerr.Code)
	require.Equal(t, "0x2.Math", cerr.Symbol)
	require.Equal(t, "module 0x2.Math is already provided by a dependency", cerr.Message)
	require.Equal(t, 1, cerr.Line)

	unit := parse(t, mathSource)
	_, err := CompileModule(twoAddr, unit.Modules[0], []*verifier.VerifiedModule{math})
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, errors.E2006, cerr.Code)

	// the same name under another address is a different module
	compileModule(t, oneAddr, mathSource, math)
}

func TestDeterministicOutput(t *testing.T) {
	math := compileModule(t, oneAddr, mathSource)
	src := `
module Pair {
    import 0x1.Math;
    public fun spread(a: u64, b: u64): u64 {
        return Math.max(a, b) - Math.min(a, b);
    }
}
import 0x2.Pair;
import 0x1.Math as M;
main(a: u64, b: u64) {
    assert(Pair.spread(a, b) <= M.max(a, b), 3);
}`
	first := compileProgram(t, twoAddr, src, math)
	second := compileProgram(t, twoAddr, src, math)
	require.True(t, first.Equal(second))

	a, err := bytecode.SerializeScript(first.Script())
	require.Nil(t, err)
	b, err := bytecode.SerializeScript(second.Script())
	require.Nil(t, err)
	require.Equal(t, a, b)

	ma, err := bytecode.SerializeModules(first.Modules())
	require.Nil(t, err)
	mb, err := bytecode.SerializeModules(second.Modules())
	require.Nil(t, err)
	require.Equal(t, ma, mb)
}

func TestModuleRoundTrip(t *testing.T) {
	m := compileModule(t, oneAddr, mathSource).Module()
	data, err := bytecode.SerializeModule(m)
	require.Nil(t, err)
	decoded, err := bytecode.DeserializeModule(data)
	require.Nil(t, err)
	require.True(t, m.Equal(decoded))
}

func TestTooManyParameters(t *testing.T) {
	params := ""
	for i := 0; i < MaxArgs+1; i++ {
		if i > 0 {
			params += ", "
		}
		params += "p" + string(rune('a'+i%26)) + string(rune('a'+i/26)) + ": u64"
	}
	cerr := compileErr(t, "module M {\n    fun f("+params+") {}\n}\nmain() {}")
	require.Equal(t, errors.E2012, cerr.Code)
	require.Equal(t, "f", cerr.Symbol)
}
