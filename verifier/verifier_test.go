package verifier

import (
	"testing"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func ins(code op.Code, arg ...uint64) bytecode.Instruction {
	i := bytecode.Instruction{Op: code}
	if len(arg) > 0 {
		i.Arg = arg[0]
	}
	return i
}

// mathModule is 0x1.Math with `public fun max(a: u64, b: u64): u64`.
func mathModule(code ...bytecode.Instruction) *bytecode.CompiledModule {
	if len(code) == 0 {
		code = []bytecode.Instruction{
			ins(op.CopyLoc, 0),
			ins(op.CopyLoc, 1),
			ins(op.Ge),
			ins(op.BrFalse, 6),
			ins(op.CopyLoc, 0),
			ins(op.Ret),
			ins(op.CopyLoc, 1),
			ins(op.Ret),
		}
	}
	return bytecode.NewModule(bytecode.ModuleParams{
		Tables: bytecode.Tables{
			ModuleHandles:   []bytecode.ModuleHandle{{Address: 0, Name: 0}},
			FunctionHandles: []bytecode.FunctionHandle{{Module: 0, Name: 1, Signature: 0}},
			Signatures: []bytecode.FunctionSignature{{
				Params:  []bytecode.SignatureToken{bytecode.U64, bytecode.U64},
				Returns: []bytecode.SignatureToken{bytecode.U64},
			}},
			Identifiers: []string{"Math", "max"},
			Addresses:   []types.Address{types.MustParseAddress("0x1")},
		},
		Functions: []bytecode.FunctionDef{{
			Handle: 0,
			Flags:  bytecode.FlagPublic,
			Locals: []bytecode.SignatureToken{bytecode.U64, bytecode.U64},
			Code:   code,
		}},
	})
}

func TestVerifyModule(t *testing.T) {
	vm, err := VerifyModule(mathModule())
	require.NoError(t, err)
	require.Equal(t, "Math", vm.Name())
	require.Equal(t, types.MustParseAddress("0x1"), vm.Address())
	require.Equal(t, "0x1.Math", vm.String())
	require.Equal(t, []string{"max"}, vm.FunctionNames())

	sig, public, ok := vm.LookupFunction("max")
	require.True(t, ok)
	require.True(t, public)
	require.Equal(t, "(u64, u64): u64", sig.String())

	_, _, ok = vm.LookupFunction("min")
	require.False(t, ok)
}

func TestVerifiedModuleCopies(t *testing.T) {
	vm, err := VerifyModule(mathModule())
	require.NoError(t, err)
	a := vm.Module()
	b := vm.Module()
	require.NotSame(t, a, b)
	require.True(t, a.Equal(b))
}

func TestVerifyModuleRejects(t *testing.T) {
	tests := []struct {
		name string
		code []bytecode.Instruction
		msg  string
	}{
		{"local out of range", []bytecode.Instruction{ins(op.CopyLoc, 7), ins(op.Ret)}, "local index 7 out of range"},
		{"underflow", []bytecode.Instruction{ins(op.Add), ins(op.Ret)}, "stack underflow"},
		{"type mismatch", []bytecode.Instruction{ins(op.LdTrue), ins(op.LdU64, 1), ins(op.Add), ins(op.Ret)}, "expected u64 on the stack, found bool"},
		{"bad return", []bytecode.Instruction{ins(op.LdTrue), ins(op.Ret)}, "does not match return types"},
		{"fall off end", []bytecode.Instruction{ins(op.LdU64, 1)}, "past the end"},
		{"branch target", []bytecode.Instruction{ins(op.Branch, 99)}, "branch target 99 out of range"},
		{"unbalanced merge", []bytecode.Instruction{
			ins(op.LdTrue),
			ins(op.BrTrue, 3),
			ins(op.LdU64, 1),
			ins(op.LdU64, 2),
			ins(op.Ret),
		}, "inconsistent stack"},
		{"call out of range", []bytecode.Instruction{ins(op.Call, 4), ins(op.Ret)}, "function handle 4 out of range"},
		{"address out of range", []bytecode.Instruction{ins(op.LdAddr, 3), ins(op.Pop), ins(op.LdU64, 0), ins(op.Ret)}, "address index 3 out of range"},
		{"unknown opcode", []bytecode.Instruction{ins(op.Code(99))}, "unknown opcode 99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyModule(mathModule(tt.code...))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
			require.Contains(t, err.Error(), "module 0x1.Math, function max")
			var verr *Error
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestVerifyTables(t *testing.T) {
	tbl := mathModule().Tables()
	tbl.FunctionHandles = append(tbl.FunctionHandles, bytecode.FunctionHandle{Module: 5, Name: 9, Signature: 9})
	bad := bytecode.NewModule(bytecode.ModuleParams{Tables: tbl})
	_, err := VerifyModule(bad)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Equal(t, 3, merr.Len())
	require.Contains(t, err.Error(), "3 errors")

	_, err = VerifyModule(bytecode.NewModule(bytecode.ModuleParams{}))
	require.ErrorContains(t, err, "missing self module handle")
}

func TestVerifyDuplicateFunction(t *testing.T) {
	m := mathModule()
	tbl := m.Tables()
	tbl.FunctionHandles = append(tbl.FunctionHandles, bytecode.FunctionHandle{Module: 0, Name: 1, Signature: 0})
	def := m.FunctionAt(0)
	def2 := m.FunctionAt(0)
	def2.Handle = 1
	dup := bytecode.NewModule(bytecode.ModuleParams{Tables: tbl, Functions: []bytecode.FunctionDef{def, def2}})
	_, err := VerifyModule(dup)
	require.ErrorContains(t, err, "duplicate function name")
}

func TestVerifyNative(t *testing.T) {
	m := mathModule()
	def := m.FunctionAt(0)
	def.Flags |= bytecode.FlagNative
	withBody := bytecode.NewModule(bytecode.ModuleParams{Tables: m.Tables(), Functions: []bytecode.FunctionDef{def}})
	_, err := VerifyModule(withBody)
	require.ErrorContains(t, err, "native function has a body")

	def.Code = nil
	native := bytecode.NewModule(bytecode.ModuleParams{Tables: m.Tables(), Functions: []bytecode.FunctionDef{def}})
	_, err = VerifyModule(native)
	require.NoError(t, err)
}

func TestVerifyScript(t *testing.T) {
	tbl := mathModule().Tables()
	tbl.Identifiers = []string{"Math", "max"}
	script := bytecode.NewScript(bytecode.ScriptParams{
		Tables:     tbl,
		Parameters: []bytecode.SignatureToken{bytecode.U64},
		Main: bytecode.FunctionDef{
			Locals: []bytecode.SignatureToken{bytecode.U64},
			Code: []bytecode.Instruction{
				ins(op.CopyLoc, 0),
				ins(op.LdU64, 10),
				ins(op.Call, 0),
				ins(op.Pop),
				ins(op.Ret),
			},
		},
	})
	require.NoError(t, VerifyScript(script))

	leaky := bytecode.NewScript(bytecode.ScriptParams{
		Tables: tbl,
		Main: bytecode.FunctionDef{Code: []bytecode.Instruction{
			ins(op.LdU64, 1),
			ins(op.Ret),
		}},
	})
	require.ErrorContains(t, VerifyScript(leaky), "does not match return types")

	params := bytecode.NewScript(bytecode.ScriptParams{
		Tables:     tbl,
		Parameters: []bytecode.SignatureToken{bytecode.Bool},
		Main:       bytecode.FunctionDef{Code: []bytecode.Instruction{ins(op.Ret)}},
	})
	require.ErrorContains(t, VerifyScript(params), "cannot hold 1 parameters")
}
