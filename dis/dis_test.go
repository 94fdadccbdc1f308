package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/compiler"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/parser"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *bytecode.CompiledProgram {
	t.Helper()
	unit, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	program, err := compiler.CompileProgram(types.MustParseAddress("0x2"), unit, nil)
	require.Nil(t, err)
	return program
}

func TestFunctionDisassembly(t *testing.T) {
	program := compile(t, `
module Util {
    public fun pick(flag: bool, who: address): address {
        let other: address = 0xbeef;
        if (flag) {
            return who;
        }
        return other;
    }
}
main() {}`)
	m := program.ModuleAt(0)
	fn, _, ok := m.LookupFunction("pick")
	require.True(t, ok)
	instructions, err := Disassemble(fn, m)
	require.Nil(t, err)

	var buf bytes.Buffer
	Print(instructions, &buf)
	expected := strings.TrimSpace(`
+--------+----------+----------+---------+
| Offset |  Opcode  | Operands |  Info   |
+--------+----------+----------+---------+
|      0 | LD_ADDR  |        1 | 0xbeef  |
|      1 | ST_LOC   |        2 | address |
|      2 | COPY_LOC |        0 | bool    |
|      3 | BR_FALSE |        6 | -> 6    |
|      4 | COPY_LOC |        1 | address |
|      5 | RET      |          |         |
|      6 | COPY_LOC |        2 | address |
|      7 | RET      |          |         |
+--------+----------+----------+---------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestProgramListing(t *testing.T) {
	program := compile(t, `
module Log {
    public fun note(data: bytearray) {}
    fun twice(n: u64): u64 { return n * 2; }
}
import 0x2.Log;
main(n: u64) {
    Log.note(h"00ff");
    assert(n > 3, 7);
}`)
	var buf bytes.Buffer
	require.Nil(t, Program(program, &buf))
	out := buf.String()
	require.Contains(t, out, "module 0x2.Log")
	require.Contains(t, out, "public fun note(bytearray)")
	require.Contains(t, out, "fun twice(u64): u64")
	require.Contains(t, out, "script\n\nmain(u64)")
	require.Contains(t, out, `h"00ff"`)
	require.Contains(t, out, "Log.note")
	require.Contains(t, out, "BR_TRUE")
}

func TestNativeListing(t *testing.T) {
	unit, err := parser.Parse(context.Background(), `
module Account {
    public native fun balance(addr: address): u64;
}`)
	require.Nil(t, err)
	m, err := compiler.CompileModule(types.ZeroAddress, unit.Modules[0], nil)
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, Module(m, &buf))
	require.Equal(t, "module 0x0.Account\n\npublic native fun balance(address): u64\n", buf.String())
}

func TestUnknownOpcode(t *testing.T) {
	fn := bytecode.FunctionDef{Code: []bytecode.Instruction{{Op: op.Code(250)}}}
	_, err := Disassemble(fn, bytecode.NewScript(bytecode.ScriptParams{}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown opcode 250")
}
