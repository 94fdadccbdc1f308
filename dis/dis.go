// Package dis renders compiled Ledger IR artifacts as readable listings.
package dis

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/internal/table"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/types"
)

// Pools resolves the table indices used as instruction operands. Compiled
// modules and scripts implement it.
type Pools interface {
	FunctionName(i int) string
	AddressCount() int
	AddressAt(i int) types.Address
	ByteArrayCount() int
	ByteArrayAt(i int) []byte
}

// Instruction is one disassembled instruction.
type Instruction struct {
	Offset   int
	Name     string
	Operands []uint64
	Info     string
}

// Disassemble decodes the code of fn, annotating operands with the values
// they refer to.
func Disassemble(fn bytecode.FunctionDef, pools Pools) ([]Instruction, error) {
	out := make([]Instruction, 0, len(fn.Code))
	for pc, ins := range fn.Code {
		info := op.GetInfo(ins.Op)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", uint8(ins.Op), pc)
		}
		d := Instruction{Offset: pc, Name: info.Name}
		if info.OperandCount > 0 {
			d.Operands = []uint64{ins.Arg}
			d.Info = describe(ins, fn.Locals, pools)
		}
		out = append(out, d)
	}
	return out, nil
}

func describe(ins bytecode.Instruction, locals []bytecode.SignatureToken, pools Pools) string {
	switch ins.Op {
	case op.Call:
		return pools.FunctionName(int(ins.Arg))
	case op.LdU64:
		return strconv.FormatUint(ins.Arg, 10)
	case op.LdAddr:
		if ins.Arg < uint64(pools.AddressCount()) {
			return pools.AddressAt(int(ins.Arg)).ShortString()
		}
	case op.LdBytes:
		if ins.Arg < uint64(pools.ByteArrayCount()) {
			return `h"` + hex.EncodeToString(pools.ByteArrayAt(int(ins.Arg))) + `"`
		}
	case op.CopyLoc, op.StLoc:
		if ins.Arg < uint64(len(locals)) {
			return locals[ins.Arg].String()
		}
	case op.Branch, op.BrTrue, op.BrFalse:
		return "-> " + strconv.FormatUint(ins.Arg, 10)
	}
	return "?"
}

// Print writes the instructions as a table.
func Print(instructions []Instruction, w io.Writer) {
	t := table.NewTable(w)
	t.WithHeader([]string{"Offset", "Opcode", "Operands", "Info"})
	t.WithHeaderAlignment([]table.Alignment{
		table.AlignCenter,
		table.AlignCenter,
		table.AlignCenter,
		table.AlignCenter,
	})
	t.WithColumnAlignment([]table.Alignment{
		table.AlignRight,
		table.AlignLeft,
		table.AlignRight,
		table.AlignLeft,
	})
	for _, ins := range instructions {
		var operands []string
		for _, o := range ins.Operands {
			operands = append(operands, strconv.FormatUint(o, 10))
		}
		t.Append([]string{
			strconv.Itoa(ins.Offset),
			ins.Name,
			strings.Join(operands, ", "),
			ins.Info,
		})
	}
	t.Render()
}

func signatureLine(name string, sig bytecode.FunctionSignature, fn bytecode.FunctionDef) string {
	var mods []string
	if fn.IsPublic() {
		mods = append(mods, "public")
	}
	if fn.IsNative() {
		mods = append(mods, "native")
	}
	mods = append(mods, "fun", name+sig.String())
	return strings.Join(mods, " ")
}

func localsLine(fn bytecode.FunctionDef, params int) string {
	if len(fn.Locals) <= params {
		return ""
	}
	extra := make([]string, 0, len(fn.Locals)-params)
	for i, l := range fn.Locals[params:] {
		extra = append(extra, fmt.Sprintf("%d: %s", params+i, l))
	}
	return "locals " + strings.Join(extra, ", ")
}

// Module writes a listing of every function of m.
func Module(m *bytecode.CompiledModule, w io.Writer) error {
	fmt.Fprintf(w, "module %s\n", m.ID())
	for i := 0; i < m.FunctionCount(); i++ {
		name := m.FunctionDefName(i)
		fn, sig, ok := m.LookupFunction(name)
		if !ok {
			return fmt.Errorf("function %d: unresolved signature", i)
		}
		fmt.Fprintf(w, "\n%s\n", signatureLine(name, sig, fn))
		if fn.IsNative() {
			continue
		}
		if line := localsLine(fn, len(sig.Params)); line != "" {
			fmt.Fprintln(w, line)
		}
		instructions, err := Disassemble(fn, m)
		if err != nil {
			return fmt.Errorf("function %s: %w", name, err)
		}
		Print(instructions, w)
	}
	return nil
}

// Script writes a listing of the script's main function.
func Script(s *bytecode.CompiledScript, w io.Writer) error {
	main := s.Main()
	sig := bytecode.FunctionSignature{Params: s.Parameters()}
	fmt.Fprintf(w, "script\n\nmain%s\n", sig)
	if line := localsLine(main, len(sig.Params)); line != "" {
		fmt.Fprintln(w, line)
	}
	instructions, err := Disassemble(main, s)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}
	Print(instructions, w)
	return nil
}

// Program writes listings of the program's modules followed by its script.
func Program(p *bytecode.CompiledProgram, w io.Writer) error {
	for _, m := range p.Modules() {
		if err := Module(m, w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return Script(p.Script(), w)
}
