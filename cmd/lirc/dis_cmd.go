package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/lirc"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/dis"
	"github.com/spf13/cobra"
)

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble source or serialized bytecode",
		Long: `Disassemble prints an instruction listing. The input may be Ledger IR
source, compiled as a program (or as a single module with --module), or a
serialized module or script produced by the other commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runDis,
	}
	cmd.Flags().Bool("module", false, "compile the source as a single module")
	cmd.Flags().String("func", "", "disassemble only this module function")
	return cmd
}

func (a *app) runDis(cmd *cobra.Command, args []string) error {
	data, filename, err := a.input(cmd, args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	funcName, _ := cmd.Flags().GetString("func")

	if kind, err := bytecode.PeekKind(data); err == nil {
		switch kind {
		case bytecode.KindModule:
			m, err := bytecode.DeserializeModule(data)
			if err != nil {
				return err
			}
			return disModule(m, funcName, w)
		case bytecode.KindScript:
			s, err := bytecode.DeserializeScript(data)
			if err != nil {
				return err
			}
			return dis.Script(s, w)
		}
		return fmt.Errorf("unknown artifact kind %d", kind)
	}

	cfg, err := a.config(string(data), filename)
	if err != nil {
		return err
	}
	if asModule, _ := cmd.Flags().GetBool("module"); asModule {
		result, err := lirc.CompileModule(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return disModule(result.Module, funcName, w)
	}
	if funcName != "" {
		return errors.New("--func requires a module (use --module or a serialized module)")
	}
	result, err := lirc.CompileProgram(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return dis.Program(result.Program, w)
}

func disModule(m *bytecode.CompiledModule, funcName string, w io.Writer) error {
	if funcName == "" {
		return dis.Module(m, w)
	}
	fn, _, ok := m.LookupFunction(funcName)
	if !ok {
		return fmt.Errorf("function %q not found in module %s", funcName, m.ID())
	}
	if fn.IsNative() {
		return fmt.Errorf("function %q is native and has no code", funcName)
	}
	instructions, err := dis.Disassemble(fn, m)
	if err != nil {
		return err
	}
	dis.Print(instructions, w)
	return nil
}
