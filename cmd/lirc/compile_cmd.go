package main

import (
	"context"

	"github.com/deepnoodle-ai/lirc"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/dis"
	"github.com/spf13/cobra"
)

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a program and print its artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runCompile,
	}
	cmd.Flags().String("out", "", "write the serialized script to this file")
	return cmd
}

// compileProgram compiles the input as a program, linking against --dep
// modules when any are given.
func (a *app) compileProgram(ctx context.Context, cmd *cobra.Command, args []string) (*lirc.ProgramResult, error) {
	src, filename, err := a.source(cmd, args)
	if err != nil {
		return nil, err
	}
	cfg, err := a.config(src, filename)
	if err != nil {
		return nil, err
	}
	deps, err := a.deps()
	if err != nil {
		return nil, err
	}
	if len(deps) > 0 {
		return lirc.CompileProgramWithDeps(ctx, cfg, deps)
	}
	return lirc.CompileProgram(ctx, cfg)
}

func (a *app) runCompile(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	result, err := a.compileProgram(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	program := result.Program
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		blob, err := bytecode.SerializeScript(program.Script())
		if err != nil {
			return err
		}
		if err := a.writeFile(out, blob); err != nil {
			return err
		}
	}
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := bytecode.MarshalJSON(program)
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	case "hex":
		script, err := bytecode.SerializeScript(program.Script())
		if err != nil {
			return err
		}
		modules, err := bytecode.SerializeModules(program.Modules())
		if err != nil {
			return err
		}
		return writeHex(w, append([][]byte{script}, modules...)...)
	}
	return dis.Program(program, w)
}
