package main

import (
	"github.com/deepnoodle-ai/lirc"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/dis"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/spf13/cobra"
)

func (a *app) moduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module [file]",
		Short: "Compile exactly one module",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runModule,
	}
	cmd.Flags().String("out", "", "write the serialized module to this file")
	return cmd
}

func (a *app) runModule(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	src, filename, err := a.source(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := a.config(src, filename)
	if err != nil {
		return err
	}
	deps, err := a.deps()
	if err != nil {
		return err
	}
	verified := make([]*verifier.VerifiedModule, 0, len(deps))
	for _, m := range deps {
		vm, err := verifier.VerifyModule(m)
		if err != nil {
			return err
		}
		verified = append(verified, vm)
	}
	if err := cfg.SetExtraDeps(verified); err != nil {
		return err
	}
	result, err := lirc.CompileModule(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	blob, err := bytecode.SerializeModule(result.Module)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := a.writeFile(out, blob); err != nil {
			return err
		}
	}
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := bytecode.MarshalJSON(result.Module)
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	case "hex":
		return writeHex(w, blob)
	}
	return dis.Module(result.Module, w)
}
