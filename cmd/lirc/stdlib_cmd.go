package main

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/lirc/internal/table"
	"github.com/deepnoodle-ai/lirc/stdlib"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func (a *app) stdlibCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdlib [module]",
		Short: "List the baseline modules, or print the source of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runStdlib,
	}
}

type stdlibFunction struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Public    bool   `json:"public"`
	Native    bool   `json:"native"`
}

type stdlibModule struct {
	ID        string           `json:"id"`
	Functions []stdlibFunction `json:"functions"`
}

func (a *app) runStdlib(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		src, ok := stdlib.Source(args[0])
		if !ok {
			return fmt.Errorf("no baseline module named %q", args[0])
		}
		fmt.Fprint(w, src)
		return nil
	}
	format, err := a.outputFormat()
	if err != nil {
		return err
	}

	var modules []stdlibModule
	for _, vm := range stdlib.Modules() {
		m := vm.Module()
		entry := stdlibModule{ID: m.ID().String()}
		for i := 0; i < m.FunctionCount(); i++ {
			name := m.FunctionDefName(i)
			fn, sig, _ := m.LookupFunction(name)
			entry.Functions = append(entry.Functions, stdlibFunction{
				Name:      name,
				Signature: sig.String(),
				Public:    fn.IsPublic(),
				Native:    fn.IsNative(),
			})
		}
		modules = append(modules, entry)
	}

	if format == "json" {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(modules, "", "  ")
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	}
	t := table.NewTable(w).WithHeader([]string{"Module", "Function", "Signature", "Flags"})
	for _, m := range modules {
		for _, fn := range m.Functions {
			var flags []string
			if fn.Public {
				flags = append(flags, "public")
			}
			if fn.Native {
				flags = append(flags, "native")
			}
			t.Append([]string{m.ID, fn.Name, fn.Signature, strings.Join(flags, " ")})
		}
	}
	t.Render()
	return nil
}
