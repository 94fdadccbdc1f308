package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/lirc"
	"github.com/deepnoodle-ai/lirc/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func (a *app) payloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payload [file]",
		Short: "Build a transaction payload from a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runPayload,
	}
	cmd.Flags().String("args", "", `script arguments as a JSON array, e.g. '[{"type":"u64","value":"5"}]'`)
	cmd.Flags().String("out", "", "write the serialized payload to this file")
	return cmd
}

type argumentView struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type payloadView struct {
	Script  string         `json:"script"`
	Modules []string       `json:"modules"`
	Args    []argumentView `json:"args"`
}

func viewPayload(p *types.TransactionPayload) payloadView {
	v := payloadView{
		Script:  hex.EncodeToString(p.Script()),
		Modules: []string{},
		Args:    []argumentView{},
	}
	for _, m := range p.Modules() {
		v.Modules = append(v.Modules, hex.EncodeToString(m))
	}
	for _, arg := range p.Args() {
		v.Args = append(v.Args, argumentView{Type: arg.Kind().String(), Value: argText(arg)})
	}
	return v
}

// argText is the inverse of types.ParseArgument.
func argText(arg types.TransactionArgument) string {
	switch arg.Kind() {
	case types.ArgU64:
		return strconv.FormatUint(arg.U64(), 10)
	case types.ArgBool:
		return strconv.FormatBool(arg.Bool())
	case types.ArgAddress:
		return arg.Address().ShortString()
	case types.ArgBytes:
		return hex.EncodeToString(arg.Bytes())
	}
	return arg.Str()
}

func (a *app) runPayload(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	argsText, _ := cmd.Flags().GetString("args")
	txnArgs, err := parseArgs(argsText)
	if err != nil {
		return err
	}
	result, err := a.compileProgram(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	payload, err := lirc.BuildPayload(result.Program, txnArgs)
	if err != nil {
		return err
	}
	blob := payload.Serialize()
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := a.writeFile(out, blob); err != nil {
			return err
		}
	}
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(viewPayload(payload), "", "  ")
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	case "hex":
		return writeHex(w, blob)
	}
	fmt.Fprintf(w, "script:  %d bytes\n", len(payload.Script()))
	for i, m := range payload.Modules() {
		fmt.Fprintf(w, "module %d: %d bytes\n", i, len(m))
	}
	for i, arg := range payload.Args() {
		fmt.Fprintf(w, "arg %d:   %s\n", i, arg)
	}
	fmt.Fprintf(w, "payload: %d bytes\n", len(blob))
	return nil
}
