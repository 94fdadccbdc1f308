package bytecode

import (
	"encoding/hex"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type functionView struct {
	Name      string   `json:"name"`
	Signature string   `json:"signature"`
	Public    bool     `json:"public,omitempty"`
	Native    bool     `json:"native,omitempty"`
	Locals    []string `json:"locals,omitempty"`
	Code      []string `json:"code,omitempty"`
}

type tablesView struct {
	Imports    []string `json:"imports"`
	Functions  []string `json:"function_handles"`
	Addresses  []string `json:"addresses,omitempty"`
	ByteArrays []string `json:"byte_arrays,omitempty"`
}

type moduleView struct {
	Kind    string `json:"kind"`
	Address string `json:"address"`
	Name    string `json:"name"`
	tablesView
	Definitions []functionView `json:"functions"`
}

type scriptView struct {
	Kind string `json:"kind"`
	tablesView
	Main functionView `json:"main"`
}

type programView struct {
	Kind    string       `json:"kind"`
	Script  scriptView   `json:"script"`
	Modules []moduleView `json:"modules"`
}

// MarshalJSON renders a *CompiledModule, *CompiledScript or *CompiledProgram
// as indented JSON for inspection. The view is lossy and is not a
// serialization format.
func MarshalJSON(artifact any) ([]byte, error) {
	var view any
	switch a := artifact.(type) {
	case *CompiledModule:
		view = viewModule(a)
	case *CompiledScript:
		view = viewScript(a)
	case *CompiledProgram:
		pv := programView{Kind: "program", Script: viewScript(a.script), Modules: []moduleView{}}
		for _, m := range a.modules {
			pv.Modules = append(pv.Modules, viewModule(m))
		}
		view = pv
	default:
		return nil, fmt.Errorf("bytecode: cannot marshal %T", artifact)
	}
	return json.MarshalIndent(view, "", "  ")
}

func viewTables(t *tables, skipSelf bool) tablesView {
	v := tablesView{Imports: []string{}, Functions: []string{}}
	for i := range t.moduleHandles {
		if skipSelf && i == 0 {
			continue
		}
		if id, ok := t.ModuleIDAt(i); ok {
			v.Imports = append(v.Imports, id.String())
		}
	}
	for i := range t.functionHandles {
		v.Functions = append(v.Functions, t.FunctionName(i))
	}
	for _, a := range t.addresses {
		v.Addresses = append(v.Addresses, a.ShortString())
	}
	for _, b := range t.byteArrays {
		v.ByteArrays = append(v.ByteArrays, hex.EncodeToString(b))
	}
	return v
}

func viewFunction(name string, sig FunctionSignature, fn FunctionDef) functionView {
	v := functionView{
		Name:      name,
		Signature: sig.String(),
		Public:    fn.IsPublic(),
		Native:    fn.IsNative(),
	}
	for _, l := range fn.Locals {
		v.Locals = append(v.Locals, l.String())
	}
	for _, ins := range fn.Code {
		v.Code = append(v.Code, ins.String())
	}
	return v
}

func viewModule(m *CompiledModule) moduleView {
	v := moduleView{
		Kind:        "module",
		Address:     m.Address().ShortString(),
		Name:        m.Name(),
		tablesView:  viewTables(&m.tables, true),
		Definitions: []functionView{},
	}
	for i, fn := range m.functions {
		var sig FunctionSignature
		if int(fn.Handle) < len(m.functionHandles) {
			if s := int(m.functionHandles[fn.Handle].Signature); s < len(m.signatures) {
				sig = m.signatures[s]
			}
		}
		v.Definitions = append(v.Definitions, viewFunction(m.FunctionDefName(i), sig, fn))
	}
	return v
}

func viewScript(s *CompiledScript) scriptView {
	return scriptView{
		Kind:       "script",
		tablesView: viewTables(&s.tables, false),
		Main:       viewFunction("main", FunctionSignature{Params: s.params}, s.main),
	}
}
