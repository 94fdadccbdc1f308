package bytecode

import "github.com/deepnoodle-ai/lirc/types"

// CompiledModule is a compiled module. Module handle 0 is the module itself:
// the address and name the module is published under.
type CompiledModule struct {
	tables
	functions []FunctionDef
}

// ModuleParams contains parameters for creating a new CompiledModule.
type ModuleParams struct {
	Tables
	Functions []FunctionDef
}

// NewModule creates a new immutable CompiledModule from the given parameters.
// Input slices are copied.
func NewModule(params ModuleParams) *CompiledModule {
	return &CompiledModule{
		tables:    newTables(params.Tables),
		functions: copyFunctions(params.Functions),
	}
}

// ID returns the address and name of the module, taken from its self handle.
func (m *CompiledModule) ID() ModuleID {
	id, _ := m.ModuleIDAt(0)
	return id
}

// Address returns the address the module is published under.
func (m *CompiledModule) Address() types.Address {
	return m.ID().Address
}

// Name returns the module name.
func (m *CompiledModule) Name() string {
	return m.ID().Name
}

// FunctionCount returns the number of function definitions.
func (m *CompiledModule) FunctionCount() int {
	return len(m.functions)
}

// FunctionAt returns a copy of the function definition at the given index.
func (m *CompiledModule) FunctionAt(i int) FunctionDef {
	return m.functions[i].clone()
}

// FunctionDefName returns the name of function definition i.
func (m *CompiledModule) FunctionDefName(i int) string {
	h := int(m.functions[i].Handle)
	if h >= len(m.functionHandles) || int(m.functionHandles[h].Name) >= len(m.identifiers) {
		return ""
	}
	return m.identifiers[m.functionHandles[h].Name]
}

// LookupFunction finds the definition of the named function.
func (m *CompiledModule) LookupFunction(name string) (FunctionDef, FunctionSignature, bool) {
	for i, fn := range m.functions {
		if m.FunctionDefName(i) != name {
			continue
		}
		h := m.functionHandles[fn.Handle]
		if int(h.Signature) >= len(m.signatures) {
			return FunctionDef{}, FunctionSignature{}, false
		}
		return fn.clone(), m.signatures[h.Signature].Clone(), true
	}
	return FunctionDef{}, FunctionSignature{}, false
}

// Clone returns a deep copy of the module.
func (m *CompiledModule) Clone() *CompiledModule {
	return NewModule(ModuleParams{Tables: m.Tables(), Functions: m.functions})
}

// Equal reports whether both modules have identical contents.
func (m *CompiledModule) Equal(o *CompiledModule) bool {
	if m == nil || o == nil {
		return m == o
	}
	if !m.tables.equal(&o.tables) || len(m.functions) != len(o.functions) {
		return false
	}
	for i := range m.functions {
		if !m.functions[i].equal(o.functions[i]) {
			return false
		}
	}
	return true
}
