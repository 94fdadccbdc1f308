package bytecode

// CompiledScript is a compiled transaction script. Its main function is not
// listed in the function handle table; every module handle is an import.
type CompiledScript struct {
	tables
	params []SignatureToken
	main   FunctionDef
}

// ScriptParams contains parameters for creating a new CompiledScript.
type ScriptParams struct {
	Tables
	Parameters []SignatureToken
	Main       FunctionDef
}

// NewScript creates a new immutable CompiledScript from the given parameters.
func NewScript(params ScriptParams) *CompiledScript {
	return &CompiledScript{
		tables: newTables(params.Tables),
		params: copyTokens(params.Parameters),
		main:   params.Main.clone(),
	}
}

// Parameters returns the types of the main function's parameters.
func (s *CompiledScript) Parameters() []SignatureToken {
	return copyTokens(s.params)
}

// Main returns a copy of the main function definition.
func (s *CompiledScript) Main() FunctionDef {
	return s.main.clone()
}

// Clone returns a deep copy of the script.
func (s *CompiledScript) Clone() *CompiledScript {
	return NewScript(ScriptParams{Tables: s.Tables(), Parameters: s.params, Main: s.main})
}

// Equal reports whether both scripts have identical contents.
func (s *CompiledScript) Equal(o *CompiledScript) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.tables.equal(&o.tables) && tokensEqual(s.params, o.params) && s.main.equal(o.main)
}

// CompiledProgram is a compiled script together with the modules declared
// in the same source unit, in declaration order.
type CompiledProgram struct {
	script  *CompiledScript
	modules []*CompiledModule
}

// NewProgram creates a CompiledProgram. The module order is preserved.
func NewProgram(script *CompiledScript, modules []*CompiledModule) *CompiledProgram {
	var mods []*CompiledModule
	if len(modules) > 0 {
		mods = make([]*CompiledModule, len(modules))
		copy(mods, modules)
	}
	return &CompiledProgram{script: script, modules: mods}
}

// Script returns the compiled script.
func (p *CompiledProgram) Script() *CompiledScript {
	return p.script
}

// ModuleCount returns the number of modules in the program.
func (p *CompiledProgram) ModuleCount() int {
	return len(p.modules)
}

// ModuleAt returns the module at the given index.
func (p *CompiledProgram) ModuleAt(i int) *CompiledModule {
	return p.modules[i]
}

// Modules returns the program's modules in declaration order.
func (p *CompiledProgram) Modules() []*CompiledModule {
	out := make([]*CompiledModule, len(p.modules))
	copy(out, p.modules)
	return out
}

// Equal reports whether both programs have identical contents.
func (p *CompiledProgram) Equal(o *CompiledProgram) bool {
	if p == nil || o == nil {
		return p == o
	}
	if !p.script.Equal(o.script) || len(p.modules) != len(o.modules) {
		return false
	}
	for i := range p.modules {
		if !p.modules[i].Equal(o.modules[i]) {
			return false
		}
	}
	return true
}
