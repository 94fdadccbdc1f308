package compiler

import (
	"sort"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/errors"
)

// unitCompiler compiles one module or script into its own tables.
type unitCompiler struct {
	*Compiler
	tb       *tableBuilder
	selfName string // empty for scripts
	self     *moduleInfo
	handles  map[string]uint16 // own function name -> function handle
	imports  map[string]importInfo
}

type importInfo struct {
	handle uint16
	module *moduleInfo
}

func (c *Compiler) newUnit(selfName string) *unitCompiler {
	return &unitCompiler{
		Compiler: c,
		tb:       newTableBuilder(),
		selfName: selfName,
		handles:  map[string]uint16{},
		imports:  map[string]importInfo{},
	}
}

func (c *Compiler) compileModule(m *ast.Module) (*bytecode.CompiledModule, error) {
	if m == nil {
		return nil, c.errorAt(nil, errors.E2009, "", nil, "no module to compile")
	}
	id := bytecode.ModuleID{Address: c.address, Name: m.Name.Name}
	if c.registry.declared(id) {
		return nil, c.errorAt(m.Name, errors.E2006, id.String(), nil, "module %s is declared more than once", id)
	}
	if c.registry.provided(id) {
		return nil, c.errorAt(m.Name, errors.E2006, id.String(), nil, "module %s is already provided by a dependency", id)
	}

	u := c.newUnit(m.Name.Name)
	u.self = &moduleInfo{id: id, funcs: map[string]funcInfo{}}
	self := u.tb.moduleHandle(id)
	u.imports[m.Name.Name] = importInfo{handle: self, module: u.self}
	if err := u.resolveImports(m.Imports); err != nil {
		return nil, err
	}

	// Pass 1: declare every function.
	for _, fn := range m.Functions {
		name := fn.Name.Name
		if _, dup := u.self.funcs[name]; dup {
			return nil, c.errorAt(fn.Name, errors.E2006, name, nil, "function %s is defined more than once in module %s", name, m.Name.Name)
		}
		if len(fn.Params) > MaxArgs {
			return nil, c.errorAt(fn.Name, errors.E2012, name, nil, "function %s has %d parameters (limit %d)", name, len(fn.Params), MaxArgs)
		}
		if fn.Native && !c.address.IsZero() {
			return nil, c.errorAt(fn, errors.E2008, name, nil,
				"native function %s can only be declared by modules at address 0x0, not %s", name, c.address.ShortString())
		}
		sig := signatureOf(fn)
		u.self.funcs[name] = funcInfo{sig: sig, public: fn.Public}
		u.handles[name] = u.tb.functionHandle(self, name, sig)
	}

	// Pass 2: compile bodies.
	defs := make([]bytecode.FunctionDef, 0, len(m.Functions))
	for _, fn := range m.Functions {
		def := bytecode.FunctionDef{Handle: u.handles[fn.Name.Name]}
		if fn.Public {
			def.Flags |= bytecode.FlagPublic
		}
		if fn.Native {
			def.Flags |= bytecode.FlagNative
			def.Locals = signatureOf(fn).Params
			defs = append(defs, def)
			continue
		}
		locals, code, err := u.compileFunction(fn)
		if err != nil {
			return nil, err
		}
		def.Locals, def.Code = locals, code
		defs = append(defs, def)
	}
	if u.tb.overflow {
		return nil, c.errorAt(m.Name, errors.E2012, id.String(), nil,
			"module %s has more than %d entries in a table", id, bytecode.MaxTableSize)
	}

	compiled := bytecode.NewModule(bytecode.ModuleParams{Tables: u.tb.tables(), Functions: defs})
	c.registry.addCompiled(compiled)
	return compiled, nil
}

func (c *Compiler) compileScript(s *ast.Script) (*bytecode.CompiledScript, error) {
	u := c.newUnit("")
	if err := u.resolveImports(s.Imports); err != nil {
		return nil, err
	}
	if len(s.Main.Params) > MaxArgs {
		return nil, c.errorAt(s.Main, errors.E2012, "main", nil, "main has %d parameters (limit %d)", len(s.Main.Params), MaxArgs)
	}
	locals, code, err := u.compileFunction(s.Main)
	if err != nil {
		return nil, err
	}
	if u.tb.overflow {
		return nil, c.errorAt(s.Main, errors.E2012, "main", nil, "script has more than %d entries in a table", bytecode.MaxTableSize)
	}
	return bytecode.NewScript(bytecode.ScriptParams{
		Tables:     u.tb.tables(),
		Parameters: signatureOf(s.Main).Params,
		Main:       bytecode.FunctionDef{Locals: locals, Code: code},
	}), nil
}

func (u *unitCompiler) resolveImports(imports []*ast.Import) error {
	for _, imp := range imports {
		id := bytecode.ModuleID{Address: imp.Address, Name: imp.Module.Name}
		info, ok := u.registry.lookup(id)
		if !ok {
			suggestions := errors.SuggestSimilar(id.Name, u.registry.candidates(id.Address))
			return u.errorAt(imp, errors.E2003, id.String(), suggestions,
				"unresolved module import %s: no such module among the dependencies", id)
		}
		local := imp.LocalName()
		if _, dup := u.imports[local]; dup {
			return u.errorAt(imp, errors.E2006, local, nil, "module name %s is already in scope", local)
		}
		u.imports[local] = importInfo{handle: u.tb.moduleHandle(id), module: info}
	}
	return nil
}

// importNames returns the module names usable as call qualifiers.
func (u *unitCompiler) importNames() []string {
	names := make([]string, 0, len(u.imports))
	for name := range u.imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// declared reports whether a module with this identity was compiled earlier
// in the same compilation.
// provided reports whether a dependency already has the identity id.
func (r *registry) provided(id bytecode.ModuleID) bool {
	for _, m := range r.modules[:r.external] {
		if m.id == id {
			return true
		}
	}
	return false
}

func (r *registry) declared(id bytecode.ModuleID) bool {
	for _, m := range r.modules[r.external:] {
		if m.id == id {
			return true
		}
	}
	return false
}
