// Package compiler is used to compile a Ledger IR abstract syntax tree (AST)
// into bytecode.
//
// # Two-Pass Compilation Strategy
//
// Each module is compiled in two passes so functions may call functions that
// are defined later in the same module.
//
// Pass 1: declare
//
// Collects every function declaration of the module, checks for duplicates
// and registers a function handle for each one in definition order.
//
// Pass 2: compile
//
// Compiles each function body into instructions. Calls are resolved against
// the module's own declarations or, for qualified calls, against the imported
// modules. Imports are resolved against the dependency list, first match wins.
//
// # Programs
//
// A program is a source unit with a script. Its modules are compiled in
// declaration order and each one becomes visible, after the supplied
// dependencies, to the modules that follow it and to the script.
package compiler

import (
	"sort"
	"strings"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
)

const (
	// MaxLocals is the maximum number of locals, parameters included, in
	// one function.
	MaxLocals = 255

	// MaxArgs is the maximum number of parameters a function can have.
	MaxArgs = 32

	// Placeholder is a temporary branch target, always replaced before the
	// function is complete.
	Placeholder = uint64(bytecode.MaxTableSize - 1)
)

// Option configures compilation.
type Option func(*Compiler)

// WithFilename sets the file name reported in errors.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource supplies the original source text so errors can quote the
// offending line.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.lines = strings.Split(source, "\n")
	}
}

// Compiler holds the state shared by the modules and script of one
// compilation.
type Compiler struct {
	address  types.Address
	registry *registry
	filename string
	lines    []string
}

func newCompiler(addr types.Address, deps []*verifier.VerifiedModule, opts []Option) *Compiler {
	c := &Compiler{address: addr, registry: newRegistry(deps)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileProgram compiles the modules and the script of unit. Modules are
// published under addr. The unit must contain a script.
func CompileProgram(addr types.Address, unit *ast.Unit, deps []*verifier.VerifiedModule, opts ...Option) (*bytecode.CompiledProgram, error) {
	c := newCompiler(addr, deps, opts)
	if unit == nil || unit.Script == nil {
		var pos ast.Node
		if unit != nil {
			pos = unit
		}
		return nil, c.errorAt(pos, errors.E2009, "", nil, "source unit has no main function to compile as a script")
	}
	modules := make([]*bytecode.CompiledModule, 0, len(unit.Modules))
	for _, m := range unit.Modules {
		compiled, err := c.compileModule(m)
		if err != nil {
			return nil, err
		}
		modules = append(modules, compiled)
	}
	script, err := c.compileScript(unit.Script)
	if err != nil {
		return nil, err
	}
	return bytecode.NewProgram(script, modules), nil
}

// CompileModule compiles a single module published under addr.
func CompileModule(addr types.Address, module *ast.Module, deps []*verifier.VerifiedModule, opts ...Option) (*bytecode.CompiledModule, error) {
	c := newCompiler(addr, deps, opts)
	return c.compileModule(module)
}

// funcInfo describes a callable function of a module.
type funcInfo struct {
	sig    bytecode.FunctionSignature
	public bool
}

// moduleInfo is the compile-time view of a module: its identity and the
// signatures of its functions.
type moduleInfo struct {
	id    bytecode.ModuleID
	funcs map[string]funcInfo
}

func (m *moduleInfo) functionNames() []string {
	names := make([]string, 0, len(m.funcs))
	for name := range m.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// registry lists the modules visible to a compilation in resolution order.
type registry struct {
	modules  []*moduleInfo
	external int // number of leading entries supplied as dependencies
}

func newRegistry(deps []*verifier.VerifiedModule) *registry {
	r := &registry{}
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		info := &moduleInfo{id: dep.ID(), funcs: map[string]funcInfo{}}
		for _, name := range dep.FunctionNames() {
			sig, public, _ := dep.LookupFunction(name)
			info.funcs[name] = funcInfo{sig: sig, public: public}
		}
		r.modules = append(r.modules, info)
	}
	r.external = len(r.modules)
	return r
}

func (r *registry) addCompiled(m *bytecode.CompiledModule) {
	info := &moduleInfo{id: m.ID(), funcs: map[string]funcInfo{}}
	for i := 0; i < m.FunctionCount(); i++ {
		name := m.FunctionDefName(i)
		fn, sig, ok := m.LookupFunction(name)
		if ok {
			info.funcs[name] = funcInfo{sig: sig, public: fn.IsPublic()}
		}
	}
	r.modules = append(r.modules, info)
}

// lookup returns the first module with the given identity.
func (r *registry) lookup(id bytecode.ModuleID) (*moduleInfo, bool) {
	for _, m := range r.modules {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

// candidates returns names to suggest for an unresolved import, preferring
// modules at the same address.
func (r *registry) candidates(addr types.Address) []string {
	var same, all []string
	for _, m := range r.modules {
		all = append(all, m.id.Name)
		if m.id.Address == addr {
			same = append(same, m.id.Name)
		}
	}
	if len(same) > 0 {
		return same
	}
	return all
}

func tokenOf(t *ast.Type) bytecode.SignatureToken {
	switch t.Kind {
	case ast.U64:
		return bytecode.U64
	case ast.Bool:
		return bytecode.Bool
	case ast.Address:
		return bytecode.Address
	case ast.ByteArray:
		return bytecode.ByteArray
	}
	return 0
}

func signatureOf(fn *ast.Function) bytecode.FunctionSignature {
	sig := bytecode.FunctionSignature{}
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, tokenOf(p.Type))
	}
	if fn.Return != nil {
		sig.Returns = []bytecode.SignatureToken{tokenOf(fn.Return)}
	}
	return sig
}
