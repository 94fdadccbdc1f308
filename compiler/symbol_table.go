package compiler

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/lirc/bytecode"
)

// Symbol is a local variable of a function: a parameter or a let binding.
type Symbol struct {
	name  string
	index uint16
	typ   bytecode.SignatureToken
}

// Name returns the variable name.
func (s *Symbol) Name() string { return s.name }

// Index returns the local slot of the variable.
func (s *Symbol) Index() uint16 { return s.index }

// Type returns the declared type of the variable.
func (s *Symbol) Type() bytecode.SignatureToken { return s.typ }

// SymbolTable tracks the locals of one function. Blocks opened with NewBlock
// get their own namespace but share the function's slot numbering, so every
// local has a unique slot.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
	locals  *[]bytecode.SignatureToken
	limit   int
}

// NewSymbolTable returns the root table for a function body. At most limit
// locals may be inserted across all of its blocks.
func NewSymbolTable(limit int) *SymbolTable {
	return &SymbolTable{
		symbols: map[string]*Symbol{},
		locals:  &[]bytecode.SignatureToken{},
		limit:   limit,
	}
}

// NewBlock returns a nested scope that shares slot numbering with t.
func (t *SymbolTable) NewBlock() *SymbolTable {
	return &SymbolTable{
		parent:  t,
		symbols: map[string]*Symbol{},
		locals:  t.locals,
		limit:   t.limit,
	}
}

// Parent returns the enclosing scope, or nil for the function scope.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Count returns the number of locals allocated in the function so far.
func (t *SymbolTable) Count() int {
	return len(*t.locals)
}

// Locals returns the types of all locals allocated in the function.
func (t *SymbolTable) Locals() []bytecode.SignatureToken {
	out := make([]bytecode.SignatureToken, len(*t.locals))
	copy(out, *t.locals)
	return out
}

// IsDefined reports whether name is declared in this scope itself.
func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// InsertVariable declares name in this scope with a fresh slot.
func (t *SymbolTable) InsertVariable(name string, typ bytecode.SignatureToken) (*Symbol, error) {
	if t.IsDefined(name) {
		return nil, fmt.Errorf("variable %q is already declared in this scope", name)
	}
	if len(*t.locals) >= t.limit {
		return nil, fmt.Errorf("too many locals (limit %d)", t.limit)
	}
	sym := &Symbol{name: name, index: uint16(len(*t.locals)), typ: typ}
	*t.locals = append(*t.locals, typ)
	t.symbols[name] = sym
	return sym, nil
}

// Resolve looks name up in this scope and its parents.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// AllNames returns every name visible from this scope, sorted.
func (t *SymbolTable) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for s := t; s != nil; s = s.parent {
		for name := range s.symbols {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
