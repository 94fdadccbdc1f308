package compiler

import (
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/types"
)

// tableBuilder interns pool entries and handles in first-use order, so the
// same input always yields the same tables.
type tableBuilder struct {
	t bytecode.Tables

	identifiers map[string]uint16
	addresses   map[types.Address]uint16
	byteArrays  map[string]uint16
	signatures  map[string]uint16
	modules     map[bytecode.ModuleHandle]uint16
	functions   map[bytecode.FunctionHandle]uint16
	overflow    bool
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{
		identifiers: map[string]uint16{},
		addresses:   map[types.Address]uint16{},
		byteArrays:  map[string]uint16{},
		signatures:  map[string]uint16{},
		modules:     map[bytecode.ModuleHandle]uint16{},
		functions:   map[bytecode.FunctionHandle]uint16{},
	}
}

// next returns the index for a new entry in a table of size n. Once a table
// is full the builder records an overflow and returns 0.
func (b *tableBuilder) next(n int) uint16 {
	if n >= bytecode.MaxTableSize {
		b.overflow = true
		return 0
	}
	return uint16(n)
}

func (b *tableBuilder) identifier(name string) uint16 {
	if i, ok := b.identifiers[name]; ok {
		return i
	}
	i := b.next(len(b.t.Identifiers))
	b.t.Identifiers = append(b.t.Identifiers, name)
	b.identifiers[name] = i
	return i
}

func (b *tableBuilder) address(addr types.Address) uint16 {
	if i, ok := b.addresses[addr]; ok {
		return i
	}
	i := b.next(len(b.t.Addresses))
	b.t.Addresses = append(b.t.Addresses, addr)
	b.addresses[addr] = i
	return i
}

func (b *tableBuilder) byteArray(value []byte) uint16 {
	key := string(value)
	if i, ok := b.byteArrays[key]; ok {
		return i
	}
	i := b.next(len(b.t.ByteArrays))
	b.t.ByteArrays = append(b.t.ByteArrays, append([]byte{}, value...))
	b.byteArrays[key] = i
	return i
}

func (b *tableBuilder) signature(sig bytecode.FunctionSignature) uint16 {
	key := sig.String()
	if i, ok := b.signatures[key]; ok {
		return i
	}
	i := b.next(len(b.t.Signatures))
	b.t.Signatures = append(b.t.Signatures, sig.Clone())
	b.signatures[key] = i
	return i
}

func (b *tableBuilder) moduleHandle(id bytecode.ModuleID) uint16 {
	h := bytecode.ModuleHandle{Address: b.address(id.Address), Name: b.identifier(id.Name)}
	if i, ok := b.modules[h]; ok {
		return i
	}
	i := b.next(len(b.t.ModuleHandles))
	b.t.ModuleHandles = append(b.t.ModuleHandles, h)
	b.modules[h] = i
	return i
}

func (b *tableBuilder) functionHandle(module uint16, name string, sig bytecode.FunctionSignature) uint16 {
	h := bytecode.FunctionHandle{Module: module, Name: b.identifier(name), Signature: b.signature(sig)}
	if i, ok := b.functions[h]; ok {
		return i
	}
	i := b.next(len(b.t.FunctionHandles))
	b.t.FunctionHandles = append(b.t.FunctionHandles, h)
	b.functions[h] = i
	return i
}

func (b *tableBuilder) tables() bytecode.Tables {
	return b.t
}
