package bytecode

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/types"
)

// SignatureToken is the bytecode representation of a value type.
type SignatureToken uint8

const (
	U64       SignatureToken = 1
	Bool      SignatureToken = 2
	Address   SignatureToken = 3
	ByteArray SignatureToken = 4
)

// Valid reports whether t is a defined signature token.
func (t SignatureToken) Valid() bool {
	return t >= U64 && t <= ByteArray
}

func (t SignatureToken) String() string {
	switch t {
	case U64:
		return "u64"
	case Bool:
		return "bool"
	case Address:
		return "address"
	case ByteArray:
		return "bytearray"
	}
	return fmt.Sprintf("invalid(%d)", uint8(t))
}

// FunctionSignature lists parameter and return types. Returns holds at most
// one token.
type FunctionSignature struct {
	Params  []SignatureToken
	Returns []SignatureToken
}

// Clone returns a deep copy of the signature.
func (s FunctionSignature) Clone() FunctionSignature {
	return FunctionSignature{Params: copyTokens(s.Params), Returns: copyTokens(s.Returns)}
}

// Equal reports whether both signatures have the same parameter and return
// types.
func (s FunctionSignature) Equal(o FunctionSignature) bool {
	return tokensEqual(s.Params, o.Params) && tokensEqual(s.Returns, o.Returns)
}

func (s FunctionSignature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	out := "(" + strings.Join(params, ", ") + ")"
	if len(s.Returns) > 0 {
		out += ": " + s.Returns[0].String()
	}
	return out
}

func tokensEqual(a, b []SignatureToken) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ModuleHandle refers to a module by address pool index and identifier index.
type ModuleHandle struct {
	Address uint16
	Name    uint16
}

// FunctionHandle refers to a function of a module handle, with the index of
// its signature.
type FunctionHandle struct {
	Module    uint16
	Name      uint16
	Signature uint16
}

// Instruction is one opcode and its operand. Opcodes without an operand
// carry a zero Arg.
type Instruction struct {
	Op  op.Code
	Arg uint64
}

func (i Instruction) String() string {
	if op.GetInfo(i.Op).OperandCount == 0 {
		return i.Op.String()
	}
	return fmt.Sprintf("%s %d", i.Op, i.Arg)
}

// Function definition flags.
const (
	FlagPublic uint8 = 1 << 0
	FlagNative uint8 = 1 << 1
)

// FunctionDef is the body of a function. Locals lists the parameter types
// first, then the declared locals. Native functions have no code.
type FunctionDef struct {
	Handle uint16
	Flags  uint8
	Locals []SignatureToken
	Code   []Instruction
}

func (f FunctionDef) IsPublic() bool { return f.Flags&FlagPublic != 0 }
func (f FunctionDef) IsNative() bool { return f.Flags&FlagNative != 0 }

func (f FunctionDef) clone() FunctionDef {
	return FunctionDef{
		Handle: f.Handle,
		Flags:  f.Flags,
		Locals: copyTokens(f.Locals),
		Code:   copyInstructions(f.Code),
	}
}

func (f FunctionDef) equal(o FunctionDef) bool {
	if f.Handle != o.Handle || f.Flags != o.Flags || !tokensEqual(f.Locals, o.Locals) || len(f.Code) != len(o.Code) {
		return false
	}
	for i := range f.Code {
		if f.Code[i] != o.Code[i] {
			return false
		}
	}
	return true
}

// ModuleID names a published module.
type ModuleID struct {
	Address types.Address
	Name    string
}

func (id ModuleID) String() string {
	return id.Address.ShortString() + "." + id.Name
}

// Tables holds the constant pools and handle tables shared by modules and
// scripts. It is used to construct artifacts.
type Tables struct {
	ModuleHandles   []ModuleHandle
	FunctionHandles []FunctionHandle
	Signatures      []FunctionSignature
	Identifiers     []string
	Addresses       []types.Address
	ByteArrays      [][]byte
}

// tables is the immutable, embedded form of Tables.
type tables struct {
	moduleHandles   []ModuleHandle
	functionHandles []FunctionHandle
	signatures      []FunctionSignature
	identifiers     []string
	addresses       []types.Address
	byteArrays      [][]byte
}

func newTables(t Tables) tables {
	return tables{
		moduleHandles:   copyModuleHandles(t.ModuleHandles),
		functionHandles: copyFunctionHandles(t.FunctionHandles),
		signatures:      copySignatures(t.Signatures),
		identifiers:     copyStrings(t.Identifiers),
		addresses:       copyAddresses(t.Addresses),
		byteArrays:      copyByteArrays(t.ByteArrays),
	}
}

// Tables returns a copy of the pools and handle tables.
func (t *tables) Tables() Tables {
	return Tables{
		ModuleHandles:   copyModuleHandles(t.moduleHandles),
		FunctionHandles: copyFunctionHandles(t.functionHandles),
		Signatures:      copySignatures(t.signatures),
		Identifiers:     copyStrings(t.identifiers),
		Addresses:       copyAddresses(t.addresses),
		ByteArrays:      copyByteArrays(t.byteArrays),
	}
}

func (t *tables) ModuleHandleCount() int                { return len(t.moduleHandles) }
func (t *tables) ModuleHandleAt(i int) ModuleHandle     { return t.moduleHandles[i] }
func (t *tables) FunctionHandleCount() int              { return len(t.functionHandles) }
func (t *tables) FunctionHandleAt(i int) FunctionHandle { return t.functionHandles[i] }
func (t *tables) SignatureCount() int                   { return len(t.signatures) }
func (t *tables) SignatureAt(i int) FunctionSignature   { return t.signatures[i].Clone() }
func (t *tables) IdentifierCount() int                  { return len(t.identifiers) }
func (t *tables) IdentifierAt(i int) string             { return t.identifiers[i] }
func (t *tables) AddressCount() int                     { return len(t.addresses) }
func (t *tables) AddressAt(i int) types.Address         { return t.addresses[i] }
func (t *tables) ByteArrayCount() int                   { return len(t.byteArrays) }
func (t *tables) ByteArrayAt(i int) []byte              { return copyBytes(t.byteArrays[i]) }

// ModuleIDAt resolves module handle i. It returns false when the handle
// points outside the pools.
func (t *tables) ModuleIDAt(i int) (ModuleID, bool) {
	if i < 0 || i >= len(t.moduleHandles) {
		return ModuleID{}, false
	}
	h := t.moduleHandles[i]
	if int(h.Address) >= len(t.addresses) || int(h.Name) >= len(t.identifiers) {
		return ModuleID{}, false
	}
	return ModuleID{Address: t.addresses[h.Address], Name: t.identifiers[h.Name]}, true
}

// FunctionName renders function handle i as Module.name, or "?" parts for
// indices outside the pools.
func (t *tables) FunctionName(i int) string {
	if i < 0 || i >= len(t.functionHandles) {
		return fmt.Sprintf("<handle %d>", i)
	}
	h := t.functionHandles[i]
	module := "?"
	if id, ok := t.ModuleIDAt(int(h.Module)); ok {
		module = id.Name
	}
	name := "?"
	if int(h.Name) < len(t.identifiers) {
		name = t.identifiers[h.Name]
	}
	return module + "." + name
}

func (t *tables) equal(o *tables) bool {
	if len(t.moduleHandles) != len(o.moduleHandles) ||
		len(t.functionHandles) != len(o.functionHandles) ||
		len(t.signatures) != len(o.signatures) ||
		len(t.identifiers) != len(o.identifiers) ||
		len(t.addresses) != len(o.addresses) ||
		len(t.byteArrays) != len(o.byteArrays) {
		return false
	}
	for i := range t.moduleHandles {
		if t.moduleHandles[i] != o.moduleHandles[i] {
			return false
		}
	}
	for i := range t.functionHandles {
		if t.functionHandles[i] != o.functionHandles[i] {
			return false
		}
	}
	for i := range t.signatures {
		if !t.signatures[i].Equal(o.signatures[i]) {
			return false
		}
	}
	for i := range t.identifiers {
		if t.identifiers[i] != o.identifiers[i] {
			return false
		}
	}
	for i := range t.addresses {
		if t.addresses[i] != o.addresses[i] {
			return false
		}
	}
	for i := range t.byteArrays {
		if string(t.byteArrays[i]) != string(o.byteArrays[i]) {
			return false
		}
	}
	return true
}
