package bytecode

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/internal/wire"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/deepnoodle-ai/lirc/types"
)

// FormatVersion is the version byte written after the magic bytes.
const FormatVersion uint8 = 1

// Magic prefixes every serialized artifact.
var Magic = []byte{0xA1, 0x1C, 0xEB, 0x0B}

// Artifact kinds recorded after the format version.
const (
	KindScript uint8 = 1
	KindModule uint8 = 2
)

// MaxTableSize is the largest number of entries in any table, and one more
// than the largest table index.
const MaxTableSize = math.MaxUint16

// ErrMalformed is wrapped by every deserialization failure.
var ErrMalformed = stderrors.New("malformed bytecode")

// SerializeModule returns the canonical binary encoding of m.
func SerializeModule(m *CompiledModule) ([]byte, error) {
	w := &wire.Writer{}
	writeHeader(w, KindModule)
	if err := writeTables(w, &m.tables); err != nil {
		return nil, &errors.SerializationError{Artifact: "module " + m.ID().String(), Err: err}
	}
	if err := checkSize("function definitions", len(m.functions)); err != nil {
		return nil, &errors.SerializationError{Artifact: "module " + m.ID().String(), Err: err}
	}
	w.WriteUleb128(uint64(len(m.functions)))
	for i, fn := range m.functions {
		if err := writeFunction(w, fn); err != nil {
			return nil, &errors.SerializationError{
				Artifact: "module " + m.ID().String(),
				Err:      fmt.Errorf("function %d: %w", i, err),
			}
		}
	}
	return w.Bytes(), nil
}

// SerializeScript returns the canonical binary encoding of s.
func SerializeScript(s *CompiledScript) ([]byte, error) {
	w := &wire.Writer{}
	writeHeader(w, KindScript)
	if err := writeTables(w, &s.tables); err != nil {
		return nil, &errors.SerializationError{Artifact: "script", Err: err}
	}
	if err := checkSize("parameters", len(s.params)); err != nil {
		return nil, &errors.SerializationError{Artifact: "script", Err: err}
	}
	writeTokens(w, s.params)
	if err := writeFunction(w, s.main); err != nil {
		return nil, &errors.SerializationError{Artifact: "script", Err: fmt.Errorf("main: %w", err)}
	}
	return w.Bytes(), nil
}

// SerializeModules serializes each module, preserving order. The first
// failure is returned.
func SerializeModules(modules []*CompiledModule) ([][]byte, error) {
	out := make([][]byte, 0, len(modules))
	for _, m := range modules {
		b, err := SerializeModule(m)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func writeHeader(w *wire.Writer, kind uint8) {
	w.WriteRaw(Magic)
	w.WriteU8(FormatVersion)
	w.WriteU8(kind)
}

func checkSize(table string, n int) error {
	if n > MaxTableSize {
		return fmt.Errorf("%s table has %d entries, limit is %d", table, n, MaxTableSize)
	}
	return nil
}

func writeTables(w *wire.Writer, t *tables) error {
	for _, c := range []struct {
		name string
		n    int
	}{
		{"identifiers", len(t.identifiers)},
		{"addresses", len(t.addresses)},
		{"byte arrays", len(t.byteArrays)},
		{"signatures", len(t.signatures)},
		{"module handles", len(t.moduleHandles)},
		{"function handles", len(t.functionHandles)},
	} {
		if err := checkSize(c.name, c.n); err != nil {
			return err
		}
	}
	w.WriteUleb128(uint64(len(t.identifiers)))
	for _, id := range t.identifiers {
		w.WriteString(id)
	}
	w.WriteUleb128(uint64(len(t.addresses)))
	for _, a := range t.addresses {
		w.WriteRaw(a.Bytes())
	}
	w.WriteUleb128(uint64(len(t.byteArrays)))
	for _, b := range t.byteArrays {
		w.WriteBytes(b)
	}
	w.WriteUleb128(uint64(len(t.signatures)))
	for _, s := range t.signatures {
		if len(s.Params) > MaxTableSize {
			return fmt.Errorf("signature has %d parameters, limit is %d", len(s.Params), MaxTableSize)
		}
		writeTokens(w, s.Params)
		writeTokens(w, s.Returns)
	}
	w.WriteUleb128(uint64(len(t.moduleHandles)))
	for _, h := range t.moduleHandles {
		w.WriteU16(h.Address)
		w.WriteU16(h.Name)
	}
	w.WriteUleb128(uint64(len(t.functionHandles)))
	for _, h := range t.functionHandles {
		w.WriteU16(h.Module)
		w.WriteU16(h.Name)
		w.WriteU16(h.Signature)
	}
	return nil
}

func writeTokens(w *wire.Writer, tokens []SignatureToken) {
	w.WriteUleb128(uint64(len(tokens)))
	for _, t := range tokens {
		w.WriteU8(uint8(t))
	}
}

func writeFunction(w *wire.Writer, fn FunctionDef) error {
	if err := checkSize("locals", len(fn.Locals)); err != nil {
		return err
	}
	if err := checkSize("code", len(fn.Code)); err != nil {
		return err
	}
	w.WriteU16(fn.Handle)
	w.WriteU8(fn.Flags)
	writeTokens(w, fn.Locals)
	w.WriteUleb128(uint64(len(fn.Code)))
	for pc, ins := range fn.Code {
		w.WriteU8(uint8(ins.Op))
		info := op.GetInfo(ins.Op)
		if info.OperandCount == 0 {
			continue
		}
		if ins.Op == op.LdU64 {
			w.WriteU64(ins.Arg)
			continue
		}
		if ins.Arg >= MaxTableSize {
			return fmt.Errorf("instruction %d (%s): operand %d exceeds limit %d", pc, ins.Op, ins.Arg, MaxTableSize-1)
		}
		w.WriteUleb128(ins.Arg)
	}
	return nil
}

// DeserializeModule decodes a module produced by SerializeModule.
func DeserializeModule(data []byte) (*CompiledModule, error) {
	r := wire.NewReader(data)
	if err := readHeader(r, KindModule); err != nil {
		return nil, err
	}
	t, err := readTables(r)
	if err != nil {
		return nil, malformed(r, err)
	}
	n, err := r.ReadLength()
	if err != nil {
		return nil, malformed(r, err)
	}
	functions := make([]FunctionDef, 0, n)
	for i := 0; i < n; i++ {
		fn, err := readFunction(r)
		if err != nil {
			return nil, malformed(r, fmt.Errorf("function %d: %w", i, err))
		}
		functions = append(functions, fn)
	}
	if err := r.Done(); err != nil {
		return nil, malformed(r, err)
	}
	return &CompiledModule{tables: t, functions: functions}, nil
}

// DeserializeScript decodes a script produced by SerializeScript.
func DeserializeScript(data []byte) (*CompiledScript, error) {
	r := wire.NewReader(data)
	if err := readHeader(r, KindScript); err != nil {
		return nil, err
	}
	t, err := readTables(r)
	if err != nil {
		return nil, malformed(r, err)
	}
	params, err := readTokens(r)
	if err != nil {
		return nil, malformed(r, err)
	}
	main, err := readFunction(r)
	if err != nil {
		return nil, malformed(r, fmt.Errorf("main: %w", err))
	}
	if err := r.Done(); err != nil {
		return nil, malformed(r, err)
	}
	return &CompiledScript{tables: t, params: params, main: main}, nil
}

// PeekKind returns the artifact kind of serialized data without decoding it.
func PeekKind(data []byte) (uint8, error) {
	r := wire.NewReader(data)
	magic, err := r.ReadRaw(len(Magic))
	if err != nil || !bytes.Equal(magic, Magic) {
		return 0, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if _, err := r.ReadU8(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	kind, err := r.ReadU8()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return kind, nil
}

func malformed(r *wire.Reader, err error) error {
	return fmt.Errorf("%w at offset %d: %v", ErrMalformed, r.Offset(), err)
}

func readHeader(r *wire.Reader, want uint8) error {
	magic, err := r.ReadRaw(len(Magic))
	if err != nil || !bytes.Equal(magic, Magic) {
		return fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	version, err := r.ReadU8()
	if err != nil {
		return malformed(r, err)
	}
	if version != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrMalformed, version)
	}
	kind, err := r.ReadU8()
	if err != nil {
		return malformed(r, err)
	}
	if kind != want {
		return fmt.Errorf("%w: artifact kind %d, expected %d", ErrMalformed, kind, want)
	}
	return nil
}

func readTables(r *wire.Reader) (tables, error) {
	var t tables
	n, err := readCount(r)
	if err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return t, err
		}
		t.identifiers = append(t.identifiers, s)
	}
	if n, err = readCount(r); err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		b, err := r.ReadRaw(types.AddressLength)
		if err != nil {
			return t, err
		}
		addr, err := types.AddressFromBytes(b)
		if err != nil {
			return t, err
		}
		t.addresses = append(t.addresses, addr)
	}
	if n, err = readCount(r); err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		b, err := r.ReadBytes()
		if err != nil {
			return t, err
		}
		t.byteArrays = append(t.byteArrays, b)
	}
	if n, err = readCount(r); err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		params, err := readTokens(r)
		if err != nil {
			return t, err
		}
		returns, err := readTokens(r)
		if err != nil {
			return t, err
		}
		t.signatures = append(t.signatures, FunctionSignature{Params: params, Returns: returns})
	}
	if n, err = readCount(r); err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		var h ModuleHandle
		if h.Address, err = r.ReadU16(); err != nil {
			return t, err
		}
		if h.Name, err = r.ReadU16(); err != nil {
			return t, err
		}
		t.moduleHandles = append(t.moduleHandles, h)
	}
	if n, err = readCount(r); err != nil {
		return t, err
	}
	for i := 0; i < n; i++ {
		var h FunctionHandle
		if h.Module, err = r.ReadU16(); err != nil {
			return t, err
		}
		if h.Name, err = r.ReadU16(); err != nil {
			return t, err
		}
		if h.Signature, err = r.ReadU16(); err != nil {
			return t, err
		}
		t.functionHandles = append(t.functionHandles, h)
	}
	return t, nil
}

func readCount(r *wire.Reader) (int, error) {
	n, err := r.ReadLength()
	if err != nil {
		return 0, err
	}
	if n > MaxTableSize {
		return 0, fmt.Errorf("table size %d exceeds limit %d", n, MaxTableSize)
	}
	return n, nil
}

func readTokens(r *wire.Reader) ([]SignatureToken, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	var tokens []SignatureToken
	for i := 0; i < n; i++ {
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		t := SignatureToken(b)
		if !t.Valid() {
			return nil, fmt.Errorf("invalid signature token %d", b)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func readFunction(r *wire.Reader) (FunctionDef, error) {
	var fn FunctionDef
	var err error
	if fn.Handle, err = r.ReadU16(); err != nil {
		return fn, err
	}
	if fn.Flags, err = r.ReadU8(); err != nil {
		return fn, err
	}
	if fn.Flags&^(FlagPublic|FlagNative) != 0 {
		return fn, fmt.Errorf("unknown function flags %#x", fn.Flags)
	}
	if fn.Locals, err = readTokens(r); err != nil {
		return fn, err
	}
	n, err := readCount(r)
	if err != nil {
		return fn, err
	}
	for pc := 0; pc < n; pc++ {
		b, err := r.ReadU8()
		if err != nil {
			return fn, err
		}
		code := op.Code(b)
		if !op.Valid(code) {
			return fn, fmt.Errorf("instruction %d: unknown opcode %d", pc, b)
		}
		ins := Instruction{Op: code}
		if op.GetInfo(code).OperandCount > 0 {
			if code == op.LdU64 {
				ins.Arg, err = r.ReadU64()
			} else {
				ins.Arg, err = r.ReadUleb128()
				if err == nil && ins.Arg >= MaxTableSize {
					err = fmt.Errorf("operand %d exceeds limit %d", ins.Arg, MaxTableSize-1)
				}
			}
			if err != nil {
				return fn, fmt.Errorf("instruction %d: %w", pc, err)
			}
		}
		fn.Code = append(fn.Code, ins)
	}
	return fn, nil
}
