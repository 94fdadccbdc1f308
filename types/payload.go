package types

import (
	"fmt"

	"github.com/deepnoodle-ai/lirc/internal/wire"
)

// payloadMagic prefixes a serialized TransactionPayload.
var payloadMagic = []byte{'L', 'I', 'R', 'P'}

// TransactionPayload is the submission-ready bundle of a serialized script,
// the serialized modules published alongside it, and the script arguments.
// It performs no validation of its parts; compatibility between the script
// and its arguments is checked by the runtime.
type TransactionPayload struct {
	script  []byte
	modules [][]byte
	args    []TransactionArgument
}

// NewTransactionPayload assembles a payload. Inputs are copied and kept in the
// order given.
func NewTransactionPayload(script []byte, modules [][]byte, args []TransactionArgument) *TransactionPayload {
	p := &TransactionPayload{
		script:  append([]byte(nil), script...),
		modules: make([][]byte, len(modules)),
		args:    make([]TransactionArgument, len(args)),
	}
	for i, m := range modules {
		p.modules[i] = append([]byte(nil), m...)
	}
	copy(p.args, args)
	return p
}

// Script returns a copy of the serialized script.
func (p *TransactionPayload) Script() []byte {
	return append([]byte(nil), p.script...)
}

// ModuleCount returns the number of serialized modules.
func (p *TransactionPayload) ModuleCount() int {
	return len(p.modules)
}

// Modules returns copies of the serialized modules, in order.
func (p *TransactionPayload) Modules() [][]byte {
	modules := make([][]byte, len(p.modules))
	for i, m := range p.modules {
		modules[i] = append([]byte(nil), m...)
	}
	return modules
}

// Args returns the script arguments, in order.
func (p *TransactionPayload) Args() []TransactionArgument {
	args := make([]TransactionArgument, len(p.args))
	copy(args, p.args)
	return args
}

// Serialize returns the canonical encoding of the payload.
func (p *TransactionPayload) Serialize() []byte {
	var w wire.Writer
	w.WriteRaw(payloadMagic)
	w.WriteBytes(p.script)
	w.WriteUleb128(uint64(len(p.modules)))
	for _, m := range p.modules {
		w.WriteBytes(m)
	}
	w.WriteUleb128(uint64(len(p.args)))
	for _, a := range p.args {
		a.encode(&w)
	}
	return w.Bytes()
}

// DeserializePayload decodes bytes produced by Serialize.
func DeserializePayload(data []byte) (*TransactionPayload, error) {
	r := wire.NewReader(data)
	magic, err := r.ReadRaw(len(payloadMagic))
	if err != nil {
		return nil, err
	}
	if string(magic) != string(payloadMagic) {
		return nil, fmt.Errorf("invalid payload magic %x", magic)
	}
	p := &TransactionPayload{}
	if p.script, err = r.ReadBytes(); err != nil {
		return nil, err
	}
	n, err := r.ReadLength()
	if err != nil {
		return nil, err
	}
	p.modules = make([][]byte, n)
	for i := range p.modules {
		if p.modules[i], err = r.ReadBytes(); err != nil {
			return nil, err
		}
	}
	if n, err = r.ReadLength(); err != nil {
		return nil, err
	}
	p.args = make([]TransactionArgument, n)
	for i := range p.args {
		if p.args[i], err = decodeArgument(r); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return p, nil
}
