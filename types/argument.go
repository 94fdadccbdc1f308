package types

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/lirc/internal/wire"
)

// ArgumentKind tags the value held by a TransactionArgument.
type ArgumentKind uint8

const (
	ArgU64     ArgumentKind = 1
	ArgBool    ArgumentKind = 2
	ArgAddress ArgumentKind = 3
	ArgBytes   ArgumentKind = 4
	ArgString  ArgumentKind = 5
)

func (k ArgumentKind) String() string {
	switch k {
	case ArgU64:
		return "u64"
	case ArgBool:
		return "bool"
	case ArgAddress:
		return "address"
	case ArgBytes:
		return "bytearray"
	case ArgString:
		return "string"
	default:
		return fmt.Sprintf("ArgumentKind(%d)", uint8(k))
	}
}

// ParseArgumentKind returns the kind with the given name.
func ParseArgumentKind(name string) (ArgumentKind, error) {
	switch name {
	case "u64":
		return ArgU64, nil
	case "bool":
		return ArgBool, nil
	case "address":
		return ArgAddress, nil
	case "bytearray", "bytes":
		return ArgBytes, nil
	case "string":
		return ArgString, nil
	}
	return 0, fmt.Errorf("unknown argument type %q", name)
}

// TransactionArgument is a typed value passed to a script's main function.
// It is immutable.
type TransactionArgument struct {
	kind    ArgumentKind
	u64     uint64
	boolean bool
	addr    Address
	bytes   []byte
	str     string
}

func U64Argument(v uint64) TransactionArgument {
	return TransactionArgument{kind: ArgU64, u64: v}
}

func BoolArgument(v bool) TransactionArgument {
	return TransactionArgument{kind: ArgBool, boolean: v}
}

func AddressArgument(v Address) TransactionArgument {
	return TransactionArgument{kind: ArgAddress, addr: v}
}

func BytesArgument(v []byte) TransactionArgument {
	b := make([]byte, len(v))
	copy(b, v)
	return TransactionArgument{kind: ArgBytes, bytes: b}
}

func StringArgument(v string) TransactionArgument {
	return TransactionArgument{kind: ArgString, str: v}
}

// ParseArgument builds an argument of the named kind from its text form.
func ParseArgument(kind ArgumentKind, text string) (TransactionArgument, error) {
	switch kind {
	case ArgU64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return TransactionArgument{}, fmt.Errorf("invalid u64 argument %q: %w", text, err)
		}
		return U64Argument(v), nil
	case ArgBool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return TransactionArgument{}, fmt.Errorf("invalid bool argument %q: %w", text, err)
		}
		return BoolArgument(v), nil
	case ArgAddress:
		v, err := ParseAddress(text)
		if err != nil {
			return TransactionArgument{}, err
		}
		return AddressArgument(v), nil
	case ArgBytes:
		v, err := hex.DecodeString(text)
		if err != nil {
			return TransactionArgument{}, fmt.Errorf("invalid bytearray argument %q: %w", text, err)
		}
		return BytesArgument(v), nil
	case ArgString:
		return StringArgument(text), nil
	}
	return TransactionArgument{}, fmt.Errorf("unknown argument kind %d", kind)
}

func (a TransactionArgument) Kind() ArgumentKind { return a.kind }

func (a TransactionArgument) U64() uint64 { return a.u64 }

func (a TransactionArgument) Bool() bool { return a.boolean }

func (a TransactionArgument) Address() Address { return a.addr }

// Bytes returns a copy of the byte array value.
func (a TransactionArgument) Bytes() []byte {
	b := make([]byte, len(a.bytes))
	copy(b, a.bytes)
	return b
}

func (a TransactionArgument) Str() string { return a.str }

// Equal reports whether two arguments hold the same kind and value.
func (a TransactionArgument) Equal(other TransactionArgument) bool {
	if a.kind != other.kind {
		return false
	}
	switch a.kind {
	case ArgU64:
		return a.u64 == other.u64
	case ArgBool:
		return a.boolean == other.boolean
	case ArgAddress:
		return a.addr == other.addr
	case ArgBytes:
		return string(a.bytes) == string(other.bytes)
	case ArgString:
		return a.str == other.str
	}
	return true
}

func (a TransactionArgument) String() string {
	switch a.kind {
	case ArgU64:
		return fmt.Sprintf("{U64: %d}", a.u64)
	case ArgBool:
		return fmt.Sprintf("{BOOL: %t}", a.boolean)
	case ArgAddress:
		return fmt.Sprintf("{ADDRESS: %s}", a.addr.ShortString())
	case ArgBytes:
		return fmt.Sprintf("{BYTEARRAY: 0x%s}", hex.EncodeToString(a.bytes))
	case ArgString:
		return fmt.Sprintf("{STRING: %q}", a.str)
	}
	return "{INVALID}"
}

func (a TransactionArgument) encode(w *wire.Writer) {
	w.WriteU8(uint8(a.kind))
	switch a.kind {
	case ArgU64:
		w.WriteU64(a.u64)
	case ArgBool:
		w.WriteBool(a.boolean)
	case ArgAddress:
		w.WriteRaw(a.addr[:])
	case ArgBytes:
		w.WriteBytes(a.bytes)
	case ArgString:
		w.WriteString(a.str)
	}
}

func decodeArgument(r *wire.Reader) (TransactionArgument, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return TransactionArgument{}, err
	}
	switch ArgumentKind(tag) {
	case ArgU64:
		v, err := r.ReadU64()
		return U64Argument(v), err
	case ArgBool:
		v, err := r.ReadBool()
		return BoolArgument(v), err
	case ArgAddress:
		b, err := r.ReadRaw(AddressLength)
		if err != nil {
			return TransactionArgument{}, err
		}
		addr, err := AddressFromBytes(b)
		return AddressArgument(addr), err
	case ArgBytes:
		v, err := r.ReadBytes()
		return TransactionArgument{kind: ArgBytes, bytes: v}, err
	case ArgString:
		v, err := r.ReadString()
		return StringArgument(v), err
	}
	return TransactionArgument{}, fmt.Errorf("unknown argument tag %d", tag)
}
