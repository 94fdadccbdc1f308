// Package types defines the values exchanged with the runtime: account
// addresses, transaction arguments and the transaction payload.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 32

// Address identifies an account. The zero value is the zero address.
type Address [AddressLength]byte

// ZeroAddress is the all-zero address.
var ZeroAddress = Address{}

// ParseAddress parses a hex address with an optional 0x prefix. Short forms
// such as "0x1" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var addr Address
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" {
		return addr, fmt.Errorf("invalid address %q: empty", s)
	}
	if len(h) > AddressLength*2 {
		return addr, fmt.Errorf("invalid address %q: longer than %d bytes", s, AddressLength)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}
	copy(addr[AddressLength-len(b):], b)
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressFromBytes copies b into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, fmt.Errorf("invalid address length %d (expected %d)", len(b), AddressLength)
	}
	copy(addr[:], b)
	return addr, nil
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// String returns the full 0x-prefixed hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ShortString returns the hex form without leading zero bytes, e.g. "0x1".
func (a Address) ShortString() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}
