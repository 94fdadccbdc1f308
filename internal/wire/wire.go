// Package wire implements the primitive encodings shared by the canonical
// bytecode and payload formats: ULEB128 lengths, little-endian fixed-width
// integers and length-prefixed byte strings.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxLength bounds any length prefix read from untrusted input.
const MaxLength = 1 << 24

// ErrUnexpectedEOF is returned when the input ends in the middle of a value.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Writer accumulates an encoding. The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// Bytes returns the encoded bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) WriteRaw(b []byte) {
	w.buf.Write(b)
}

func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}

func (w *Writer) WriteU64(v uint64) {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

// WriteUleb128 writes v as an unsigned LEB128 varint.
func (w *Writer) WriteUleb128(v uint64) {
	w.buf.Write(binary.AppendUvarint(nil, v))
}

// WriteBytes writes a ULEB128 length followed by the bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUleb128(uint64(len(b)))
	w.buf.Write(b)
}

// WriteString writes a ULEB128 length followed by the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	w.WriteUleb128(uint64(len(s)))
	w.buf.WriteString(s)
}

// Reader decodes values produced by a Writer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read offset.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("reading %d bytes at offset %d: %w", n, r.pos, ErrUnexpectedEOF)
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("reading u8 at offset %d: %w", r.pos, ErrUnexpectedEOF)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid bool byte 0x%02x at offset %d", v, r.pos-1)
}

func (r *Reader) ReadU16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, fmt.Errorf("reading u16 at offset %d: %w", r.pos, ErrUnexpectedEOF)
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadU64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, fmt.Errorf("reading u64 at offset %d: %w", r.pos, ErrUnexpectedEOF)
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadUleb128 reads an unsigned LEB128 varint. Non-minimal encodings are
// rejected so that every value has exactly one encoding.
func (r *Reader) ReadUleb128() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n == 0 {
		return 0, fmt.Errorf("reading uleb128 at offset %d: %w", r.pos, ErrUnexpectedEOF)
	}
	if n < 0 {
		return 0, fmt.Errorf("uleb128 overflow at offset %d", r.pos)
	}
	if n != len(binary.AppendUvarint(nil, v)) {
		return 0, fmt.Errorf("non-canonical uleb128 at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

// ReadLength reads a ULEB128 length and checks it against MaxLength.
func (r *Reader) ReadLength() (int, error) {
	v, err := r.ReadUleb128()
	if err != nil {
		return 0, err
	}
	if v > MaxLength {
		return 0, fmt.Errorf("length %d exceeds maximum %d", v, MaxLength)
	}
	return int(v), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(n)
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("invalid utf-8 string ending at offset %d", r.pos)
	}
	return string(b), nil
}

// Done returns an error if unread bytes remain.
func (r *Reader) Done() error {
	if r.Remaining() != 0 {
		return fmt.Errorf("%d trailing bytes at offset %d", r.Remaining(), r.pos)
	}
	return nil
}
