package codec

import (
	"bytes"
	"fmt"
)

// FixedBytes encodes byte slices of up to N bytes, zero-padded. Get returns
// a copy of all N bytes.
type FixedBytes struct {
	N int
}

// Bytes returns a codec for byte slices of at most n bytes.
func Bytes(n int) FixedBytes {
	return FixedBytes{N: n}
}

func (c FixedBytes) Name() string { return fmt.Sprintf("bytes[%d]", c.N) }
func (c FixedBytes) Size() int    { return c.N }

func (c FixedBytes) Put(dst []byte, v []byte) {
	n := copy(dst[:c.N], v)
	clear(dst[n:c.N])
}

func (c FixedBytes) Get(src []byte) []byte {
	return bytes.Clone(src[:c.N])
}

// FixedString encodes strings of up to N bytes, zero-padded. Longer strings
// are truncated and trailing NUL bytes are stripped on decode.
type FixedString struct {
	N int
}

// String returns a codec for strings of at most n bytes.
func String(n int) FixedString {
	return FixedString{N: n}
}

func (c FixedString) Name() string { return fmt.Sprintf("string[%d]", c.N) }
func (c FixedString) Size() int    { return c.N }

func (c FixedString) Put(dst []byte, v string) {
	n := copy(dst[:c.N], v)
	clear(dst[n:c.N])
}

func (c FixedString) Get(src []byte) string {
	return string(bytes.TrimRight(src[:c.N], "\x00"))
}
