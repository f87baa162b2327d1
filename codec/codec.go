// Package codec centralizes the fixed-width encoding of keys and values.
//
// Tree nodes live in arena blocks of a fixed size, so every key and value type
// needs a codec with a constant encoded size. All built-in codecs use the
// host's native byte order, matching the arena header.
//
// Changing the codec of a persisted tree is a breaking change: the stored
// bytes are not self-describing beyond their size.
package codec

import "fmt"

// Codec encodes and decodes values of type T into exactly Size() bytes.
// Implementations must be safe for concurrent use.
type Codec[T any] interface {
	// Name returns a short stable name, used in diagnostics.
	Name() string
	// Size returns the encoded size in bytes.
	Size() int
	// Put encodes v into dst[:Size()].
	Put(dst []byte, v T)
	// Get decodes a value from src[:Size()].
	Get(src []byte) T
}

// Encode is a helper for tests and diagnostics that returns a fresh buffer.
func Encode[T any](c Codec[T], v T) []byte {
	b := make([]byte, c.Size())
	c.Put(b, v)
	return b
}

// Must panics if err is non-nil. It is meant for package-level codec
// variables built from Struct.
func Must[T any](c Codec[T], err error) Codec[T] {
	if err != nil {
		panic(fmt.Errorf("codec: %w", err))
	}
	return c
}
