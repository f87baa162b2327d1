package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFixedSize is returned by Struct for types without a fixed binary size.
var ErrNotFixedSize = errors.New("codec: type has no fixed binary size")

// StructCodec encodes fixed-size values (structs of fixed-size fields,
// arrays, numbers) with encoding/binary in native byte order, without padding.
type StructCodec[T any] struct {
	name string
	size int
}

// Struct returns a codec for T. T must consist only of fixed-size fields;
// strings, slices, maps and pointers are rejected.
func Struct[T any]() (StructCodec[T], error) {
	var zero T
	size := binary.Size(zero)
	if size < 0 {
		return StructCodec[T]{}, fmt.Errorf("%w: %T", ErrNotFixedSize, zero)
	}
	return StructCodec[T]{
		name: reflect.TypeFor[T]().String(),
		size: size,
	}, nil
}

func (c StructCodec[T]) Name() string { return c.name }
func (c StructCodec[T]) Size() int    { return c.size }

func (c StructCodec[T]) Put(dst []byte, v T) {
	if _, err := binary.Encode(dst[:c.size], order, v); err != nil {
		panic(fmt.Errorf("codec: encode %s: %w", c.name, err))
	}
}

func (c StructCodec[T]) Get(src []byte) T {
	var v T
	if _, err := binary.Decode(src[:c.size], order, &v); err != nil {
		panic(fmt.Errorf("codec: decode %s: %w", c.name, err))
	}
	return v
}
