package codec

import (
	"encoding/binary"
	"math"
)

var order = binary.NativeEndian

// Empty encodes struct{} in zero bytes, turning a tree into an ordered set.
type Empty struct{}

func (Empty) Name() string            { return "empty" }
func (Empty) Size() int               { return 0 }
func (Empty) Put([]byte, struct{})    {}
func (Empty) Get([]byte) (v struct{}) { return v }

// Bool encodes a bool in one byte.
type Bool struct{}

func (Bool) Name() string { return "bool" }
func (Bool) Size() int    { return 1 }

func (Bool) Put(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func (Bool) Get(src []byte) bool { return src[0] != 0 }

// Uint8 encodes a uint8.
type Uint8 struct{}

func (Uint8) Name() string            { return "uint8" }
func (Uint8) Size() int               { return 1 }
func (Uint8) Put(dst []byte, v uint8) { dst[0] = v }
func (Uint8) Get(src []byte) uint8    { return src[0] }

// Uint16 encodes a uint16.
type Uint16 struct{}

func (Uint16) Name() string             { return "uint16" }
func (Uint16) Size() int                { return 2 }
func (Uint16) Put(dst []byte, v uint16) { order.PutUint16(dst, v) }
func (Uint16) Get(src []byte) uint16    { return order.Uint16(src) }

// Uint32 encodes a uint32.
type Uint32 struct{}

func (Uint32) Name() string             { return "uint32" }
func (Uint32) Size() int                { return 4 }
func (Uint32) Put(dst []byte, v uint32) { order.PutUint32(dst, v) }
func (Uint32) Get(src []byte) uint32    { return order.Uint32(src) }

// Uint64 encodes a uint64.
type Uint64 struct{}

func (Uint64) Name() string             { return "uint64" }
func (Uint64) Size() int                { return 8 }
func (Uint64) Put(dst []byte, v uint64) { order.PutUint64(dst, v) }
func (Uint64) Get(src []byte) uint64    { return order.Uint64(src) }

// Int32 encodes an int32.
type Int32 struct{}

func (Int32) Name() string            { return "int32" }
func (Int32) Size() int               { return 4 }
func (Int32) Put(dst []byte, v int32) { order.PutUint32(dst, uint32(v)) }
func (Int32) Get(src []byte) int32    { return int32(order.Uint32(src)) }

// Int64 encodes an int64.
type Int64 struct{}

func (Int64) Name() string            { return "int64" }
func (Int64) Size() int               { return 8 }
func (Int64) Put(dst []byte, v int64) { order.PutUint64(dst, uint64(v)) }
func (Int64) Get(src []byte) int64    { return int64(order.Uint64(src)) }

// Int encodes an int as 8 bytes.
type Int struct{}

func (Int) Name() string          { return "int" }
func (Int) Size() int             { return 8 }
func (Int) Put(dst []byte, v int) { order.PutUint64(dst, uint64(v)) }
func (Int) Get(src []byte) int    { return int(int64(order.Uint64(src))) }

// Float32 encodes a float32 by its IEEE 754 bits.
type Float32 struct{}

func (Float32) Name() string              { return "float32" }
func (Float32) Size() int                 { return 4 }
func (Float32) Put(dst []byte, v float32) { order.PutUint32(dst, math.Float32bits(v)) }
func (Float32) Get(src []byte) float32    { return math.Float32frombits(order.Uint32(src)) }

// Float64 encodes a float64 by its IEEE 754 bits.
type Float64 struct{}

func (Float64) Name() string              { return "float64" }
func (Float64) Size() int                 { return 8 }
func (Float64) Put(dst []byte, v float64) { order.PutUint64(dst, math.Float64bits(v)) }
func (Float64) Get(src []byte) float64    { return math.Float64frombits(order.Uint64(src)) }
