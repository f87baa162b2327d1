package arena

import (
	"encoding/binary"
	"math"
)

// Handle identifies a block. Valid handles are 1..Total.
type Handle uint32

// Nil is the null handle.
const Nil Handle = 0

// MagicSize is the length of the magic field.
const MagicSize = 8

// HeaderSize is the size of the fixed header, excluding the caller head payload.
const HeaderSize = offReserved + 3*4

// RecordOverhead is the per-block bookkeeping appended to each value.
const RecordOverhead = 1 + 4 + 4

// MaxRecords is the largest number of records an arena can hold. The last
// handle must stay representable as FreeListHead after it is handed out.
const MaxRecords = math.MaxUint32 - 1

const (
	offMagic    = 0
	offVersion  = offMagic + MagicSize
	offMemSize  = offVersion + 2
	offHeadSize = offMemSize + 8
	offTotal    = offHeadSize + 4
	offUsed     = offTotal + 4
	offFree     = offUsed + 4
	offActive   = offFree + 4
	offRecord   = offActive + 4
	offReserved = offRecord + 4
)

const (
	maxValueSize = math.MaxInt32
	maxHeadSize  = math.MaxInt32 - HeaderSize
)

const flagActive = 1

var order = binary.NativeEndian

// header is a view over the fixed header fields of a buffer.
type header []byte

func (h header) magic() []byte          { return h[offMagic : offMagic+MagicSize] }
func (h header) version() uint16        { return order.Uint16(h[offVersion:]) }
func (h header) setVersion(v uint16)    { order.PutUint16(h[offVersion:], v) }
func (h header) memSize() uint64        { return order.Uint64(h[offMemSize:]) }
func (h header) setMemSize(v uint64)    { order.PutUint64(h[offMemSize:], v) }
func (h header) headSize() uint32       { return order.Uint32(h[offHeadSize:]) }
func (h header) setHeadSize(v uint32)   { order.PutUint32(h[offHeadSize:], v) }
func (h header) total() uint32          { return order.Uint32(h[offTotal:]) }
func (h header) setTotal(v uint32)      { order.PutUint32(h[offTotal:], v) }
func (h header) used() uint32           { return order.Uint32(h[offUsed:]) }
func (h header) setUsed(v uint32)       { order.PutUint32(h[offUsed:], v) }
func (h header) freeHead() Handle       { return Handle(order.Uint32(h[offFree:])) }
func (h header) setFreeHead(v Handle)   { order.PutUint32(h[offFree:], uint32(v)) }
func (h header) activeHead() Handle     { return Handle(order.Uint32(h[offActive:])) }
func (h header) setActiveHead(v Handle) { order.PutUint32(h[offActive:], uint32(v)) }
func (h header) recordSize() uint32     { return order.Uint32(h[offRecord:]) }
func (h header) setRecordSize(v uint32) { order.PutUint32(h[offRecord:], v) }

func (h header) unformatted() bool {
	for _, b := range h.magic() {
		if b != 0 {
			return false
		}
	}
	return true
}

// record is a view over the bookkeeping trailer of one block.
type record []byte

func (r record) active() bool     { return r[0]&flagActive != 0 }
func (r record) setFlags(f uint8) { r[0] = f }
func (r record) prev() Handle     { return Handle(order.Uint32(r[1:])) }
func (r record) setPrev(h Handle) { order.PutUint32(r[1:], uint32(h)) }
func (r record) next() Handle     { return Handle(order.Uint32(r[5:])) }
func (r record) setNext(h Handle) { order.PutUint32(r[5:], uint32(h)) }
