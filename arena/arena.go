package arena

import (
	"bytes"
	"fmt"
	"iter"
	"unsafe"

	"github.com/hupe1980/nindex/internal/conv"
)

// Storage provides the raw buffer an arena lives in. The storage package
// implements it for heap, file and shared memory backed buffers.
type Storage interface {
	Bytes() []byte
	Size() int
}

// Arena is a block allocator over a byte buffer.
type Arena struct {
	buf        []byte
	hdr        header
	opts       options
	headerSize int // HeaderSize + caller head payload
	recordSize int
	total      uint32
	err        error
}

// BufferSize returns the number of bytes needed for an arena of capacity
// blocks of valueSize bytes with a caller head payload of headSize bytes.
func BufferSize(capacity, valueSize, headSize int) (int, error) {
	o := defaultOptions()
	o.valueSize, o.headSize = valueSize, headSize
	if capacity < 0 || uint64(capacity) > MaxRecords || !o.validate() {
		return 0, fmt.Errorf("%w: capacity=%d valueSize=%d headSize=%d", ErrInvalidOptions, capacity, valueSize, headSize)
	}

	records, err := conv.MulInt(capacity, valueSize+RecordOverhead)
	if err != nil {
		return 0, err
	}
	return conv.AddInt(HeaderSize+headSize, records)
}

// New allocates a zeroed heap buffer large enough for capacity blocks and
// formats an arena in it.
func New(capacity int, opts ...Option) *Arena {
	o := applyOptions(opts)
	size, err := BufferSize(capacity, o.valueSize, o.headSize)
	if err != nil {
		return &Arena{opts: o, err: err}
	}
	return Load(make([]byte, size), opts...)
}

// LoadStorage loads or bootstraps an arena in the buffer provided by s.
func LoadStorage(s Storage, opts ...Option) *Arena {
	buf := s.Bytes()
	if n := s.Size(); n >= 0 && n < len(buf) {
		buf = buf[:n]
	}
	return Load(buf, opts...)
}

// Load attaches to an arena stored in buf. If the magic is all zero the
// buffer is formatted in place; otherwise every header field is validated
// against buf and the options. The returned arena is never nil; check Success.
func Load(buf []byte, opts ...Option) *Arena {
	a := &Arena{opts: applyOptions(opts)}
	if !a.opts.validate() {
		a.err = ErrInvalidOptions
		return a
	}

	a.headerSize = HeaderSize + a.opts.headSize
	a.recordSize = a.opts.valueSize + RecordOverhead
	if len(buf) < a.headerSize {
		a.err = fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, a.headerSize, len(buf))
		return a
	}

	total := (len(buf) - a.headerSize) / a.recordSize
	if uint64(total) > MaxRecords {
		a.err = fmt.Errorf("%w: %d records", ErrBufferTooLarge, total)
		return a
	}
	a.total = uint32(total)
	a.buf = buf
	a.hdr = header(buf[:HeaderSize])

	if a.hdr.unformatted() {
		a.format()
		return a
	}

	if err := a.check(); err != nil {
		a.err = err
		a.buf, a.hdr, a.total = nil, nil, 0
	}
	return a
}

func (a *Arena) format() {
	clear(a.buf)
	copy(a.hdr.magic(), a.opts.magic[:])
	a.hdr.setVersion(a.opts.version)
	a.hdr.setMemSize(uint64(len(a.buf)))
	a.hdr.setHeadSize(uint32(a.headerSize))
	a.hdr.setTotal(a.total)
	a.hdr.setRecordSize(uint32(a.recordSize))
	a.hdr.setUsed(0)
	a.hdr.setFreeHead(1)
	a.hdr.setActiveHead(Nil)
}

func (a *Arena) check() error {
	h := a.hdr
	if !bytes.Equal(h.magic(), a.opts.magic[:]) {
		return fmt.Errorf("%w: %q", ErrBadMagic, h.magic())
	}
	if h.version() != a.opts.version {
		return fmt.Errorf("%w: %#04x, want %#04x", ErrBadVersion, h.version(), a.opts.version)
	}
	if h.memSize() != uint64(len(a.buf)) {
		return fmt.Errorf("%w: header says %d, buffer has %d", ErrSizeMismatch, h.memSize(), len(a.buf))
	}
	if h.headSize() != uint32(a.headerSize) {
		return fmt.Errorf("%w: header says %d, want %d", ErrHeadSizeMismatch, h.headSize(), a.headerSize)
	}
	if h.recordSize() != uint32(a.recordSize) {
		return fmt.Errorf("%w: header says %d, want %d", ErrRecordSizeMismatch, h.recordSize(), a.recordSize)
	}
	if h.total() != a.total {
		return fmt.Errorf("%w: header says %d, buffer holds %d", ErrTotalMismatch, h.total(), a.total)
	}
	if h.used() > a.total {
		return fmt.Errorf("%w: used %d > total %d", ErrCorruptHeader, h.used(), a.total)
	}
	if free := h.freeHead(); free == Nil || uint32(free) > a.total+1 {
		return fmt.Errorf("%w: free list head %d", ErrCorruptHeader, free)
	}
	if active := h.activeHead(); uint32(active) > a.total {
		return fmt.Errorf("%w: active list head %d", ErrCorruptHeader, active)
	}
	return nil
}

// Success reports whether the arena was created or loaded successfully.
func (a *Arena) Success() bool {
	return a.err == nil
}

// Err returns the reason the arena is invalid, or nil.
func (a *Arena) Err() error {
	return a.err
}

// Allocate hands out a block with a zeroed value and links it at the head of
// the active list. It returns Nil when the arena is full or invalid.
func (a *Arena) Allocate() Handle {
	if a.err != nil {
		return Nil
	}

	h := a.hdr.freeHead()
	if uint32(h) > a.total {
		return Nil
	}

	rec := a.record(h)
	next := rec.next()
	if next == Nil {
		next = h + 1
	}
	a.hdr.setFreeHead(next)

	active := a.hdr.activeHead()
	rec.setFlags(flagActive)
	rec.setPrev(Nil)
	rec.setNext(active)
	if active != Nil {
		a.record(active).setPrev(h)
	}
	a.hdr.setActiveHead(h)
	a.hdr.setUsed(a.hdr.used() + 1)

	clear(a.value(h))
	return h
}

// Release returns h to the free list. Releasing Nil, an out-of-range handle
// or a block that is not active is a no-op.
func (a *Arena) Release(h Handle) {
	if !a.valid(h) {
		return
	}

	rec := a.record(h)
	if !rec.active() {
		return
	}

	prev, next := rec.prev(), rec.next()
	if prev != Nil {
		a.record(prev).setNext(next)
	} else {
		a.hdr.setActiveHead(next)
	}
	if next != Nil {
		a.record(next).setPrev(prev)
	}

	rec.setFlags(0)
	rec.setPrev(Nil)
	rec.setNext(a.hdr.freeHead())
	a.hdr.setFreeHead(h)
	a.hdr.setUsed(a.hdr.used() - 1)
}

// Value returns the payload of block h, or nil for an out-of-range handle.
// The slice aliases the arena buffer.
func (a *Arena) Value(h Handle) []byte {
	if !a.valid(h) {
		return nil
	}
	return a.value(h)
}

// HandleOf maps a payload slice previously returned by Value back to its
// handle. It returns Nil for slices that do not start at a block payload of
// this arena, and always for arenas with zero-sized values.
func (a *Arena) HandleOf(v []byte) Handle {
	if a.err != nil || len(v) == 0 || a.total == 0 {
		return Nil
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))) + uintptr(a.headerSize)
	p := uintptr(unsafe.Pointer(unsafe.SliceData(v)))
	if p < base {
		return Nil
	}

	off := p - base
	if off%uintptr(a.recordSize) != 0 {
		return Nil
	}
	idx := off / uintptr(a.recordSize)
	if idx >= uintptr(a.total) {
		return Nil
	}
	return Handle(idx + 1)
}

// Active reports whether h is an allocated block.
func (a *Arena) Active(h Handle) bool {
	return a.valid(h) && a.record(h).active()
}

// Begin returns the most recently allocated active block, or Nil.
func (a *Arena) Begin() Handle {
	if a.err != nil {
		return Nil
	}
	return a.hdr.activeHead()
}

// Next returns the active block allocated before h, or Nil.
func (a *Arena) Next(h Handle) Handle {
	if !a.Active(h) {
		return Nil
	}
	return a.record(h).next()
}

// All iterates over the active blocks, newest first. Releasing the current
// block during iteration is allowed.
func (a *Arena) All() iter.Seq2[Handle, []byte] {
	return func(yield func(Handle, []byte) bool) {
		for h := a.Begin(); h != Nil; {
			next := a.record(h).next()
			if !yield(h, a.value(h)) {
				return
			}
			h = next
		}
	}
}

// Capacity returns the fraction of blocks in use, in [0, 1]. A valid arena
// without any block reports 1.
func (a *Arena) Capacity() float64 {
	if a.err != nil {
		return 0
	}
	if a.total == 0 {
		return 1
	}
	return float64(a.hdr.used()) / float64(a.total)
}

// Used returns the number of active blocks.
func (a *Arena) Used() int {
	if a.err != nil {
		return 0
	}
	return int(a.hdr.used())
}

// Total returns the number of blocks the arena can hold.
func (a *Arena) Total() int {
	return int(a.total)
}

// ValueSize returns the payload size of each block.
func (a *Arena) ValueSize() int {
	return a.opts.valueSize
}

// RecordSize returns the stride between blocks.
func (a *Arena) RecordSize() int {
	return a.recordSize
}

// HeaderSize returns the offset of the first record, including the caller
// head payload.
func (a *Arena) HeaderSize() int {
	return a.headerSize
}

// Version returns the format version of the arena.
func (a *Arena) Version() uint16 {
	return a.opts.version
}

// Head returns the caller head payload, or nil for an invalid arena.
func (a *Arena) Head() []byte {
	if a.err != nil {
		return nil
	}
	return a.buf[HeaderSize:a.headerSize:a.headerSize]
}

// Bytes returns the whole underlying buffer, or nil for an invalid arena.
func (a *Arena) Bytes() []byte {
	return a.buf
}

func (a *Arena) valid(h Handle) bool {
	return a.err == nil && h != Nil && uint32(h) <= a.total
}

func (a *Arena) offset(h Handle) int {
	return a.headerSize + int(h-1)*a.recordSize
}

func (a *Arena) value(h Handle) []byte {
	off := a.offset(h)
	end := off + a.opts.valueSize
	return a.buf[off:end:end]
}

func (a *Arena) record(h Handle) record {
	off := a.offset(h) + a.opts.valueSize
	return record(a.buf[off : off+RecordOverhead])
}
