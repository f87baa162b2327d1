package storage

import (
	"errors"
	"fmt"

	"github.com/hupe1980/nindex/internal/mem"
	"github.com/hupe1980/nindex/internal/mmap"
)

var (
	// ErrInvalidSize is returned when a requested size is not positive.
	ErrInvalidSize = errors.New("storage: invalid size")
	// ErrUnsupported is returned on platforms lacking the required primitives.
	ErrUnsupported = errors.New("storage: unsupported on this platform")
	// ErrClosed is returned when operating on a closed storage.
	ErrClosed = errors.New("storage: closed")
)

// Storage is a buffer provider.
type Storage interface {
	// Bytes returns the buffer. It is nil after Close.
	Bytes() []byte
	// Size returns the usable size of the buffer.
	Size() int
	// Close releases the buffer.
	Close() error
}

// Flusher is implemented by storages that persist their buffer.
type Flusher interface {
	Flush() error
}

// Heap is a storage backed by a Go slice.
type Heap struct {
	buf []byte
}

// NewHeap allocates a zeroed heap buffer of size bytes aligned to a cache
// line.
func NewHeap(size int) (*Heap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Heap{buf: mem.AllocAligned(size)}, nil
}

// WrapHeap uses buf as storage without copying.
func WrapHeap(buf []byte) *Heap {
	return &Heap{buf: buf}
}

func (h *Heap) Bytes() []byte { return h.buf }
func (h *Heap) Size() int     { return len(h.buf) }

// Close drops the reference to the buffer.
func (h *Heap) Close() error {
	h.buf = nil
	return nil
}

// Anonymous is a storage backed by an anonymous private mapping.
type Anonymous struct {
	m *mmap.Mapping
}

// NewAnonymous maps size zeroed bytes outside the Go heap.
func NewAnonymous(size int) (*Anonymous, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("storage: map anonymous %d bytes: %w", size, err)
	}
	return &Anonymous{m: m}, nil
}

func (a *Anonymous) Bytes() []byte { return a.m.Bytes() }
func (a *Anonymous) Size() int     { return a.m.Size() }
func (a *Anonymous) Close() error  { return a.m.Close() }
