package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping represents a memory-mapped region.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data     []byte
	region   []byte // page-aligned mapping that data is carved from
	size     int
	writable bool
	closed   atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Open maps the whole file at path into memory as read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, ErrInvalidSize
	}

	return MapFile(f, int(size), false)
}

// MapFile maps the first size bytes of f with MAP_SHARED semantics.
// The file must already be at least size bytes long. The mapping stays valid
// after f is closed.
func MapFile(f *os.File, size int, writable bool) (*Mapping, error) {
	return MapFileAt(f, 0, size, writable)
}

// MapFileAt maps size bytes of f starting at off. The offset need not be
// page aligned; the mapping is widened to the enclosing page internally.
func MapFileAt(f *os.File, off int64, size int, writable bool) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if off < 0 {
		return nil, ErrInvalidOffset
	}

	page := int64(os.Getpagesize())
	delta := int(off % page)

	region, unmapFunc, err := osMap(f, off-int64(delta), delta+size, writable)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:     region[delta : delta+size],
		region:   region,
		size:     size,
		writable: writable,
		unmap:    unmapFunc,
	}, nil
}

// MapAnon creates a zero-filled, read-write, private anonymous mapping.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:     data,
		region:   data,
		size:     size,
		writable: true,
		unmap:    unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.region != nil {
		return m.unmap(m.region)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Writable reports whether the mapping was created with PROT_WRITE.
func (m *Mapping) Writable() bool {
	return m.writable
}

// Sync flushes dirty pages of a shared file mapping back to the file.
func (m *Mapping) Sync() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.writable {
		return ErrReadOnly
	}
	if m.region == nil {
		return nil
	}
	return osSync(m.region)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.region == nil {
		return nil
	}
	return osAdvise(m.region, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
