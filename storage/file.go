package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/hupe1980/nindex/internal/mmap"
)

// AccessPattern is a madvise(2) hint for file mappings.
type AccessPattern = mmap.AccessPattern

const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
	AccessDontNeed   = mmap.AccessDontNeed
)

// FileOption configures OpenFile.
type FileOption func(*fileOptions)

type fileOptions struct {
	perm    fs.FileMode
	pattern AccessPattern
	offset  int64
	create  bool
}

// WithOffset maps the region starting at off bytes into the file, leaving
// the bytes before it to the caller.
func WithOffset(off int64) FileOption {
	return func(o *fileOptions) {
		o.offset = off
	}
}

// WithPerm sets the permissions of a newly created file. Default 0o644.
func WithPerm(perm fs.FileMode) FileOption {
	return func(o *fileOptions) {
		o.perm = perm
	}
}

// WithAccessPattern passes a madvise(2) hint for the mapping. Tree lookups
// benefit from AccessRandom.
func WithAccessPattern(p AccessPattern) FileOption {
	return func(o *fileOptions) {
		o.pattern = p
	}
}

// WithoutCreate makes OpenFile fail when the file does not exist.
func WithoutCreate() FileOption {
	return func(o *fileOptions) {
		o.create = false
	}
}

// File is a storage backed by a read-write shared mapping of a file.
type File struct {
	mu   sync.Mutex
	path string
	f    *os.File
	m    *mmap.Mapping
}

// OpenFile maps the file at path. The file is created if missing and
// extended with zeros to size bytes if shorter. A size of 0 maps the existing
// file as is.
func OpenFile(path string, size int, opts ...FileOption) (*File, error) {
	o := fileOptions{perm: 0o644, create: true}
	for _, opt := range opts {
		opt(&o)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if o.offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidSize, o.offset)
	}

	flag := os.O_RDWR
	if o.create {
		flag |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, o.perm)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	m, err := mapFile(f, o.offset, size)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("storage: map %s: %w", path, err), f.Close())
	}

	if o.pattern != AccessDefault {
		if err := m.Advise(o.pattern); err != nil {
			return nil, errors.Join(fmt.Errorf("storage: advise %s: %w", path, err), m.Close(), f.Close())
		}
	}

	return &File{path: path, f: f, m: m}, nil
}

func mapFile(f *os.File, off int64, size int) (*mmap.Mapping, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if size == 0 {
		rest := fi.Size() - off
		if rest <= 0 || rest != int64(int(rest)) {
			return nil, fmt.Errorf("%w: %d bytes past offset %d", ErrInvalidSize, rest, off)
		}
		size = int(rest)
	}
	if end := off + int64(size); fi.Size() < end {
		if err := f.Truncate(end); err != nil {
			return nil, err
		}
	}

	return mmap.MapFileAt(f, off, size, true)
}

// Path returns the path of the mapped file.
func (s *File) Path() string { return s.path }

// Bytes returns the mapped buffer.
func (s *File) Bytes() []byte { return s.m.Bytes() }

// Size returns the size of the mapping.
func (s *File) Size() int { return s.m.Size() }

// Flush writes dirty pages back to the file (msync).
func (s *File) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if err := s.m.Sync(); err != nil {
		return fmt.Errorf("storage: flush %s: %w", s.path, err)
	}
	return nil
}

// Close flushes, unmaps and closes the file. It is idempotent.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}

	syncErr := s.m.Sync()
	unmapErr := s.m.Close()
	closeErr := s.f.Close()
	s.f = nil
	return errors.Join(syncErr, unmapErr, closeErr)
}
