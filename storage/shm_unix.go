//go:build linux || darwin

package storage

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// SharedMemory is a storage backed by a System V shared memory segment.
type SharedMemory struct {
	mu   sync.Mutex
	key  int
	id   int
	data []byte
	size int
}

// OpenSharedMemory attaches the segment identified by key, creating a
// zero-filled one of size bytes if it does not exist. Key 0 (IPC_PRIVATE)
// always creates a new segment.
func OpenSharedMemory(key, size int) (*SharedMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	id, err := unix.SysvShmGet(key, size, 0o600)
	if errors.Is(err, unix.ENOENT) || key == unix.IPC_PRIVATE {
		id, err = unix.SysvShmGet(key, size, unix.IPC_CREAT|0o600)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: shmget key=%#x size=%d: %w", key, size, err)
	}

	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("storage: shmat id=%d: %w", id, err)
	}
	if len(data) < size {
		return nil, errors.Join(
			fmt.Errorf("%w: segment key=%#x has %d bytes, want %d", ErrInvalidSize, key, len(data), size),
			unix.SysvShmDetach(data),
		)
	}

	return &SharedMemory{key: key, id: id, data: data, size: size}, nil
}

// ID returns the segment identifier.
func (s *SharedMemory) ID() int { return s.id }

// Bytes returns the attached segment.
func (s *SharedMemory) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Size returns the requested size, which may be smaller than the segment.
func (s *SharedMemory) Size() int { return s.size }

// Close detaches the segment. The segment itself persists until Remove.
func (s *SharedMemory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil
	}
	err := unix.SysvShmDetach(s.data)
	s.data = nil
	if err != nil {
		return fmt.Errorf("storage: shmdt id=%d: %w", s.id, err)
	}
	return nil
}

// Remove marks the segment for deletion once every process has detached.
func (s *SharedMemory) Remove() error {
	if _, err := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("storage: shmctl IPC_RMID id=%d: %w", s.id, err)
	}
	return nil
}
