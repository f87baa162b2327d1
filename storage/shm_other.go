//go:build !(linux || darwin)

package storage

// SharedMemory is unavailable on this platform.
type SharedMemory struct{}

// OpenSharedMemory returns ErrUnsupported on this platform.
func OpenSharedMemory(key, size int) (*SharedMemory, error) {
	return nil, ErrUnsupported
}

func (*SharedMemory) ID() int       { return -1 }
func (*SharedMemory) Bytes() []byte { return nil }
func (*SharedMemory) Size() int     { return 0 }
func (*SharedMemory) Close() error  { return nil }
func (*SharedMemory) Remove() error { return ErrUnsupported }
