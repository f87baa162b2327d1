package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrConcurrentModification is returned by Pointer.Commit when another
// writer committed the version first.
var ErrConcurrentModification = errors.New("blobstore: concurrent modification")

// Pointer tracks which blob is the latest committed one, with a monotonically
// increasing version used for compare-and-swap.
type Pointer interface {
	// Latest returns the latest committed blob name and its version. It
	// returns ErrNotFound if nothing was committed.
	Latest(ctx context.Context) (name string, version uint64, err error)
	// Commit records name as version, which must be exactly one past the
	// latest version (1 for the first commit).
	Commit(ctx context.Context, version uint64, name string) error
}

// MemoryPointer is an in-process Pointer.
type MemoryPointer struct {
	mu      sync.Mutex
	name    string
	version uint64
}

// NewMemoryPointer returns an empty pointer.
func NewMemoryPointer() *MemoryPointer {
	return &MemoryPointer{}
}

func (p *MemoryPointer) Latest(_ context.Context) (string, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.version == 0 {
		return "", 0, ErrNotFound
	}
	return p.name, p.version, nil
}

func (p *MemoryPointer) Commit(_ context.Context, version uint64, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if version != p.version+1 {
		return fmt.Errorf("%w: version %d, latest %d", ErrConcurrentModification, version, p.version)
	}
	p.name, p.version = name, version
	return nil
}
