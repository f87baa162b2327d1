package nindex

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/nindex/blobstore"
	"github.com/hupe1980/nindex/codec"
	"github.com/hupe1980/nindex/rbtree"
	"github.com/hupe1980/nindex/snapshot"
	"github.com/hupe1980/nindex/storage"
)

// Open attaches an index to the buffer of s. A zero-filled buffer is
// formatted in place; any other buffer must hold an index written with the
// same codecs and rollups. The index takes ownership of s.
func Open[K, V any](s storage.Storage, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)
	return open(s, describe(s), keys, values, compare, o)
}

func open[K, V any](s storage.Storage, backend string, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, o options) (*Index[K, V], error) {
	o.logger = o.logger.WithIndex(o.name)

	tree := rbtree.LoadStorage(s, keys, values, compare, o.treeOptions()...)
	if !tree.Success() {
		err := &OpenError{Backend: backend, cause: tree.Err()}
		o.logger.LogOpen(context.Background(), backend, 0, 0, err)
		return nil, err
	}

	o.logger.LogOpen(context.Background(), backend, tree.Len(), tree.Cap(), nil)
	return &Index[K, V]{
		tree:    tree,
		compare: compare,
		storage: s,
		opts:    o,
	}, nil
}

func describe(s storage.Storage) string {
	switch s := s.(type) {
	case *storage.File:
		return "file " + s.Path()
	case *storage.SharedMemory:
		return fmt.Sprintf("shm id=%d", s.ID())
	case *storage.Anonymous:
		return "anonymous"
	case *storage.Heap:
		return "heap"
	default:
		return fmt.Sprintf("%T", s)
	}
}

func bufferSize[K, V any](capacity int, keys codec.Codec[K], values codec.Codec[V], o *options) (int, error) {
	size, err := rbtree.BufferSize(capacity, keys, values, o.treeOptions()...)
	if err != nil {
		return 0, fmt.Errorf("nindex: capacity %d: %w", capacity, err)
	}
	return size, nil
}

// openOwned opens an index on a storage it created, closing the storage if
// the buffer is rejected.
func openOwned[K, V any](s storage.Storage, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, o options) (*Index[K, V], error) {
	idx, err := open(s, describe(s), keys, values, compare, o)
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return idx, nil
}

// New creates an empty index of capacity keys on the Go heap.
func New[K, V any](capacity int, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)
	size, err := bufferSize(capacity, keys, values, &o)
	if err != nil {
		return nil, err
	}
	s, err := storage.NewHeap(size)
	if err != nil {
		return nil, err
	}
	return openOwned(s, keys, values, compare, o)
}

// NewAnonymous creates an empty index of capacity keys in an anonymous
// mapping outside the Go heap.
func NewAnonymous[K, V any](capacity int, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)
	size, err := bufferSize(capacity, keys, values, &o)
	if err != nil {
		return nil, err
	}
	s, err := storage.NewAnonymous(size)
	if err != nil {
		return nil, err
	}
	return openOwned(s, keys, values, compare, o)
}

// OpenFile opens the index stored at path. A missing or empty file is
// created with room for capacity keys; an existing one is mapped as is and
// capacity is ignored.
func OpenFile[K, V any](path string, capacity int, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)

	size := 0
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		if size, err = bufferSize(capacity, keys, values, &o); err != nil {
			return nil, err
		}
	}

	s, err := storage.OpenFile(path, size, storage.WithAccessPattern(o.accessPattern))
	if err != nil {
		return nil, &OpenError{Backend: "file " + path, cause: err}
	}
	return openOwned(s, keys, values, compare, o)
}

// OpenSharedMemory attaches the System V shared memory segment identified by
// key, creating it with room for capacity keys if needed. Every process must
// pass the same capacity.
func OpenSharedMemory[K, V any](key, capacity int, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)
	size, err := bufferSize(capacity, keys, values, &o)
	if err != nil {
		return nil, err
	}

	s, err := storage.OpenSharedMemory(key, size)
	if err != nil {
		return nil, &OpenError{Backend: fmt.Sprintf("shm key=%#x", key), cause: err}
	}
	return openOwned(s, keys, values, compare, o)
}

// Restore loads the snapshot ptr currently points to into a new heap index.
func Restore[K, V any](ctx context.Context, store blobstore.Store, ptr blobstore.Pointer, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) (*Index[K, V], error) {
	o := applyOptions(opts)
	logger := o.logger.WithIndex(o.name)

	buf, version, err := snapshot.RestoreLatest(ctx, store, ptr, o.snapshotOptions...)
	if err != nil {
		logger.LogRestore(ctx, 0, 0, err)
		return nil, err
	}

	idx, err := open(storage.WrapHeap(buf), fmt.Sprintf("snapshot version=%d", version), keys, values, compare, o)
	if err != nil {
		logger.LogRestore(ctx, version, 0, err)
		return nil, err
	}

	logger.LogRestore(ctx, version, idx.tree.Len(), nil)
	return idx, nil
}
