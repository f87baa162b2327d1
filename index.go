package nindex

import (
	"bytes"
	"context"
	"iter"
	"sync"
	"time"

	"github.com/hupe1980/nindex/blobstore"
	"github.com/hupe1980/nindex/rbtree"
	"github.com/hupe1980/nindex/snapshot"
	"github.com/hupe1980/nindex/storage"
)

// Index is an ordered map from K to V stored in a single buffer.
//
// It is safe for concurrent use. Iterators hold a read lock until they
// return, so the loop body must not call methods that write.
type Index[K, V any] struct {
	mu      sync.RWMutex
	tree    *rbtree.Tree[K, V]
	compare func(a, b K) int
	storage storage.Storage
	opts    options
	closed  bool
}

// Stats describes the fill state of an Index.
type Stats struct {
	Keys     int
	Capacity int
	Bytes    int
	Load     float64
}

// Name returns the index name.
func (idx *Index[K, V]) Name() string { return idx.opts.name }

// Put inserts or replaces the value of key. It returns ErrFull when a new
// key does not fit.
func (idx *Index[K, V]) Put(key K, value V) error {
	start := time.Now()

	idx.mu.Lock()
	err := idx.put(key, value)
	idx.mu.Unlock()

	idx.opts.metricsCollector.RecordInsert(time.Since(start), err)
	return err
}

func (idx *Index[K, V]) put(key K, value V) error {
	if idx.closed {
		return ErrClosed
	}
	if idx.tree.Put(key, value) == rbtree.Nil {
		return ErrFull
	}
	return nil
}

// Get returns the value stored for key.
func (idx *Index[K, V]) Get(key K) (V, bool) {
	start := time.Now()

	idx.mu.RLock()
	var (
		v  V
		ok bool
	)
	if !idx.closed {
		v, ok = idx.tree.Get(key)
	}
	idx.mu.RUnlock()

	idx.opts.metricsCollector.RecordLookup(time.Since(start), ok)
	return v, ok
}

// Contains reports whether key is present.
func (idx *Index[K, V]) Contains(key K) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return !idx.closed && idx.tree.Contains(key)
}

// Delete removes key and reports whether it was present.
func (idx *Index[K, V]) Delete(key K) bool {
	start := time.Now()

	idx.mu.Lock()
	found := !idx.closed && idx.tree.Clear(key)
	idx.mu.Unlock()

	idx.opts.metricsCollector.RecordDelete(time.Since(start), found)
	return found
}

// Len returns the number of keys.
func (idx *Index[K, V]) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0
	}
	return idx.tree.Len()
}

// Min returns the smallest key and its value.
func (idx *Index[K, V]) Min() (K, V, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return idx.tree.Minimum()
}

// Max returns the largest key and its value.
func (idx *Index[K, V]) Max() (K, V, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return idx.tree.Maximum()
}

// Rank returns the number of keys strictly less than key.
func (idx *Index[K, V]) Rank(key K) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return 0
	}
	return idx.tree.Count(idx.tree.IteratorFrom(key))
}

// Select returns the key and value of rank i (0-based).
func (idx *Index[K, V]) Select(i int) (K, V, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return idx.tree.At(idx.tree.Select(i))
}

// CountRange returns the number of keys in [from, to).
func (idx *Index[K, V]) CountRange(from, to K) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed || idx.compare(from, to) >= 0 {
		return 0
	}
	return idx.tree.CountRange(idx.tree.IteratorFrom(from), idx.tree.IteratorFrom(to))
}

// SumRange returns the total weight of the values in [from, to) as defined
// by the first sum rollup. It is 0 without one.
func (idx *Index[K, V]) SumRange(from, to K) int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed || idx.compare(from, to) >= 0 {
		return 0
	}
	return idx.tree.SumRange(idx.tree.IteratorFrom(from), idx.tree.IteratorFrom(to))
}

// All iterates over all entries in ascending key order.
func (idx *Index[K, V]) All() iter.Seq2[K, V] {
	return idx.locked(func() iter.Seq2[K, V] { return idx.tree.All() })
}

// Range iterates over the entries with keys in [from, to).
func (idx *Index[K, V]) Range(from, to K) iter.Seq2[K, V] {
	return idx.locked(func() iter.Seq2[K, V] { return idx.tree.Range(from, to) })
}

// Descend iterates over all entries in descending key order.
func (idx *Index[K, V]) Descend() iter.Seq2[K, V] {
	return idx.locked(func() iter.Seq2[K, V] { return idx.tree.Descend() })
}

func (idx *Index[K, V]) locked(seq func() iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		idx.mu.RLock()
		defer idx.mu.RUnlock()
		if idx.closed {
			return
		}
		for k, v := range seq() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Head returns the caller-defined header reserved with WithHeadSize. Writes
// to it must be synchronized by the caller. The slice is invalid after Close,
// and a closed index returns nil.
func (idx *Index[K, V]) Head() []byte {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil
	}
	return idx.tree.Head()
}

// Stats returns the fill state.
func (idx *Index[K, V]) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return Stats{}
	}
	return Stats{
		Keys:     idx.tree.Len(),
		Capacity: idx.tree.Cap(),
		Bytes:    len(idx.tree.Bytes()),
		Load:     idx.tree.Capacity(),
	}
}

// Check verifies the red-black, ordering and rollup invariants.
func (idx *Index[K, V]) Check() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return ErrClosed
	}
	if err := idx.tree.Check(); err != nil {
		return err
	}
	return idx.tree.Arena().Validate()
}

// Flush writes a file-backed index to disk. It is a no-op for other
// storages.
func (idx *Index[K, V]) Flush() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return ErrClosed
	}
	if f, ok := idx.storage.(storage.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Snapshot publishes a copy of the buffer as the next version in ptr. The
// index is read-locked only while the buffer is copied.
func (idx *Index[K, V]) Snapshot(ctx context.Context, store blobstore.Store, ptr blobstore.Pointer) (uint64, error) {
	start := time.Now()

	idx.mu.RLock()
	if idx.closed {
		idx.mu.RUnlock()
		return 0, ErrClosed
	}
	buf := bytes.Clone(idx.tree.Bytes())
	idx.mu.RUnlock()

	version, err := snapshot.Publish(ctx, store, ptr, idx.opts.name, buf, idx.opts.snapshotOptions...)

	d := time.Since(start)
	idx.opts.metricsCollector.RecordSnapshot(len(buf), d, err)
	idx.opts.logger.LogSnapshot(ctx, version, len(buf), d, err)
	return version, err
}

// Close releases the storage. Further calls fail with ErrClosed or return
// zero values.
func (idx *Index[K, V]) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true

	err := idx.storage.Close()
	idx.opts.logger.LogClose(context.Background(), err)
	return err
}
