package rbtree

import (
	"fmt"

	"github.com/hupe1980/nindex/arena"
	"github.com/hupe1980/nindex/codec"
)

// Tree is an ordered map from K to V stored in an arena.
type Tree[K, V any] struct {
	nodes
	keys    codec.Codec[K]
	values  codec.Codec[V]
	compare func(a, b K) int

	count int // index of the Count rollup, or -1
	sum   int // index of the first Sum rollup, or -1
	err   error
}

func arenaOptions(l layout, headSize int) []arena.Option {
	return []arena.Option{
		arena.WithMagic(Magic),
		arena.WithVersion(Version),
		arena.WithValueSize(l.nodeSize),
		arena.WithHeadSize(HeadSize + headSize),
	}
}

// BufferSize returns the number of bytes needed for a tree of capacity nodes.
func BufferSize[K, V any](capacity int, keys codec.Codec[K], values codec.Codec[V], opts ...Option) (int, error) {
	o := applyOptions(opts)
	l, err := newLayout(keys.Size(), values.Size(), o.rollups)
	if err != nil {
		return 0, err
	}
	return arena.BufferSize(capacity, l.nodeSize, HeadSize+o.headSize)
}

// New creates a tree of capacity nodes in a fresh heap buffer.
func New[K, V any](capacity int, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) *Tree[K, V] {
	size, err := BufferSize(capacity, keys, values, opts...)
	if err != nil {
		return &Tree[K, V]{err: err, count: -1, sum: -1}
	}
	return Load(make([]byte, size), keys, values, compare, opts...)
}

// LoadStorage loads or bootstraps a tree in the buffer provided by s.
func LoadStorage[K, V any](s arena.Storage, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) *Tree[K, V] {
	buf := s.Bytes()
	if n := s.Size(); n >= 0 && n < len(buf) {
		buf = buf[:n]
	}
	return Load(buf, keys, values, compare, opts...)
}

// Load attaches to a tree stored in buf. A buffer with an all-zero magic is
// formatted in place. A buffer holding a different structure, version or
// node layout yields an invalid tree; check Success.
func Load[K, V any](buf []byte, keys codec.Codec[K], values codec.Codec[V], compare func(a, b K) int, opts ...Option) *Tree[K, V] {
	o := applyOptions(opts)
	t := &Tree[K, V]{
		keys:    keys,
		values:  values,
		compare: compare,
		count:   -1,
		sum:     -1,
	}

	l, err := newLayout(keys.Size(), values.Size(), o.rollups)
	if err != nil {
		t.err = err
		return t
	}
	if o.headSize < 0 {
		t.err = fmt.Errorf("%w: head size %d", ErrInvalidLayout, o.headSize)
		return t
	}

	a := arena.Load(buf, arenaOptions(l, o.headSize)...)
	if !a.Success() {
		t.err = a.Err()
		return t
	}

	head := a.Head()
	stamped, err := l.matches(head)
	if err != nil {
		t.err = err
		return t
	}
	if !stamped {
		l.stamp(head)
	}

	t.nodes = nodes{a: a, head: head, l: l, rollups: o.rollups}
	for i, r := range o.rollups {
		switch r.(type) {
		case *Count:
			if t.count < 0 {
				t.count = i
			}
		case *Sum:
			if t.sum < 0 {
				t.sum = i
			}
		}
	}
	return t
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Success reports whether the tree was created or loaded successfully.
func (t *Tree[K, V]) Success() bool { return t.err == nil }

// Err returns the reason the tree is invalid, or nil.
func (t *Tree[K, V]) Err() error { return t.err }

// Len returns the number of keys.
func (t *Tree[K, V]) Len() int {
	if t.err != nil {
		return 0
	}
	return t.a.Used()
}

// Cap returns the maximum number of keys.
func (t *Tree[K, V]) Cap() int {
	if t.err != nil {
		return 0
	}
	return t.a.Total()
}

// Capacity returns the fraction of nodes in use, in [0, 1].
func (t *Tree[K, V]) Capacity() float64 {
	if t.err != nil {
		return 0
	}
	return t.a.Capacity()
}

// Head returns the caller head payload.
func (t *Tree[K, V]) Head() []byte {
	if t.err != nil {
		return nil
	}
	return t.head[HeadSize:len(t.head):len(t.head)]
}

// Bytes returns the underlying buffer.
func (t *Tree[K, V]) Bytes() []byte {
	if t.err != nil {
		return nil
	}
	return t.a.Bytes()
}

// Arena returns the arena holding the nodes, or nil for an invalid tree.
func (t *Tree[K, V]) Arena() *arena.Arena {
	if t.err != nil {
		return nil
	}
	return t.a
}

// search descends from the root. It returns the matching node, or Nil and
// the last visited node together with the direction taken from it.
func (t *Tree[K, V]) search(key K) (match, parent Handle, less bool) {
	for x := t.root(); x != Nil; {
		c := t.compare(key, t.keys.Get(t.key(x)))
		if c == 0 {
			return x, parent, less
		}
		parent, less = x, c < 0
		if less {
			x = t.left(x)
		} else {
			x = t.right(x)
		}
	}
	return Nil, parent, less
}

// Hash looks up key. On a miss with insert set, a node with a zero value is
// inserted. It returns Nil on a miss without insert, when the arena is full
// or when the tree is invalid. Inserting an existing key returns the existing
// node unchanged.
func (t *Tree[K, V]) Hash(key K, insert bool) Handle {
	h, _ := t.hash(key, insert, nil)
	return h
}

func (t *Tree[K, V]) hash(key K, insert bool, value *V) (Handle, bool) {
	if t.err != nil {
		return Nil, false
	}

	match, parent, less := t.search(key)
	if match != Nil || !insert {
		return match, false
	}

	z := t.a.Allocate()
	if z == Nil {
		return Nil, false
	}
	t.keys.Put(t.key(z), key)
	if value != nil {
		t.values.Put(t.value(z), *value)
	}
	t.attach(z, parent, less)
	return z, true
}

// Put inserts or replaces the value stored under key and returns its node,
// or Nil when the arena is full.
func (t *Tree[K, V]) Put(key K, value V) Handle {
	h, inserted := t.hash(key, true, &value)
	if h != Nil && !inserted {
		t.SetValue(h, value)
	}
	return h
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	var zero V
	h := t.Hash(key, false)
	if h == Nil {
		return zero, false
	}
	return t.values.Get(t.value(h)), true
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.Hash(key, false) != Nil
}

// Clear removes key and reports whether it was present.
func (t *Tree[K, V]) Clear(key K) bool {
	h := t.Hash(key, false)
	if h == Nil {
		return false
	}
	t.remove(h)
	return true
}

// Key returns the key of node h.
func (t *Tree[K, V]) Key(h Handle) K {
	var zero K
	if !t.live(h) {
		return zero
	}
	return t.keys.Get(t.key(h))
}

// Value returns the value of node h.
func (t *Tree[K, V]) Value(h Handle) V {
	var zero V
	if !t.live(h) {
		return zero
	}
	return t.values.Get(t.value(h))
}

// SetValue overwrites the value of node h and keeps rollups consistent.
func (t *Tree[K, V]) SetValue(h Handle, value V) {
	if !t.live(h) {
		return
	}
	if len(t.rollups) == 0 {
		t.values.Put(t.value(h), value)
		return
	}
	t.deleteHooks(h, h)
	t.values.Put(t.value(h), value)
	t.insertHooks(h)
}

// Slot returns the encoded value of node h for in-place access. Writes
// through the slot bypass rollups; use SetValue when a rollup reads values.
func (t *Tree[K, V]) Slot(h Handle) []byte {
	if !t.live(h) {
		return nil
	}
	return t.value(h)
}

// Minimum returns the smallest key and its value.
func (t *Tree[K, V]) Minimum() (K, V, bool) {
	return t.At(t.Iterator())
}

// Maximum returns the largest key and its value.
func (t *Tree[K, V]) Maximum() (K, V, bool) {
	if t.err != nil {
		return t.At(End())
	}
	return t.At(Cursor{h: t.maximum(t.root())})
}

func (t *Tree[K, V]) live(h Handle) bool {
	return t.err == nil && t.a.Active(h)
}
