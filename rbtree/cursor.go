package rbtree

import "iter"

// Cursor is a position in a tree: a node, or the end position past the
// largest key. Cursors are comparable; they are invalidated by mutations.
type Cursor struct {
	h Handle
}

// End returns the end cursor.
func End() Cursor { return Cursor{} }

// Valid reports whether c points at a node.
func (c Cursor) Valid() bool { return c.h != Nil }

// Handle returns the node c points at, or Nil at the end.
func (c Cursor) Handle() Handle { return c.h }

// End returns the end cursor.
func (t *Tree[K, V]) End() Cursor { return End() }

// Iterator returns a cursor at the smallest key, or End for an empty tree.
func (t *Tree[K, V]) Iterator() Cursor {
	if t.err != nil {
		return End()
	}
	return Cursor{h: t.minimum(t.root())}
}

// IteratorFrom returns a cursor at key if present, else at the smallest key
// greater than key, else End.
func (t *Tree[K, V]) IteratorFrom(key K) Cursor {
	if t.err != nil {
		return End()
	}

	bound := Nil
	for x := t.root(); x != Nil; {
		c := t.compare(key, t.keys.Get(t.key(x)))
		switch {
		case c == 0:
			return Cursor{h: x}
		case c < 0:
			bound = x
			x = t.left(x)
		default:
			x = t.right(x)
		}
	}
	return Cursor{h: bound}
}

// CursorOf returns a cursor at node h.
func (t *Tree[K, V]) CursorOf(h Handle) Cursor {
	if !t.live(h) {
		return End()
	}
	return Cursor{h: h}
}

// At returns the key and value at c.
func (t *Tree[K, V]) At(c Cursor) (K, V, bool) {
	var (
		k K
		v V
	)
	if !t.live(c.h) {
		return k, v, false
	}
	return t.keys.Get(t.key(c.h)), t.values.Get(t.value(c.h)), true
}

// Next returns the key and value at c and advances c to the in-order
// successor. At the end it returns false and leaves c unchanged.
func (t *Tree[K, V]) Next(c *Cursor) (K, V, bool) {
	k, v, ok := t.At(*c)
	if ok {
		c.h = t.successor(c.h)
	}
	return k, v, ok
}

// Prev moves c to the in-order predecessor and returns its key and value.
// From the end it moves to the largest key.
func (t *Tree[K, V]) Prev(c *Cursor) (K, V, bool) {
	if t.err != nil {
		return t.At(End())
	}
	var h Handle
	if c.h == Nil {
		h = t.maximum(t.root())
	} else if t.live(c.h) {
		h = t.predecessor(c.h)
	}
	if h == Nil {
		return t.At(End())
	}
	c.h = h
	return t.At(*c)
}

// All iterates over all keys in ascending order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return t.Ascend(t.Iterator())
}

// Ascend iterates from c to the end in ascending order.
func (t *Tree[K, V]) Ascend(c Cursor) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := t.Next(&c)
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// Range iterates over the keys in [from, to) in ascending order.
func (t *Tree[K, V]) Range(from, to K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := t.IteratorFrom(from)
		for {
			k, v, ok := t.Next(&c)
			if !ok || t.compare(k, to) >= 0 || !yield(k, v) {
				return
			}
		}
	}
}

// Descend iterates over all keys in descending order.
func (t *Tree[K, V]) Descend() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := End()
		for {
			k, v, ok := t.Prev(&c)
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}
