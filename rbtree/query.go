package rbtree

// Count returns the number of keys strictly before c; for End it is Len.
// With a Count rollup attached it runs in O(log n), otherwise it walks the
// tree in order.
func (t *Tree[K, V]) Count(c Cursor) int {
	if t.err != nil {
		return 0
	}
	if c.h == Nil {
		return t.Len()
	}
	if t.count >= 0 {
		return int(t.prefix(t.count, c))
	}

	n := 0
	for x := t.minimum(t.root()); x != Nil && x != c.h; x = t.successor(x) {
		n++
	}
	return n
}

// CountRange returns the number of keys in [c1, c2). c1 must not be after c2.
func (t *Tree[K, V]) CountRange(c1, c2 Cursor) int {
	return t.Count(c2) - t.Count(c1)
}

// Sum returns the total weight of the values strictly before c, using the
// first attached Sum rollup. It returns 0 without a Sum rollup.
func (t *Tree[K, V]) Sum(c Cursor) int64 {
	if t.err != nil || t.sum < 0 {
		return 0
	}
	return t.prefix(t.sum, c)
}

// SumRange returns the total weight of the values in [c1, c2).
func (t *Tree[K, V]) SumRange(c1, c2 Cursor) int64 {
	return t.Sum(c2) - t.Sum(c1)
}

// Prefix returns agg's measure over the keys strictly before c. agg must be
// attached to the tree; otherwise Prefix returns 0.
func (t *Tree[K, V]) Prefix(agg Aggregate, c Cursor) int64 {
	if t.err != nil {
		return 0
	}
	for i, r := range t.rollups {
		if r == Rollup(agg) {
			return t.prefix(i, c)
		}
	}
	return 0
}

// Between returns agg's measure over the keys in [c1, c2).
func (t *Tree[K, V]) Between(agg Aggregate, c1, c2 Cursor) int64 {
	return t.Prefix(agg, c2) - t.Prefix(agg, c1)
}

func (t *Tree[K, V]) prefix(i int, c Cursor) int64 {
	agg, ok := t.rollups[i].(Aggregate)
	if !ok {
		return 0
	}

	if c.h == Nil {
		return spine(agg, t.node(i, t.root()))
	}

	n := t.node(i, c.h)
	sum := agg.Left(n)
	for child, p := n, n.Parent(); !p.IsNil(); child, p = p, p.Parent() {
		if p.Right().Handle() == child.Handle() {
			sum += agg.Left(p) + agg.Weight(p)
		}
	}
	return sum
}

// Select returns a cursor at the key with the given 0-based rank, or End
// when rank is out of range. With a Count rollup attached it runs in
// O(log n).
func (t *Tree[K, V]) Select(rank int) Cursor {
	if t.err != nil || rank < 0 || rank >= t.Len() {
		return End()
	}

	if t.count < 0 {
		x := t.minimum(t.root())
		for ; rank > 0; rank-- {
			x = t.successor(x)
		}
		return Cursor{h: x}
	}

	agg := t.rollups[t.count].(Aggregate)
	for x := t.root(); x != Nil; {
		lc := int(agg.Left(t.node(t.count, x)))
		switch {
		case rank < lc:
			x = t.left(x)
		case rank == lc:
			return Cursor{h: x}
		default:
			rank -= lc + 1
			x = t.right(x)
		}
	}
	return End()
}
