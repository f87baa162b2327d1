package rbtree

import "fmt"

// Check verifies the red-black invariants, parent links, key order, the node
// count and every Aggregate rollup field against a full recount. It is meant
// for tests and offline verification of stored trees.
func (t *Tree[K, V]) Check() error {
	if t.err != nil {
		return t.err
	}

	root := t.root()
	if t.color(root) != black {
		return fmt.Errorf("%w: root %d is red", ErrCorrupt, root)
	}
	if root != Nil && t.parent(root) != Nil {
		return fmt.Errorf("%w: root %d has parent %d", ErrCorrupt, root, t.parent(root))
	}

	size, _, _, err := t.verify(root)
	if err != nil {
		return err
	}
	if size != t.a.Used() {
		return fmt.Errorf("%w: %d reachable nodes, arena holds %d", ErrCorrupt, size, t.a.Used())
	}

	prev := Nil
	for x := t.minimum(root); x != Nil; x = t.successor(x) {
		if prev != Nil && t.compare(t.keys.Get(t.key(prev)), t.keys.Get(t.key(x))) >= 0 {
			return fmt.Errorf("%w: keys of %d and %d out of order", ErrCorrupt, prev, x)
		}
		prev = x
	}
	return nil
}

// verify returns the size, black height and per-rollup measure of the
// subtree rooted at h.
func (t *Tree[K, V]) verify(h Handle) (size, blackHeight int, measures []int64, err error) {
	measures = make([]int64, len(t.rollups))
	if h == Nil {
		return 0, 1, measures, nil
	}
	if !t.a.Active(h) {
		return 0, 0, nil, fmt.Errorf("%w: node %d is not allocated", ErrCorrupt, h)
	}

	l, r := t.left(h), t.right(h)
	for _, c := range []Handle{l, r} {
		if c == Nil {
			continue
		}
		if t.parent(c) != h {
			return 0, 0, nil, fmt.Errorf("%w: node %d has parent %d, want %d", ErrCorrupt, c, t.parent(c), h)
		}
		if t.color(h) == red && t.color(c) == red {
			return 0, 0, nil, fmt.Errorf("%w: red node %d has red child %d", ErrCorrupt, h, c)
		}
	}

	ls, lbh, lm, err := t.verify(l)
	if err != nil {
		return 0, 0, nil, err
	}
	rs, rbh, rm, err := t.verify(r)
	if err != nil {
		return 0, 0, nil, err
	}
	if lbh != rbh {
		return 0, 0, nil, fmt.Errorf("%w: node %d has black heights %d and %d", ErrCorrupt, h, lbh, rbh)
	}

	for i, ru := range t.rollups {
		agg, ok := ru.(Aggregate)
		if !ok {
			continue
		}
		n := t.node(i, h)
		if got := agg.Left(n); got != lm[i] {
			return 0, 0, nil, fmt.Errorf("%w: node %d %s is %d, want %d", ErrCorrupt, h, ru.Name(), got, lm[i])
		}
		measures[i] = lm[i] + agg.Weight(n) + rm[i]
	}

	blackHeight = lbh
	if t.color(h) == black {
		blackHeight++
	}
	return ls + rs + 1, blackHeight, measures, nil
}
