package rbtree

func (t *nodes) rotateLeft(x Handle) {
	y := t.right(x)
	yl := t.left(y)

	t.setRight(x, yl)
	if yl != Nil {
		t.setParent(yl, x)
	}
	t.transplant(x, y)
	t.setLeft(y, x)
	t.setParent(x, y)

	t.rotateHooks(x, y)
}

func (t *nodes) rotateRight(x Handle) {
	y := t.left(x)
	yr := t.right(y)

	t.setLeft(x, yr)
	if yr != Nil {
		t.setParent(yr, x)
	}
	t.transplant(x, y)
	t.setRight(y, x)
	t.setParent(x, y)

	t.rotateHooks(x, y)
}

// attach links the fresh red node z below parent and rebalances.
func (t *nodes) attach(z, parent Handle, less bool) {
	t.setParent(z, parent)
	switch {
	case parent == Nil:
		t.setRoot(z)
	case less:
		t.setLeft(parent, z)
	default:
		t.setRight(parent, z)
	}

	t.insertHooks(z)
	t.insertFixup(z)
}

func (t *nodes) insertFixup(z Handle) {
	for t.color(t.parent(z)) == red {
		p := t.parent(z)
		g := t.parent(p)

		if p == t.left(g) {
			if u := t.right(g); t.color(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.right(p) {
				z = p
				t.rotateLeft(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateRight(g)
		} else {
			if u := t.left(g); t.color(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.left(p) {
				z = p
				t.rotateRight(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateLeft(g)
		}
	}
	t.setColor(t.root(), black)
}

// remove deletes z from the tree and returns the handle that was released.
// A node with two children takes over its successor's key and value, and the
// successor is unlinked instead.
func (t *nodes) remove(z Handle) Handle {
	y := z
	if t.left(z) != Nil && t.right(z) != Nil {
		y = t.minimum(t.right(z))
	}

	t.deleteHooks(y, z)

	if y != z {
		copy(t.key(z), t.key(y))
		copy(t.value(z), t.value(y))
	}

	// y has at most one child.
	x := t.left(y)
	if x == Nil {
		x = t.right(y)
	}
	xParent := t.parent(y)
	t.transplant(y, x)

	if t.color(y) == black {
		t.deleteFixup(x, xParent)
	}

	t.a.Release(y)
	return y
}

// deleteFixup restores the black height after a black node was unlinked. x
// may be Nil, so its parent is tracked explicitly.
func (t *nodes) deleteFixup(x, parent Handle) {
	for x != t.root() && t.color(x) == black {
		if x == t.left(parent) {
			w := t.right(parent)
			if t.color(w) == red {
				t.setColor(w, black)
				t.setColor(parent, red)
				t.rotateLeft(parent)
				w = t.right(parent)
			}
			if t.color(t.left(w)) == black && t.color(t.right(w)) == black {
				t.setColor(w, red)
				x, parent = parent, t.parent(parent)
				continue
			}
			if t.color(t.right(w)) == black {
				t.setColor(t.left(w), black)
				t.setColor(w, red)
				t.rotateRight(w)
				w = t.right(parent)
			}
			t.setColor(w, t.color(parent))
			t.setColor(parent, black)
			t.setColor(t.right(w), black)
			t.rotateLeft(parent)
			x, parent = t.root(), Nil
		} else {
			w := t.left(parent)
			if t.color(w) == red {
				t.setColor(w, black)
				t.setColor(parent, red)
				t.rotateRight(parent)
				w = t.left(parent)
			}
			if t.color(t.left(w)) == black && t.color(t.right(w)) == black {
				t.setColor(w, red)
				x, parent = parent, t.parent(parent)
				continue
			}
			if t.color(t.left(w)) == black {
				t.setColor(t.right(w), black)
				t.setColor(w, red)
				t.rotateLeft(w)
				w = t.left(parent)
			}
			t.setColor(w, t.color(parent))
			t.setColor(parent, black)
			t.setColor(t.left(w), black)
			t.rotateRight(parent)
			x, parent = t.root(), Nil
		}
	}
	if x != Nil {
		t.setColor(x, black)
	}
}
