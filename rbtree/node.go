package rbtree

// Node is the view of a node handed to a Rollup. Field returns the bytes
// reserved for the rollup being invoked; all other accessors are read-only
// by convention.
type Node struct {
	t     *nodes
	h     Handle
	field int
	width int
}

// Handle returns the node's handle.
func (n Node) Handle() Handle { return n.h }

// IsNil reports whether n is the null node.
func (n Node) IsNil() bool { return n.h == Nil }

// Left returns the left child.
func (n Node) Left() Node { return n.at(n.t.left(n.h)) }

// Right returns the right child.
func (n Node) Right() Node { return n.at(n.t.right(n.h)) }

// Parent returns the parent.
func (n Node) Parent() Node { return n.at(n.t.parent(n.h)) }

// Key returns the encoded key.
func (n Node) Key() []byte {
	if n.h == Nil {
		return nil
	}
	return n.t.key(n.h)
}

// Value returns the encoded value.
func (n Node) Value() []byte {
	if n.h == Nil {
		return nil
	}
	return n.t.value(n.h)
}

// Field returns the rollup's own field. It is nil for the null node.
func (n Node) Field() []byte {
	if n.h == Nil {
		return nil
	}
	end := n.field + n.width
	return n.t.a.Value(n.h)[n.field:end:end]
}

func (n Node) at(h Handle) Node {
	n.h = h
	return n
}

// node returns the view of h for rollup i.
func (t *nodes) node(i int, h Handle) Node {
	return Node{t: t, h: h, field: t.l.rollupOff[i], width: t.rollups[i].Width()}
}

// insertHooks notifies every ancestor whose left subtree contains z.
func (t *nodes) insertHooks(z Handle) {
	if len(t.rollups) == 0 {
		return
	}
	for child, p := z, t.parent(z); p != Nil; child, p = p, t.parent(p) {
		if t.left(p) != child {
			continue
		}
		for i, r := range t.rollups {
			r.OnInsert(t.node(i, p), t.node(i, z))
		}
	}
}

// deleteHooks notifies the ancestors of y, the node that is physically
// unlinked, that an element leaves their left subtree. z is the node whose
// key is removed from the tree. When y != z, y's key survives in z's slot, so
// ancestors strictly below z lose y while z and its ancestors lose z.
func (t *nodes) deleteHooks(y, z Handle) {
	if len(t.rollups) == 0 {
		return
	}
	removed := y
	for child, p := y, t.parent(y); p != Nil; child, p = p, t.parent(p) {
		if p == z {
			removed = z
		}
		if t.left(p) != child {
			continue
		}
		for i, r := range t.rollups {
			r.OnDelete(t.node(i, p), t.node(i, removed))
		}
	}
}

// rotateHooks recomputes the rollup fields of the two nodes of a rotation,
// the demoted one first.
func (t *nodes) rotateHooks(demoted, promoted Handle) {
	for i, r := range t.rollups {
		r.OnRotate(t.node(i, demoted))
		r.OnRotate(t.node(i, promoted))
	}
}
