package rbtree

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/nindex/arena"
)

// Handle identifies a node. It is the handle of the node's arena block.
type Handle = arena.Handle

// Nil is the null node handle.
const Nil = arena.Nil

// Magic is the arena magic of a tree.
const Magic = "RBTREE@@"

// Version is the on-disk format version of a tree.
const Version uint16 = 0x0102

// HeadSize is the size of the tree head stored in the arena head payload,
// excluding the caller head payload.
const HeadSize = headRollupCount + 2

const (
	red   uint8 = 0
	black uint8 = 1
)

const (
	offColor  = 0
	offParent = 1
	offLeft   = 5
	offRight  = 9
	offKey    = 13
)

const (
	headRoot        = 0
	headFlags       = 4
	headKeySize     = 8
	headValueSize   = 10
	headRollupWidth = 12
	headRollupCount = 14
)

var order = binary.NativeEndian

// layout describes where the fields of a node live inside its block.
type layout struct {
	keySize     int
	valueSize   int
	valueOff    int
	rollupOff   []int
	rollupWidth int
	nodeSize    int
}

func newLayout(keySize, valueSize int, rollups []Rollup) (layout, error) {
	if keySize <= 0 || keySize > math.MaxUint16 || valueSize < 0 || valueSize > math.MaxUint16 || len(rollups) > math.MaxUint16 {
		return layout{}, fmt.Errorf("%w: key=%d value=%d rollups=%d", ErrInvalidLayout, keySize, valueSize, len(rollups))
	}

	l := layout{
		keySize:   keySize,
		valueSize: valueSize,
		valueOff:  offKey + keySize,
		rollupOff: make([]int, len(rollups)),
	}
	off := l.valueOff + valueSize
	for i, r := range rollups {
		w := r.Width()
		if w <= 0 {
			return layout{}, fmt.Errorf("%w: rollup %s has width %d", ErrInvalidLayout, r.Name(), w)
		}
		l.rollupOff[i] = off
		off += w
		l.rollupWidth += w
	}
	if l.rollupWidth > math.MaxUint16 {
		return layout{}, fmt.Errorf("%w: rollup width %d", ErrInvalidLayout, l.rollupWidth)
	}
	l.nodeSize = off
	return l, nil
}

// stamp writes the layout fingerprint into a fresh tree head.
func (l layout) stamp(head []byte) {
	order.PutUint16(head[headKeySize:], uint16(l.keySize))
	order.PutUint16(head[headValueSize:], uint16(l.valueSize))
	order.PutUint16(head[headRollupWidth:], uint16(l.rollupWidth))
	order.PutUint16(head[headRollupCount:], uint16(len(l.rollupOff)))
}

// matches compares the layout fingerprint stored in head. stamped is false
// for a head that was never written.
func (l layout) matches(head []byte) (stamped bool, err error) {
	keySize := order.Uint16(head[headKeySize:])
	valueSize := order.Uint16(head[headValueSize:])
	width := order.Uint16(head[headRollupWidth:])
	count := order.Uint16(head[headRollupCount:])
	if keySize == 0 && valueSize == 0 && width == 0 && count == 0 {
		return false, nil
	}
	if int(keySize) != l.keySize || int(valueSize) != l.valueSize || int(width) != l.rollupWidth || int(count) != len(l.rollupOff) {
		return true, fmt.Errorf("%w: stored key=%d value=%d rollups=%d/%d, want key=%d value=%d rollups=%d/%d",
			ErrLayoutMismatch, keySize, valueSize, count, width, l.keySize, l.valueSize, len(l.rollupOff), l.rollupWidth)
	}
	return true, nil
}

// nodes is the untyped structural core of a tree: links, colors, rotations
// and the rollup hooks. It knows nothing about key order.
type nodes struct {
	a       *arena.Arena
	head    []byte
	l       layout
	rollups []Rollup
}

func (t *nodes) root() Handle     { return Handle(order.Uint32(t.head[headRoot:])) }
func (t *nodes) setRoot(h Handle) { order.PutUint32(t.head[headRoot:], uint32(h)) }

func (t *nodes) color(h Handle) uint8 {
	if h == Nil {
		return black
	}
	return t.a.Value(h)[offColor]
}

func (t *nodes) setColor(h Handle, c uint8) {
	t.a.Value(h)[offColor] = c
}

func (t *nodes) link(h Handle, off int) Handle {
	if h == Nil {
		return Nil
	}
	return Handle(order.Uint32(t.a.Value(h)[off:]))
}

func (t *nodes) setLink(h Handle, off int, v Handle) {
	order.PutUint32(t.a.Value(h)[off:], uint32(v))
}

func (t *nodes) parent(h Handle) Handle       { return t.link(h, offParent) }
func (t *nodes) left(h Handle) Handle         { return t.link(h, offLeft) }
func (t *nodes) right(h Handle) Handle        { return t.link(h, offRight) }
func (t *nodes) setParent(h Handle, p Handle) { t.setLink(h, offParent, p) }
func (t *nodes) setLeft(h Handle, c Handle)   { t.setLink(h, offLeft, c) }
func (t *nodes) setRight(h Handle, c Handle)  { t.setLink(h, offRight, c) }

func (t *nodes) key(h Handle) []byte {
	end := offKey + t.l.keySize
	return t.a.Value(h)[offKey:end:end]
}

func (t *nodes) value(h Handle) []byte {
	end := t.l.valueOff + t.l.valueSize
	return t.a.Value(h)[t.l.valueOff:end:end]
}

func (t *nodes) minimum(h Handle) Handle {
	if h == Nil {
		return Nil
	}
	for l := t.left(h); l != Nil; l = t.left(h) {
		h = l
	}
	return h
}

func (t *nodes) maximum(h Handle) Handle {
	if h == Nil {
		return Nil
	}
	for r := t.right(h); r != Nil; r = t.right(h) {
		h = r
	}
	return h
}

func (t *nodes) successor(h Handle) Handle {
	if r := t.right(h); r != Nil {
		return t.minimum(r)
	}
	p := t.parent(h)
	for p != Nil && h == t.right(p) {
		h, p = p, t.parent(p)
	}
	return p
}

func (t *nodes) predecessor(h Handle) Handle {
	if l := t.left(h); l != Nil {
		return t.maximum(l)
	}
	p := t.parent(h)
	for p != Nil && h == t.left(p) {
		h, p = p, t.parent(p)
	}
	return p
}

// transplant replaces the subtree rooted at u with the one rooted at v.
func (t *nodes) transplant(u, v Handle) {
	p := t.parent(u)
	switch {
	case p == Nil:
		t.setRoot(v)
	case u == t.left(p):
		t.setLeft(p, v)
	default:
		t.setRight(p, v)
	}
	if v != Nil {
		t.setParent(v, p)
	}
}
