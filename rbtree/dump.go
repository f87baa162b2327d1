package rbtree

import (
	"fmt"
	"io"
	"strings"
)

// DumpTree writes the tree sideways, right subtree first, one node per line
// with its handle, color and rollup fields. format renders a node; nil
// prints the key with %v.
func (t *Tree[K, V]) DumpTree(w io.Writer, format func(K, V) string) error {
	if t.err != nil {
		_, err := fmt.Fprintf(w, "invalid tree: %v\n", t.err)
		return err
	}
	if format == nil {
		format = func(k K, _ V) string { return fmt.Sprintf("%v", k) }
	}
	if _, err := fmt.Fprintf(w, "size=%d capacity=%d root=%d\n", t.Len(), t.Cap(), t.root()); err != nil {
		return err
	}
	return t.dump(w, t.root(), 0, format)
}

func (t *Tree[K, V]) dump(w io.Writer, h Handle, depth int, format func(K, V) string) error {
	if h == Nil {
		return nil
	}
	if err := t.dump(w, t.right(h), depth+1, format); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("    ", depth))
	b.WriteString(format(t.keys.Get(t.key(h)), t.values.Get(t.value(h))))
	if t.color(h) == red {
		b.WriteString(" R")
	} else {
		b.WriteString(" B")
	}
	fmt.Fprintf(&b, " #%d", h)
	for i, r := range t.rollups {
		b.WriteByte(' ')
		b.WriteString(r.Describe(t.node(i, h)))
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	return t.dump(w, t.left(h), depth+1, format)
}
