// Package rbtree implements an augmented red-black tree whose nodes are
// blocks of an arena.Arena.
//
// The tree stores only handles, never pointers, so the whole structure lives
// in the arena's buffer and can be persisted, mapped by several processes or
// copied and reloaded as is. Keys and values are encoded with fixed-width
// codecs from the codec package.
//
// # Layout
//
// The arena is stamped with magic "RBTREE@@" and Version. Its head payload
// holds the tree head
//
//	Root uint32 | Flags uint32 | KeySize uint16 | ValueSize uint16 |
//	RollupWidth uint16 | RollupCount uint16 | caller head payload
//
// and every block holds one node
//
//	Color uint8 | Parent uint32 | Left uint32 | Right uint32 |
//	Key[KeySize] | Value[ValueSize] | rollup fields
//
// Red is 0 and black is 1, so a freshly allocated node is red.
//
// # Rollups
//
// A Rollup keeps a fixed-width field per node that summarizes the node's left
// subtree. Count and Sum are built in; both support O(log n) prefix queries
// through cursors:
//
//	sum := rbtree.SumOf(codec.Codec[int64](codec.Int64{}), func(v int64) int64 { return v })
//	tr := rbtree.New[uint32, int64](1024, codec.Uint32{}, codec.Int64{}, cmp.Compare[uint32],
//		rbtree.WithRollups(rbtree.NewCount(), sum))
//	tr.Put(7, 70)
//	n := tr.CountRange(tr.IteratorFrom(5), tr.End()) // keys in [5, +inf)
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Mutating the tree invalidates
// outstanding cursors and iterators.
package rbtree
