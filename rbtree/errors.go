package rbtree

import "errors"

var (
	// ErrInvalidLayout is returned when the codecs or rollups describe a node
	// that cannot be stored.
	ErrInvalidLayout = errors.New("rbtree: invalid node layout")
	// ErrLayoutMismatch is returned when a stored tree was written with a
	// different key size, value size or rollup set.
	ErrLayoutMismatch = errors.New("rbtree: node layout mismatch")
	// ErrCorrupt is returned by Check when a structural invariant is violated.
	ErrCorrupt = errors.New("rbtree: corrupt tree")
)
