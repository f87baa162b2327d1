package rbtree

// Option configures a Tree.
type Option func(*options)

type options struct {
	rollups  []Rollup
	headSize int
}

// WithRollups attaches rollups to the tree. They are invoked in the given
// order and their fields are laid out in that order after the value. The same
// rollups, in the same order, must be passed when loading a stored tree.
func WithRollups(rollups ...Rollup) Option {
	return func(o *options) {
		o.rollups = append(o.rollups, rollups...)
	}
}

// WithHeadSize reserves n bytes of caller head payload, available through
// Tree.Head.
func WithHeadSize(n int) Option {
	return func(o *options) {
		o.headSize = n
	}
}
