package rbtree

import (
	"strconv"

	"github.com/hupe1980/nindex/codec"
)

// Rollup maintains a fixed-width field per node summarizing the node's left
// subtree.
type Rollup interface {
	// Name identifies the rollup in diagnostics.
	Name() string
	// Width is the size of the per-node field in bytes.
	Width() int
	// OnInsert is called for every ancestor whose left subtree received
	// inserted, before rebalancing.
	OnInsert(ancestor, inserted Node)
	// OnDelete is called for every ancestor whose left subtree loses
	// removed, before rebalancing.
	OnDelete(ancestor, removed Node)
	// OnRotate recomputes n's field from its current left subtree.
	OnRotate(n Node)
	// Describe renders n's field for DumpTree.
	Describe(n Node) string
}

// Aggregate is a Rollup whose field is an additive int64 measure. It enables
// the prefix queries Tree.Prefix and Tree.Between.
type Aggregate interface {
	Rollup
	// Left returns the stored measure of n's left subtree.
	Left(n Node) int64
	// Weight returns n's own contribution.
	Weight(n Node) int64
}

// spine sums agg over the subtree rooted at n by walking its right spine,
// relying on the stored left measures.
func spine(agg Aggregate, n Node) int64 {
	var sum int64
	for x := n; !x.IsNil(); x = x.Right() {
		sum += agg.Left(x) + agg.Weight(x)
	}
	return sum
}

// Count maintains LeftCount, the number of nodes in the left subtree.
type Count struct{}

// NewCount returns the subtree count rollup.
func NewCount() *Count {
	return &Count{}
}

func (*Count) Name() string { return "count" }
func (*Count) Width() int   { return 4 }

func (*Count) Left(n Node) int64 {
	return int64(order.Uint32(n.Field()))
}

func (*Count) Weight(Node) int64 { return 1 }

func (*Count) OnInsert(ancestor, _ Node) {
	f := ancestor.Field()
	order.PutUint32(f, order.Uint32(f)+1)
}

func (*Count) OnDelete(ancestor, _ Node) {
	f := ancestor.Field()
	order.PutUint32(f, order.Uint32(f)-1)
}

func (c *Count) OnRotate(n Node) {
	order.PutUint32(n.Field(), uint32(spine(c, n.Left())))
}

func (c *Count) Describe(n Node) string {
	return "lc=" + strconv.FormatInt(c.Left(n), 10)
}

// Sum maintains LeftSum, the total weight of the values in the left subtree.
type Sum struct {
	weight func(value []byte) int64
}

// NewSum returns a sum rollup. weight maps an encoded value to its
// contribution.
func NewSum(weight func(value []byte) int64) *Sum {
	return &Sum{weight: weight}
}

// SumOf returns a sum rollup over values decoded with values.
func SumOf[V any](values codec.Codec[V], weight func(V) int64) *Sum {
	return NewSum(func(b []byte) int64 {
		return weight(values.Get(b))
	})
}

func (*Sum) Name() string { return "sum" }
func (*Sum) Width() int   { return 8 }

func (*Sum) Left(n Node) int64 {
	return int64(order.Uint64(n.Field()))
}

func (s *Sum) Weight(n Node) int64 {
	return s.weight(n.Value())
}

func (s *Sum) OnInsert(ancestor, inserted Node) {
	s.add(ancestor, s.Weight(inserted))
}

func (s *Sum) OnDelete(ancestor, removed Node) {
	s.add(ancestor, -s.Weight(removed))
}

func (s *Sum) OnRotate(n Node) {
	order.PutUint64(n.Field(), uint64(spine(s, n.Left())))
}

func (s *Sum) Describe(n Node) string {
	return "ls=" + strconv.FormatInt(s.Left(n), 10)
}

func (*Sum) add(n Node, d int64) {
	f := n.Field()
	order.PutUint64(f, uint64(int64(order.Uint64(f))+d))
}
