package arena

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Validate walks both block lists and checks that they are disjoint, acyclic
// and mutually consistent with the header: every active block is flagged,
// Prev mirrors Next, the active list holds exactly Used blocks and every block
// is either active or reachable from the free list.
func (a *Arena) Validate() error {
	if a.err != nil {
		return a.err
	}

	free := roaring.New()
	for h := a.hdr.freeHead(); uint32(h) != a.total+1; {
		if h == Nil || uint32(h) > a.total {
			return fmt.Errorf("%w: free list points at %d", ErrCorruptList, h)
		}
		if !free.CheckedAdd(uint32(h)) {
			return fmt.Errorf("%w: free list cycles at %d", ErrCorruptList, h)
		}
		rec := a.record(h)
		if rec.active() {
			return fmt.Errorf("%w: active block %d on free list", ErrCorruptList, h)
		}
		next := rec.next()
		if next == Nil {
			next = h + 1
		}
		h = next
	}

	active := roaring.New()
	prev := Nil
	for h := a.hdr.activeHead(); h != Nil; {
		if uint32(h) > a.total {
			return fmt.Errorf("%w: active list points at %d", ErrCorruptList, h)
		}
		if !active.CheckedAdd(uint32(h)) {
			return fmt.Errorf("%w: active list cycles at %d", ErrCorruptList, h)
		}
		rec := a.record(h)
		if !rec.active() {
			return fmt.Errorf("%w: inactive block %d on active list", ErrCorruptList, h)
		}
		if rec.prev() != prev {
			return fmt.Errorf("%w: block %d has prev %d, want %d", ErrCorruptList, h, rec.prev(), prev)
		}
		prev, h = h, rec.next()
	}

	if n := active.GetCardinality(); n != uint64(a.hdr.used()) {
		return fmt.Errorf("%w: %d active blocks, header says %d", ErrCorruptList, n, a.hdr.used())
	}
	if active.Intersects(free) {
		return fmt.Errorf("%w: blocks %v are both free and active", ErrCorruptList, roaring.And(active, free).ToArray())
	}
	if n := active.GetCardinality() + free.GetCardinality(); n != uint64(a.total) {
		leaked := roaring.Or(active, free)
		leaked.Flip(1, uint64(a.total)+1)
		return fmt.Errorf("%w: %d blocks unreachable, first %d", ErrCorruptList, uint64(a.total)-n, leaked.Minimum())
	}
	return nil
}
