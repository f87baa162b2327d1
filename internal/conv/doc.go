// Package conv provides checked integer conversions.
//
// Buffer sizes arrive as int, the on-disk header stores uint32/uint64 and
// record counts are uint32 handles. Every narrowing in between goes through
// this package so that an oversized buffer or a corrupted header field is
// reported as ErrOverflow instead of silently wrapping.
//
// For conversions that are provably safe by domain constraints (loop indices,
// values already bounded by Total), use direct casts instead.
package conv
