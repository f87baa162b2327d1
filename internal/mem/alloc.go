package mem

import (
	"unsafe"
)

// Alignment is the start alignment of buffers returned by AllocAligned.
const Alignment = 64

// AllocAligned returns a zeroed slice of size bytes whose first byte sits at
// an address divisible by Alignment. It returns nil for size <= 0.
//
// The backing array is over-allocated by Alignment bytes and kept alive by
// the returned slice. Its capacity is clipped to size, so appends reallocate.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // address is only inspected
	off := int((Alignment - addr&(Alignment-1)) & (Alignment - 1))

	return buf[off : off+size : off+size]
}

// IsAligned reports whether b starts on an Alignment boundary.
func IsAligned(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&b[0]))&(Alignment-1) == 0 //nolint:gosec // address is only inspected
}
