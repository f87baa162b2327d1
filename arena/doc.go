// Package arena implements a block arena: a fixed-capacity slab allocator that
// lives entirely inside one caller-provided byte buffer.
//
// Blocks are addressed by 1-based integer handles instead of pointers, so the
// buffer can be written to a file, mapped by another process or copied
// byte-for-byte and loaded again without any fix-up.
//
// # Layout
//
// All integers use the host's native byte order; the header is packed.
//
//	offset  size  field
//	0       8     Magic
//	8       2     Version
//	10      8     MemSize         total buffer length
//	18      4     HeadSize        HeaderSize + caller head payload
//	22      4     Total           number of records
//	26      4     Used            number of active records
//	30      4     FreeListHead    next handle to hand out
//	34      4     ActiveListHead  most recently allocated active record
//	38      4     RecordSize      value size + RecordOverhead
//	42      12    Reserved        3 x uint32, zero
//	54      n     caller head payload (see Head)
//	HeadSize      Total x record
//
// Each record is
//
//	Value[valueSize] | Flags uint8 | Prev uint32 | Next uint32
//
// A free record chains the free list through Next. A record whose Next is 0
// has never been handed out; popping it advances the free list to the
// following handle (bump allocation), so a fresh arena needs no
// initialization pass. Active records form a doubly linked list through Prev
// and Next, newest first.
//
// # Lifecycle
//
// A buffer whose magic is all zero is formatted in place by Load. Any other
// mismatch (magic, version, size, head size, record size, record count)
// yields an invalid arena: Success reports false, Err names the cause and
// every operation is a no-op.
//
// # Concurrency
//
// An Arena is not safe for concurrent use. No operation blocks and no
// operation allocates on the Go heap.
package arena
