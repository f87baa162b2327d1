// Package storage provides the buffers arenas and trees live in.
//
// Every provider exposes Bytes and Size, so it can be handed to
// arena.LoadStorage or rbtree.LoadStorage, and Close to release it:
//
//   - Heap: a plain Go slice.
//   - Anonymous: a private anonymous mapping outside the Go heap.
//   - File: a read-write MAP_SHARED mapping of a file, persisted by Flush.
//   - SharedMemory: a System V shared memory segment, visible to every
//     process attaching the same key.
//
// A fresh file or segment is zero filled, which the arena treats as an
// unformatted buffer and bootstraps in place.
//
// Storage does not lock. Processes sharing a file or segment must coordinate
// writers themselves.
package storage
