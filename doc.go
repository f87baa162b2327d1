// Package nindex provides ordered maps that live inside a single flat byte
// buffer.
//
// An Index is an augmented red-black tree (package rbtree) whose nodes are
// records of a block arena (package arena). Because nodes refer to each other
// by integer handle rather than by pointer, the buffer can be a memory-mapped
// file or a shared memory segment and is valid as is after a restart or in
// another process. Snapshots of the buffer can be published to object storage
// (package snapshot) and restored on another machine.
//
// # Quick Start
//
// In memory:
//
//	idx, _ := nindex.New[int, int64](1<<16, codec.Int{}, codec.Int64{}, cmp.Compare[int])
//	idx.Put(42, 7)
//
// Backed by a file (reopened as is on the next start):
//
//	idx, _ := nindex.OpenFile[int, int64]("orders.idx", 1<<20, codec.Int{}, codec.Int64{}, cmp.Compare[int])
//	defer idx.Close()
//
// Shared between processes:
//
//	idx, _ := nindex.OpenSharedMemory[int, int64](0x6e69, 1<<16, codec.Int{}, codec.Int64{}, cmp.Compare[int])
//
// # Order Statistics
//
// Every Index maintains subtree counts, so rank queries are O(log n):
//
//	idx.Rank(100)           // keys < 100
//	idx.CountRange(10, 20)  // keys in [10, 20)
//
// Attach a sum rollup to aggregate values by key range:
//
//	idx, _ := nindex.New[int, int64](n, codec.Int{}, codec.Int64{}, cmp.Compare[int],
//	    nindex.WithRollups(rbtree.SumOf(codec.Int64{}, func(v int64) int64 { return v })))
//	idx.SumRange(10, 20)
//
// # Snapshots
//
//	store := s3.NewStore(client, "my-bucket", "indexes/")
//	ptr := s3.NewPointerStore(ddb, "nindex-pointers", "orders")
//	version, _ := idx.Snapshot(ctx, store, ptr)
//
//	replica, _ := nindex.Restore[int, int64](ctx, store, ptr, codec.Int{}, codec.Int64{}, cmp.Compare[int])
//
// # Concurrency
//
// An Index is safe for concurrent use within one process. Processes sharing a
// file or memory segment must coordinate writes themselves.
package nindex
