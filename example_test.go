package nindex_test

import (
	"cmp"
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/nindex"
	"github.com/hupe1980/nindex/blobstore"
	"github.com/hupe1980/nindex/codec"
	"github.com/hupe1980/nindex/rbtree"
)

// Example demonstrates an in-memory index with rank queries.
func Example() {
	idx, err := nindex.New[int, int64](1024, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	for _, k := range []int{30, 10, 20, 40} {
		_ = idx.Put(k, int64(k)*100)
	}

	v, _ := idx.Get(20)
	fmt.Println(v, idx.Rank(25), idx.CountRange(10, 40))
	// Output: 2000 2 3
}

// Example_sumRollup demonstrates aggregating values by key range.
func Example_sumRollup() {
	amount := rbtree.SumOf(codec.Int64{}, func(v int64) int64 { return v })

	idx, err := nindex.New[int, int64](1024, codec.Int{}, codec.Int64{}, cmp.Compare[int],
		nindex.WithRollups(amount))
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	for day := 1; day <= 7; day++ {
		_ = idx.Put(day, int64(day)*10)
	}

	fmt.Println(idx.SumRange(2, 5))
	// Output: 90
}

// Example_snapshot demonstrates publishing a snapshot and restoring a replica.
func Example_snapshot() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	ptr := blobstore.NewMemoryPointer()

	idx, err := nindex.New[int, int64](1024, codec.Int{}, codec.Int64{}, cmp.Compare[int],
		nindex.WithName("orders"))
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	_ = idx.Put(1, 100)
	version, err := idx.Snapshot(ctx, store, ptr)
	if err != nil {
		log.Fatal(err)
	}

	replica, err := nindex.Restore[int, int64](ctx, store, ptr, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	if err != nil {
		log.Fatal(err)
	}
	defer replica.Close()

	v, _ := replica.Get(1)
	fmt.Println(version, replica.Len(), v)
	// Output: 1 1 100
}
