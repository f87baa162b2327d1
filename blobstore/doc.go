// Package blobstore stores named immutable blobs, such as arena snapshots,
// in local or object storage.
//
// Implementations must be safe for concurrent use:
//
//   - MemoryStore: in-process map, for tests and ephemeral copies.
//   - LocalStore: a directory; writes go through a temp file and rename,
//     reads are memory mapped.
//   - CachingStore: a block LRU in front of another Store.
//   - s3.Store, s3.PointerStore: Amazon S3, with DynamoDB for the pointer to
//     the latest snapshot.
//   - minio.Store: MinIO and other S3-compatible servers.
//
// A Blob reads ranges with a context so remote reads can be cancelled:
//
//	b, err := store.Open(ctx, "orders.snap")
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//	data, err := blobstore.ReadAll(ctx, b)
package blobstore
