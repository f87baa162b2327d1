// Package snapshot exports arena buffers to a blobstore.Store and imports
// them back.
//
// A snapshot is a single blob holding a fixed frame followed by the
// (optionally compressed) buffer:
//
//	+----------+---------+-------+----------+---------+------------+--------+---------+
//	| NIXSNAP1 | Version | Codec | Reserved | RawSize | StoredSize | CRC32C | payload |
//	|  8 bytes |   u16   |  u8   |    u8    |   u64   |    u64     |  u32   |   ...   |
//	+----------+---------+-------+----------+---------+------------+--------+---------+
//
// Frame fields are little endian. The checksum covers the raw buffer, so it
// is verified after decompression. A buffer that does not compress to less
// than 90% of its size is stored uncompressed.
//
// Publish and RestoreLatest pair snapshots with a blobstore.Pointer so that
// readers always load the newest fully written snapshot:
//
//	version, err := snapshot.Publish(ctx, store, ptr, "orders", tree.Bytes(),
//	    snapshot.WithCompression(snapshot.CodecZstd))
//
//	buf, version, err := snapshot.RestoreLatest(ctx, store, ptr)
//	tree := rbtree.Load[int, int64](buf, codec.Int{}, codec.Int64{}, cmp.Compare[int])
package snapshot
