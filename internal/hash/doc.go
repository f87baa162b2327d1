// Package hash provides CRC32-Castagnoli checksums for snapshot frames.
//
// A snapshot frame stores the checksum of the uncompressed arena buffer so
// that a restore detects corruption introduced anywhere between the original
// mapping and the decompressed copy. Go's hash/crc32 uses SSE4.2 or the ARM
// CRC extension when available.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(buf)
//
// For streaming checksums, e.g. while decompressing:
//
//	h := hash.NewCRC32C()
//	_, _ = io.Copy(dst, io.TeeReader(src, h))
//	ok := h.Sum32() == want
package hash
