// Package cache holds fixed-size blocks of remote blobs in memory.
//
// LRU is bounded by its own byte capacity and, optionally, by a shared
// resource.Controller budget. Blocks are keyed by blob path and block index
// and must be treated as read-only once cached.
package cache
