// Package mmap maps files and anonymous memory into the process address space.
//
// # Overview
//
// The arena and tree packages operate on a plain []byte. This package hands
// out such slices backed by the kernel's page cache instead of the Go heap, so
// a structure written through the slice is persisted (file mappings) or lives
// outside the garbage collector (anonymous mappings).
//
// # Usage
//
//	f, _ := os.OpenFile("tree.idx", os.O_RDWR|os.O_CREATE, 0o644)
//	m, err := mmap.MapFile(f, 1<<20, true)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes() // read-write, shared with the file
//	_ = m.Sync()     // msync(2)
//
// Read-only mappings of whole files are available through Open, anonymous
// private mappings through MapAnon.
//
// # Platform Support
//
// Unix platforms use mmap(2), msync(2) and madvise(2). Other platforms return
// ErrUnsupported from every constructor.
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
