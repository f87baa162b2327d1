// Package mem allocates byte buffers aligned to a cache line, so that heap
// backed arenas start on the same boundary as page-aligned mappings.
package mem
