package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/nindex/internal/cache"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the CachingStore block size when none is given.
const DefaultBlockSize = 64 << 10

// CachingStore wraps a Store and caches fixed-size blocks of the blobs read
// through it. Writes and deletes through the store invalidate the blob.
type CachingStore struct {
	inner     Store
	cache     *cache.LRU
	blockSize int64
}

// NewCachingStore caches blocks of inner in c. blockSize defaults to
// DefaultBlockSize if <= 0.
func NewCachingStore(inner Store, c *cache.LRU, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.cache.Invalidate(name)
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingWriter{WritableBlob: w, cache: s.cache, name: name}, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer s.cache.Invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	defer s.cache.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type invalidatingWriter struct {
	WritableBlob
	cache *cache.LRU
	name  string
}

func (w *invalidatingWriter) Close() error {
	defer w.cache.Invalidate(w.name)
	return w.WritableBlob.Close()
}

type cachingBlob struct {
	inner     Blob
	cache     *cache.LRU
	name      string
	blockSize int64
}

func (b *cachingBlob) Size() int64  { return b.inner.Size() }
func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}

	want := p
	if rest := size - off; int64(len(want)) > rest {
		want = want[:rest]
	}

	first := off / b.blockSize
	last := (off + int64(len(want)) - 1) / b.blockSize
	blocks, err := b.blocks(ctx, first, last)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, data := range blocks {
		start := (first + int64(i)) * b.blockSize
		from := max(off+int64(n)-start, 0)
		if from >= int64(len(data)) {
			break
		}
		n += copy(want[n:], data[from:])
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// blocks returns blocks first..last, fetching contiguous runs of missing
// blocks with one read each.
func (b *cachingBlob) blocks(ctx context.Context, first, last int64) ([][]byte, error) {
	out := make([][]byte, last-first+1)

	type run struct{ start, count int64 }
	var missing []run
	for blk := first; blk <= last; blk++ {
		if data, ok := b.cache.Get(cache.Key{Path: b.name, Block: blk}); ok {
			out[blk-first] = data
			continue
		}
		if k := len(missing); k > 0 && missing[k-1].start+missing[k-1].count == blk {
			missing[k-1].count++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, r := range missing {
		g.Go(func() error {
			off := r.start * b.blockSize
			buf := make([]byte, min(r.count*b.blockSize, b.Size()-off))
			n, err := b.inner.ReadAt(gctx, buf, off)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := range r.count {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				block := buf[lo:min(lo+b.blockSize, int64(len(buf)))]
				// Distinct goroutines write distinct indices.
				out[r.start+i-first] = block
				b.cache.Set(cache.Key{Path: b.name, Block: r.start + i}, block)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, n int64) (io.ReadCloser, error) {
	if off >= b.Size() {
		return nil, io.EOF
	}
	return io.NopCloser(&sectionReader{ctx: ctx, blob: b, off: off, limit: min(off+n, b.Size())}), nil
}
