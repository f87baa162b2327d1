//go:build unix

package storage

import (
	"cmp"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/nindex/codec"
	"github.com/hupe1980/nindex/rbtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymous(t *testing.T) {
	a, err := NewAnonymous(4096)
	require.NoError(t, err)
	defer a.Close()

	tr := rbtree.LoadStorage[int, int64](a, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	require.True(t, tr.Success(), tr.Err())

	for i := range 10 {
		require.NotEqual(t, rbtree.Nil, tr.Put(i, int64(i)))
	}
	assert.Equal(t, 10, tr.Len())
	require.NoError(t, tr.Check())

	require.NoError(t, a.Close())
	assert.Nil(t, a.Bytes())
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.idx")

	size, err := rbtree.BufferSize[int, int64](32, codec.Int{}, codec.Int64{})
	require.NoError(t, err)

	f, err := OpenFile(path, size, WithAccessPattern(AccessRandom))
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())
	assert.Equal(t, size, f.Size())

	tr := rbtree.LoadStorage[int, int64](f, codec.Int{}, codec.Int64{}, cmp.Compare[int],
		rbtree.WithRollups(rbtree.NewCount()))
	require.True(t, tr.Success(), tr.Err())
	for i := range 20 {
		tr.Put(i*3, int64(i))
	}
	require.NoError(t, f.Flush())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Flush(), ErrClosed)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(size), fi.Size())

	// Size 0 maps the file as it is.
	f, err = OpenFile(path, 0, WithoutCreate())
	require.NoError(t, err)
	defer f.Close()

	tr = rbtree.LoadStorage[int, int64](f, codec.Int{}, codec.Int64{}, cmp.Compare[int],
		rbtree.WithRollups(rbtree.NewCount()))
	require.True(t, tr.Success(), tr.Err())
	assert.Equal(t, 20, tr.Len())
	require.NoError(t, tr.Check())

	v, ok := tr.Get(30)
	assert.True(t, ok)
	assert.Equal(t, int64(10), v)
	assert.Equal(t, 10, tr.Count(tr.IteratorFrom(30)))
}

func TestFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenFile(filepath.Join(dir, "missing"), 64, WithoutCreate())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenFile(filepath.Join(dir, "empty"), 0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = OpenFile(filepath.Join(dir, "neg"), -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestFile_WithOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offset")
	require.NoError(t, os.WriteFile(path, []byte("preamble"), 0o600))

	f, err := OpenFile(path, 256, WithOffset(8))
	require.NoError(t, err)

	tr := rbtree.LoadStorage[int, int64](f, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	require.True(t, tr.Success(), tr.Err())
	tr.Put(42, 1)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 8+256)
	assert.Equal(t, "preamble", string(data[:8]))
	assert.Equal(t, rbtree.Magic, string(data[8:16]))

	f, err = OpenFile(path, 0, WithOffset(8))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 256, f.Size())

	tr = rbtree.LoadStorage[int, int64](f, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	require.True(t, tr.Success(), tr.Err())
	assert.True(t, tr.Contains(42))
}

func TestFile_Grows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	f, err := OpenFile(path, 1024)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []byte("abc"), f.Bytes()[:3])
	assert.Equal(t, make([]byte, 1021), f.Bytes()[3:])
}
