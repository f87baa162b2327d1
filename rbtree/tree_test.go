package rbtree

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"testing"

	"github.com/hupe1980/nindex/arena"
	"github.com/hupe1980/nindex/codec"
	"github.com/hupe1980/nindex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntTree(t *testing.T, capacity int, opts ...Option) *Tree[int, int64] {
	t.Helper()
	tr := New[int, int64](capacity, codec.Int{}, codec.Int64{}, cmp.Compare[int], opts...)
	require.True(t, tr.Success(), tr.Err())
	return tr
}

func loadIntTree(buf []byte, opts ...Option) *Tree[int, int64] {
	return Load[int, int64](buf, codec.Int{}, codec.Int64{}, cmp.Compare[int], opts...)
}

func identity(v int64) int64 { return v }

func keysOf[K, V any](tr *Tree[K, V]) []K {
	var keys []K
	for k := range tr.All() {
		keys = append(keys, k)
	}
	return keys
}

func TestTree_PutGetClear(t *testing.T) {
	tr := newIntTree(t, 16)

	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NotEqual(t, Nil, tr.Put(k, int64(k*10)))
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, 7, tr.Len())
	assert.Equal(t, 16, tr.Cap())
	assert.InDelta(t, 7.0/16, tr.Capacity(), 1e-9)

	v, ok := tr.Get(4)
	assert.True(t, ok)
	assert.Equal(t, int64(40), v)

	_, ok = tr.Get(6)
	assert.False(t, ok)
	assert.False(t, tr.Contains(6))

	assert.True(t, tr.Clear(5))
	assert.False(t, tr.Clear(5))
	assert.False(t, tr.Contains(5))
	require.NoError(t, tr.Check())
	assert.Equal(t, []int{1, 3, 4, 7, 8, 9}, keysOf(tr))

	// Values survive the successor copy of a two-child delete.
	for _, k := range []int{1, 3, 4, 7, 8, 9} {
		v, ok := tr.Get(k)
		require.True(t, ok)
		assert.Equal(t, int64(k*10), v)
	}
}

func TestTree_HashIsIdempotent(t *testing.T) {
	tr := newIntTree(t, 4)

	assert.Equal(t, Nil, tr.Hash(1, false))

	h := tr.Hash(1, true)
	require.NotEqual(t, Nil, h)
	assert.Equal(t, int64(0), tr.Value(h), "fresh nodes have a zero value")
	tr.SetValue(h, 11)

	assert.Equal(t, h, tr.Hash(1, true))
	assert.Equal(t, h, tr.Hash(1, false))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, int64(11), tr.Value(h))
	assert.Equal(t, 1, tr.Key(h))

	binary.NativeEndian.PutUint64(tr.Slot(h), 12)
	assert.Equal(t, int64(12), tr.Value(h))
}

func TestTree_PutReplaces(t *testing.T) {
	tr := newIntTree(t, 4)
	h := tr.Put(1, 10)
	assert.Equal(t, h, tr.Put(1, 20))
	v, _ := tr.Get(1)
	assert.Equal(t, int64(20), v)
	assert.Equal(t, 1, tr.Len())
}

func TestTree_Exhausted(t *testing.T) {
	tr := newIntTree(t, 3)
	for k := range 3 {
		require.NotEqual(t, Nil, tr.Put(k, 0))
	}

	assert.Equal(t, Nil, tr.Hash(10, true))
	assert.Equal(t, Nil, tr.Put(11, 1))
	assert.Equal(t, 3, tr.Len())
	assert.NotEqual(t, Nil, tr.Hash(2, true), "existing keys resolve when full")
	require.NoError(t, tr.Check())

	require.True(t, tr.Clear(1))
	assert.NotEqual(t, Nil, tr.Put(10, 1))
	require.NoError(t, tr.Check())
}

func TestTree_MinimumMaximum(t *testing.T) {
	tr := newIntTree(t, 8)

	_, _, ok := tr.Minimum()
	assert.False(t, ok)
	_, _, ok = tr.Maximum()
	assert.False(t, ok)

	for _, k := range []int{4, -2, 9, 0} {
		tr.Put(k, int64(k))
	}

	k, v, ok := tr.Minimum()
	assert.True(t, ok)
	assert.Equal(t, -2, k)
	assert.Equal(t, int64(-2), v)

	k, _, ok = tr.Maximum()
	assert.True(t, ok)
	assert.Equal(t, 9, k)
}

func TestTree_RandomInsertDeleteKeepsInvariants(t *testing.T) {
	rng := testutil.NewRNG(4711)
	tr := newIntTree(t, 512)

	keys := rng.Perm(512)
	for i, k := range keys {
		require.NotEqual(t, Nil, tr.Put(k, int64(k)))
		if i%32 == 0 {
			require.NoError(t, tr.Check())
		}
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, 512, tr.Len())

	testutil.Shuffle(rng, keys)
	for i, k := range keys[:400] {
		require.True(t, tr.Clear(k))
		if i%32 == 0 {
			require.NoError(t, tr.Check())
		}
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, 112, tr.Len())
	require.NoError(t, tr.Arena().Validate())

	for _, k := range keys[400:] {
		v, ok := tr.Get(k)
		require.True(t, ok)
		assert.Equal(t, int64(k), v)
	}

	for _, k := range keys[400:] {
		require.True(t, tr.Clear(k))
	}
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, Nil, tr.root())
	require.NoError(t, tr.Check())
}

func TestTree_RoundTrip(t *testing.T) {
	opts := []Option{WithRollups(NewCount()), WithHeadSize(4)}
	tr := newIntTree(t, 64, opts...)
	copy(tr.Head(), "user")
	for _, k := range testutil.NewRNG(1).Perm(40) {
		tr.Put(k, int64(k)*3)
	}
	tr.Clear(7)

	loaded := loadIntTree(bytes.Clone(tr.Bytes()), opts...)
	require.True(t, loaded.Success(), loaded.Err())
	require.NoError(t, loaded.Check())

	assert.Equal(t, "user", string(loaded.Head()))
	assert.Equal(t, tr.Len(), loaded.Len())
	assert.Equal(t, keysOf(tr), keysOf(loaded))
	assert.Equal(t, 20, loaded.Count(loaded.IteratorFrom(21)))
}

func TestTree_LoadBootstrapsZeroBuffer(t *testing.T) {
	size, err := BufferSize[int, int64](8, codec.Int{}, codec.Int64{})
	require.NoError(t, err)

	buf := make([]byte, size)
	tr := loadIntTree(buf)
	require.True(t, tr.Success(), tr.Err())
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 8, tr.Cap())
	assert.Equal(t, Magic, string(buf[:arena.MagicSize]))
	tr.Put(1, 100)

	again := loadIntTree(buf)
	require.True(t, again.Success())
	v, ok := again.Get(1)
	assert.True(t, ok)
	assert.Equal(t, int64(100), v)
}

func TestTree_LoadRejectsForeignBuffers(t *testing.T) {
	tr := newIntTree(t, 8)
	tr.Put(1, 1)

	t.Run("magic", func(t *testing.T) {
		buf := bytes.Clone(tr.Bytes())
		buf[0] = 'X'
		got := loadIntTree(buf)
		assert.False(t, got.Success())
		assert.ErrorIs(t, got.Err(), arena.ErrBadMagic)
		assert.Equal(t, Nil, got.Hash(1, true))
		assert.Equal(t, 0, got.Len())
		assert.Nil(t, got.Bytes())
	})

	t.Run("version", func(t *testing.T) {
		buf := bytes.Clone(tr.Bytes())
		binary.NativeEndian.PutUint16(buf[arena.MagicSize:], Version+1)
		got := loadIntTree(buf)
		assert.ErrorIs(t, got.Err(), arena.ErrBadVersion)
	})

	t.Run("plain arena", func(t *testing.T) {
		size, err := BufferSize[int, int64](8, codec.Int{}, codec.Int64{})
		require.NoError(t, err)
		a := arena.Load(make([]byte, size), arena.WithValueSize(1))
		require.True(t, a.Success())
		got := loadIntTree(a.Bytes())
		assert.ErrorIs(t, got.Err(), arena.ErrBadMagic)
	})

	t.Run("layout", func(t *testing.T) {
		// Same node size, different split between value and rollups.
		got := Load[int, struct{}](bytes.Clone(tr.Bytes()), codec.Int{}, codec.Empty{}, cmp.Compare[int],
			WithRollups(NewSum(func([]byte) int64 { return 1 })))
		assert.False(t, got.Success())
		assert.ErrorIs(t, got.Err(), ErrLayoutMismatch)
	})

	t.Run("rollup count", func(t *testing.T) {
		got := loadIntTree(bytes.Clone(tr.Bytes()), WithRollups(NewCount()))
		assert.False(t, got.Success())
	})
}

func TestTree_InvalidLayout(t *testing.T) {
	tr := New[struct{}, int64](4, codec.Empty{}, codec.Int64{}, func(a, b struct{}) int { return 0 })
	assert.False(t, tr.Success())
	assert.ErrorIs(t, tr.Err(), ErrInvalidLayout)
	assert.Equal(t, 0, tr.Count(tr.End()))
	assert.Equal(t, End(), tr.Iterator())

	_, err := BufferSize[int, int64](-1, codec.Int{}, codec.Int64{})
	assert.ErrorIs(t, err, arena.ErrInvalidOptions)
}

type sliceStorage []byte

func (s sliceStorage) Bytes() []byte { return s }
func (s sliceStorage) Size() int     { return len(s) }

func TestTree_LoadStorage(t *testing.T) {
	size, err := BufferSize[int, int64](4, codec.Int{}, codec.Int64{})
	require.NoError(t, err)
	s := make(sliceStorage, size)

	tr := LoadStorage[int, int64](s, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	require.True(t, tr.Success())
	tr.Put(3, 4)

	again := LoadStorage[int, int64](s, codec.Int{}, codec.Int64{}, cmp.Compare[int])
	assert.True(t, again.Contains(3))
}

func TestTree_DumpTree(t *testing.T) {
	tr := newIntTree(t, 8, WithRollups(NewCount()))
	for _, k := range []int{2, 1, 3} {
		tr.Put(k, int64(k))
	}

	var buf bytes.Buffer
	require.NoError(t, tr.DumpTree(&buf, nil))
	assert.Equal(t,
		"size=3 capacity=8 root=1\n"+
			"    3 R #3 lc=0\n"+
			"2 B #1 lc=1\n"+
			"    1 R #2 lc=0\n",
		buf.String())

	buf.Reset()
	require.NoError(t, tr.DumpTree(&buf, func(k int, v int64) string { return "" }))
	assert.Contains(t, buf.String(), " B #1 lc=1")
}
