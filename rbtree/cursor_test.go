package rbtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_EmptyTree(t *testing.T) {
	tr := newIntTree(t, 4)

	c := tr.Iterator()
	assert.False(t, c.Valid())
	assert.Equal(t, tr.End(), c)

	_, _, ok := tr.Next(&c)
	assert.False(t, ok)
	assert.Equal(t, tr.End(), tr.IteratorFrom(3))
	assert.Empty(t, keysOf(tr))
}

func TestCursor_NextWalksInOrder(t *testing.T) {
	tr := newIntTree(t, 16)
	for _, k := range []int{50, 20, 80, 10, 30, 70, 90, 60} {
		tr.Put(k, int64(k)+1)
	}

	var got []int
	c := tr.Iterator()
	for {
		k, v, ok := tr.Next(&c)
		if !ok {
			break
		}
		assert.Equal(t, int64(k)+1, v)
		got = append(got, k)
	}
	assert.Equal(t, []int{10, 20, 30, 50, 60, 70, 80, 90}, got)
	assert.Equal(t, tr.End(), c)
}

func TestCursor_IteratorFromIsLowerBound(t *testing.T) {
	tr := newIntTree(t, 16)
	for _, k := range []int{10, 20, 30, 40, 50} {
		tr.Put(k, 0)
	}

	tests := []struct {
		key  int
		want int
		end  bool
	}{
		{key: 30, want: 30},
		{key: 31, want: 40},
		{key: 5, want: 10},
		{key: 49, want: 50},
		{key: 50, want: 50},
		{key: 51, end: true},
	}
	for _, tt := range tests {
		c := tr.IteratorFrom(tt.key)
		if tt.end {
			assert.Equal(t, tr.End(), c, "key %d", tt.key)
			continue
		}
		k, _, ok := tr.At(c)
		require.True(t, ok, "key %d", tt.key)
		assert.Equal(t, tt.want, k, "key %d", tt.key)
	}
}

func TestCursor_Prev(t *testing.T) {
	tr := newIntTree(t, 8)
	for _, k := range []int{2, 4, 6} {
		tr.Put(k, 0)
	}

	c := tr.End()
	k, _, ok := tr.Prev(&c)
	require.True(t, ok)
	assert.Equal(t, 6, k)

	k, _, ok = tr.Prev(&c)
	require.True(t, ok)
	assert.Equal(t, 4, k)

	c = tr.IteratorFrom(2)
	_, _, ok = tr.Prev(&c)
	assert.False(t, ok)
	k, _, _ = tr.At(c)
	assert.Equal(t, 2, k, "cursor stays at the minimum")

	var desc []int
	for k := range tr.Descend() {
		desc = append(desc, k)
	}
	assert.Equal(t, []int{6, 4, 2}, desc)
}

func TestCursor_Range(t *testing.T) {
	tr := newIntTree(t, 32)
	for k := range 20 {
		tr.Put(k*2, int64(k))
	}

	var got []int
	for k := range tr.Range(5, 13) {
		got = append(got, k)
	}
	assert.Equal(t, []int{6, 8, 10, 12}, got)

	got = got[:0]
	for k := range tr.Range(36, 100) {
		got = append(got, k)
	}
	assert.Equal(t, []int{36, 38}, got)

	got = got[:0]
	for k := range tr.Range(13, 5) {
		got = append(got, k)
	}
	assert.Empty(t, got)

	// Early break.
	got = got[:0]
	for k := range tr.Ascend(tr.IteratorFrom(10)) {
		got = append(got, k)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int{10, 12, 14}, got)
}

func TestCursor_CursorOf(t *testing.T) {
	tr := newIntTree(t, 4)
	h := tr.Put(7, 70)

	c := tr.CursorOf(h)
	assert.Equal(t, h, c.Handle())
	k, v, ok := tr.At(c)
	assert.True(t, ok)
	assert.Equal(t, 7, k)
	assert.Equal(t, int64(70), v)

	tr.Clear(7)
	assert.Equal(t, tr.End(), tr.CursorOf(h))
}
