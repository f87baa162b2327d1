package storage

import (
	"testing"

	"github.com/hupe1980/nindex/arena"
	"github.com/hupe1980/nindex/internal/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap(t *testing.T) {
	h, err := NewHeap(128)
	require.NoError(t, err)
	assert.Equal(t, 128, h.Size())
	assert.Len(t, h.Bytes(), 128)
	assert.True(t, mem.IsAligned(h.Bytes()))

	a := arena.LoadStorage(h, arena.WithValueSize(8))
	require.True(t, a.Success(), a.Err())
	assert.Greater(t, a.Total(), 0)

	require.NoError(t, h.Close())
	assert.Nil(t, h.Bytes())

	_, err = NewHeap(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestWrapHeap(t *testing.T) {
	buf := make([]byte, 64)
	h := WrapHeap(buf)
	h.Bytes()[0] = 7
	assert.Equal(t, byte(7), buf[0])
}
