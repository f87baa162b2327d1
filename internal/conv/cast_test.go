//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Uint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid max", func(t *testing.T) {
		got, err := Uint32(uint64(math.MaxUint32))
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := Uint32(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint32(int64(math.MaxUint32) + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestUint16(t *testing.T) {
	got, err := Uint16(uint32(math.MaxUint16))
	assert.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), got)

	_, err = Uint16(math.MaxUint16 + 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestUint64(t *testing.T) {
	got, err := Uint64(math.MaxInt64)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt64), got)

	_, err = Uint64(int8(-3))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestInt(t *testing.T) {
	t.Run("valid uint32", func(t *testing.T) {
		got, err := Int(uint32(math.MaxUint32))
		assert.NoError(t, err)
		assert.Equal(t, math.MaxUint32, got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Int(uint64(math.MaxUint64))
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := Int(int64(-5))
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestMulInt(t *testing.T) {
	got, err := MulInt(1<<20, 64)
	assert.NoError(t, err)
	assert.Equal(t, 1<<26, got)

	got, err = MulInt(0, math.MaxInt)
	assert.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = MulInt(math.MaxInt/2, 3)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulInt(-1, 3)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAddInt(t *testing.T) {
	got, err := AddInt(54, 4096)
	assert.NoError(t, err)
	assert.Equal(t, 4150, got)

	_, err = AddInt(math.MaxInt, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
