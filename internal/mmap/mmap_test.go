//go:build unix

package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmap_OpenReadClose(t *testing.T) {
	content := []byte("Hello, Mmap!")
	path := filepath.Join(t.TempDir(), "mmap_test")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.False(t, m.Writable())
	assert.ErrorIs(t, m.Sync(), ErrReadOnly)

	buf := make([]byte, 5)
	n, err := m.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "Mmap!", string(buf))

	n, err = m.ReadAt(make([]byte, 10), 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	buf3 := make([]byte, 10)
	n, err = m.ReadAt(buf3, 7)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "Mmap!", string(buf3[:n]))

	_, err = m.ReadAt(buf, -1)
	assert.Equal(t, ErrInvalidOffset, err)
}

func TestMmap_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Nil(t, m.Bytes())
}

func TestMmap_MapFileWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rw")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(4096))

	m, err := MapFile(f, 4096, true)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	copy(m.Bytes(), "persisted")
	require.NoError(t, m.Sync())
	require.NoError(t, m.Advise(AccessRandom))
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data[:9]))
}

func TestMmap_MapFileAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "off")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Truncate(8192))
	_, err = f.WriteAt([]byte("marker"), 100)
	require.NoError(t, err)

	m, err := MapFileAt(f, 100, 64, true)
	require.NoError(t, err)
	assert.Equal(t, 64, m.Size())
	assert.Equal(t, "marker", string(m.Bytes()[:6]))

	copy(m.Bytes()[10:], "tail")
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())

	buf := make([]byte, 4)
	_, err = f.ReadAt(buf, 110)
	require.NoError(t, err)
	assert.Equal(t, "tail", string(buf))

	_, err = MapFileAt(f, -1, 64, false)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestMmap_MapAnon(t *testing.T) {
	m, err := MapAnon(8192)
	require.NoError(t, err)

	data := m.Bytes()
	require.Len(t, data, 8192)
	for _, b := range data {
		require.Zero(t, b)
	}
	data[8191] = 0xFF
	assert.Equal(t, byte(0xFF), m.Bytes()[8191])

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Advise(AccessDefault), ErrClosed)
}

func TestMmap_InvalidSize(t *testing.T) {
	_, err := MapAnon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapFile(nil, -1, false)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
