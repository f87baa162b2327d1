//go:build unix

package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	nfs "github.com/hupe1980/nindex/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	storeContract(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, WithFilePerm(0o600))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a/b/c.snap", []byte("x")))

	fi, err := os.Stat(filepath.Join(dir, "a", "b", "c.snap"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	assert.Equal(t, dir, s.Root())

	for _, bad := range []string{"", "../escape", "/abs"} {
		assert.Error(t, s.Put(ctx, bad, nil), bad)
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FailedPutKeepsOldBlob(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, NewLocalStore(dir).Put(ctx, "snap", []byte("good")))

	for _, fault := range []nfs.Fault{
		{FailAfterBytes: 2},
		{FailAfterBytes: -1, FailOnSync: true},
		{FailAfterBytes: -1, FailOnRename: true},
	} {
		ffs := nfs.NewFaultyFS(nil)
		ffs.AddRule(".tmp", fault)
		s := NewLocalStore(dir, WithFileSystem(ffs))

		err := s.Put(ctx, "snap", []byte("broken"))
		require.ErrorIs(t, err, nfs.ErrInjected)

		w, err := s.Create(ctx, "snap")
		require.NoError(t, err)
		_, _ = w.Write([]byte("broken"))
		assert.Error(t, w.Close())

		b, err := s.Open(ctx, "snap")
		require.NoError(t, err)
		got, err := ReadAll(ctx, b)
		require.NoError(t, err)
		require.NoError(t, b.Close())
		assert.Equal(t, "good", string(got))

		// No temp files are left behind.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	}
}
