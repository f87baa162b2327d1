package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	nfs "github.com/hupe1980/nindex/internal/fs"
	"github.com/hupe1980/nindex/internal/mmap"
)

const tempPattern = ".blob-*.tmp"

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the filesystem, for fault injection in tests.
func WithFileSystem(fsys nfs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		s.fs = fsys
	}
}

// WithFilePerm sets the permissions of written blobs. Default 0o644.
func WithFilePerm(perm fs.FileMode) LocalOption {
	return func(s *LocalStore) {
		s.perm = perm
	}
}

// LocalStore keeps blobs as files below a root directory. Names may contain
// '/' to form subdirectories.
type LocalStore struct {
	root string
	fs   nfs.FileSystem
	perm fs.FileMode
}

// NewLocalStore creates a store rooted at root.
func NewLocalStore(root string, opts ...LocalOption) *LocalStore {
	s := &LocalStore{root: root, fs: nfs.Default, perm: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the root directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("blobstore: invalid blob name %q", name)
	}
	return filepath.Join(s.root, clean), nil
}

// Open maps the blob read-only.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Open(p)
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Create returns a writer to a temp file that is renamed into place on Close.
func (s *LocalStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := s.temp(p)
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{store: s, f: f, path: p}, nil
}

// Put writes data to a temp file, syncs it and renames it over name.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	return s.put(ctx, name, data, s.fs.Rename)
}

// PutIfNotExists is Put that fails with ErrConflict if name exists. It links
// the temp file into place, which fails atomically on an existing target.
func (s *LocalStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	return s.put(ctx, name, data, func(tmp, p string) error {
		if err := s.fs.Link(tmp, p); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return ErrConflict
			}
			return err
		}
		return s.fs.Remove(tmp)
	})
}

func (s *LocalStore) put(ctx context.Context, name string, data []byte, commit func(tmp, p string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := s.temp(p)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		return s.abort(f, err)
	}
	if err := f.Sync(); err != nil {
		return s.abort(f, err)
	}
	if err := f.Close(); err != nil {
		return errors.Join(err, s.fs.Remove(f.Name()))
	}
	if err := commit(f.Name(), p); err != nil {
		return errors.Join(err, s.fs.Remove(f.Name()))
	}
	return nil
}

func (s *LocalStore) temp(p string) (nfs.File, error) {
	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := s.fs.CreateTemp(dir, tempPattern)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(f.Name(), s.perm); err != nil {
		return nil, s.abort(f, err)
	}
	return f, nil
}

func (s *LocalStore) abort(f nfs.File, cause error) error {
	return errors.Join(cause, f.Close(), s.fs.Remove(f.Name()))
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List walks the root and returns slash-separated names with prefix.
// In-flight temp files are skipped.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.walk(ctx, s.root, "", func(name string) {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func (s *LocalStore) walk(ctx context.Context, dir, rel string, fn func(string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if rel != "" {
			name = rel + "/" + name
		}
		if e.IsDir() {
			if err := s.walk(ctx, filepath.Join(dir, e.Name()), name, fn); err != nil {
				return err
			}
			continue
		}
		if ok, _ := filepath.Match(tempPattern, e.Name()); ok {
			continue
		}
		fn(name)
	}
	return nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return readSlice(b.m.Bytes(), p, off)
}

func (b *localBlob) ReadRange(ctx context.Context, off, n int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sliceRange(b.m.Bytes(), off, n)
}

func (b *localBlob) Bytes() ([]byte, error) {
	if err := b.m.Advise(mmap.AccessSequential); err != nil {
		return nil, err
	}
	return b.m.Bytes(), nil
}

func (b *localBlob) Size() int64  { return int64(b.m.Size()) }
func (b *localBlob) Close() error { return b.m.Close() }

type localWritableBlob struct {
	store  *LocalStore
	f      nfs.File
	path   string
	err    error // first write error; Close discards the blob
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	n, err := w.f.Write(p)
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, err
}

func (w *localWritableBlob) Sync() error { return w.f.Sync() }

// Close syncs the temp file and renames it into place.
func (w *localWritableBlob) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.err != nil {
		return w.store.abort(w.f, w.err)
	}
	if err := w.f.Sync(); err != nil {
		return w.store.abort(w.f, err)
	}
	if err := w.f.Close(); err != nil {
		return errors.Join(err, w.store.fs.Remove(w.f.Name()))
	}
	if err := w.store.fs.Rename(w.f.Name(), w.path); err != nil {
		return errors.Join(err, w.store.fs.Remove(w.f.Name()))
	}
	return nil
}
