package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/nindex/blobstore"
)

const (
	nameSuffix    = ".snap"
	versionDigits = 20
)

// Name returns the blob name of version of index.
func Name(index string, version uint64) string {
	return fmt.Sprintf("%s-%0*d%s", index, versionDigits, version, nameSuffix)
}

// ParseName returns the version encoded in name if name is a snapshot of
// index. Snapshots of an index whose name merely starts with index do not
// match.
func ParseName(index, name string) (uint64, bool) {
	rest, ok := strings.CutPrefix(name, index+"-")
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, nameSuffix)
	if !ok || len(digits) != versionDigits {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Publish saves buf as the next version of index and advances ptr to it.
// Conditional stores refuse to overwrite an existing version, and on those a
// failed commit removes the uploaded blob. Losing a race to another writer
// returns blobstore.ErrConcurrentModification.
func Publish(ctx context.Context, store blobstore.Store, ptr blobstore.Pointer, index string, buf []byte, opts ...Option) (uint64, error) {
	o := applyOptions(opts)

	_, latest, err := ptr.Latest(ctx)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return 0, fmt.Errorf("snapshot: publish %s: %w", index, err)
	}

	version := latest + 1
	name := Name(index, version)

	_, exclusive := store.(blobstore.ConditionalStore)
	if err := save(ctx, store, name, buf, &o, exclusive); err != nil {
		if errors.Is(err, blobstore.ErrConflict) {
			return 0, fmt.Errorf("snapshot: publish %s: %w", name, blobstore.ErrConcurrentModification)
		}
		return 0, err
	}

	if err := ptr.Commit(ctx, version, name); err != nil {
		err = fmt.Errorf("snapshot: publish %s: %w", name, err)
		if exclusive {
			// The blob is ours only if it was created exclusively.
			err = errors.Join(err, store.Delete(context.WithoutCancel(ctx), name))
		}
		return 0, err
	}

	o.logger.InfoContext(ctx, "snapshot published", "index", index, "version", version, "name", name)
	return version, nil
}

// RestoreLatest restores the snapshot ptr currently points to.
func RestoreLatest(ctx context.Context, store blobstore.Store, ptr blobstore.Pointer, opts ...Option) ([]byte, uint64, error) {
	name, version, err := ptr.Latest(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("snapshot: latest: %w", err)
	}

	buf, err := Restore(ctx, store, name, opts...)
	if err != nil {
		return nil, 0, err
	}
	return buf, version, nil
}

// Prune deletes the snapshots that are not among the newest keep versions
// of index and returns the deleted names.
func Prune(ctx context.Context, store blobstore.Store, index string, keep int) ([]string, error) {
	listed, err := store.List(ctx, index+"-")
	if err != nil {
		return nil, fmt.Errorf("snapshot: prune %s: %w", index, err)
	}
	if keep < 1 {
		keep = 1
	}

	// Zero-padded versions of one index sort lexically.
	names := listed[:0:0]
	for _, name := range listed {
		if _, ok := ParseName(index, name); ok {
			names = append(names, name)
		}
	}
	if len(names) <= keep {
		return nil, nil
	}

	stale := names[:len(names)-keep]
	for _, name := range stale {
		if err := store.Delete(ctx, name); err != nil {
			return nil, fmt.Errorf("snapshot: prune %s: %w", name, err)
		}
	}
	return stale, nil
}
