package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/nindex/blobstore"
	"github.com/hupe1980/nindex/internal/hash"
	"golang.org/x/sync/errgroup"
)

// Encode returns the framed snapshot of buf.
func Encode(buf []byte, c Codec) ([]byte, error) {
	payload, used, err := compress(buf, c)
	if err != nil {
		return nil, err
	}

	out := make([]byte, FrameSize+len(payload))
	Frame{
		Version:    Version,
		Codec:      used,
		RawSize:    uint64(len(buf)),
		StoredSize: uint64(len(payload)),
		CRC32C:     hash.CRC32C(buf),
	}.encode(out)
	copy(out[FrameSize:], payload)
	return out, nil
}

// Decode verifies a framed snapshot and returns the raw buffer. Only
// WithMaxRawSize and WithController apply.
func Decode(data []byte, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)

	var f Frame
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if uint64(len(data)-FrameSize) != f.StoredSize {
		return nil, fmt.Errorf("%w: payload %d bytes, frame says %d", ErrBadFrame, len(data)-FrameSize, f.StoredSize)
	}
	if err := checkRawSize(f, &o); err != nil {
		return nil, err
	}

	budget := int64(f.RawSize)
	if err := o.controller.AcquireMemory(context.Background(), budget); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	defer o.controller.ReleaseMemory(budget)

	raw := make([]byte, f.RawSize)
	if err := decompress(raw, data[FrameSize:], f.Codec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if sum := hash.CRC32C(raw); sum != f.CRC32C {
		return nil, &ChecksumError{Expected: f.CRC32C, Actual: sum}
	}
	return raw, nil
}

// Save writes buf to store under name, replacing any previous snapshot.
func Save(ctx context.Context, store blobstore.Store, name string, buf []byte, opts ...Option) error {
	o := applyOptions(opts)
	return save(ctx, store, name, buf, &o, false)
}

func save(ctx context.Context, store blobstore.Store, name string, buf []byte, o *options, exclusive bool) error {
	start := time.Now()

	// Worst case the frame holds the raw buffer next to the compressed copy.
	budget := int64(FrameSize + 2*len(buf))
	if err := o.controller.AcquireMemory(ctx, budget); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	defer o.controller.ReleaseMemory(budget)

	data, err := Encode(buf, o.codec)
	if err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	if err := o.controller.WaitIO(ctx, len(data)); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}

	if exclusive {
		cs, ok := store.(blobstore.ConditionalStore)
		if !ok {
			return fmt.Errorf("snapshot: save %s: store does not support conditional writes", name)
		}
		err = cs.PutIfNotExists(ctx, name, data)
	} else {
		err = store.Put(ctx, name, data)
	}
	if err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}

	o.logger.DebugContext(ctx, "snapshot saved",
		"name", name,
		"codec", Codec(data[10]).String(),
		"raw_bytes", len(buf),
		"stored_bytes", len(data),
		"duration", time.Since(start),
	)
	return nil
}

// SaveAll writes every buffer of snapshots in parallel. The first failure
// cancels the remaining uploads.
func SaveAll(ctx context.Context, store blobstore.Store, snapshots map[string][]byte, opts ...Option) error {
	o := applyOptions(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for name, buf := range snapshots {
		g.Go(func() error {
			if err := o.controller.Acquire(gctx); err != nil {
				return err
			}
			defer o.controller.Release()
			return save(gctx, store, name, buf, &o, false)
		})
	}
	return g.Wait()
}

// Stat returns the frame of a stored snapshot without reading its payload.
func Stat(ctx context.Context, store blobstore.Store, name string) (Frame, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return Frame{}, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer func() { _ = b.Close() }()

	f, err := readFrame(ctx, b)
	if err != nil {
		return Frame{}, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	return f, nil
}

func readFrame(ctx context.Context, b blobstore.Blob) (Frame, error) {
	var hdr [FrameSize]byte
	n, err := b.ReadAt(ctx, hdr[:], 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == FrameSize) {
		if errors.Is(err, io.EOF) {
			return Frame{}, fmt.Errorf("%w: %d header bytes", ErrBadFrame, n)
		}
		return Frame{}, err
	}

	var f Frame
	if err := f.UnmarshalBinary(hdr[:]); err != nil {
		return Frame{}, err
	}
	if stored := uint64(b.Size() - FrameSize); stored != f.StoredSize {
		return Frame{}, fmt.Errorf("%w: payload %d bytes, frame says %d", ErrBadFrame, stored, f.StoredSize)
	}
	return f, nil
}

// Restore reads and verifies the snapshot stored under name.
func Restore(ctx context.Context, store blobstore.Store, name string, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)

	f, err := Stat(ctx, store, name)
	if err != nil {
		return nil, err
	}
	if err := checkRawSize(f, &o); err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}

	// One reservation covers the result and the compressed payload.
	budget := int64(f.RawSize)
	if f.Codec != CodecNone {
		budget += int64(f.StoredSize)
	}
	if err := o.controller.AcquireMemory(ctx, budget); err != nil {
		return nil, fmt.Errorf("snapshot: restore %s: %w", name, err)
	}
	defer o.controller.ReleaseMemory(budget)

	dst := make([]byte, f.RawSize)
	if _, err := restoreInto(ctx, store, name, dst, &o, true); err != nil {
		return nil, err
	}
	return dst, nil
}

func checkRawSize(f Frame, o *options) error {
	if f.RawSize > uint64(o.maxRawSize) {
		return fmt.Errorf("%w: raw size %d exceeds limit %d", ErrBadFrame, f.RawSize, o.maxRawSize)
	}
	return nil
}

// RestoreInto restores the snapshot stored under name into the front of dst,
// typically a mapped storage.File, and returns the snapshot size.
func RestoreInto(ctx context.Context, store blobstore.Store, name string, dst []byte, opts ...Option) (int, error) {
	o := applyOptions(opts)
	return restoreInto(ctx, store, name, dst, &o, false)
}

// restoreInto reads name into dst. reserved reports that the caller already
// charged the payload to the controller.
func restoreInto(ctx context.Context, store blobstore.Store, name string, dst []byte, o *options, reserved bool) (int, error) {
	start := time.Now()

	b, err := store.Open(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer func() { _ = b.Close() }()

	f, err := readFrame(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	if uint64(len(dst)) < f.RawSize {
		return 0, fmt.Errorf("snapshot: %s: %w: need %d bytes, have %d", name, ErrBufferTooSmall, f.RawSize, len(dst))
	}
	raw := dst[:f.RawSize]

	payload := raw
	if f.Codec != CodecNone {
		if !reserved {
			budget := int64(f.StoredSize)
			if err := o.controller.AcquireMemory(ctx, budget); err != nil {
				return 0, fmt.Errorf("snapshot: restore %s: %w", name, err)
			}
			defer o.controller.ReleaseMemory(budget)
		}
		payload = make([]byte, f.StoredSize)
	}

	if err := readPayload(ctx, b, payload, o); err != nil {
		return 0, fmt.Errorf("snapshot: restore %s: %w", name, err)
	}
	if f.Codec != CodecNone {
		if err := decompress(raw, payload, f.Codec); err != nil {
			return 0, fmt.Errorf("snapshot: %s: %w: %v", name, ErrBadFrame, err)
		}
	}

	if sum := hash.CRC32C(raw); sum != f.CRC32C {
		return 0, &ChecksumError{Name: name, Expected: f.CRC32C, Actual: sum}
	}

	o.logger.DebugContext(ctx, "snapshot restored",
		"name", name,
		"codec", f.Codec.String(),
		"raw_bytes", f.RawSize,
		"stored_bytes", f.StoredSize+FrameSize,
		"duration", time.Since(start),
	)
	return len(raw), nil
}

func readPayload(ctx context.Context, b blobstore.Blob, p []byte, o *options) error {
	if len(p) == 0 {
		return nil
	}
	rc, err := b.ReadRange(ctx, FrameSize, int64(len(p)))
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	_, err = io.ReadFull(o.controller.NewReader(ctx, rc), p)
	return err
}
