package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Magic identifies a snapshot frame.
const Magic = "NIXSNAP1"

// Version is the frame format version.
const Version uint16 = 1

// FrameSize is the size of the frame header in bytes.
const FrameSize = 32

var (
	// ErrBadFrame is returned when a blob is not a valid snapshot.
	ErrBadFrame = errors.New("snapshot: bad frame")
	// ErrChecksumMismatch is returned when the restored buffer does not
	// match the stored checksum.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	// ErrBufferTooSmall is returned by RestoreInto when dst cannot hold the
	// snapshot.
	ErrBufferTooSmall = errors.New("snapshot: destination buffer too small")
)

// ChecksumError reports the snapshot whose content failed verification.
type ChecksumError struct {
	Name     string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("snapshot: %s: checksum mismatch: stored %08x, computed %08x", e.Name, e.Expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// Frame is the decoded snapshot header.
type Frame struct {
	Version    uint16
	Codec      Codec
	RawSize    uint64
	StoredSize uint64
	CRC32C     uint32
}

// MarshalBinary encodes the frame header.
func (f Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FrameSize)
	f.encode(buf)
	return buf, nil
}

func (f Frame) encode(buf []byte) {
	copy(buf[0:8], Magic)
	binary.LittleEndian.PutUint16(buf[8:], f.Version)
	buf[10] = byte(f.Codec)
	buf[11] = 0
	binary.LittleEndian.PutUint64(buf[12:], f.RawSize)
	binary.LittleEndian.PutUint64(buf[20:], f.StoredSize)
	binary.LittleEndian.PutUint32(buf[28:], f.CRC32C)
}

// UnmarshalBinary decodes and validates a frame header.
func (f *Frame) UnmarshalBinary(buf []byte) error {
	if len(buf) < FrameSize {
		return fmt.Errorf("%w: %d header bytes", ErrBadFrame, len(buf))
	}
	if string(buf[0:8]) != Magic {
		return fmt.Errorf("%w: magic %q", ErrBadFrame, buf[0:8])
	}

	f.Version = binary.LittleEndian.Uint16(buf[8:])
	if f.Version != Version {
		return fmt.Errorf("%w: version %d", ErrBadFrame, f.Version)
	}
	f.Codec = Codec(buf[10])
	if !f.Codec.valid() {
		return fmt.Errorf("%w: codec %d", ErrBadFrame, buf[10])
	}
	f.RawSize = binary.LittleEndian.Uint64(buf[12:])
	f.StoredSize = binary.LittleEndian.Uint64(buf[20:])
	f.CRC32C = binary.LittleEndian.Uint32(buf[28:])

	if f.Codec == CodecNone && f.StoredSize != f.RawSize {
		return fmt.Errorf("%w: stored %d != raw %d", ErrBadFrame, f.StoredSize, f.RawSize)
	}
	if f.RawSize > f.maxRawSize() {
		return fmt.Errorf("%w: raw size %d exceeds %s bound for %d stored bytes", ErrBadFrame, f.RawSize, f.Codec, f.StoredSize)
	}
	return nil
}

// maxRawSize is the largest RawSize the payload can decompress to.
func (f *Frame) maxRawSize() uint64 {
	const slack = 64
	ratio := f.Codec.maxExpansion()
	if f.StoredSize > (math.MaxUint64-slack)/ratio {
		return math.MaxUint64
	}
	return f.StoredSize*ratio + slack
}
