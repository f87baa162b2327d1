package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is the compression applied to a snapshot payload.
type Codec uint8

const (
	// CodecNone stores the buffer as is.
	CodecNone Codec = 0
	// CodecLZ4 is LZ4 block compression (fast, good for frequent snapshots).
	CodecLZ4 Codec = 1
	// CodecZstd is Zstandard compression (better ratio, good for archives).
	CodecZstd Codec = 2
)

func (c Codec) valid() bool { return c <= CodecZstd }

// maxExpansion bounds RawSize/StoredSize for payloads of c. An LZ4 block
// grows at most 255x; a zstd RLE block turns 4 bytes into 128 KiB.
func (c Codec) maxExpansion() uint64 {
	switch c {
	case CodecLZ4:
		return 256
	case CodecZstd:
		return 1 << 15
	default:
		return 1
	}
}

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

var errSizeMismatch = errors.New("decompressed size mismatch")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the payload and the codec actually used. When
// compression saves less than 10% the raw buffer is returned with CodecNone.
func compress(data []byte, c Codec) ([]byte, Codec, error) {
	if c == CodecNone || len(data) == 0 {
		return data, CodecNone, nil
	}

	var out []byte
	switch c {
	case CodecLZ4:
		out = make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, out, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("snapshot: lz4: %w", err)
		}
		out = out[:n]
	case CodecZstd:
		enc := getZstdEncoder()
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("snapshot: unknown codec %d", c)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return data, CodecNone, nil
	}
	return out, c, nil
}

// decompress expands payload into dst, which must have exactly the raw size.
func decompress(dst, payload []byte, c Codec) error {
	switch c {
	case CodecNone:
		if len(payload) != len(dst) {
			return errSizeMismatch
		}
		copy(dst, payload)
		return nil
	case CodecLZ4:
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return fmt.Errorf("lz4: %w", err)
		}
		if n != len(dst) {
			return errSizeMismatch
		}
		return nil
	case CodecZstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(payload, dst[:0])
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		if len(out) != len(dst) {
			return errSizeMismatch
		}
		if len(out) > 0 && &out[0] != &dst[0] {
			copy(dst, out)
		}
		return nil
	default:
		return fmt.Errorf("unknown codec %d", c)
	}
}
