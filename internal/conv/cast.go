package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("conv: integer overflow")

// Integer is the set of built-in integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

func bounded[T Integer](v T, limit uint64, target string) error {
	if v < 0 {
		return fmt.Errorf("%w: %d cannot be converted to %s (negative)", ErrOverflow, v, target)
	}
	if uint64(v) > limit {
		return fmt.Errorf("%w: %d cannot be converted to %s (too large)", ErrOverflow, v, target)
	}
	return nil
}

// Uint16 converts v to uint16 safely.
func Uint16[T Integer](v T) (uint16, error) {
	if err := bounded(v, math.MaxUint16, "uint16"); err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// Uint32 converts v to uint32 safely.
func Uint32[T Integer](v T) (uint32, error) {
	if err := bounded(v, math.MaxUint32, "uint32"); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Uint64 converts v to uint64 safely.
func Uint64[T Integer](v T) (uint64, error) {
	if err := bounded(v, math.MaxUint64, "uint64"); err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// Int converts v to int safely. Negative values are rejected as well, since
// every caller converts a size or an offset.
func Int[T Integer](v T) (int, error) {
	if err := bounded(v, math.MaxInt, "int"); err != nil {
		return 0, err
	}
	return int(v), nil
}

// MulInt multiplies two non-negative ints and reports ErrOverflow when the
// product does not fit.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: %d * %d (negative operand)", ErrOverflow, a, b)
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return a * b, nil
}

// AddInt adds two non-negative ints and reports ErrOverflow when the sum does
// not fit.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: %d + %d (negative operand)", ErrOverflow, a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}
