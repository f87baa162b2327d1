package nindex

import (
	"errors"
	"fmt"
)

var (
	// ErrFull is returned when the arena has no free record for a new key.
	ErrFull = errors.New("nindex: index full")
	// ErrClosed is returned when using a closed Index.
	ErrClosed = errors.New("nindex: index closed")
)

// OpenError reports why a buffer could not be used as an index.
//
// The original underlying error can be accessed via errors.Unwrap.
type OpenError struct {
	// Backend describes the storage, e.g. "file orders.idx".
	Backend string
	cause   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("nindex: open %s: %v", e.Backend, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }
