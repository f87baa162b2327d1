package arena

import "errors"

var (
	// ErrBufferTooSmall is returned when the buffer cannot hold the header.
	ErrBufferTooSmall = errors.New("arena: buffer too small")
	// ErrBufferTooLarge is returned when the buffer holds more than MaxRecords records.
	ErrBufferTooLarge = errors.New("arena: buffer too large")
	// ErrBadMagic is returned when the stored magic differs from the expected one.
	ErrBadMagic = errors.New("arena: bad magic")
	// ErrBadVersion is returned when the stored version differs from the expected one.
	ErrBadVersion = errors.New("arena: unsupported version")
	// ErrSizeMismatch is returned when MemSize differs from the buffer length.
	ErrSizeMismatch = errors.New("arena: memory size mismatch")
	// ErrHeadSizeMismatch is returned when HeadSize differs from the configured head size.
	ErrHeadSizeMismatch = errors.New("arena: head size mismatch")
	// ErrRecordSizeMismatch is returned when the stored record size differs
	// from the configured value size plus RecordOverhead.
	ErrRecordSizeMismatch = errors.New("arena: record size mismatch")
	// ErrTotalMismatch is returned when Total differs from the record count implied by the buffer.
	ErrTotalMismatch = errors.New("arena: record count mismatch")
	// ErrCorruptHeader is returned when Used or a list head is out of range.
	ErrCorruptHeader = errors.New("arena: corrupt header")
	// ErrCorruptList is returned by Validate when the free or active list is inconsistent.
	ErrCorruptList = errors.New("arena: corrupt block list")
	// ErrInvalidOptions is returned when the options describe an impossible layout.
	ErrInvalidOptions = errors.New("arena: invalid options")
)
