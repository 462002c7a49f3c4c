package persistence

import (
	"errors"
	"fmt"
)

const (
	// VectorMagic identifies vector artifacts.
	VectorMagic = "FQV1"
	// RecordMagic identifies record artifacts.
	RecordMagic = "FQR1"
	// Version is the current artifact format version.
	Version uint32 = 1

	// VectorHeaderSize is the size of the vector artifact header.
	VectorHeaderSize = 32
	// RecordHeaderSize is the size of the record artifact header.
	RecordHeaderSize = 24
)

var (
	// ErrCorrupt is wrapped by every decoding error.
	ErrCorrupt = errors.New("corrupt artifact")

	ErrInvalidMagic   = fmt.Errorf("%w: invalid magic", ErrCorrupt)
	ErrInvalidVersion = fmt.Errorf("%w: unsupported version", ErrCorrupt)
	ErrTruncated      = fmt.Errorf("%w: truncated", ErrCorrupt)
	ErrCountMismatch  = fmt.Errorf("%w: count mismatch", ErrCorrupt)
)

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Is makes ChecksumMismatchError match ErrCorrupt.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrCorrupt
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
