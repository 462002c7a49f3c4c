package faqrag

import (
	"errors"
	"fmt"

	"github.com/growbot/faqrag/index"
	"github.com/growbot/faqrag/knowledge"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = index.ErrInvalidK

	// ErrEmptyIndex is returned when an index is built from no vectors.
	ErrEmptyIndex = index.ErrEmptyIndex

	// ErrNotFound is returned when the committed build or one of its artifacts is missing.
	ErrNotFound = knowledge.ErrNotFound

	// ErrCorruptArtifact is returned when persisted artifacts fail to parse,
	// fail checksums, or disagree with each other.
	ErrCorruptArtifact = knowledge.ErrCorruptArtifact

	// ErrNotLoaded is returned when no knowledge base has been loaded yet.
	ErrNotLoaded = knowledge.ErrNotLoaded
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var id *index.ErrInvalidDimension
	if errors.As(err, &id) {
		return &ErrInvalidDimension{Dimension: id.Dimension, cause: err}
	}

	// Sentinels are shared with the inner packages, so errors.Is already
	// matches them; everything else passes through unchanged.
	return err
}
