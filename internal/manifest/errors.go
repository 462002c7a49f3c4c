package manifest

import "errors"

var (
	// ErrIncompatibleVersion is returned when the manifest version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible manifest version")

	// ErrNotFound is returned when no build has been committed.
	ErrNotFound = errors.New("manifest not found")

	// ErrInvalid is returned for manifests that fail validation.
	ErrInvalid = errors.New("invalid manifest")
)
