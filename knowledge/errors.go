package knowledge

import (
	"errors"
	"fmt"

	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/internal/manifest"
	"github.com/growbot/faqrag/persistence"
)

var (
	// ErrNotFound is returned when a required artifact or the commit pointer is missing.
	ErrNotFound = errors.New("knowledge: artifact not found")

	// ErrCorruptArtifact is returned when an artifact cannot be parsed, fails
	// its checksum, or does not align with its counterpart.
	ErrCorruptArtifact = errors.New("knowledge: corrupt artifact")

	// ErrNotLoaded is returned by a Handle that holds no store.
	ErrNotLoaded = errors.New("knowledge: store not loaded")

	// ErrBuilderState is returned when a Builder method is called out of order.
	ErrBuilderState = errors.New("knowledge: invalid builder state")
)

// ErrInvalidText is returned by Builder.Add when a record field is not valid
// UTF-8. Such text would not survive the JSON record artifact unchanged.
type ErrInvalidText struct {
	Index int    // Position of the record in the Add call
	Field string // "problem" or "solution"
}

func (e *ErrInvalidText) Error() string {
	return fmt.Sprintf("knowledge: record %d: %s is not valid UTF-8", e.Index, e.Field)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptArtifact, fmt.Sprintf(format, args...))
}

// classify maps storage and format errors onto the package taxonomy.
func classify(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case blobstore.IsNotFound(err), errors.Is(err, manifest.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	case errors.Is(err, persistence.ErrCorrupt),
		errors.Is(err, manifest.ErrInvalid),
		errors.Is(err, manifest.ErrIncompatibleVersion):
		return fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, name, err)
	default:
		return fmt.Errorf("knowledge: %s: %w", name, err)
	}
}
