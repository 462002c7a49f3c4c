package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/growbot/faqrag/codec"
)

const (
	// CurrentFileName names the pointer blob holding the live manifest name.
	CurrentFileName = "CURRENT"
	// ManifestPrefix prefixes manifest blob names.
	ManifestPrefix = "MANIFEST-"
	// CurrentVersion is the version of the manifest format.
	CurrentVersion = 1
)

// Artifact describes one persisted blob.
type Artifact struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Checksum uint32 `json:"checksum"`
}

// Manifest is the commit record of one build.
type Manifest struct {
	Version        int       `json:"version"`
	BuildID        string    `json:"build_id"`
	CreatedAt      time.Time `json:"created_at"`
	Embedder       string    `json:"embedder"`
	Dim            int       `json:"dim"`
	Count          int       `json:"count"`
	VectorArtifact Artifact  `json:"vector_artifact"`
	RecordArtifact Artifact  `json:"record_artifact"`
}

// New creates a manifest for a build.
func New(buildID, embedder string, dim, count int) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		BuildID:   buildID,
		CreatedAt: time.Now().UTC(),
		Embedder:  embedder,
		Dim:       dim,
		Count:     count,
	}
}

// FileName returns the blob name of a manifest for buildID.
func FileName(buildID string) string {
	return ManifestPrefix + buildID + ".json"
}

// VectorFileName returns the vector artifact name for buildID.
func VectorFileName(buildID string) string {
	return "vectors-" + buildID + ".vec"
}

// RecordFileName returns the record artifact name for buildID.
func RecordFileName(buildID string) string {
	return "records-" + buildID + ".rec"
}

// BuildIDFromFileName extracts the build id from a manifest blob name.
func BuildIDFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, ManifestPrefix) || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, ManifestPrefix), ".json")
	return id, id != ""
}

// FileName returns the blob name of this manifest.
func (m *Manifest) FileName() string {
	return FileName(m.BuildID)
}

// Validate checks internal consistency.
func (m *Manifest) Validate() error {
	switch {
	case m.Version != CurrentVersion:
		return fmt.Errorf("%w: got %d, want %d", ErrIncompatibleVersion, m.Version, CurrentVersion)
	case m.BuildID == "":
		return fmt.Errorf("%w: empty build id", ErrInvalid)
	case m.Dim <= 0:
		return fmt.Errorf("%w: dimension %d", ErrInvalid, m.Dim)
	case m.Count < 0:
		return fmt.Errorf("%w: count %d", ErrInvalid, m.Count)
	case m.VectorArtifact.Name == "" || m.RecordArtifact.Name == "":
		return fmt.Errorf("%w: missing artifact name", ErrInvalid)
	}
	return nil
}

// Marshal encodes the manifest as JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	return codec.JSON{}.Marshal(m)
}

// Unmarshal decodes and validates a manifest.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
