package manifest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/growbot/faqrag/blobstore"
)

// Store manages manifests and the CURRENT pointer in a blob store.
type Store struct {
	store blobstore.BlobStore
	mu    sync.Mutex
}

// NewStore creates a new manifest store.
func NewStore(store blobstore.BlobStore) *Store {
	return &Store{store: store}
}

// Current returns the manifest name CURRENT points to.
func (s *Store) Current(ctx context.Context) (string, error) {
	data, err := blobstore.ReadAll(ctx, s.store, CurrentFileName)
	if err != nil {
		if blobstore.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("%w: empty %s", ErrInvalid, CurrentFileName)
	}
	return name, nil
}

// Load loads the current manifest.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	name, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.LoadFile(ctx, name)
}

// LoadFile loads a specific manifest blob.
func (s *Store) LoadFile(ctx context.Context, name string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.store, name)
	if err != nil {
		if blobstore.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open manifest %s: %w", name, err)
	}
	return Unmarshal(data)
}

// Commit writes the manifest and then atomically points CURRENT at it.
func (s *Store) Commit(ctx context.Context, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := m.Marshal()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := m.FileName()
	if err := s.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", name, err)
	}
	if err := s.store.Put(ctx, CurrentFileName, []byte(name)); err != nil {
		return fmt.Errorf("failed to update %s: %w", CurrentFileName, err)
	}
	return nil
}

// Builds returns the build ids of all stored manifests, sorted by name.
func (s *Store) Builds(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx, ManifestPrefix)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, n := range names {
		if id, ok := BuildIDFromFileName(n); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Prune deletes every build except the live one and returns the deleted blob names.
// Builds whose manifests are unreadable are left alone.
func (s *Store) Prune(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.store.List(ctx, ManifestPrefix)
	if err != nil {
		return nil, err
	}

	var deleted []string
	var errs []error
	for _, name := range names {
		if name == live {
			continue
		}
		m, err := s.LoadFile(ctx, name)
		if err != nil {
			continue
		}
		for _, blob := range []string{m.VectorArtifact.Name, m.RecordArtifact.Name, name} {
			if err := s.store.Delete(ctx, blob); err != nil {
				errs = append(errs, err)
				continue
			}
			deleted = append(deleted, blob)
		}
	}
	return deleted, errors.Join(errs...)
}
