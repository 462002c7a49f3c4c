package knowledge

import (
	"context"
	"sync/atomic"

	"github.com/growbot/faqrag/blobstore"
)

// Handle publishes the live Store. Readers call Load and keep using the
// store they got; Swap and Reload replace it without blocking them.
type Handle struct {
	p atomic.Pointer[Store]
}

// NewHandle creates a handle holding s (which may be nil).
func NewHandle(s *Store) *Handle {
	h := &Handle{}
	if s != nil {
		h.p.Store(s)
	}
	return h
}

// Load returns the current store, or nil if none has been loaded.
func (h *Handle) Load() *Store {
	return h.p.Load()
}

// Swap installs s and returns the previous store.
func (h *Handle) Swap(s *Store) *Store {
	return h.p.Swap(s)
}

// Reload loads the committed build from bs and installs it. On failure the
// current store stays in place. It reports whether the build id changed.
func (h *Handle) Reload(ctx context.Context, bs blobstore.BlobStore, opts ...Option) (bool, error) {
	s, err := Load(ctx, bs, opts...)
	if err != nil {
		return false, err
	}
	old := h.p.Swap(s)
	return old == nil || old.BuildID() != s.BuildID(), nil
}

// Retrieve calls Retrieve on the current store.
func (h *Handle) Retrieve(ctx context.Context, query []float32, k int) ([]Record, error) {
	s := h.p.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s.Retrieve(ctx, query, k)
}

// Search calls Search on the current store.
func (h *Handle) Search(ctx context.Context, query []float32, k int, opts ...SearchOption) ([]Hit, error) {
	s := h.p.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s.Search(ctx, query, k, opts...)
}
