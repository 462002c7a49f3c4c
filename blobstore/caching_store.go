package blobstore

import (
	"context"

	"github.com/growbot/faqrag/internal/cache"
	"github.com/growbot/faqrag/resource"
)

// CachingStore wraps a BlobStore and keeps whole immutable blobs in memory.
//
// Blobs for which Cacheable returns false (by default only the CURRENT
// pointer) always go to the inner store, so a reload observes new commits.
type CachingStore struct {
	inner     BlobStore
	cache     *cache.Sharded[[]byte]
	cacheable func(name string) bool
}

// CachingOption configures a CachingStore.
type CachingOption func(*CachingStore)

// WithCacheable overrides which blobs may be cached.
func WithCacheable(fn func(name string) bool) CachingOption {
	return func(s *CachingStore) {
		s.cacheable = fn
	}
}

// NewCachingStore creates a CachingStore holding up to capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64, rc *resource.Controller, opts ...CachingOption) *CachingStore {
	s := &CachingStore{
		inner: inner,
		cache: cache.NewSharded(capacity, func(b []byte) int64 { return int64(len(b)) }, rc),
		cacheable: func(name string) bool {
			return name != "CURRENT"
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the cached blob or reads it through from the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if !s.cacheable(name) {
		return s.inner.Open(ctx, name)
	}
	if data, ok := s.cache.Get(name); ok {
		return &bytesBlob{data: data}, nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, data)
	return &bytesBlob{data: data}, nil
}

// Put writes through and invalidates the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Delete(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Delete(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
