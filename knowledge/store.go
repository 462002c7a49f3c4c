package knowledge

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/growbot/faqrag/index"
	"github.com/growbot/faqrag/internal/manifest"
)

// Store is an immutable pairing of a flat index and its records.
type Store struct {
	idx      *index.Flat // nil when the store is empty
	dim      int
	records  []Record
	manifest *manifest.Manifest
}

// newStore validates alignment of a contiguous vector block and records.
func newStore(dim int, data []float32, records []Record) (*Store, error) {
	if dim <= 0 {
		return nil, corrupt("dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, corrupt("%d values is not a multiple of dimension %d", len(data), dim)
	}
	if n := len(data) / dim; n != len(records) {
		return nil, corrupt("%d vectors but %d records", n, len(records))
	}
	for i, r := range records {
		if r.ID != i {
			return nil, corrupt("record at position %d has id %d", i, r.ID)
		}
	}

	s := &Store{dim: dim, records: records}
	if len(records) == 0 {
		return s, nil
	}
	idx, err := index.FromContiguous(dim, data)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	s.idx = idx
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Dim returns the vector dimension.
func (s *Store) Dim() int { return s.dim }

// Record returns the record with the given id.
func (s *Store) Record(id int) (Record, bool) {
	if id < 0 || id >= len(s.records) {
		return Record{}, false
	}
	return s.records[id], true
}

// Records returns a copy of all records in id order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Manifest returns the manifest the store was loaded or persisted with,
// or nil for stores loaded directly from artifacts.
func (s *Store) Manifest() *manifest.Manifest { return s.manifest }

// BuildID returns the build id, or "" if unknown.
func (s *Store) BuildID() string {
	if s.manifest == nil {
		return ""
	}
	return s.manifest.BuildID
}

type searchOptions struct {
	allow *roaring.Bitmap
}

// SearchOption configures Search.
type SearchOption func(*searchOptions)

// WithAllowList restricts candidates to the record ids in allow.
func WithAllowList(allow *roaring.Bitmap) SearchOption {
	return func(o *searchOptions) { o.allow = allow }
}

// Search returns up to k hits ordered by ascending distance, ties by smaller id.
// It fails with index.ErrInvalidK if k <= 0 and *index.ErrDimensionMismatch
// if the query length differs from Dim. An empty store returns no hits.
func (s *Store) Search(ctx context.Context, query []float32, k int, opts ...SearchOption) ([]Hit, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if s.idx == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []Hit{}, nil
	}

	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}

	results, err := s.idx.SearchFiltered(ctx, query, k, o.allow)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{Record: s.records[r.ID], Distance: r.Distance}
	}
	return hits, nil
}

// Retrieve returns the min(k, Len) records nearest to query.
func (s *Store) Retrieve(ctx context.Context, query []float32, k int) ([]Record, error) {
	hits, err := s.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(hits))
	for i, h := range hits {
		out[i] = h.Record
	}
	return out, nil
}
