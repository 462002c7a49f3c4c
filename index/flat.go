package index

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/growbot/faqrag/distance"
	"github.com/growbot/faqrag/internal/queue"
)

// SearchResult is a single nearest-neighbour hit.
type SearchResult struct {
	ID       uint32  // Position of the vector in build order
	Distance float32 // Squared Euclidean distance to the query
}

// Flat is an exact, immutable vector index.
// Vectors are stored contiguously (row-major) for cache-friendly scans.
type Flat struct {
	dim  int
	n    int
	data []float32
}

// Build constructs a Flat index from vectors. Ids are assigned in input order,
// starting at 0. The input is copied; callers may reuse their slices.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyIndex
	}

	dim := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(v)}
		}
	}
	if dim == 0 {
		return nil, &ErrInvalidDimension{Dimension: 0}
	}

	data := make([]float32, 0, dim*len(vectors))
	for _, v := range vectors {
		data = append(data, v...)
	}

	return &Flat{dim: dim, n: len(vectors), data: data}, nil
}

// FromContiguous wraps an already flattened row-major vector block.
// len(data) must be a positive multiple of dim. The slice is retained, not copied.
func FromContiguous(dim int, data []float32) (*Flat, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if len(data) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(data)%dim != 0 {
		return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(data) % dim}
	}
	return &Flat{dim: dim, n: len(data) / dim, data: data}, nil
}

// Dimension returns the fixed vector length of the index.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return f.n }

// Data returns the underlying row-major block. It must be treated as read-only.
func (f *Flat) Data() []float32 { return f.data }

// Search returns the k vectors nearest to query, ordered by ascending distance
// with ties broken by smaller id. If k exceeds Len, all vectors are returned.
func (f *Flat) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	return f.SearchFiltered(ctx, query, k, nil)
}

// SearchFiltered is Search restricted to ids contained in allow.
// A nil allow bitmap means every id is a candidate.
func (f *Flat) SearchFiltered(ctx context.Context, query []float32, k int, allow *roaring.Bitmap) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(query) != f.dim {
		return nil, &ErrDimensionMismatch{Expected: f.dim, Actual: len(query)}
	}

	candidates := f.n
	if allow != nil {
		candidates = int(allow.GetCardinality())
	}
	actualK := min(k, candidates)
	if actualK == 0 {
		return []SearchResult{}, nil
	}

	topCandidates := queue.NewMax(actualK)

	if allow == nil {
		for id := 0; id < f.n; id++ {
			off := id * f.dim
			d := distance.SquaredL2(query, f.data[off:off+f.dim])
			topCandidates.Offer(queue.PriorityQueueItem{Node: uint32(id), Distance: d}, actualK)
		}
	} else {
		it := allow.Iterator()
		for it.HasNext() {
			id := it.Next()
			if int(id) >= f.n {
				break
			}
			off := int(id) * f.dim
			d := distance.SquaredL2(query, f.data[off:off+f.dim])
			topCandidates.Offer(queue.PriorityQueueItem{Node: id, Distance: d}, actualK)
		}
	}

	items := topCandidates.DrainSorted()
	results := make([]SearchResult, len(items))
	for i, item := range items {
		results[i] = SearchResult{ID: item.Node, Distance: item.Distance}
	}
	return results, nil
}
