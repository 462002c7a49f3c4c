// Package index provides the exact vector index behind knowledge retrieval.
//
// Flat stores a dense, immutable sequence of vectors whose position is the
// vector id, and answers k-nearest-neighbour queries with a brute-force scan
// using squared Euclidean distance:
//
//	dist(q, v) = Σ_j (q[j] - v[j])^2
//
// Results are ordered by ascending distance; equal distances are ordered by
// smaller id, so the same (index, query, k) always yields the same output.
//
// # Usage
//
//	idx, err := index.Build(vectors)
//	results, err := idx.Search(ctx, query, 5)
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Distance)
//	}
//
// A Flat is never mutated after Build, so it is safe for concurrent readers
// without locking. To change contents, build a new index and swap it in.
package index
