// Package distance provides vector distance calculations.
//
// # Supported Metrics
//
//   - SquaredL2: Squared Euclidean distance, the ranking metric of the index
//   - Dot: Dot product (inner product)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	ok := distance.NormalizeL2InPlace(vec)
//
// There is a single kernel per metric with a fixed summation order and no
// fused multiply-add, so identical inputs produce bit-identical distances on
// every host. Capabilities reports the CPU features for logging only.
package distance
