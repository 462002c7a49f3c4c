// Package testutil provides testing utilities for faqrag.
//
// This package is intended for use in tests only. It provides helpers for
// generating reproducible random vectors and computing exact nearest
// neighbours as ground truth for the index.
//
//	rng := testutil.NewRNG(seed)
//	data := rng.UniformVectors(100, 16)
//	want := testutil.BruteForceSearch(data, query, 5)
package testutil
