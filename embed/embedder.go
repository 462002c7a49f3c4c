// Package embed defines the text embedding boundary and its implementations.
//
// An Embedder maps text to a fixed-length float32 vector. Implementations
// must be deterministic for a given model, return vectors of length Dim(),
// and preserve input order in EmbedBatch.
//
// Decorators compose:
//
//	var e embed.Embedder = embed.NewOllama(url, model, 768)
//	e = embed.NewRateLimited(e, rate.Limit(20), 5)
//	e = embed.NewCached(e, 8<<20, rc)
package embed

import (
	"context"
	"errors"
	"fmt"
)

// Embedder converts text into vectors.
type Embedder interface {
	// Name identifies the model; it is recorded in build manifests.
	Name() string
	// Dim returns the dimension of produced vectors.
	Dim() int
	// Embed embeds a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmbedding wraps failures of the underlying model or service.
var ErrEmbedding = errors.New("embedding failed")

// DimensionError is returned when a model produces a vector of unexpected length.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embed: model returned dimension %d, expected %d", e.Actual, e.Expected)
}

// Is makes DimensionError match ErrEmbedding.
func (e *DimensionError) Is(target error) bool {
	return target == ErrEmbedding
}

func checkDim(want int, v []float32) error {
	if want > 0 && len(v) != want {
		return &DimensionError{Expected: want, Actual: len(v)}
	}
	return nil
}
