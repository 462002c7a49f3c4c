package embed

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited paces calls to a remote embedding service.
type RateLimited struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewRateLimited allows limit texts per second with the given burst.
func NewRateLimited(inner Embedder, limit rate.Limit, burst int) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(limit, burst)}
}

// Name returns the inner model name.
func (r *RateLimited) Name() string { return r.inner.Name() }

// Dim returns the inner dimension.
func (r *RateLimited) Dim() int { return r.inner.Dim() }

// Embed waits for one token.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}

// EmbedBatch waits for one token per text, in chunks of at most burst.
func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	burst := r.limiter.Burst()
	for start := 0; start < len(texts); start += burst {
		end := min(start+burst, len(texts))
		if err := r.limiter.WaitN(ctx, end-start); err != nil {
			return nil, err
		}
		vecs, err := r.inner.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}
