package embed

import (
	"context"
	"fmt"

	"github.com/growbot/faqrag/internal/cache"
	"github.com/growbot/faqrag/resource"
)

// Cached memoizes embeddings by exact text.
type Cached struct {
	inner Embedder
	cache *cache.Sharded[[]float32]
}

// NewCached wraps inner with an LRU of capacity bytes.
func NewCached(inner Embedder, capacity int64, rc *resource.Controller) *Cached {
	return &Cached{
		inner: inner,
		cache: cache.NewSharded(capacity, cache.Float32Size, rc),
	}
}

// Name returns the inner model name.
func (c *Cached) Name() string { return c.inner.Name() }

// Dim returns the inner dimension.
func (c *Cached) Dim() int { return c.inner.Dim() }

// Embed returns a cached vector or embeds and caches text.
// The returned slice is shared with the cache and must not be modified.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}
	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, v)
	return v, nil
}

// EmbedBatch embeds only the texts that miss the cache, in one inner batch.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("%w: %s returned %d vectors for %d texts", ErrEmbedding, c.inner.Name(), len(vecs), len(missing))
	}
	for j, v := range vecs {
		out[missingIdx[j]] = v
		c.cache.Set(missing[j], v)
	}
	return out, nil
}

// Stats returns cache hit and miss counters.
func (c *Cached) Stats() (hits, misses int64) {
	return c.cache.Stats()
}
