package embed

import (
	"context"
	"fmt"

	"github.com/growbot/faqrag/resource"
	"golang.org/x/sync/errgroup"
)

// Batch embeds texts with concurrent single Embed calls, bounded by the
// worker slots of rc. Output order matches input. The first error cancels
// the remaining work.
func Batch(ctx context.Context, e Embedder, texts []string, rc *resource.Controller) ([][]float32, error) {
	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.MaxWorkers())

	for i, text := range texts {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			v, err := e.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			if err := checkDim(e.Dim(), v); err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Concurrent adapts an Embedder so that EmbedBatch fans out through Batch.
type Concurrent struct {
	Embedder
	rc *resource.Controller
}

// NewConcurrent wraps e.
func NewConcurrent(e Embedder, rc *resource.Controller) *Concurrent {
	return &Concurrent{Embedder: e, rc: rc}
}

// EmbedBatch embeds texts concurrently.
func (c *Concurrent) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return Batch(ctx, c.Embedder, texts, c.rc)
}
