package faqrag

import (
	"context"
	"fmt"
	"time"

	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/internal/manifest"
	"github.com/growbot/faqrag/knowledge"
)

type (
	// Record is one knowledge base entry.
	Record = knowledge.Record
	// RawRecord is a build input.
	RawRecord = knowledge.RawRecord
	// Hit is a record with its distance to the query.
	Hit = knowledge.Hit
)

// KB serves retrieval over the committed build in a blob store and can
// reload it while serving.
type KB struct {
	bs     blobstore.BlobStore
	emb    embed.Embedder
	handle *knowledge.Handle
	opts   options
}

// New returns a KB with nothing loaded. Call Reload to load the committed build.
func New(bs blobstore.BlobStore, emb embed.Embedder, optFns ...Option) *KB {
	return &KB{
		bs:     bs,
		emb:    emb,
		handle: knowledge.NewHandle(nil),
		opts:   applyOptions(optFns),
	}
}

// Open loads the committed build from bs. It fails with ErrNotFound if
// nothing was committed and with ErrCorruptArtifact on damaged artifacts.
func Open(ctx context.Context, bs blobstore.BlobStore, emb embed.Embedder, optFns ...Option) (*KB, error) {
	kb := New(bs, emb, optFns...)
	if _, err := kb.Reload(ctx); err != nil {
		return nil, err
	}
	return kb, nil
}

// Reload loads the committed build and swaps it in if its build id changed.
// On failure the current build keeps serving.
func (kb *KB) Reload(ctx context.Context) (bool, error) {
	start := time.Now()
	changed, err := kb.reload(ctx)
	kb.opts.metricsCollector.RecordLoad(time.Since(start), err)

	var (
		id    string
		count int
	)
	if s := kb.handle.Load(); s != nil {
		id, count = s.BuildID(), s.Len()
	}
	kb.opts.logger.LogLoad(ctx, id, count, changed, err)
	return changed, err
}

func (kb *KB) reload(ctx context.Context) (bool, error) {
	current := kb.handle.Load()
	if current != nil {
		name, err := manifest.NewStore(kb.bs).Current(ctx)
		if err == nil && name == manifest.FileName(current.BuildID()) {
			return false, nil
		}
	}

	s, err := knowledge.Load(ctx, kb.bs, kb.opts.knowledgeOptions()...)
	if err != nil {
		return false, translateError(err)
	}
	if s.Dim() != kb.emb.Dim() {
		return false, &ErrDimensionMismatch{Expected: s.Dim(), Actual: kb.emb.Dim()}
	}
	if m := s.Manifest(); m != nil && m.Embedder != kb.emb.Name() {
		kb.opts.logger.WarnContext(ctx, "build was embedded with a different model",
			"build_embedder", m.Embedder,
			"embedder", kb.emb.Name(),
		)
	}
	kb.handle.Swap(s)
	return true, nil
}

// Watch reloads every interval until ctx is done. Errors are logged and
// the previous build keeps serving.
func (kb *KB) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = kb.Reload(ctx)
		}
	}
}

// Retrieve embeds query and returns up to k nearest records.
func (kb *KB) Retrieve(ctx context.Context, query string, k int) ([]Record, error) {
	hits, err := kb.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(hits))
	for i, h := range hits {
		out[i] = h.Record
	}
	return out, nil
}

// Search embeds query and returns up to k hits with distances.
func (kb *KB) Search(ctx context.Context, query string, k int, opts ...knowledge.SearchOption) ([]Hit, error) {
	start := time.Now()
	vec, err := kb.emb.Embed(ctx, query)
	kb.opts.metricsCollector.RecordEmbed(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return kb.SearchVector(ctx, vec, k, opts...)
}

// SearchVector returns up to k hits nearest to an already embedded query.
func (kb *KB) SearchVector(ctx context.Context, vec []float32, k int, opts ...knowledge.SearchOption) ([]Hit, error) {
	start := time.Now()
	hits, err := kb.handle.Search(ctx, vec, k, opts...)
	err = translateError(err)
	d := time.Since(start)
	kb.opts.metricsCollector.RecordRetrieve(d, len(hits), err)
	kb.opts.logger.LogRetrieve(ctx, k, len(hits), d, err)
	return hits, err
}

// Handle exposes the live store handle, e.g. for chat.Service.
func (kb *KB) Handle() *knowledge.Handle { return kb.handle }

// Embedder returns the query embedder.
func (kb *KB) Embedder() embed.Embedder { return kb.emb }

// BuildID returns the id of the loaded build, or "" if none.
func (kb *KB) BuildID() string {
	if s := kb.handle.Load(); s != nil {
		return s.BuildID()
	}
	return ""
}

// Len returns the number of loaded records.
func (kb *KB) Len() int {
	if s := kb.handle.Load(); s != nil {
		return s.Len()
	}
	return 0
}

// Ready returns ErrNotLoaded until a build has been loaded.
func (kb *KB) Ready(context.Context) error {
	if kb.handle.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Build embeds raw, writes the artifacts to bs and commits them as the new
// live build. Serving KBs pick it up on their next Reload.
func Build(ctx context.Context, bs blobstore.BlobStore, emb embed.Embedder, raw []RawRecord, optFns ...Option) (*manifest.Manifest, error) {
	o := applyOptions(optFns)
	start := time.Now()

	m, err := build(ctx, bs, emb, raw, o)
	err = translateError(err)
	o.metricsCollector.RecordBuild(len(raw), time.Since(start), err)

	var id string
	if m != nil {
		id = m.BuildID
	}
	o.logger.LogBuild(ctx, id, len(raw), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if o.prune {
		deleted, err := manifest.NewStore(bs).Prune(ctx)
		o.logger.LogPrune(ctx, deleted, err)
	}
	return m, nil
}

func build(ctx context.Context, bs blobstore.BlobStore, emb embed.Embedder, raw []RawRecord, o options) (*manifest.Manifest, error) {
	b := knowledge.NewBuilder(emb, o.knowledgeOptions()...)
	if err := b.Add(raw...); err != nil {
		return nil, err
	}
	if _, err := b.Build(ctx); err != nil {
		return nil, err
	}
	m, err := b.Persist(ctx, bs)
	if err != nil {
		return nil, fmt.Errorf("persist build: %w", err)
	}
	return m, nil
}
