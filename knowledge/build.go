package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/index"
	"github.com/growbot/faqrag/internal/hash"
	"github.com/growbot/faqrag/internal/manifest"
	"github.com/growbot/faqrag/persistence"
	"golang.org/x/sync/errgroup"
)

type buildState int

const (
	stateEmpty buildState = iota
	stateBuilt
	statePersisted
)

func (s buildState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateBuilt:
		return "built"
	case statePersisted:
		return "persisted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Builder is a one-shot build: Add records, Build the store, Persist it.
// A Builder is not safe for concurrent use.
type Builder struct {
	emb   embed.Embedder
	opts  options
	state buildState
	raw   []RawRecord
	store *Store
}

// NewBuilder creates a Builder that embeds problems with emb.
func NewBuilder(emb embed.Embedder, opts ...Option) *Builder {
	return &Builder{emb: emb, opts: applyOptions(opts)}
}

// Add appends records. Ids follow insertion order. A call that contains a
// record with invalid UTF-8 text adds nothing and returns *ErrInvalidText.
func (b *Builder) Add(records ...RawRecord) error {
	if b.state != stateEmpty {
		return fmt.Errorf("%w: add in state %s", ErrBuilderState, b.state)
	}
	for i, r := range records {
		switch {
		case !utf8.ValidString(r.Problem):
			return &ErrInvalidText{Index: i, Field: "problem"}
		case !utf8.ValidString(r.Solution):
			return &ErrInvalidText{Index: i, Field: "solution"}
		}
	}
	b.raw = append(b.raw, records...)
	return nil
}

// Build embeds every problem text and builds the index.
func (b *Builder) Build(ctx context.Context) (*Store, error) {
	if b.state != stateEmpty {
		return nil, fmt.Errorf("%w: build in state %s", ErrBuilderState, b.state)
	}

	dim := b.emb.Dim()
	if dim <= 0 {
		return nil, &index.ErrInvalidDimension{Dimension: dim}
	}

	texts := make([]string, len(b.raw))
	records := make([]Record, len(b.raw))
	for i, r := range b.raw {
		texts[i] = r.Problem
		records[i] = Record{ID: i, Problem: r.Problem, Solution: r.Solution}
	}

	var data []float32
	if len(texts) > 0 {
		var (
			vecs [][]float32
			err  error
		)
		if b.opts.rc != nil {
			vecs, err = embed.Batch(ctx, b.emb, texts, b.opts.rc)
		} else {
			vecs, err = b.emb.EmbedBatch(ctx, texts)
		}
		if err != nil {
			return nil, fmt.Errorf("knowledge: embed records: %w", err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("knowledge: embedder returned %d vectors for %d texts", len(vecs), len(texts))
		}
		for _, v := range vecs {
			if len(v) != dim {
				return nil, &index.ErrDimensionMismatch{Expected: dim, Actual: len(v)}
			}
		}

		idx, err := index.Build(vecs)
		if err != nil {
			return nil, err
		}
		data = idx.Data()
	}

	s, err := newStore(dim, data, records)
	if err != nil {
		return nil, err
	}
	b.store = s
	b.state = stateBuilt
	return s, nil
}

// Persist writes both artifacts concurrently, then commits the manifest and
// advances CURRENT. Until CURRENT is written the previous build stays live;
// a failure leaves at most unreferenced artifacts behind.
func (b *Builder) Persist(ctx context.Context, bs blobstore.BlobStore) (*manifest.Manifest, error) {
	if b.state != stateBuilt {
		return nil, fmt.Errorf("%w: persist in state %s", ErrBuilderState, b.state)
	}
	start := time.Now()
	s := b.store

	buildID := b.opts.buildID
	if buildID == "" {
		buildID = uuid.NewString()
	}

	var data []float32
	if s.idx != nil {
		data = s.idx.Data()
	}
	vecBlob, err := persistence.EncodeVectors(s.dim, data, b.opts.compression)
	if err != nil {
		return nil, err
	}
	recBlob, err := persistence.EncodeRecords(s.records, b.opts.codec, b.opts.compression)
	if err != nil {
		return nil, err
	}

	m := manifest.New(buildID, b.emb.Name(), s.dim, s.Len())
	m.VectorArtifact = manifest.Artifact{
		Name:     manifest.VectorFileName(buildID),
		Size:     int64(len(vecBlob)),
		Checksum: hash.CRC32C(vecBlob),
	}
	m.RecordArtifact = manifest.Artifact{
		Name:     manifest.RecordFileName(buildID),
		Size:     int64(len(recBlob)),
		Checksum: hash.CRC32C(recBlob),
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, blob := range map[string][]byte{
		m.VectorArtifact.Name: vecBlob,
		m.RecordArtifact.Name: recBlob,
	} {
		g.Go(func() error {
			if err := b.opts.rc.AcquireIO(gctx, len(blob)); err != nil {
				return err
			}
			if err := bs.Put(gctx, name, blob); err != nil {
				return fmt.Errorf("knowledge: write %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := manifest.NewStore(bs).Commit(ctx, m); err != nil {
		return nil, fmt.Errorf("knowledge: commit: %w", err)
	}

	s.manifest = m
	b.state = statePersisted

	b.opts.logger.LogAttrs(ctx, slog.LevelInfo, "knowledge base persisted",
		slog.String("build_id", buildID),
		slog.String("embedder", m.Embedder),
		slog.Int("records", s.Len()),
		slog.Int("dim", s.dim),
		slog.String("compression", b.opts.compression.String()),
		slog.String("codec", b.opts.codec.Name()),
		slog.Int64("bytes", m.VectorArtifact.Size+m.RecordArtifact.Size),
		slog.Duration("duration", time.Since(start)),
	)
	return m, nil
}

// BuildAndPersist embeds raw records, builds the store and commits it to bs.
// Zero records persist an empty store that loads with Len() == 0.
func BuildAndPersist(ctx context.Context, bs blobstore.BlobStore, raw []RawRecord, emb embed.Embedder, opts ...Option) (*Store, error) {
	b := NewBuilder(emb, opts...)
	if err := b.Add(raw...); err != nil {
		return nil, err
	}
	s, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := b.Persist(ctx, bs); err != nil {
		return nil, err
	}
	return s, nil
}
