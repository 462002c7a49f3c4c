package knowledge

import (
	"context"
	"log/slog"
	"time"

	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/internal/hash"
	"github.com/growbot/faqrag/internal/manifest"
	"github.com/growbot/faqrag/persistence"
	"github.com/growbot/faqrag/resource"
	"golang.org/x/sync/errgroup"
)

// LoadArtifacts loads a store from a vector artifact and a record artifact.
// It fails with ErrNotFound if either blob is missing and with
// ErrCorruptArtifact if either cannot be parsed or their counts differ.
func LoadArtifacts(ctx context.Context, bs blobstore.BlobStore, vectorName, recordName string, opts ...Option) (*Store, error) {
	o := applyOptions(opts)
	vecData, recData, err := readPair(ctx, bs, vectorName, recordName, o.rc)
	if err != nil {
		return nil, err
	}
	return decodePair(vectorName, vecData, recordName, recData)
}

// Load resolves CURRENT to the live manifest and loads its artifacts.
// Besides the checks of LoadArtifacts, artifact sizes, checksums, dimension
// and count must match the manifest.
func Load(ctx context.Context, bs blobstore.BlobStore, opts ...Option) (*Store, error) {
	o := applyOptions(opts)
	start := time.Now()

	m, err := manifest.NewStore(bs).Load(ctx)
	if err != nil {
		return nil, classify(manifest.CurrentFileName, err)
	}

	vecData, recData, err := readPair(ctx, bs, m.VectorArtifact.Name, m.RecordArtifact.Name, o.rc)
	if err != nil {
		return nil, err
	}

	if o.verify {
		if err := verifyArtifact(m.VectorArtifact, vecData); err != nil {
			return nil, err
		}
		if err := verifyArtifact(m.RecordArtifact, recData); err != nil {
			return nil, err
		}
	}

	s, err := decodePair(m.VectorArtifact.Name, vecData, m.RecordArtifact.Name, recData)
	if err != nil {
		return nil, err
	}
	if s.Dim() != m.Dim || s.Len() != m.Count {
		return nil, corrupt("manifest %s declares dim=%d count=%d, artifacts have dim=%d count=%d",
			m.FileName(), m.Dim, m.Count, s.Dim(), s.Len())
	}
	s.manifest = m

	o.logger.LogAttrs(ctx, slog.LevelInfo, "knowledge base loaded",
		slog.String("build_id", m.BuildID),
		slog.String("embedder", m.Embedder),
		slog.Int("records", s.Len()),
		slog.Int("dim", s.Dim()),
		slog.Duration("duration", time.Since(start)),
	)
	return s, nil
}

func verifyArtifact(a manifest.Artifact, data []byte) error {
	if int64(len(data)) != a.Size {
		return corrupt("%s has %d bytes, manifest says %d", a.Name, len(data), a.Size)
	}
	if sum := hash.CRC32C(data); sum != a.Checksum {
		return corrupt("%s checksum 0x%08x, manifest says 0x%08x", a.Name, sum, a.Checksum)
	}
	return nil
}

func readPair(ctx context.Context, bs blobstore.BlobStore, vectorName, recordName string, rc *resource.Controller) ([]byte, []byte, error) {
	var vecData, recData []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vecData, err = readArtifact(gctx, bs, vectorName, rc)
		return err
	})
	g.Go(func() error {
		var err error
		recData, err = readArtifact(gctx, bs, recordName, rc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return vecData, recData, nil
}

func readArtifact(ctx context.Context, bs blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	data, err := blobstore.ReadAll(ctx, bs, name)
	if err != nil {
		return nil, classify(name, err)
	}
	if err := rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func decodePair(vectorName string, vecData []byte, recordName string, recData []byte) (*Store, error) {
	vh, vectors, err := persistence.DecodeVectors(vecData)
	if err != nil {
		return nil, classify(vectorName, err)
	}
	_, records, err := persistence.DecodeRecords[Record](recData)
	if err != nil {
		return nil, classify(recordName, err)
	}
	if vh.Count != uint64(len(records)) {
		return nil, corrupt("%s holds %d vectors, %s holds %d records", vectorName, vh.Count, recordName, len(records))
	}
	return newStore(int(vh.Dim), vectors, records)
}
