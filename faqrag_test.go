package faqrag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var faq = []RawRecord{
	{Problem: "app crashes on login", Solution: "reinstall the app"},
	{Problem: "cannot reset password", Solution: "use the forgot-password link"},
	{Problem: "how do I withdraw money to my bank account", Solution: "open Wallet and tap Withdraw"},
}

func TestBuildOpenRetrieve(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(64)
	metrics := &BasicMetricsCollector{}

	m, err := Build(ctx, bs, emb, faq, WithMetricsCollector(metrics), WithBuildID("b1"))
	require.NoError(t, err)
	assert.Equal(t, "b1", m.BuildID)
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, emb.Name(), m.Embedder)

	kb, err := Open(ctx, bs, emb, WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, "b1", kb.BuildID())
	assert.Equal(t, 3, kb.Len())
	require.NoError(t, kb.Ready(ctx))

	got, err := kb.Retrieve(ctx, "withdraw money to bank", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got, err = kb.Retrieve(ctx, "withdraw money to bank", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(3), stats.BuildRecords)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(2), stats.RetrieveCount)
	assert.Equal(t, int64(2), stats.EmbedCount)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), blobstore.NewMemoryStore(), embed.NewHashing(8))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetrieveBeforeLoad(t *testing.T) {
	kb := New(blobstore.NewMemoryStore(), embed.NewHashing(8))
	_, err := kb.Retrieve(context.Background(), "anything", 1)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, kb.Ready(context.Background()), ErrNotLoaded)
	assert.Equal(t, "", kb.BuildID())
	assert.Equal(t, 0, kb.Len())
}

func TestRetrieveInvalidK(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(16)
	_, err := Build(ctx, bs, emb, faq)
	require.NoError(t, err)
	kb, err := Open(ctx, bs, emb)
	require.NoError(t, err)

	_, err = kb.Retrieve(ctx, "login", 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestOpenEmbedderDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	_, err := Build(ctx, bs, embed.NewHashing(16), faq)
	require.NoError(t, err)

	_, err = Open(ctx, bs, embed.NewHashing(32))
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 16, dm.Expected)
	assert.Equal(t, 32, dm.Actual)
}

func TestSearchVectorDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(16)
	_, err := Build(ctx, bs, emb, faq)
	require.NoError(t, err)
	kb, err := Open(ctx, bs, emb)
	require.NoError(t, err)

	_, err = kb.SearchVector(ctx, []float32{1, 2, 3}, 1)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 16, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.NotNil(t, errors.Unwrap(dm))
}

func TestReloadPicksUpNewBuild(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(32)

	_, err := Build(ctx, bs, emb, faq[:1], WithBuildID("old"))
	require.NoError(t, err)
	kb, err := Open(ctx, bs, emb)
	require.NoError(t, err)

	changed, err := kb.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = Build(ctx, bs, emb, faq, WithBuildID("new"), WithPrune())
	require.NoError(t, err)

	changed, err = kb.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "new", kb.BuildID())
	assert.Equal(t, 3, kb.Len())

	builds, err := manifest.NewStore(bs).Builds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, builds)
}

func TestReloadKeepsServingOnCorruption(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(32)

	_, err := Build(ctx, bs, emb, faq, WithBuildID("good"))
	require.NoError(t, err)
	kb, err := Open(ctx, bs, emb)
	require.NoError(t, err)

	_, err = Build(ctx, bs, emb, faq, WithBuildID("bad"))
	require.NoError(t, err)
	require.True(t, bs.Corrupt(manifest.RecordFileName("bad"), 3))

	_, err = kb.Reload(ctx)
	assert.ErrorIs(t, err, ErrCorruptArtifact)
	assert.Equal(t, "good", kb.BuildID())

	got, err := kb.Retrieve(ctx, "login crash", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bs := blobstore.NewMemoryStore()
	emb := embed.NewHashing(32)

	_, err := Build(ctx, bs, emb, faq[:1], WithBuildID("one"))
	require.NoError(t, err)
	kb, err := Open(ctx, bs, emb)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		kb.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	_, err = Build(ctx, bs, emb, faq, WithBuildID("two"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return kb.BuildID() == "two" }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

type failingEmbedder struct{ *embed.Hashing }

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, embed.ErrEmbedding
}

func TestBuildEmbeddingError(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	bs := blobstore.NewMemoryStore()
	_, err := Build(context.Background(), bs, failingEmbedder{embed.NewHashing(8)}, faq, WithMetricsCollector(metrics))
	assert.ErrorIs(t, err, embed.ErrEmbedding)
	assert.Equal(t, int64(1), metrics.GetStats().BuildErrors)

	_, err = Open(context.Background(), bs, embed.NewHashing(8))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNilOptions(t *testing.T) {
	o := applyOptions([]Option{nil, WithLogger(nil), WithMetricsCollector(nil), WithCodec(nil)})
	assert.NotNil(t, o.logger)
	assert.NotNil(t, o.metricsCollector)
	assert.NotNil(t, o.codec)
}
