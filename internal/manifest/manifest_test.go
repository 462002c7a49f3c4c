package manifest

import (
	"context"
	"testing"

	"github.com/growbot/faqrag/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest(id string) *Manifest {
	m := New(id, "hashing-64", 64, 2)
	m.VectorArtifact = Artifact{Name: VectorFileName(id), Size: 100, Checksum: 1}
	m.RecordArtifact = Artifact{Name: RecordFileName(id), Size: 50, Checksum: 2}
	return m
}

func TestNames(t *testing.T) {
	assert.Equal(t, "MANIFEST-abc.json", FileName("abc"))
	assert.Equal(t, "vectors-abc.vec", VectorFileName("abc"))
	assert.Equal(t, "records-abc.rec", RecordFileName("abc"))

	id, ok := BuildIDFromFileName("MANIFEST-abc.json")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = BuildIDFromFileName("MANIFEST-.json")
	assert.False(t, ok)
	_, ok = BuildIDFromFileName("CURRENT")
	assert.False(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	m := testManifest("b1")
	data, err := m.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, m.BuildID, got.BuildID)
	assert.Equal(t, m.VectorArtifact, got.VectorArtifact)
	assert.Equal(t, m.RecordArtifact, got.RecordArtifact)
	assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
}

func TestValidate(t *testing.T) {
	m := testManifest("b1")
	m.Version = 7
	assert.ErrorIs(t, m.Validate(), ErrIncompatibleVersion)

	m = testManifest("b1")
	m.Dim = 0
	assert.ErrorIs(t, m.Validate(), ErrInvalid)

	m = testManifest("b1")
	m.RecordArtifact.Name = ""
	assert.ErrorIs(t, m.Validate(), ErrInvalid)

	_, err := Unmarshal([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestStoreCommitLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(blobstore.NewMemoryStore())

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Commit(ctx, testManifest("b1")))
	require.NoError(t, s.Commit(ctx, testManifest("b2")))

	m, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b2", m.BuildID)

	ids, err := s.Builds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, ids)
}

func TestStoreDanglingCurrent(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, bs.Put(ctx, CurrentFileName, []byte("MANIFEST-gone.json")))

	_, err := NewStore(bs).Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs)

	for _, id := range []string{"b1", "b2"} {
		m := testManifest(id)
		require.NoError(t, bs.Put(ctx, m.VectorArtifact.Name, []byte("v")))
		require.NoError(t, bs.Put(ctx, m.RecordArtifact.Name, []byte("r")))
		require.NoError(t, s.Commit(ctx, m))
	}

	deleted, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"vectors-b1.vec", "records-b1.rec", "MANIFEST-b1.json"}, deleted)

	names, err := bs.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"CURRENT", "MANIFEST-b2.json", "records-b2.rec", "vectors-b2.vec"}, names)
}
