package minio

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/growbot/faqrag/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMapping(t *testing.T) {
	s := NewStore(nil, "b", "/kb/")
	assert.Equal(t, "kb/CURRENT", s.key("CURRENT"))
	assert.Equal(t, "CURRENT", s.name("kb/CURRENT"))

	bare := NewStore(nil, "b", "")
	assert.Equal(t, "CURRENT", bare.key("CURRENT"))
	assert.Equal(t, "CURRENT", bare.name("CURRENT"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("MANIFEST-1.json"))
	assert.Equal(t, "text/plain", contentType("CURRENT"))
	assert.Equal(t, "application/octet-stream", contentType("vectors-1.vec"))
}

func TestDialRequiresBucket(t *testing.T) {
	_, err := Dial("localhost:9000", "a", "b", false, "", "")
	assert.Error(t, err)
}

// TestMinioStore_Integration requires a running MinIO instance
// (FAQRAG_MINIO_ENDPOINT, default localhost:9000). Skipped if unreachable.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("FAQRAG_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	store, err := Dial(endpoint, "minioadmin", "minioadmin", false, "test-faqrag", "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	require.NoError(t, store.EnsureBucket(ctx))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	part := make([]byte, 5)
	n, err := blob.ReadAt(part, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part[:n]))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
