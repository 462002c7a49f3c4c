package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStoreSuite(t *testing.T, s BlobStore) {
	ctx := context.Background()

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := s.Open(ctx, "missing.bin")
		assert.True(t, IsNotFound(err))
	})

	t.Run("PutOpen", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "vectors-1.vec", []byte("hello world")))

		b, err := s.Open(ctx, "vectors-1.vec")
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, int64(11), b.Size())
		buf := make([]byte, 5)
		n, err := b.ReadAt(buf, 6)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "world", string(buf))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "CURRENT", []byte("MANIFEST-a.json")))
		require.NoError(t, s.Put(ctx, "CURRENT", []byte("MANIFEST-b.json")))

		data, err := ReadAll(ctx, s, "CURRENT")
		require.NoError(t, err)
		assert.Equal(t, "MANIFEST-b.json", string(data))
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "empty.bin", nil))
		data, err := ReadAll(ctx, s, "empty.bin")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "records-2.rec", []byte("r")))
		require.NoError(t, s.Put(ctx, "records-1.rec", []byte("r")))

		names, err := s.List(ctx, "records-")
		require.NoError(t, err)
		assert.Equal(t, []string{"records-1.rec", "records-2.rec"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "gone.bin", []byte("x")))
		require.NoError(t, s.Delete(ctx, "gone.bin"))
		_, err := s.Open(ctx, "gone.bin")
		assert.True(t, IsNotFound(err))
		assert.NoError(t, s.Delete(ctx, "gone.bin"))
	})

	t.Run("Concurrent", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				name := fmt.Sprintf("c-%d", i)
				assert.NoError(t, s.Put(ctx, name, []byte(name)))
				data, err := ReadAll(ctx, s, name)
				assert.NoError(t, err)
				assert.Equal(t, name, string(data))
			}()
		}
		wg.Wait()
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	runStoreSuite(t, NewLocalStore(t.TempDir()))
}

func TestCachingStore(t *testing.T) {
	runStoreSuite(t, NewCachingStore(NewMemoryStore(), 1<<20, nil))
}

func TestLocalStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.bin", []byte("abc")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.bin", entries[0].Name())

	b, err := s.Open(ctx, "a.bin")
	require.NoError(t, err)
	m, ok := b.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	require.NoError(t, b.Close())
}

func TestLocalStoreRejectsEscapingNames(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "../evil", []byte("x")))
	assert.Error(t, s.Put(ctx, filepath.Join(string(filepath.Separator), "abs"), []byte("x")))
	assert.Error(t, s.Put(ctx, "", []byte("x")))
}

func TestLocalStoreListMissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))
	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStoreCorrupt(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a", []byte{0x00, 0x01}))

	assert.True(t, s.Corrupt("a", 1))
	assert.False(t, s.Corrupt("a", 5))
	assert.False(t, s.Corrupt("b", 0))

	data, err := ReadAll(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xFE}, data)
}

func TestCachingStoreHits(t *testing.T) {
	inner := NewMemoryStore()
	s := NewCachingStore(inner, 1<<20, nil)
	ctx := context.Background()

	require.NoError(t, inner.Put(ctx, "vectors-1.vec", []byte("v1")))
	require.NoError(t, inner.Put(ctx, "CURRENT", []byte("m1")))

	for range 3 {
		_, err := ReadAll(ctx, s, "vectors-1.vec")
		require.NoError(t, err)
	}
	hits, misses := s.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	// CURRENT bypasses the cache and observes out-of-band updates.
	require.NoError(t, inner.Put(ctx, "CURRENT", []byte("m2")))
	data, err := ReadAll(ctx, s, "CURRENT")
	require.NoError(t, err)
	assert.Equal(t, "m2", string(data))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range []BlobStore{NewMemoryStore(), NewLocalStore(t.TempDir())} {
		assert.Error(t, s.Put(ctx, "a", []byte("x")))
		_, err := s.Open(ctx, "a")
		assert.Error(t, err)
	}
}
