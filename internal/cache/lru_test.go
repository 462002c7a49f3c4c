package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/growbot/faqrag/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string](32, Float32Size, nil) // four 2-dim vectors

	for i := range 4 {
		c.Set(fmt.Sprint(i), []float32{float32(i), 0})
	}
	assert.Equal(t, int64(32), c.Size())

	// Touch "0" so "1" becomes the eviction candidate.
	_, ok := c.Get("0")
	require.True(t, ok)

	c.Set("4", []float32{4, 0})
	_, ok = c.Get("1")
	assert.False(t, ok)
	v, ok := c.Get("0")
	assert.True(t, ok)
	assert.Equal(t, []float32{0, 0}, v)
	assert.Equal(t, 4, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUEdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU[string](50, Float32Size, rc)

	// Larger than capacity is never cached.
	c.Set("big", make([]float32, 20))
	_, ok := c.Get("big")
	assert.False(t, ok)

	c.Set("k", make([]float32, 2))
	assert.Equal(t, int64(8), c.Size())
	c.Set("k", make([]float32, 5))
	assert.Equal(t, int64(20), c.Size())
	c.Set("k", make([]float32, 1))
	assert.Equal(t, int64(4), c.Size())
	assert.Equal(t, int64(4), rc.MemoryUsage())

	c.Delete("k")
	assert.Zero(t, c.Size())
	assert.Zero(t, rc.MemoryUsage())
}

func TestLRUControllerDenies(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 8})
	c := NewLRU[string](100, Float32Size, rc)

	c.Set("a", make([]float32, 2))
	c.Set("b", make([]float32, 2))
	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestShardedConcurrent(t *testing.T) {
	s := NewSharded(1<<20, Float32Size, nil)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := fmt.Sprintf("q-%d-%d", g, i)
				s.Set(key, []float32{float32(i)})
				v, ok := s.Get(key)
				assert.True(t, ok)
				assert.Equal(t, []float32{float32(i)}, v)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8*100*4), s.Size())
	hits, _ := s.Stats()
	assert.Equal(t, int64(800), hits)

	s.Purge()
	assert.Zero(t, s.Size())
}
