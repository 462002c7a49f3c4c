package cache

import (
	"hash/maphash"

	"github.com/growbot/faqrag/resource"
)

const numShards = 64

// Sharded is a string keyed LRU split into 64 shards.
type Sharded[V any] struct {
	shards [numShards]*LRU[string, V]
	seed   maphash.Seed
}

// NewSharded creates a sharded cache.
// The capacity is divided evenly across all shards.
func NewSharded[V any](capacity int64, sizeOf SizeFunc[V], rc *resource.Controller) *Sharded[V] {
	shardCapacity := max(capacity/numShards, 1)

	s := &Sharded[V]{seed: maphash.MakeSeed()}
	for i := range numShards {
		s.shards[i] = NewLRU[string](shardCapacity, sizeOf, rc)
	}
	return s
}

func (s *Sharded[V]) shard(key string) *LRU[string, V] {
	return s.shards[maphash.String(s.seed, key)%numShards]
}

// Get returns a cached value.
func (s *Sharded[V]) Get(key string) (V, bool) { return s.shard(key).Get(key) }

// Set caches a value.
func (s *Sharded[V]) Set(key string, v V) { s.shard(key).Set(key, v) }

// Delete removes a key.
func (s *Sharded[V]) Delete(key string) { s.shard(key).Delete(key) }

// Purge removes all entries.
func (s *Sharded[V]) Purge() {
	for _, sh := range s.shards {
		sh.Purge()
	}
}

// Stats aggregates hit and miss counters over all shards.
func (s *Sharded[V]) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size in bytes.
func (s *Sharded[V]) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}

// Float32Size is a SizeFunc for float32 vectors.
func Float32Size(v []float32) int64 { return int64(len(v)) * 4 }
