package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("DrainOrder", func(t *testing.T) {
		pq := NewMax(4)
		pq.PushItem(PriorityQueueItem{Node: 3, Distance: 2})
		pq.PushItem(PriorityQueueItem{Node: 1, Distance: 1})
		pq.PushItem(PriorityQueueItem{Node: 2, Distance: 1})
		pq.PushItem(PriorityQueueItem{Node: 0, Distance: 5})

		got := pq.DrainSorted()
		require.Len(t, got, 4)
		assert.Equal(t, []uint32{1, 2, 3, 0}, nodes(got))
		assert.Equal(t, 0, pq.Len())
	})

	t.Run("MaxKeepsBest", func(t *testing.T) {
		pq := NewMax(2)
		for i, d := range []float32{4, 1, 3, 1, 0.5} {
			pq.Offer(PriorityQueueItem{Node: uint32(i), Distance: d}, 2)
		}
		top, ok := pq.TopItem()
		require.True(t, ok)
		assert.Equal(t, uint32(1), top.Node)

		got := pq.DrainSorted()
		assert.Equal(t, []uint32{4, 1}, nodes(got))
	})

	t.Run("TieBreakBySmallerID", func(t *testing.T) {
		pq := NewMax(2)
		for _, id := range []uint32{7, 3, 5, 1} {
			pq.Offer(PriorityQueueItem{Node: id, Distance: 1}, 2)
		}
		assert.Equal(t, []uint32{1, 3}, nodes(pq.DrainSorted()))
	})

	t.Run("Empty", func(t *testing.T) {
		pq := NewMax(0)
		_, ok := pq.PopItem()
		assert.False(t, ok)
		_, ok = pq.TopItem()
		assert.False(t, ok)
		pq.ReplaceTop(PriorityQueueItem{Node: 1})
		assert.Equal(t, 0, pq.Len())
		assert.Empty(t, pq.DrainSorted())
	})
}

func nodes(items []PriorityQueueItem) []uint32 {
	out := make([]uint32, len(items))
	for i, it := range items {
		out[i] = it.Node
	}
	return out
}
