// Package queue provides the bounded priority queue used by exact k-NN search.
package queue

// PriorityQueueItem represents an item in the priority queue.
type PriorityQueueItem struct {
	Node     uint32  // Node is the vector id.
	Distance float32 // Distance is the priority of the item in the queue.
}

// Before reports whether a ranks ahead of b in search results:
// smaller distance first, then smaller id.
func Before(a, b PriorityQueueItem) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Node < b.Node
}

// PriorityQueue is a binary max-heap of PriorityQueueItems: the top is the
// worst-ranked item, which is the shape used to keep the k best candidates
// of a scan. Value-based storage, no pointer indirection.
type PriorityQueue struct {
	items []PriorityQueueItem
}

// NewMax initializes a new priority queue whose top is the worst-ranked item.
func NewMax(capacity int) *PriorityQueue {
	return &PriorityQueue{items: make([]PriorityQueueItem, 0, capacity)}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// TopItem returns the top element of the heap.
func (pq *PriorityQueue) TopItem() (PriorityQueueItem, bool) {
	if len(pq.items) == 0 {
		return PriorityQueueItem{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item PriorityQueueItem) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PopItem removes and returns the top element while maintaining the heap invariant.
func (pq *PriorityQueue) PopItem() (PriorityQueueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return PriorityQueueItem{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = PriorityQueueItem{}
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// ReplaceTop overwrites the top element and restores the heap invariant.
// It is a no-op on an empty queue.
func (pq *PriorityQueue) ReplaceTop(item PriorityQueueItem) {
	if len(pq.items) == 0 {
		return
	}
	pq.items[0] = item
	pq.siftDown(0)
}

// Offer keeps the best `limit` items seen so far.
// Returns true if the item was retained.
func (pq *PriorityQueue) Offer(item PriorityQueueItem, limit int) bool {
	if len(pq.items) < limit {
		pq.PushItem(item)
		return true
	}
	worst := pq.items[0]
	if !Before(item, worst) {
		return false
	}
	pq.ReplaceTop(item)
	return true
}

// DrainSorted empties the queue and returns its items ordered best first.
func (pq *PriorityQueue) DrainSorted() []PriorityQueueItem {
	out := make([]PriorityQueueItem, len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.PopItem()
	}
	return out
}

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// less orders the heap so the worst-ranked item rises to the top.
func (pq *PriorityQueue) less(i, j int) bool {
	return Before(pq.items[j], pq.items[i])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
