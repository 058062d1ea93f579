package engine

import (
	"container/heap"

	"github.com/taskmill/taskmill/internal/task"
)

// poolItem wraps a candidate task with the bookkeeping the heap needs.
type poolItem struct {
	task *task.Task
	// sequence preserves arrival order for tasks the ordering rules leave
	// tied. It never overrides those rules.
	sequence uint64
	index    int
}

// poolHeap implements heap.Interface over Less, falling back to arrival
// sequence for ties.
type poolHeap []*poolItem

func (h poolHeap) Len() int { return len(h) }

func (h poolHeap) Less(i, j int) bool {
	if Less(h[i].task, h[j].task) {
		return true
	}
	if Less(h[j].task, h[i].task) {
		return false
	}
	return h[i].sequence < h[j].sequence
}

func (h poolHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *poolHeap) Push(x any) {
	n := len(*h)
	item := x.(*poolItem)
	item.index = n
	*h = append(*h, item)
}

func (h *poolHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// pool is the engine's candidate queue: a stable priority heap of ready
// tasks. A run executes in a single goroutine, so the pool needs no locking.
type pool struct {
	items        poolHeap
	nextSequence uint64
}

func newPool() *pool {
	return &pool{}
}

func (p *pool) push(t *task.Task) {
	item := &poolItem{task: t, sequence: p.nextSequence}
	p.nextSequence++
	heap.Push(&p.items, item)
}

func (p *pool) pop() (*task.Task, bool) {
	if len(p.items) == 0 {
		return nil, false
	}
	item := heap.Pop(&p.items).(*poolItem)
	return item.task, true
}

func (p *pool) len() int {
	return len(p.items)
}
