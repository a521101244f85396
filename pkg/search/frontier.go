package search

import "container/heap"

// nodeHeap implements heap.Interface over nodes ordered by Node.Less.
type nodeHeap struct {
	items []*Node
	pos   map[int]int // node index -> heap position
}

func (h *nodeHeap) Len() int           { return len(h.items) }
func (h *nodeHeap) Less(i, j int) bool { return h.items[i].Less(h.items[j]) }
func (h *nodeHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.pos[h.items[i].Index] = i
	h.pos[h.items[j].Index] = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*Node)
	h.pos[n.Index] = len(h.items)
	h.items = append(h.items, n)
}

func (h *nodeHeap) Pop() any {
	old := h.items
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	h.items = old[:last]
	delete(h.pos, n.Index)
	return n
}

// Frontier is the open set: a min-priority queue on g+h with index
// tie-break. It is not safe for concurrent use.
type Frontier struct {
	h nodeHeap
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{h: nodeHeap{pos: make(map[int]int)}}
}

// Len returns the number of queued nodes.
func (f *Frontier) Len() int { return f.h.Len() }

// Push queues n. A node that is already queued is re-positioned instead.
func (f *Frontier) Push(n *Node) {
	if i, ok := f.h.pos[n.Index]; ok {
		f.h.items[i] = n
		heap.Fix(&f.h, i)
		return
	}
	heap.Push(&f.h, n)
}

// Pop removes and returns the node with the lowest g+h, or nil when empty.
func (f *Frontier) Pop() *Node {
	if f.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&f.h).(*Node)
}

// Peek returns the next node without removing it.
func (f *Frontier) Peek() *Node {
	if f.h.Len() == 0 {
		return nil
	}
	return f.h.items[0]
}

// Contains reports whether n is queued.
func (f *Frontier) Contains(n *Node) bool {
	_, ok := f.h.pos[n.Index]
	return ok
}

// Remove drops n from the queue. It returns false if n was not queued.
func (f *Frontier) Remove(n *Node) bool {
	i, ok := f.h.pos[n.Index]
	if !ok {
		return false
	}
	heap.Remove(&f.h, i)
	return true
}

// Fix restores heap order after the cost of a queued node changed.
func (f *Frontier) Fix(n *Node) {
	if i, ok := f.h.pos[n.Index]; ok {
		heap.Fix(&f.h, i)
	}
}
