package search

import (
	"fmt"
	"sync"
)

// Arena owns every node of one planning run. Nodes refer to each other by
// index only, so the arena is the single place a node can be resolved.
// Index allocation and appends are serialized; an index is never handed out
// twice.
type Arena struct {
	mu           sync.RWMutex
	nodes        []*Node
	neighborhood float64
	childSpeed   float64
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithCapacity pre-reserves room for n nodes.
func WithCapacity(n int) ArenaOption {
	return func(a *Arena) {
		if n > 0 {
			a.nodes = make([]*Node, 0, n)
		}
	}
}

// WithNeighborhood sets the goal radius given to every node the arena creates.
func WithNeighborhood(r float64) ArenaOption {
	return func(a *Arena) { a.neighborhood = r }
}

// WithChildSpeed fixes the horizontal speed of spawned nodes.
// Zero keeps the parent's speed.
func WithChildSpeed(s float64) ArenaOption {
	return func(a *Arena) { a.childSpeed = s }
}

// NewArena creates an empty arena.
func NewArena(opts ...ArenaOption) (*Arena, error) {
	a := &Arena{neighborhood: DefaultNeighborhood}
	for _, opt := range opts {
		opt(a)
	}
	if a.neighborhood <= 0 {
		return nil, fmt.Errorf("%w: neighborhood must be positive, got %v", ErrInvalidConfig, a.neighborhood)
	}
	if a.childSpeed < 0 {
		return nil, fmt.Errorf("%w: child speed must not be negative, got %v", ErrInvalidConfig, a.childSpeed)
	}
	return a, nil
}

// Root creates the start node of the run. It fails if the arena already holds nodes.
func (a *Arena) Root(s State) (*Node, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.nodes) != 0 {
		return nil, fmt.Errorf("%w: arena already has a root", ErrInvalidConfig)
	}
	return a.spawnLocked(NoParent, s)
}

// spawnLocked creates and appends a node. Caller holds a.mu.
func (a *Arena) spawnLocked(parent int, s State) (*Node, error) {
	n, err := NewNode(parent, len(a.nodes), s)
	if err != nil {
		return nil, err
	}
	n.Neighborhood = a.neighborhood
	a.nodes = append(a.nodes, n)
	return n, nil
}

// Len returns the number of nodes created so far.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.nodes)
}

// Get resolves an index.
func (a *Arena) Get(i int) (*Node, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.nodes) {
		return nil, false
	}
	return a.nodes[i], true
}

// Parent returns the parent of n, or false for the root.
func (a *Arena) Parent(n *Node) (*Node, bool) {
	if !n.HasParent() {
		return nil, false
	}
	return a.Get(n.Parent)
}

// Children resolves the children of n in insertion order.
func (a *Arena) Children(n *Node) []*Node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Node, 0, len(n.children))
	for _, idx := range n.children {
		out = append(out, a.nodes[idx])
	}
	return out
}

// Path walks parent links from n back to the root and returns the nodes
// ordered root first.
func (a *Arena) Path(n *Node) []*Node {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var path []*Node
	for cur := n; ; {
		path = append(path, cur)
		if !cur.HasParent() {
			break
		}
		cur = a.nodes[cur.Parent]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Nodes returns a snapshot of all nodes ordered by index.
func (a *Arena) Nodes() []*Node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Node, len(a.nodes))
	copy(out, a.nodes)
	return out
}

func (a *Arena) owns(n *Node) bool {
	return n != nil && n.Index >= 0 && n.Index < len(a.nodes) && a.nodes[n.Index] == n
}
