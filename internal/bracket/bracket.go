// Package bracket holds the match graph of a multi-elimination tournament and
// the algorithms that build, resolve and schedule it.
//
// A Bracket owns every Node in an arena; nodes refer to each other through
// NodeID handles only. The graph is a DAG that only grows. Nothing in this
// package performs I/O or is safe for concurrent use.
package bracket

import (
	"math/rand/v2"
	"slices"
	"time"
)

// Levels is a layered view of a built bracket, root last.
type Levels [][]NodeID

// Root returns the last node of the last level.
func (l Levels) Root() (NodeID, bool) {
	if len(l) == 0 || len(l[len(l)-1]) == 0 {
		return 0, false
	}
	last := l[len(l)-1]
	return last[len(last)-1], true
}

type Bracket struct {
	nodes []*Node
	rng   *rand.Rand
}

type Option func(*Bracket)

// WithRand replaces the shuffle source used by the initial pairing.
func WithRand(r *rand.Rand) Option {
	return func(b *Bracket) {
		b.rng = r
	}
}

func New(opts ...Option) *Bracket {
	b := &Bracket{}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		seed := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return b
}

// AddNode appends an empty node to the arena.
func (b *Bracket) AddNode() *Node {
	n := &Node{ID: NodeID(len(b.nodes))}
	b.nodes = append(b.nodes, n)
	return n
}

func (b *Bracket) Node(id NodeID) *Node {
	if int(id) < 0 || int(id) >= len(b.nodes) {
		return nil
	}
	return b.nodes[id]
}

// Nodes returns every node in creation order.
func (b *Bracket) Nodes() []*Node {
	return slices.Clone(b.nodes)
}

func (b *Bracket) Len() int {
	return len(b.nodes)
}

// FeedersOf returns direct feeders followed by inverted feeders.
func (b *Bracket) FeedersOf(id NodeID) []NodeID {
	n := b.Node(id)
	if n == nil {
		return nil
	}
	return append(slices.Clone(n.Feeders), n.InvertedFeeders...)
}

// Reachable lists every node reachable from root through feeders of either
// polarity, root first.
func (b *Bracket) Reachable(root NodeID) []NodeID {
	if b.Node(root) == nil {
		return nil
	}
	seen := map[NodeID]bool{root: true}
	order := []NodeID{}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		feeders := b.FeedersOf(id)
		for i := len(feeders) - 1; i >= 0; i-- {
			if f := feeders[i]; !seen[f] {
				seen[f] = true
				stack = append(stack, f)
			}
		}
	}
	return order
}

// Pending reports whether any node is still waiting on a winner.
func (b *Bracket) Pending() bool {
	for _, n := range b.nodes {
		if n.Winner == nil {
			return true
		}
	}
	return false
}

// AttachGame appends a newly created game to a node.
func (b *Bracket) AttachGame(id NodeID, g Game) {
	if n := b.Node(id); n != nil {
		n.Games = append(n.Games, g)
	}
}

// UpdateGames replaces game snapshots by id. Ids missing from fresh are left
// untouched; it returns how many snapshots changed hands.
func (b *Bracket) UpdateGames(fresh []Game) int {
	byID := make(map[int64]Game, len(fresh))
	for _, g := range fresh {
		byID[g.ID] = g
	}
	updated := 0
	for _, n := range b.nodes {
		for i, g := range n.Games {
			if f, ok := byID[g.ID]; ok {
				n.Games[i] = f
				updated++
			}
		}
	}
	return updated
}

// UnfinishedGameIDs lists games whose status still needs refreshing.
func (b *Bracket) UnfinishedGameIDs() []int64 {
	var ids []int64
	for _, n := range b.nodes {
		for _, g := range n.Games {
			if !g.Finished() {
				ids = append(ids, g.ID)
			}
		}
	}
	return ids
}
