package bracket

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
)

// Growth is the outcome of one online growth step.
type Growth struct {
	// Champion is the node whose winner won the tournament, nil while play continues.
	Champion *Node
	Created  []NodeID
	// Warning is set when the champion is a best-effort fallback.
	Warning error
}

// candidate is an entrant waiting for its next match, reached through the
// winner or the loser side of its last node.
type candidate struct {
	node     NodeID
	entrant  Entrant
	viaLoser bool
}

type standingKey struct {
	losses, wins int
}

// GrowOnline extends an N-elimination bracket from the results recorded so
// far. It must be called every cycle after winners are resolved; calling it
// again without new results creates nothing.
func (b *Bracket) GrowOnline(entrants []Entrant, maxLosses int) Growth {
	var created []NodeID
	if len(b.nodes) == 0 {
		created = b.InitialPairing(entrants)
		if len(created) == 0 {
			return Growth{Warning: ErrNoEntrants}
		}
	}

	wins := map[int64]int{}
	losses := map[int64]int{}
	for _, n := range b.nodes {
		if n.Loser != nil {
			losses[n.Loser.key()]++
		}
		if n.Winner != nil {
			wins[n.Winner.key()]++
		}
	}

	var available []candidate
	pending := false
	for _, n := range b.nodes {
		if n.Winner != nil && n.WinnerChild == nil {
			available = append(available, candidate{node: n.ID, entrant: *n.Winner})
		}
		if n.Loser != nil && n.LoserChild == nil && losses[n.Loser.key()] < maxLosses {
			available = append(available, candidate{node: n.ID, entrant: *n.Loser, viaLoser: true})
		}
		if n.Winner == nil {
			pending = true
		}
	}

	if !pending {
		switch len(available) {
		case 1:
			return Growth{Champion: b.Node(available[0].node)}
		case 0:
			return Growth{Champion: b.nodes[len(b.nodes)-1], Warning: ErrEmptyAvailablePool}
		}
	}

	// Try to keep everyone progressing through the bracket at an even rate
	byScore := groupBy(available, func(c candidate) standingKey {
		k := c.entrant.key()
		return standingKey{losses: losses[k], wins: wins[k]}
	})
	byLosses := groupBy(available, func(c candidate) int {
		return losses[c.entrant.key()]
	})
	everyone := slices.Clone(available)
	slices.SortStableFunc(everyone, func(x, y candidate) int {
		return cmp.Compare(losses[y.entrant.key()], losses[x.entrant.key()])
	})

	// Looser groupings are only tried once nothing is left in play
	for _, groups := range [][][]candidate{byScore, byLosses, {everyone}} {
		for _, group := range groups {
			// An odd member waits for the next cycle
			for i := 0; i+1 < len(group); i += 2 {
				n := b.AddNode()
				b.commit(n, group[i])
				b.commit(n, group[i+1])
				created = append(created, n.ID)
				pending = true
			}
		}
		if pending {
			break
		}
	}
	return Growth{Created: created}
}

func (b *Bracket) commit(n *Node, c candidate) {
	src := b.Node(c.node)
	if c.viaLoser {
		n.InvertedFeeders = append(n.InvertedFeeders, c.node)
		src.LoserChild = utils.Ptr(n.ID)
		return
	}
	n.Feeders = append(n.Feeders, c.node)
	src.WinnerChild = utils.Ptr(n.ID)
}

// groupBy keeps groups in order of first appearance and members in input
// order.
func groupBy[T any, K comparable](items []T, key func(T) K) [][]T {
	index := map[K]int{}
	var groups [][]T
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], item)
	}
	return groups
}
