package bracket

import "github.com/AdamBeresnev/tournament-scheduler/internal/utils"

// NodeID is a stable handle into a Bracket's node arena.
type NodeID int

// Node is one match slot. Feeders advance their winner into this node,
// inverted feeders advance their loser. Feeders are never removed.
type Node struct {
	ID NodeID

	// Entrants holds at most two competitors currently expected to play here.
	Entrants        []Entrant
	Feeders         []NodeID
	InvertedFeeders []NodeID

	// WinnerChild and LoserChild record where this node's winner and loser
	// have already been committed. Once set they are never reassigned.
	WinnerChild *NodeID
	LoserChild  *NodeID

	Games []Game

	Winner *Entrant
	Loser  *Entrant

	// Losses is only meaningful in triple elimination brackets.
	Losses int

	// SelfPlay marks a node whose two slots were filled by the same entrant.
	// That entrant is recorded as both winner and loser and neither downstream
	// path is preferred.
	SelfPlay bool
}

func (n *Node) Decided() bool {
	return n.Winner != nil && n.Loser != nil
}

func (n *Node) HasFeeders() bool {
	return len(n.Feeders)+len(n.InvertedFeeders) > 0
}

// Playable reports whether two real entrants are waiting on games here.
func (n *Node) Playable() bool {
	if n.Winner != nil || len(n.Entrants) != 2 {
		return false
	}
	return !n.Entrants[0].IsBye() && !n.Entrants[1].IsBye()
}

// WinCounts returns the number of games each current entrant has won.
func (n *Node) WinCounts() [2]int {
	var counts [2]int
	for _, g := range n.Games {
		for i, e := range n.Entrants[:min(2, len(n.Entrants))] {
			if !e.IsBye() && utils.PtrEquals(g.WinnerID, e.ID) {
				counts[i]++
			}
		}
	}
	return counts
}
