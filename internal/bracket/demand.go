package bracket

// GameRequest asks the arena for one more game of a match. Index is the
// game's position in the node's best-of series.
type GameRequest struct {
	Node   NodeID
	Index  int
	First  Entrant
	Second Entrant
}

// Demand lists the games still needed for every playable node. Seats swap on
// odd indexes to cancel out first move advantage. Byes never generate games.
func (b *Bracket) Demand(bestOf int) []GameRequest {
	var requests []GameRequest
	for _, n := range b.nodes {
		if !n.Playable() {
			continue
		}
		counted := 0
		for _, g := range n.Games {
			if g.Counts() {
				counted++
			}
		}
		for i := counted; i < bestOf; i++ {
			first, second := n.Entrants[0], n.Entrants[1]
			if i%2 == 1 {
				first, second = second, first
			}
			requests = append(requests, GameRequest{Node: n.ID, Index: i, First: first, Second: second})
		}
	}
	return requests
}
