package bracket

import (
	"cmp"
	"slices"
)

// TripleElimination builds a fixed bracket where each node carries the number
// of losses its occupant has by the time it plays there. Rounds are paired
// within each loss count until one node per count 0, 1 and 2 remains, then
// the survivors are merged with tie-break matches that the side with fewer
// losses only needs to win once.
func (b *Bracket) TripleElimination(entrants []Entrant) Levels {
	seed := b.InitialPairing(entrants)
	if len(seed) == 0 {
		return nil
	}

	levels := Levels{seed}
	frontier := slices.Clone(seed)
	for !b.tripleFrontier(frontier) {
		var layer, carried []NodeID
		for _, group := range groupBy(frontier, b.lossesOf) {
			losses := b.Node(group[0]).Losses
			// Paired from the newest node back, staggering the rounds
			for i := len(group) - 1; i >= 1; i -= 2 {
				pair := []NodeID{group[i], group[i-1]}

				w := b.AddNode()
				w.Feeders = slices.Clone(pair)
				w.Losses = losses
				layer = append(layer, w.ID)

				if losses < 2 {
					l := b.AddNode()
					l.InvertedFeeders = slices.Clone(pair)
					l.Losses = losses + 1
					layer = append(layer, l.ID)
				}
			}
			if len(group)%2 == 1 {
				carried = append(carried, group[0])
			}
		}
		// Small fields never reach the 0/1/2 frontier
		if len(layer) == 0 {
			break
		}
		levels = append(levels, layer)
		frontier = append(carried, layer...)
	}

	for len(frontier) > 1 {
		slices.SortStableFunc(frontier, func(x, y NodeID) int {
			return cmp.Compare(b.lossesOf(x), b.lossesOf(y))
		})
		n1, n2 := frontier[0], frontier[1]
		frontier = frontier[2:]

		losses := b.Node(n2).Losses
		running := n2
		var layer []NodeID
		for d := losses - b.Node(n1).Losses; d > 0; d-- {
			tb := b.AddNode()
			tb.Feeders = []NodeID{n1, running}
			tb.Losses = losses
			layer = append(layer, tb.ID)
			running = tb.ID
		}

		merged := b.AddNode()
		merged.Feeders = []NodeID{n1, running}
		merged.Losses = losses
		levels = append(levels, append(layer, merged.ID))
		frontier = append(frontier, merged.ID)
	}
	return levels
}

func (b *Bracket) tripleFrontier(frontier []NodeID) bool {
	if len(frontier) != 3 {
		return false
	}
	for i, id := range frontier {
		if b.Node(id).Losses != i {
			return false
		}
	}
	return true
}

func (b *Bracket) lossesOf(id NodeID) int {
	return b.Node(id).Losses
}
