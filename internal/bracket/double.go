package bracket

// poolEntry is a losers bracket feeder candidate. Winners bracket nodes feed
// their loser (inverted), losers bracket nodes feed their winner.
type poolEntry struct {
	id       NodeID
	inverted bool
}

func (b *Bracket) link(n *Node, e poolEntry) {
	if e.inverted {
		n.InvertedFeeders = append(n.InvertedFeeders, e.id)
	} else {
		n.Feeders = append(n.Feeders, e.id)
	}
}

// DoubleElimination builds a winners bracket, a losers bracket fed by the
// winners bracket losers, and a grand final between the two champions.
// Returned levels interleave winners and losers rounds, grand final last.
func (b *Bracket) DoubleElimination(entrants []Entrant) Levels {
	winners := b.SingleElimination(entrants)
	if len(winners) == 0 {
		return nil
	}

	var losers Levels
	var previous, leftOver []poolEntry
	for i := 0; ; i++ {
		pool := append([]poolEntry{}, previous...)
		if i < len(winners) {
			for _, id := range winners[i] {
				pool = append(pool, poolEntry{id: id, inverted: true})
			}
		}
		pool = append(pool, leftOver...)
		// A lone entry is the losers bracket champion
		if len(pool) < 2 {
			leftOver = pool
			break
		}

		level := make([]NodeID, 0, len(pool)/2)
		survivors := make([]poolEntry, 0, len(pool)/2)
		for j := 0; j+1 < len(pool); j += 2 {
			n := b.AddNode()
			b.link(n, pool[j])
			b.link(n, pool[j+1])
			level = append(level, n.ID)
			survivors = append(survivors, poolEntry{id: n.ID})
		}
		previous = survivors
		leftOver = nil
		if len(pool)%2 == 1 {
			leftOver = []poolEntry{pool[len(pool)-1]}
		}
		losers = append(losers, level)
	}

	// Winners round i is followed by the losers round fed from it
	var combined Levels
	for i := 0; i < len(winners) || i < len(losers)+1; i++ {
		var level []NodeID
		if i < len(winners) {
			level = append(level, winners[i]...)
		}
		if i > 0 && i-1 < len(losers) {
			level = append(level, losers[i-1]...)
		}
		combined = append(combined, level)
	}

	champion, _ := winners.Root()
	final := b.AddNode()
	final.Feeders = []NodeID{champion}
	if len(leftOver) == 1 {
		b.link(final, leftOver[0])
	}
	return append(combined, []NodeID{final.ID})
}
