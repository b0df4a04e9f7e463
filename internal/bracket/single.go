package bracket

// SingleElimination builds a complete knockout tree over the entrants.
func (b *Bracket) SingleElimination(entrants []Entrant) Levels {
	level := b.InitialPairing(entrants)
	if len(level) == 0 {
		return nil
	}

	levels := Levels{level}
	for len(level) > 1 {
		next := make([]NodeID, len(level)/2)
		for i := range next {
			n := b.AddNode()
			n.Feeders = []NodeID{level[2*i], level[2*i+1]}
			next[i] = n.ID
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}
