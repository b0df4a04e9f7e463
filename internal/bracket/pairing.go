package bracket

import "math"

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// pairingWidth is the number of seed matches needed for count entrants.
func pairingWidth(count int) int {
	return calcBracketSize((count + 1) / 2)
}

// InitialPairing shuffles the entrants, pads them with byes and creates the
// seed matches. Slot 0 of every node is filled before any slot 1, so byes
// only ever land in the second slot of the trailing nodes.
func (b *Bracket) InitialPairing(entrants []Entrant) []NodeID {
	width := pairingWidth(len(entrants))
	if width == 0 {
		return nil
	}

	shuffled := make([]Entrant, len(entrants), 2*width)
	copy(shuffled, entrants)
	b.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for len(shuffled) < 2*width {
		shuffled = append(shuffled, Bye())
	}

	level := make([]NodeID, width)
	for i := range level {
		n := b.AddNode()
		n.Entrants = []Entrant{shuffled[i], shuffled[width+i]}
		level[i] = n.ID
	}
	return level
}
