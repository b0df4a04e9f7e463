package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationShape(t *testing.T) {
	testCases := []struct {
		name          string
		count         int
		expectedNodes int
	}{
		{name: "2 entrants", count: 2, expectedNodes: 2},
		{name: "4 entrants", count: 4, expectedNodes: 6},
		{name: "8 entrants", count: 8, expectedNodes: 14},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBracket()
			levels := b.DoubleElimination(makeEntrants(tc.count))
			assert.Equal(t, tc.expectedNodes, b.Len())
			requireTwoFeeders(t, b)

			root, ok := levels.Root()
			require.True(t, ok)
			final := b.Node(root)
			require.NotEmpty(t, final.Feeders)

			// The winners bracket champion is the final's first feeder
			winners := pairingWidth(tc.count)*2 - 1
			assert.Equal(t, NodeID(winners-1), final.Feeders[0])
		})
	}
}

func TestDoubleEliminationPolarity(t *testing.T) {
	b := newTestBracket()
	b.DoubleElimination(makeEntrants(4))

	// Nodes 0-2 are the winners bracket, 3 and 4 the losers bracket
	first := b.Node(3)
	assert.Equal(t, []NodeID{0, 1}, first.InvertedFeeders)
	assert.Empty(t, first.Feeders)

	second := b.Node(4)
	assert.Equal(t, []NodeID{3}, second.Feeders)
	assert.Equal(t, []NodeID{2}, second.InvertedFeeders)

	final := b.Node(5)
	assert.Equal(t, []NodeID{2, 4}, final.Feeders)
}

func TestDoubleEliminationPlayOut(t *testing.T) {
	for count := 2; count <= 12; count++ {
		b := newTestBracket()
		levels := b.DoubleElimination(makeEntrants(count))
		root, _ := levels.Root()

		champion := playOut(t, b, root, 1)
		assert.Equal(t, int64(1), champion.ID, "count %d", count)
	}
}

func TestDoubleEliminationEveryEntrantLosesAtMostTwice(t *testing.T) {
	b := newTestBracket()
	levels := b.DoubleElimination(makeEntrants(8))
	root, _ := levels.Root()
	playOut(t, b, root, 1)

	losses := map[int64]int{}
	for _, n := range b.Nodes() {
		if n.Loser != nil && !n.Loser.IsBye() {
			losses[n.Loser.ID]++
		}
	}
	for id, count := range losses {
		assert.LessOrEqual(t, count, 2, "entrant %d", id)
	}
}
