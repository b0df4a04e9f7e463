package bracket

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/stretchr/testify/require"
)

func newTestBracket() *Bracket {
	return New(WithRand(rand.New(rand.NewPCG(7, 11))))
}

func makeEntrants(count int) []Entrant {
	entrants := make([]Entrant, count)
	for i := range entrants {
		entrants[i] = Entrant{ID: int64(i + 1), Name: fmt.Sprintf("team%d", i+1), Version: 1, Status: "ready"}
	}
	return entrants
}

func finishedGame(id, winner int64) Game {
	return Game{ID: id, Status: GameFinished, WinnerID: utils.Ptr(winner)}
}

// fulfil plays every requested game, the entrant with the lower id winning.
func fulfil(b *Bracket, requests []GameRequest, nextID *int64) {
	for _, r := range requests {
		winner := r.First.ID
		if r.Second.ID < winner {
			winner = r.Second.ID
		}
		*nextID++
		b.AttachGame(r.Node, finishedGame(*nextID, winner))
	}
}

// playOut drives a fixed bracket until its root is decided.
func playOut(t *testing.T, b *Bracket, root NodeID, bestOf int) Entrant {
	t.Helper()

	var gameID int64
	for range 500 {
		require.NoError(t, b.ResolveAll(bestOf))
		if n := b.Node(root); n.Winner != nil {
			return *n.Winner
		}
		requests := b.Demand(bestOf)
		require.NotEmpty(t, requests, "bracket stalled before the root was decided")
		fulfil(b, requests, &gameID)
	}
	t.Fatal("bracket did not finish")
	return Entrant{}
}

// requireTwoFeeders checks every node with feeders has exactly two.
func requireTwoFeeders(t *testing.T, b *Bracket) {
	t.Helper()
	for _, n := range b.Nodes() {
		if n.HasFeeders() {
			require.Len(t, b.FeedersOf(n.ID), 2, "node %d", n.ID)
		}
	}
}
