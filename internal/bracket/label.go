package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
)

// Label renders a node as "a vs b", with per entrant game wins once games
// exist and the log of a game the winner won once decided.
func (b *Bracket) Label(id NodeID, bestOf int) string {
	n := b.Node(id)
	if n == nil {
		return ""
	}

	names := []string{"-", "-"}
	for i, e := range n.Entrants[:min(2, len(n.Entrants))] {
		names[i] = e.String()
	}
	if len(n.Games) == 0 {
		return fmt.Sprintf("%s vs %s", names[0], names[1])
	}

	wins := n.WinCounts()
	label := fmt.Sprintf("%s(%d/%d) vs %s(%d/%d)", names[0], wins[0], bestOf, names[1], wins[1], bestOf)
	if n.Winner == nil || n.Winner.IsBye() {
		return label
	}
	for _, g := range n.Games {
		if !utils.PtrEquals(g.WinnerID, n.Winner.ID) {
			continue
		}
		if url := utils.OrZero(g.LogURL); url != "" {
			return label + "\n" + url
		}
		break
	}
	return label
}
