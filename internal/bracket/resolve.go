package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
)

// ResolveAll declares winners across the whole arena in creation order. It
// stops at the first structural inconsistency.
func (b *Bracket) ResolveAll(bestOf int) error {
	for _, n := range b.nodes {
		if err := b.Resolve(n.ID, bestOf); err != nil {
			return err
		}
	}
	return nil
}

// Resolve declares the winner of a node after resolving its direct feeders.
// Inverted feeders are not walked; they are settled when the caller resolves
// them as top level nodes.
func (b *Bracket) Resolve(id NodeID, bestOf int) error {
	type frame struct {
		id    NodeID
		ready bool
	}

	done := map[NodeID]bool{}
	stack := []frame{{id: id}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := b.Node(f.id)
		if n == nil || n.Decided() || done[f.id] {
			continue
		}
		if !f.ready {
			stack = append(stack, frame{id: f.id, ready: true})
			for i := len(n.Feeders) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: n.Feeders[i]})
			}
			continue
		}

		done[f.id] = true
		if err := b.declare(n, bestOf); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bracket) declare(n *Node, bestOf int) error {
	if n.HasFeeders() {
		entrants := make([]Entrant, 0, 2)
		for _, id := range n.Feeders {
			if w := b.Node(id).Winner; w != nil {
				entrants = append(entrants, *w)
			}
		}
		for _, id := range n.InvertedFeeders {
			if l := b.Node(id).Loser; l != nil {
				entrants = append(entrants, *l)
			}
		}
		n.Entrants = entrants
	}
	if len(n.Entrants) != 2 {
		return nil
	}

	first, second := n.Entrants[0], n.Entrants[1]
	switch {
	case first.IsBye() && second.IsBye():
		n.Winner, n.Loser = utils.Ptr(first), utils.Ptr(second)
	case first.IsBye():
		n.Winner, n.Loser = utils.Ptr(second), utils.Ptr(first)
	case second.IsBye():
		n.Winner, n.Loser = utils.Ptr(first), utils.Ptr(second)
	case first.Same(second):
		n.Winner, n.Loser = utils.Ptr(first), utils.Ptr(second)
		n.SelfPlay = true
	}
	if n.Winner != nil {
		return nil
	}

	var order []int64
	wins := map[int64]int{}
	for _, g := range n.Games {
		if g.WinnerID == nil {
			continue
		}
		if _, ok := wins[*g.WinnerID]; !ok {
			order = append(order, *g.WinnerID)
		}
		wins[*g.WinnerID]++
	}

	for _, winnerID := range order {
		if wins[winnerID] <= bestOf/2 {
			continue
		}
		switch winnerID {
		case first.ID:
			n.Winner, n.Loser = utils.Ptr(first), utils.Ptr(second)
		case second.ID:
			n.Winner, n.Loser = utils.Ptr(second), utils.Ptr(first)
		default:
			return fmt.Errorf("%w: winner %d of node %d is not one of %s, %s",
				ErrStructuralInconsistency, winnerID, n.ID, first, second)
		}
		return nil
	}
	return nil
}
