package bracket

import "errors"

var (
	// ErrStructuralInconsistency means a game winner is not one of the node's
	// current entrants. It aborts the cycle.
	ErrStructuralInconsistency = errors.New("structural inconsistency")

	// ErrEmptyAvailablePool means the online builder found neither pending
	// matches nor available entrants and fell back to the newest node.
	ErrEmptyAvailablePool = errors.New("no pending matches and no available entrants")

	ErrNoEntrants = errors.New("no entrants")
)
