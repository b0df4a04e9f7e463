package bracket

import "fmt"

type TournamentStatus string

const (
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type TournamentType string

const (
	SingleElimination TournamentType = "single"
	DoubleElimination TournamentType = "double"
	TripleElimination TournamentType = "triple"
	// OnlineElimination grows an N-elimination bracket every cycle as results arrive
	OnlineElimination TournamentType = "online"
)

func ParseTournamentType(s string) (TournamentType, error) {
	switch t := TournamentType(s); t {
	case SingleElimination, DoubleElimination, TripleElimination, OnlineElimination:
		return t, nil
	}
	return "", fmt.Errorf("unknown tournament type %q", s)
}

// Fixed reports whether the whole bracket is built up front.
func (t TournamentType) Fixed() bool {
	return t != OnlineElimination
}
