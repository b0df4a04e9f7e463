package views

import (
	"sort"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
)

type GameView struct {
	ID       int64   `json:"id"`
	Status   string  `json:"status"`
	WinnerID *int64  `json:"winner_id,omitempty"`
	LogURL   *string `json:"log_url,omitempty"`
}

type NodeView struct {
	ID              int        `json:"id"`
	Round           int        `json:"round"`
	Label           string     `json:"label"`
	Entrants        []string   `json:"entrants"`
	Winner          *string    `json:"winner,omitempty"`
	Loser           *string    `json:"loser,omitempty"`
	Feeders         []int      `json:"feeders"`
	InvertedFeeders []int      `json:"inverted_feeders"`
	Games           []GameView `json:"games"`
	SelfPlay        bool       `json:"self_play,omitempty"`
}

type BracketData struct {
	Rounds    map[int][]NodeView `json:"rounds"`
	RoundNums []int              `json:"round_nums"`
}

// PrepareBracketData groups nodes into rounds by their distance from the
// seed matches, following feeders of both kinds.
func PrepareBracketData(b *bracket.Bracket, bestOf int) BracketData {
	rounds := make(map[int][]NodeView)
	var roundNums []int

	depth := roundsOf(b)
	for _, n := range b.Nodes() {
		round := depth[n.ID]
		if _, exists := rounds[round]; !exists {
			roundNums = append(roundNums, round)
		}
		rounds[round] = append(rounds[round], newNodeView(b, n, round, bestOf))
	}

	sort.Ints(roundNums)
	sortRounds(rounds, roundNums)

	return BracketData{
		Rounds:    rounds,
		RoundNums: roundNums,
	}
}

// roundsOf numbers seed matches 1 and every other node one past its deepest
// feeder. Feeders always precede the nodes they feed.
func roundsOf(b *bracket.Bracket) map[bracket.NodeID]int {
	depth := make(map[bracket.NodeID]int, b.Len())
	for _, n := range b.Nodes() {
		round := 1
		for _, f := range b.FeedersOf(n.ID) {
			round = max(round, depth[f]+1)
		}
		depth[n.ID] = round
	}
	return depth
}

func newNodeView(b *bracket.Bracket, n *bracket.Node, round, bestOf int) NodeView {
	v := NodeView{
		ID:              int(n.ID),
		Round:           round,
		Label:           b.Label(n.ID, bestOf),
		Entrants:        make([]string, 0, len(n.Entrants)),
		Feeders:         make([]int, 0, len(n.Feeders)),
		InvertedFeeders: make([]int, 0, len(n.InvertedFeeders)),
		Games:           make([]GameView, 0, len(n.Games)),
		SelfPlay:        n.SelfPlay,
	}
	for _, e := range n.Entrants {
		v.Entrants = append(v.Entrants, e.String())
	}
	if n.Winner != nil {
		v.Winner = utils.Ptr(n.Winner.String())
	}
	if n.Loser != nil {
		v.Loser = utils.Ptr(n.Loser.String())
	}
	for _, f := range n.Feeders {
		v.Feeders = append(v.Feeders, int(f))
	}
	for _, f := range n.InvertedFeeders {
		v.InvertedFeeders = append(v.InvertedFeeders, int(f))
	}
	for _, g := range n.Games {
		v.Games = append(v.Games, GameView{ID: g.ID, Status: string(g.Status), WinnerID: g.WinnerID, LogURL: g.LogURL})
	}
	return v
}

func sortRounds(rounds map[int][]NodeView, roundNums []int) {
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].ID < rounds[r][j].ID
		})
	}
}

// PrepareNode builds the view of a single node.
func PrepareNode(b *bracket.Bracket, id bracket.NodeID, bestOf int) (NodeView, bool) {
	n := b.Node(id)
	if n == nil {
		return NodeView{}, false
	}
	return newNodeView(b, n, roundsOf(b)[id], bestOf), true
}
