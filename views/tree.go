package views

import (
	"bufio"
	"io"
	"strings"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
)

const treeIndent = 10

// WriteTree prints the bracket sideways from root: the first feeder above a
// node, the second below, each level indented further left.
func WriteTree(w io.Writer, b *bracket.Bracket, root bracket.NodeID, bestOf int) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", 40) + "\n"

	bw.WriteString(rule)
	if b.Node(root) != nil {
		t := &treeWriter{
			w:       bw,
			b:       b,
			bestOf:  bestOf,
			printed: make(map[bracket.NodeID]bool),
		}
		t.write(root, roundsOf(b)[root]-1)
	}
	bw.WriteString(rule)

	return bw.Flush()
}

type treeWriter struct {
	w       *bufio.Writer
	b       *bracket.Bracket
	bestOf  int
	printed map[bracket.NodeID]bool
}

func (t *treeWriter) write(id bracket.NodeID, depth int) {
	if t.printed[id] {
		return
	}
	t.printed[id] = true

	feeders := t.b.FeedersOf(id)
	if len(feeders) >= 1 {
		t.write(feeders[0], depth-1)
	}
	pad := strings.Repeat(" ", treeIndent*depth)
	for _, line := range strings.Split(t.b.Label(id, t.bestOf), "\n") {
		t.w.WriteString(pad + line + "\n")
	}
	if len(feeders) >= 2 {
		t.write(feeders[1], depth-1)
	}
}
