package views

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WriteDOT renders the whole bracket as a Graphviz digraph. Winner edges are
// solid, loser edges dotted.
func WriteDOT(w io.Writer, b *bracket.Bracket, bestOf int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph bracket {")
	fmt.Fprintln(bw, "  rankdir=LR")
	for _, n := range b.Nodes() {
		for _, f := range n.Feeders {
			fmt.Fprintf(bw, "  n%d -> n%d [style=solid];\n", f, n.ID)
		}
		for _, f := range n.InvertedFeeders {
			fmt.Fprintf(bw, "  n%d -> n%d [style=dotted];\n", f, n.ID)
		}
		fmt.Fprintf(bw, "  n%d [label=\"%s\"];\n", n.ID, dotEscaper.Replace(b.Label(n.ID, bestOf)))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
