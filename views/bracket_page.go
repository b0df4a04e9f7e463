package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/a-h/templ"
)

// BracketPage renders the rounds as an HTML page, one section per round.
func BracketPage(title string, status bracket.TournamentStatus, champion *string, data BracketData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		esc := templ.EscapeString[string]

		fmt.Fprintf(&sb, "<!DOCTYPE html>\n<html lang=\"en\">\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n", esc(title))
		fmt.Fprintf(&sb, "<h1>%s</h1>\n", esc(title))
		fmt.Fprintf(&sb, "<p class=\"status\">Status: %s</p>\n", esc(string(status)))
		if champion != nil {
			fmt.Fprintf(&sb, "<p class=\"champion\">Champion: %s</p>\n", esc(*champion))
		}

		sb.WriteString("<div class=\"bracket\">\n")
		for _, round := range data.RoundNums {
			fmt.Fprintf(&sb, "<section class=\"round\" data-round=\"%d\">\n<h2>Round %d</h2>\n", round, round)
			for _, n := range data.Rounds[round] {
				fmt.Fprintf(&sb, "<article class=\"match\" id=\"node-%d\">\n<pre>%s</pre>\n", n.ID, esc(n.Label))
				if n.Winner != nil {
					fmt.Fprintf(&sb, "<p class=\"winner\">Winner: %s</p>\n", esc(*n.Winner))
				}
				sb.WriteString("</article>\n")
			}
			sb.WriteString("</section>\n")
		}
		sb.WriteString("</div>\n</body>\n</html>\n")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
