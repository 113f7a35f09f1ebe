package stats

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Format renders a Snapshot as aligned terminal output.
func Format(s Snapshot) string {
	if s.AllTime.Pastes == 0 && s.Session.Pastes == 0 {
		return "reflow stats\n\n  Nothing reflowed yet. Pipe text through `reflow fix` to get started.\n"
	}

	var b strings.Builder
	b.WriteString("reflow stats\n")

	b.WriteString("\nThis session\n")
	writeCounters(&b, s.Session)

	b.WriteString("\nAll time\n")
	writeCounters(&b, s.AllTime)

	return b.String()
}

func writeCounters(b *strings.Builder, c Counters) {
	fmt.Fprintf(b, "  %-20s %s\n", "lines joined", humanize.Comma(c.LinesJoined))
	fmt.Fprintf(b, "  %-20s %s\n", "pastes", humanize.Comma(c.Pastes))
	fmt.Fprintf(b, "  %-20s %.1f\n", "lines/paste", c.LinesPerPaste())
}
