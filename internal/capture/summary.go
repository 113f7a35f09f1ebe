package capture

import (
	"strings"

	"github.com/rivo/uniseg"
)

const summaryLimit = 90

// Ellipsize shortens text to limit characters by keeping its head and tail
// around "…". Text that fits, or a limit below 5, returns text unchanged.
func Ellipsize(text string, limit int) string {
	n := uniseg.GraphemeClusterCount(text)
	if limit < 5 || n <= limit {
		return text
	}

	available := limit - 3
	head := available / 2
	tail := available - head

	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for i := 0; g.Next(); i++ {
		switch {
		case i < head:
			b.WriteString(g.Str())
		case i == head:
			b.WriteString("…")
		}
		if i >= n-tail {
			b.WriteString(g.Str())
		}
	}
	return b.String()
}

// Summary is a one-line, 90-character description of text for status
// messages.
func Summary(text string) string {
	return Ellipsize(strings.ReplaceAll(text, "\n", " "), summaryLimit)
}
