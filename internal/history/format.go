package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Row pairs an item with its 1-based number in the list it was taken from.
type Row struct {
	N    int
	Item Item
}

// Number numbers items from 1 in order.
func Number(items []Item) []Row {
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{N: i + 1, Item: it}
	}
	return rows
}

// Select returns the rows whose item satisfies keep, numbers unchanged.
func Select(rows []Row, keep func(Item) bool) []Row {
	var out []Row
	for _, r := range rows {
		if keep(r.Item) {
			out = append(out, r)
		}
	}
	return out
}

// FormatList renders items as a numbered table for the terminal. Numbers
// are 1-based and match the argument to `reflow history show`.
func FormatList(items []Item, now time.Time) string {
	if len(items) == 0 {
		return "reflow history\n\n  No history yet. Copy something through `reflow fix` or `reflow watch`.\n"
	}
	return FormatRows(Number(items), now)
}

// FormatRows renders rows like FormatList, keeping each row's number.
func FormatRows(rows []Row, now time.Time) string {
	var b strings.Builder
	b.WriteString("reflow history\n\n")
	if len(rows) == 0 {
		b.WriteString("  No matches.\n")
		return b.String()
	}
	for _, r := range rows {
		marker := " "
		if r.Item.Pinned {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%3d  %-10s %-12s %s\n",
			marker, r.N, r.Item.RelativeTimestamp(now), truncate(r.Item.SourceDisplayName(), 12), r.Item.Preview())
	}
	return b.String()
}

// FormatItem renders one item with its metadata header.
func FormatItem(it Item, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-14s %s\n", "id", it.ID)
	fmt.Fprintf(&b, "  %-14s %s\n", "source", it.SourceDisplayName())
	if it.SourceID != "" {
		fmt.Fprintf(&b, "  %-14s %s\n", "bundle id", it.SourceID)
	}
	fmt.Fprintf(&b, "  %-14s %s\n", "first copied", humanize.RelTime(it.FirstCopy, now, "ago", "from now"))
	fmt.Fprintf(&b, "  %-14s %s\n", "last copied", it.RelativeTimestamp(now))
	fmt.Fprintf(&b, "  %-14s %s\n", "copies", humanize.Comma(int64(it.CopyCount)))
	fmt.Fprintf(&b, "  %-14s %s\n", "size", humanize.Bytes(uint64(len(it.Content))))
	fmt.Fprintf(&b, "  %-14s %s\n", "pinned", yesNo(it.Pinned))
	fmt.Fprintf(&b, "  %-14s %s\n", "reflowable", yesNo(it.IsReflowCandidate()))
	b.WriteString("\n")
	b.WriteString(it.Content)
	if !strings.HasSuffix(it.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
