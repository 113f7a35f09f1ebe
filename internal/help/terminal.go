package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	// Header: name and synopsis.
	sections = append(sections, fmt.Sprintf("reflow %s — %s", c.Name, c.Synopsis))

	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	// When both exist, minimum column is 13 for visual balance.
	maxNameLen := 0
	for _, a := range c.Args {
		if len(a.Name) > maxNameLen {
			maxNameLen = len(a.Name)
		}
	}
	for _, f := range c.Flags {
		if len(f.Name) > maxNameLen {
			maxNameLen = len(f.Name)
		}
	}
	col := 2 + maxNameLen + 3
	if len(c.Args) > 0 && len(c.Flags) > 0 && col < 13 {
		col = 13
	}

	if len(c.Args) > 0 {
		lines := []string{"Arguments:"}
		for _, a := range c.Args {
			lines = append(lines, entry(a.Name, a.Desc, col))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(c.Flags) > 0 {
		lines := []string{"Flags:"}
		for _, f := range c.Flags {
			lines = append(lines, entry(f.Name, f.Desc, col))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		lines := []string{"Examples:"}
		for _, e := range c.Examples {
			lines = append(lines, "  "+e)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func entry(name, desc string, col int) string {
	gap := col - 2 - len(name)
	return "  " + name + strings.Repeat(" ", gap) + desc
}

// FormatUsage renders the top-level usage text (for reflow --help / reflow help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "reflow v%s — %s\n", Version, top.Synopsis)

	b.WriteString("\nUsage:\n")

	type row struct {
		usage string
		brief string
	}
	rows := make([]row, 0, len(subs)+1)
	for _, s := range subs {
		rows = append(rows, row{s.tableUsage(), s.Brief})
	}
	rows = append(rows, row{"reflow help [command]", "Show help"})

	maxWidth := 0
	for _, r := range rows {
		if len(r.usage) > maxWidth {
			maxWidth = len(r.usage)
		}
	}

	for _, r := range rows {
		gap := maxWidth - len(r.usage) + 3
		fmt.Fprintf(&b, "  %s%s%s\n", r.usage, strings.Repeat(" ", gap), r.brief)
	}

	b.WriteString(`
Input is read from -f <file> or stdin.

Configuration: ~/.config/reflow/config.toml
`)
	return b.String()
}
