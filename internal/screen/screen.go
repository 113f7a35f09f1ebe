// Package screen replays raw terminal captures through a virtual terminal
// so cursor movement, carriage returns and line clears resolve to the text
// a person would have seen.
package screen

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"
)

// DefaultCols is used when Render is given a non-positive width.
const DefaultCols = 80

// Render feeds raw through an emulator cols columns wide and returns the
// composed screen. Trailing whitespace is trimmed from each line and trailing
// blank lines are dropped.
func Render(raw string, cols int) string {
	if cols <= 0 {
		cols = DefaultCols
	}
	if raw == "" {
		return ""
	}

	emu := vt.NewSafeEmulator(cols, rowsFor(raw, cols))
	defer emu.Close()

	// Device queries in the capture produce replies on the emulator's input
	// side; nobody consumes them here.
	go io.Copy(io.Discard, emu)

	_, _ = emu.Write([]byte(toCRLF(raw)))
	return visible(emu.String())
}

// rowsFor sizes the screen so nothing scrolls off the top: one row per
// wrapped line plus a spare for the final cursor position.
func rowsFor(raw string, cols int) int {
	rows := 1
	for _, line := range strings.Split(raw, "\n") {
		w := ansi.StringWidth(line)
		if w == 0 {
			rows++
			continue
		}
		rows += (w + cols - 1) / cols
	}
	return rows
}

// toCRLF makes bare line feeds return to column zero, as a tty with onlcr
// would.
func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func visible(raw string) string {
	lines := strings.Split(raw, "\n")
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimRight(lines[i], " \t\r") != "" {
			last = i
			break
		}
	}
	if last < 0 {
		return ""
	}

	out := make([]string, last+1)
	for i := 0; i <= last; i++ {
		out[i] = strings.TrimRight(lines[i], " \t\r")
	}
	return strings.Join(out, "\n")
}
