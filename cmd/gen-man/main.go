// Command gen-man writes reflow's man pages into a directory, "man" by
// default. Pages are dated from SOURCE_DATE_EPOCH when it is set.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suykerbuyk/reflow/internal/help"
)

// page is one man page file.
type page struct {
	file string
	body string
}

// pages renders reflow.1 followed by one page per subcommand, history
// export and import included.
func pages(date string) []page {
	out := []page{{
		file: help.TopLevel.ManName() + ".1",
		body: help.FormatRoffTopLevel(help.TopLevel, help.Subcommands, date),
	}}
	for _, cmds := range [][]help.Command{help.Subcommands, help.HistorySubcommands} {
		for _, c := range cmds {
			out = append(out, page{file: c.ManName() + ".1", body: help.FormatRoff(c, date)})
		}
	}
	return out
}

func main() {
	dir := "man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal("%v", err)
	}

	ps := pages(help.ManDate(time.Now()))
	for _, p := range ps {
		path := filepath.Join(dir, p.file)
		if err := os.WriteFile(path, []byte(p.body), 0o644); err != nil {
			fatal("write %s: %v", path, err)
		}
		fmt.Printf("  %s\n", path)
	}
	fmt.Printf("%d pages\n", len(ps))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "gen-man: "+format+"\n", args...)
	os.Exit(1)
}
