package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/suykerbuyk/reflow/internal/check"
	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/help"
	"github.com/suykerbuyk/reflow/internal/stats"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("reflow: ")

	// With no command, or only flags, reflow runs fix.
	cmd, args := "fix", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch {
	case cmd == "help":
		runHelp(args)
		return
	case cmd == "fix" && len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h"):
		usage(os.Stdout)
		return
	case hasFlag(args, "--help", "-h"):
		name := cmd
		if cmd == "history" && len(args) > 0 && (args[0] == "export" || args[0] == "import") {
			name += " " + args[0]
		}
		runHelp([]string{name})
		return
	case cmd == "version":
		fmt.Printf("reflow v%s\n", help.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	switch cmd {
	case "fix":
		runFix(cfg, args)

	case "width":
		runWidth(args)

	case "detect":
		runDetect(cfg, args)

	case "watch":
		runWatch(cfg, args)

	case "history":
		runHistory(cfg, args)

	case "stats":
		runStats(cfg, args)

	case "check":
		report := check.Run(cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}

	case "init":
		runInit(args)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage(os.Stderr)
		os.Exit(1)
	}
}

func runHelp(args []string) {
	if len(args) == 0 {
		usage(os.Stdout)
		return
	}
	c, ok := help.Lookup(strings.Join(args, " "))
	if !ok {
		fatal("no help for %q", strings.Join(args, " "))
	}
	fmt.Print(help.FormatTerminal(c))
}

func usage(w *os.File) {
	fmt.Fprint(w, help.FormatUsage(help.TopLevel, help.Subcommands))
}

func runStats(cfg config.Config, args []string) {
	if _, unknown := statsFlags.parse(args); unknown != "" {
		fatal("stats: unknown flag %s", unknown)
	}

	st, err := openState(cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	switch {
	case hasFlag(args, "--reset"):
		err = st.stats.ResetAllTime()
	case hasFlag(args, "--reset-session"):
		err = st.stats.ResetSession()
	}
	if err != nil {
		fatal("reset stats: %v", err)
	}

	fmt.Print(stats.Format(st.stats.Snapshot()))
}

func runInit(args []string) {
	if _, unknown := initFlags.parse(args); unknown != "" {
		fatal("init: unknown flag %s", unknown)
	}

	stateDir := flagValue(args, "--state-dir")
	if stateDir != "" {
		abs, err := absPath(stateDir)
		if err != nil {
			fatal("%v", err)
		}
		stateDir = abs
	}

	path, action, err := config.WriteDefault(stateDir)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s %s\n", action, config.CompressHome(path))
}

var (
	statsFlags = flagSet{bools: []string{"--reset", "--reset-session"}}
	initFlags  = flagSet{values: []string{"--state-dir"}}
)

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "reflow: "+format+"\n", args...)
	os.Exit(1)
}
