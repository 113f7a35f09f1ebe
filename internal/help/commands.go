package help

import "strings"

// Version is the reflow release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--stats" or "--app <id>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "file" or "n"
	Desc     string
	Optional bool
}

// Command describes a reflow subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "fix", "history", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "reflow width [-f file]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "reflow(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "reflow" for top-level, "reflow-<name>"
// for subs. Spaces in Name become hyphens ("history export" → "reflow-history-export").
func (c Command) ManName() string {
	if c.Name == "" {
		return "reflow"
	}
	return "reflow-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level reflow command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "unwrap hard-wrapped terminal text",
}

var CmdFix = Command{
	Name:       "fix",
	Synopsis:   "reflow text from a file or stdin",
	Brief:      "Reflow text (the default command)",
	Usage:      "reflow fix [-f file] [-a level] [flags]",
	TableUsage: "reflow [fix] [-f file] [...]",
	Flags: []Flag{
		{Name: "-f, --file <path>", Desc: "Read input from a file (default: stdin)"},
		{Name: "-a, --aggressiveness <level>", Desc: "conservative, normal or aggressive (default: config)"},
		{Name: "--no-markdown", Desc: "Do not preserve headers, quotes, tables and fences"},
		{Name: "--pattern <re>", Desc: "Never join lines matching re (repeatable)"},
		{Name: "-s, --stats", Desc: "Print transformation statistics to stderr"},
		{Name: "--strip-ansi", Desc: "Remove ANSI escape sequences first"},
		{Name: "--screen", Desc: "Replay the input through a virtual terminal first"},
		{Name: "--cols <n>", Desc: "Terminal width for --screen (default: 80)"},
		{Name: "--app <id>", Desc: "Apply the capture rules for this source app"},
		{Name: "--force", Desc: "Reflow regardless of source, at force_aggressiveness"},
		{Name: "--analyze-width", Desc: "Print width analysis instead of reflowing"},
		{Name: "--check-terminal", Desc: "Print yes/no terminal classification instead"},
	},
	Description: `Joins lines that a terminal hard-wrapped back into paragraphs while
keeping intentional structure: blank lines, indented blocks, list items,
code fences and (with markdown awareness) headers, quotes and tables.
The reflowed text is printed without a trailing newline.

Without --app the text is always reflowed. With --app the source rules
apply: terminals are reflowed, editors with integrated terminals only
when the text looks like terminal output, anything else is left alone
unless --force is given.

Every run is recorded in history and counted in stats.`,
	Examples: []string{
		"pbpaste | reflow                           Reflow the clipboard",
		"reflow -f build.log -a aggressive          Join everything that can be joined",
		"reflow --pattern '^NOTE:' -f notes.txt     Keep NOTE: lines on their own",
		"reflow --screen --cols 120 -f typescript   Render a raw capture, then reflow",
	},
	SeeAlso: []string{"reflow(1)", "reflow-width(1)", "reflow-detect(1)"},
}

var CmdWidth = Command{
	Name:     "width",
	Synopsis: "detect the terminal width text was wrapped at",
	Brief:    "Detect the wrap width of the input",
	Usage:    "reflow width [-f file]",
	Flags: []Flag{
		{Name: "-f, --file <path>", Desc: "Read input from a file (default: stdin)"},
	},
	Description: `Compares line lengths against common terminal widths (80, 120, 132,
100, 160) and reports the best match when at least 30% of the lines
end within two characters of it. Needs three or more non-empty lines.`,
	SeeAlso: []string{"reflow(1)", "reflow-fix(1)"},
}

var CmdDetect = Command{
	Name:     "detect",
	Synopsis: "classify text as terminal output",
	Brief:    "Say whether the input looks like terminal output",
	Usage:    "reflow detect [-f file] [--app <id>]",
	Flags: []Flag{
		{Name: "-f, --file <path>", Desc: "Read input from a file (default: stdin)"},
		{Name: "--app <id>", Desc: "Also show how text from this app would be handled"},
	},
	Description: `Prints yes or no. The verdict is based on content alone: wrap width,
shell prompts, filesystem paths and compiler or log diagnostics.

With --app, the app's classification and the capture decision are
printed as well.`,
	Examples: []string{
		"make 2>&1 | reflow detect",
		"reflow detect -f out.txt --app com.microsoft.VSCode",
	},
	SeeAlso: []string{"reflow(1)", "reflow-fix(1)"},
}

var CmdWatch = Command{
	Name:       "watch",
	Synopsis:   "reflow a file every time it changes",
	Brief:      "Reflow a file whenever it changes",
	Usage:      "reflow watch <file> [--app <id>] [--in-place]",
	TableUsage: "reflow watch <file> [...]",
	Args: []Arg{
		{Name: "file", Desc: "File to watch"},
	},
	Flags: []Flag{
		{Name: "--app <id>", Desc: "Treat changes as copied from this app (default: a terminal)"},
		{Name: "--in-place", Desc: "Write the result back to the file instead of stdout"},
	},
	Description: `Watches the file for changes and runs each new version through the
capture pipeline, as if it had just been copied from a terminal.
Changes are processed after a short delay (watch.debounce_ms) so
editors that write in several steps are handled once.

With --in-place (or watch.in_place) the reflowed text replaces the
file contents; reflow ignores the change caused by its own write.

Starting a watch resets the session statistics. Stop with Ctrl-C.`,
	Examples: []string{
		"reflow watch /tmp/clip.txt",
		"reflow watch notes.txt --in-place",
	},
	SeeAlso: []string{"reflow(1)", "reflow-fix(1)", "reflow-stats(1)"},
}

var CmdHistory = Command{
	Name:       "history",
	Synopsis:   "browse and manage reflow history",
	Brief:      "Browse and manage reflow history",
	Usage:      "reflow history [list | search <query> | show <n> | get <n> | pin <n> | rm <n> | clear | export | import]",
	TableUsage: "reflow history [list | ...]",
	Flags: []Flag{
		{Name: "--reflow", Desc: "With get, print the item reflowed"},
	},
	Description: `Keeps the most recent inputs (history.max_items, default 10) in the
state database. Pinned items are never evicted and sort first.
Items are numbered from 1, newest first.

Subcommands:
  list             Show history (the default)
  search <query>   Show items matching query (fuzzy when nothing matches)
  show <n>         Show item n with its metadata
  get <n>          Print item n as stored
  pin <n>          Pin or unpin item n
  rm <n>           Remove item n
  clear            Remove every item
  export [path]    Write history to a zstd JSON-lines archive
  import <path>    Merge an archive into history`,
	Examples: []string{
		"reflow history",
		"reflow history search npm",
		"reflow history get 2 --reflow | pbcopy",
	},
	SeeAlso: []string{"reflow(1)", "reflow-history-export(1)", "reflow-history-import(1)"},
}

var CmdStats = Command{
	Name:       "stats",
	Synopsis:   "show how much reflow has joined",
	Brief:      "Show reflow statistics",
	Usage:      "reflow stats [--reset-session | --reset]",
	TableUsage: "reflow stats [--reset]",
	Flags: []Flag{
		{Name: "--reset-session", Desc: "Reset the session counters first"},
		{Name: "--reset", Desc: "Reset all counters first"},
	},
	Description: `Prints lines joined and pastes reflowed for the current session and
all time. A session starts with reflow watch or --reset-session.`,
	SeeAlso: []string{"reflow(1)", "reflow-watch(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, state and patterns",
	Brief:    "Validate config, state and patterns",
	Usage:    "reflow check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - State directory
  - History database and size
  - History item count
  - Custom patterns compile
  - Aggressiveness settings are known

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"reflow(1)", "reflow-init(1)"},
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config file",
	Usage:    "reflow init [--state-dir <path>]",
	Flags: []Flag{
		{Name: "--state-dir <path>", Desc: "Where history is stored (default: ~/.local/state/reflow)"},
	},
	Description: `Writes a commented config.toml to ~/.config/reflow/. An existing file
is left alone, except that --state-dir updates its state_dir setting.`,
	SeeAlso: []string{"reflow(1)", "reflow-check(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "reflow version",
	SeeAlso:  []string{"reflow(1)"},
}

var CmdHistoryExport = Command{
	Name:     "history export",
	Synopsis: "write history to an archive",
	Brief:    "Write history to an archive",
	Usage:    "reflow history export [path]",
	Args: []Arg{
		{Name: "path", Desc: "Archive path (default: <state_dir>/history.jsonl.zst)", Optional: true},
	},
	Description: `Writes every history item as one JSON object per line. The file is
zstd-compressed when path ends in .zst. The archive is written to a
temporary file and renamed into place.`,
	SeeAlso: []string{"reflow(1)", "reflow-history(1)", "reflow-history-import(1)"},
}

var CmdHistoryImport = Command{
	Name:     "history import",
	Synopsis: "merge an archive into history",
	Brief:    "Merge an archive into history",
	Usage:    "reflow history import <path>",
	Args: []Arg{
		{Name: "path", Desc: "Archive written by reflow history export"},
	},
	Description: `Reads an archive and merges its items into history. Items whose
content is already present are combined: copy counts add up and the
newest copy time wins. The result is trimmed to history.max_items,
keeping pinned items.`,
	SeeAlso: []string{"reflow(1)", "reflow-history(1)", "reflow-history-export(1)"},
}

// HistorySubcommands is the ordered list of history sub-subcommands with
// their own man pages.
var HistorySubcommands = []Command{
	CmdHistoryExport,
	CmdHistoryImport,
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdFix,
	CmdWidth,
	CmdDetect,
	CmdWatch,
	CmdHistory,
	CmdStats,
	CmdCheck,
	CmdInit,
	CmdVersion,
}

// Lookup returns the subcommand (or history sub-subcommand) with the given name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	for _, c := range HistorySubcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
