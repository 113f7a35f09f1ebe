package help

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const manual = "Reflow Manual"

// ManDate is the date stamped on generated pages: SOURCE_DATE_EPOCH when
// set to a valid Unix time, else now.
func ManDate(now time.Time) string {
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		if sec, err := strconv.ParseInt(epoch, 10, 64); err == nil {
			now = time.Unix(sec, 0)
		}
	}
	return now.UTC().Format("2006-01-02")
}

// FormatRoff renders a subcommand as a section 1 man page. An empty date
// means ManDate(time.Now()).
func FormatRoff(c Command, date string) string {
	var b strings.Builder
	header(&b, c.ManName(), date)
	fmt.Fprintf(&b, "%s \\- %s\n", c.ManName(), escapeRoff(c.Synopsis))

	b.WriteString(".SH SYNOPSIS\n")
	b.WriteString(".B " + escapeRoff(c.Usage) + "\n")

	if c.Description != "" {
		b.WriteString(".SH DESCRIPTION\n")
		paragraphs(&b, c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		b.WriteString(".SH OPTIONS\n")
		for _, a := range c.Args {
			fmt.Fprintf(&b, ".TP\n%s\n%s\n", argTag(a), escapeRoff(a.Desc))
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, ".TP\n%s\n%s\n", flagTag(f.Name), escapeRoff(f.Desc))
		}
	}

	if len(c.Examples) > 0 {
		b.WriteString(".SH EXAMPLES\n.nf\n")
		for _, e := range c.Examples {
			b.WriteString(".RS 4\n" + escapeRoff(e) + "\n.RE\n")
		}
		b.WriteString(".fi\n")
	}

	seeAlso(&b, c.SeeAlso)
	return b.String()
}

// FormatRoffTopLevel renders reflow.1: the command list plus the files and
// environment every subcommand shares.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	var b strings.Builder
	header(&b, top.ManName(), date)
	fmt.Fprintf(&b, "reflow \\- %s\n", escapeRoff(top.Synopsis))

	b.WriteString(".SH SYNOPSIS\n")
	b.WriteString(".B reflow\n.RI [ command ]\n.RI [ options ]\n")

	b.WriteString(".SH DESCRIPTION\n")
	b.WriteString(".B reflow\n")
	b.WriteString("joins lines that a terminal hard-wrapped back into paragraphs. Lists,\n")
	b.WriteString("indented blocks, code fences and markdown structure are left alone.\n")
	b.WriteString("Text is read from a file or standard input.\n")
	b.WriteString(".PP\n")
	b.WriteString("With no command,\n.B reflow\nruns\n.BR fix .\n")

	b.WriteString(".SH COMMANDS\n")
	for _, s := range subs {
		fmt.Fprintf(&b, ".TP\n.B \"%s\"\n%s\n", escapeRoff(s.tableUsage()), escapeRoff(s.Brief))
	}

	b.WriteString(".SH FILES\n")
	for _, f := range files {
		fmt.Fprintf(&b, ".TP\n.I %s\n%s\n", escapeRoff(f[0]), escapeRoff(f[1]))
	}

	b.WriteString(".SH ENVIRONMENT\n")
	for _, e := range environment {
		fmt.Fprintf(&b, ".TP\n.B %s\n%s\n", e[0], escapeRoff(e[1]))
	}

	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString("0 on success. 1 on a usage or input error, or when\n")
	b.WriteString(".B reflow check\nreports a failure.\n")

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	seeAlso(&b, refs)
	return b.String()
}

var files = [][2]string{
	{"~/.config/reflow/config.toml", "Settings, written by reflow init."},
	{"~/.local/state/reflow/reflow.db", "Clipboard history and statistics."},
	{"~/.local/state/reflow/history.jsonl.zst", "Default target of reflow history export."},
}

var environment = [][2]string{
	{"XDG_CONFIG_HOME", "Searched for reflow/config.toml before ~/.config."},
	{"XDG_STATE_HOME", "Holds reflow/ instead of ~/.local/state when state_dir is unset."},
}

// header writes the .TH line and opens the NAME section.
func header(b *strings.Builder, name, date string) {
	if date == "" {
		date = ManDate(time.Now())
	}
	fmt.Fprintf(b, ".TH %s 1 %q %q %q\n", strings.ToUpper(name), date, "reflow "+Version, manual)
	b.WriteString(".SH NAME\n")
}

// argTag is the .TP tag for a positional argument, bracketed if optional.
func argTag(a Arg) string {
	if a.Optional {
		return ".RI [ " + escapeRoff(a.Name) + " ]"
	}
	return ".I " + escapeRoff(a.Name)
}

// flagTag sets the flag in bold and its value placeholder, if any, in
// italics: "--app <id>" becomes .BI "\-\-app " <id>.
func flagTag(name string) string {
	flag, value, ok := strings.Cut(name, " <")
	if !ok {
		return ".B " + escapeRoff(name)
	}
	return fmt.Sprintf(".BI \"%s \" <%s", escapeRoff(flag), escapeRoff(value))
}

func seeAlso(b *strings.Builder, refs []string) {
	if len(refs) == 0 {
		return
	}
	b.WriteString(".SH SEE ALSO\n")
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = manRef(ref)
	}
	b.WriteString(strings.Join(out, ",\n") + "\n")
}

// escapeRoff protects text from roff: backslashes are doubled, a dot at the
// start of a line is neutralized and hyphens become \- so they render as
// minus signs and can be searched for.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// paragraphs writes description text, turning runs of blank lines into a
// single .PP.
func paragraphs(b *strings.Builder, text string) {
	blank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !blank {
				b.WriteString(".PP\n")
			}
			blank = true
			continue
		}
		blank = false
		b.WriteString(escapeRoff(line) + "\n")
	}
}

// manRef renders "reflow-width(1)" as .BR reflow\-width (1).
func manRef(ref string) string {
	name, section, ok := strings.Cut(ref, "(")
	if !ok {
		return ".B " + escapeRoff(ref)
	}
	return fmt.Sprintf(".BR %s (%s", escapeRoff(name), section)
}
