package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/suykerbuyk/reflow/internal/capture"
	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/engine"
	"github.com/suykerbuyk/reflow/internal/input"
	"github.com/suykerbuyk/reflow/internal/registry"
	"github.com/suykerbuyk/reflow/internal/sanitize"
	"github.com/suykerbuyk/reflow/internal/screen"
)

var (
	inputValues = []string{"-f", "--file", "--cols"}
	inputBools  = []string{"--screen", "--strip-ansi"}

	fixFlags = flagSet{
		bools: append([]string{
			"--no-markdown", "-s", "--stats", "--force",
			"--analyze-width", "--check-terminal",
		}, inputBools...),
		values: append([]string{"-a", "--aggressiveness", "--pattern", "--app"}, inputValues...),
	}
	widthFlags  = flagSet{bools: inputBools, values: inputValues}
	detectFlags = flagSet{bools: append([]string{"--force"}, inputBools...), values: append([]string{"--app"}, inputValues...)}
)

func runFix(cfg config.Config, args []string) {
	if _, unknown := fixFlags.parse(args); unknown != "" {
		fatal("fix: unknown flag %s", unknown)
	}

	text := readInput(args)

	if hasFlag(args, "--analyze-width") {
		printWidth(os.Stdout, engine.AnalyzeWidth(text))
		return
	}
	if hasFlag(args, "--check-terminal") {
		fmt.Println(yesNo(engine.LooksLikeTerminalOutput(text)))
		return
	}

	cfg = applyOverrides(cfg, args)
	for _, pe := range engine.ValidatePatterns(cfg.Reflow.CustomPatterns) {
		log.Printf("warning: %v (ignored)", pe)
	}

	st := tryOpenState(cfg)
	defer st.Close()
	p := st.pipeline(cfg)
	force := hasFlag(args, "--force")

	var (
		res    engine.Result
		out    string
		reason string
		err    error
	)
	if app := flagValue(args, "--app"); app != "" {
		var d capture.Decision
		d, err = p.Process(text, registry.Lookup(app, ""), force)
		res, out, reason = d.Result, d.Output(), d.Reason
	} else {
		opts := cfg.Options()
		if force {
			opts = cfg.ForcedOptions()
		}
		res, err = p.Apply(sanitize.NormalizeLineEndings(text), opts, registry.Source{Name: inputName(args)})
		out = res.Reflowed
	}
	if err != nil {
		log.Printf("warning: %v", err)
	}

	fmt.Print(out)

	if hasFlag(args, "--stats", "-s") {
		printStats(os.Stderr, res, reason)
	}
}

func runWidth(args []string) {
	if _, unknown := widthFlags.parse(args); unknown != "" {
		fatal("width: unknown flag %s", unknown)
	}
	printWidth(os.Stdout, engine.AnalyzeWidth(readInput(args)))
}

func runDetect(cfg config.Config, args []string) {
	if _, unknown := detectFlags.parse(args); unknown != "" {
		fatal("detect: unknown flag %s", unknown)
	}

	text := readInput(args)
	fmt.Println(yesNo(engine.LooksLikeTerminalOutput(text)))

	app := flagValue(args, "--app")
	if app == "" {
		return
	}
	src := registry.Lookup(app, "")
	d := capture.Decide(text, src, cfg, hasFlag(args, "--force"))

	fmt.Printf("%-10s %s (%s)\n", "source:", src.DisplayName(), sourceKind(src))
	if d.Transformed() {
		fmt.Printf("%-10s reflow (%d lines joined)\n", "decision:", d.Result.LinesJoined)
	} else {
		fmt.Printf("%-10s skip (%s)\n", "decision:", d.Reason)
	}
}

// readInput reads -f or stdin and applies --screen or --strip-ansi.
func readInput(args []string) string {
	text, err := input.Read(flagValue(args, "-f", "--file"), os.Stdin)
	if errors.Is(err, input.ErrNoInput) {
		fatal("%v (pipe text in or use -f <file>)", err)
	}
	if err != nil {
		fatal("%v", err)
	}

	switch {
	case hasFlag(args, "--screen"):
		cols, err := intFlag(args, "--cols", screen.DefaultCols)
		if err != nil {
			fatal("--cols: %v", err)
		}
		return screen.Render(text, cols)
	case hasFlag(args, "--strip-ansi"):
		return sanitize.Clean(text)
	}
	return text
}

// inputName names where fix read its text, for history.
func inputName(args []string) string {
	if f := flagValue(args, "-f", "--file"); f != "" {
		return filepath.Base(f)
	}
	return "stdin"
}

// applyOverrides folds command-line reflow settings into cfg. An explicit
// level also applies to forced reflows.
func applyOverrides(cfg config.Config, args []string) config.Config {
	if level := flagValue(args, "-a", "--aggressiveness"); level != "" {
		if _, err := engine.ParseAggressiveness(level); err != nil {
			fatal("%v", err)
		}
		cfg.Reflow.Aggressiveness = level
		cfg.Auto.ForceAggressiveness = level
	}
	if hasFlag(args, "--no-markdown") {
		cfg.Reflow.MarkdownAware = false
	}
	if pats := flagValues(args, "--pattern"); len(pats) > 0 {
		merged := make([]string, 0, len(cfg.Reflow.CustomPatterns)+len(pats))
		merged = append(merged, cfg.Reflow.CustomPatterns...)
		cfg.Reflow.CustomPatterns = append(merged, pats...)
	}
	return cfg
}

func printWidth(w io.Writer, a engine.WidthAnalysis) {
	if a.DetectedWidth == nil {
		fmt.Fprintln(w, "No consistent terminal width detected")
		return
	}
	fmt.Fprintf(w, "Detected terminal width: %d columns\n", *a.DetectedWidth)
	fmt.Fprintf(w, "Confidence: %.1f%%\n", a.Confidence*100)
}

func printStats(w io.Writer, res engine.Result, reason string) {
	fmt.Fprint(w, "\n--- Statistics ---\n")
	fmt.Fprintf(w, "Lines joined: %d\n", res.LinesJoined)
	fmt.Fprintf(w, "Paragraphs: %d\n", res.ParagraphsDetected)
	fmt.Fprintf(w, "Transformed: %s\n", yesNo(res.WasTransformed()))
	if reason != "" {
		fmt.Fprintf(w, "Skipped: %s\n", reason)
	}
}

func sourceKind(src registry.Source) string {
	switch {
	case src.Terminal:
		return "terminal"
	case src.MixedSource:
		return "mixed-source"
	default:
		return "other"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
