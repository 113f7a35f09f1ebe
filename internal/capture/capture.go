// Package capture decides whether captured text should be reflowed, based
// on where it came from and what it looks like, and records the outcome in
// history and statistics.
package capture

import (
	"fmt"

	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/engine"
	"github.com/suykerbuyk/reflow/internal/history"
	"github.com/suykerbuyk/reflow/internal/registry"
	"github.com/suykerbuyk/reflow/internal/sanitize"
	"github.com/suykerbuyk/reflow/internal/stats"
)

// Reasons a capture was left alone.
const (
	ReasonDisabled    = "auto reflow disabled"
	ReasonNotTerminal = "not from a terminal"
	ReasonUnchanged   = "nothing to reflow"
)

// Decision is the outcome of Decide.
type Decision struct {
	Text   string // input with line endings normalized
	Source registry.Source
	Forced bool

	// Ran is set when the engine was run; Result is only meaningful then.
	Ran    bool
	Result engine.Result

	// Reason explains why the text was left as is; empty when reflowed.
	Reason string
}

// Transformed reports whether the reflowed text differs from the input.
func (d Decision) Transformed() bool {
	return d.Ran && d.Result.WasTransformed()
}

// Output returns the text to hand back: reflowed when it changed, the
// normalized input otherwise.
func (d Decision) Output() string {
	if d.Transformed() {
		return d.Result.Reflowed
	}
	return d.Text
}

// Decide applies the capture rules to text copied from src:
//   - with auto reflow off, only a forced capture is processed;
//   - a forced capture uses auto.force_aggressiveness;
//   - text from a terminal is always processed;
//   - text from a mixed-source app is processed if it looks like terminal
//     output;
//   - anything else is left alone.
func Decide(text string, src registry.Source, cfg config.Config, force bool) Decision {
	d := Decision{
		Text:   sanitize.NormalizeLineEndings(text),
		Source: src,
		Forced: force,
	}

	if !cfg.Auto.Enabled && !force {
		d.Reason = ReasonDisabled
		return d
	}

	var opts engine.Options
	switch {
	case force:
		opts = cfg.ForcedOptions()
	case src.Terminal:
		opts = cfg.Options()
	case src.MixedSource && engine.LooksLikeTerminalOutput(d.Text):
		opts = cfg.Options()
	default:
		d.Reason = ReasonNotTerminal
		return d
	}

	d.Ran = true
	d.Result = engine.Reflow(d.Text, opts)
	if !d.Result.WasTransformed() {
		d.Reason = ReasonUnchanged
	}
	return d
}

// Pipeline runs captures and records them. History and Stats may be nil.
type Pipeline struct {
	Config  config.Config
	History *history.Manager
	Stats   *stats.Tracker
}

// Process decides what to do with text, remembers the original in history
// and counts a paste when the text was reflowed. The Decision is valid even
// when recording fails.
func (p *Pipeline) Process(text string, src registry.Source, force bool) (Decision, error) {
	d := Decide(text, src, p.Config, force)
	return d, p.record(d.Text, src, d.Transformed(), d.Result.LinesJoined)
}

// Apply reflows text with explicit options, bypassing the source rules, and
// records it like Process does.
func (p *Pipeline) Apply(text string, opts engine.Options, src registry.Source) (engine.Result, error) {
	res := engine.Reflow(text, opts)
	return res, p.record(text, src, res.WasTransformed(), res.LinesJoined)
}

func (p *Pipeline) record(text string, src registry.Source, transformed bool, linesJoined int) error {
	if p.History != nil {
		if _, err := p.History.Add(text, src); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
	}
	if transformed && p.Stats != nil {
		if err := p.Stats.RecordPaste(linesJoined); err != nil {
			return fmt.Errorf("record stats: %w", err)
		}
	}
	return nil
}
