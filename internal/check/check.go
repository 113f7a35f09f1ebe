package check

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/engine"
	"github.com/suykerbuyk/reflow/internal/registry"
	"github.com/suykerbuyk/reflow/internal/store"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "reflow check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("reflow check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file is in effect. Broken TOML is caught
// when the config is loaded, before we get here.
func CheckConfig() Result {
	if p := config.Path(); p != "" {
		return Result{Name: "config", Status: Pass, Detail: config.CompressHome(p)}
	}
	return Result{Name: "config", Status: Warn, Detail: "no config.toml, using defaults (run `reflow init`)"}
}

// CheckStateDir checks whether the state directory exists.
func CheckStateDir(stateDir string) Result {
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		return Result{Name: "state", Status: Pass, Detail: config.CompressHome(stateDir)}
	}
	return Result{Name: "state", Status: Warn, Detail: config.CompressHome(stateDir) + " not found (created on first use)"}
}

// CheckDatabase inspects the history database and reports its size and
// item count. The file is opened read-only: a missing database or an
// outdated schema is only a warning, and nothing is migrated here.
func CheckDatabase(path string) (Result, int) {
	fi, err := os.Stat(path)
	if err != nil {
		return Result{Name: "database", Status: Warn, Detail: "reflow.db not created yet"}, 0
	}

	info, err := store.Inspect(path)
	if err != nil {
		return Result{Name: "database", Status: Fail, Detail: err.Error()}, 0
	}
	if !info.Current {
		detail := fmt.Sprintf("reflow.db schema v%d is outdated (history resets on next use)", info.SchemaVersion)
		return Result{Name: "database", Status: Warn, Detail: detail}, 0
	}

	detail := fmt.Sprintf("reflow.db (%s)", humanize.Bytes(uint64(fi.Size())))
	return Result{Name: "database", Status: Pass, Detail: detail}, info.Items
}

// CheckHistory reports how full the history is.
func CheckHistory(hcfg config.HistoryConfig, count int) Result {
	if !hcfg.Enabled {
		return Result{Name: "history", Status: Pass, Detail: "disabled"}
	}
	detail := fmt.Sprintf("%d of %d items", count, hcfg.MaxItems)
	if hcfg.Compress {
		detail += ", zstd"
	}
	return Result{Name: "history", Status: Pass, Detail: detail}
}

// CheckPatterns compiles every custom pattern. Each invalid one is reported
// separately; Reflow ignores them.
func CheckPatterns(patterns []string) []Result {
	if len(patterns) == 0 {
		return []Result{{Name: "patterns", Status: Pass, Detail: "none"}}
	}

	invalid := engine.ValidatePatterns(patterns)
	if len(invalid) == 0 {
		return []Result{{Name: "patterns", Status: Pass, Detail: fmt.Sprintf("%d custom", len(patterns))}}
	}

	results := make([]Result, 0, len(invalid))
	for _, pe := range invalid {
		results = append(results, Result{Name: "patterns", Status: Warn, Detail: pe.Error() + " (ignored)"})
	}
	return results
}

// CheckSources reports how many source applications are recognized.
func CheckSources() Result {
	detail := fmt.Sprintf("%d terminals, %d mixed-source apps",
		len(registry.Terminals()), len(registry.MixedSourceApps()))
	return Result{Name: "sources", Status: Pass, Detail: detail}
}

// CheckAggressiveness validates both aggressiveness settings. Unknown
// values fall back to normal, so they only warn.
func CheckAggressiveness(cfg config.Config) Result {
	var bad []string
	level, err := engine.ParseAggressiveness(cfg.Reflow.Aggressiveness)
	if err != nil {
		bad = append(bad, fmt.Sprintf("reflow.aggressiveness %q", cfg.Reflow.Aggressiveness))
	}
	forced, err := engine.ParseAggressiveness(cfg.Auto.ForceAggressiveness)
	if err != nil {
		bad = append(bad, fmt.Sprintf("auto.force_aggressiveness %q", cfg.Auto.ForceAggressiveness))
	}

	if len(bad) > 0 {
		return Result{
			Name:   "aggressiveness",
			Status: Warn,
			Detail: "unknown " + strings.Join(bad, ", ") + "; using normal",
		}
	}
	return Result{
		Name:   "aggressiveness",
		Status: Pass,
		Detail: fmt.Sprintf("%s (forced: %s)", level, forced),
	}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckStateDir(cfg.StateDirPath()))

	dbResult, count := CheckDatabase(cfg.DBPath())
	results = append(results, dbResult)
	results = append(results, CheckHistory(cfg.History, count))

	results = append(results, CheckPatterns(cfg.Reflow.CustomPatterns)...)
	results = append(results, CheckAggressiveness(cfg))
	results = append(results, CheckSources())

	return Report{Results: results}
}
