package engine

import (
	"fmt"
	"strings"
)

// Aggressiveness controls how readily ambiguous lines are joined.
type Aggressiveness int

const (
	Conservative Aggressiveness = iota
	Normal
	Aggressive
)

func (a Aggressiveness) String() string {
	switch a {
	case Conservative:
		return "conservative"
	case Normal:
		return "normal"
	case Aggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// DisplayName returns the capitalized label shown in reports.
func (a Aggressiveness) DisplayName() string {
	switch a {
	case Conservative:
		return "Conservative"
	case Normal:
		return "Normal"
	case Aggressive:
		return "Aggressive"
	default:
		return "Unknown"
	}
}

// ParseAggressiveness accepts "conservative", "normal" or "aggressive"
// (case-insensitive, surrounding whitespace ignored).
func ParseAggressiveness(s string) (Aggressiveness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservative":
		return Conservative, nil
	case "normal":
		return Normal, nil
	case "aggressive":
		return Aggressive, nil
	default:
		return Normal, fmt.Errorf("unknown aggressiveness %q (want conservative, normal or aggressive)", s)
	}
}

// Options configures a single Reflow call.
type Options struct {
	Aggressiveness Aggressiveness
	MarkdownAware  bool     // preserve headers, blockquotes, tables, rules and fences
	CustomPatterns []string // regular expressions; matching trimmed lines are kept verbatim
}

// DefaultOptions returns Normal aggressiveness with markdown awareness on.
func DefaultOptions() Options {
	return Options{
		Aggressiveness: Normal,
		MarkdownAware:  true,
	}
}

// Result is the outcome of a Reflow call.
type Result struct {
	Original           string
	Reflowed           string
	LinesJoined        int // line breaks removed across all paragraphs
	ParagraphsDetected int // non-empty output lines
}

// WasTransformed reports whether the reflowed text differs from the input.
func (r Result) WasTransformed() bool {
	return r.Original != r.Reflowed
}

// WidthAnalysis is the outcome of AnalyzeWidth.
type WidthAnalysis struct {
	DetectedWidth          *int // nil when no candidate width reached the floor
	Confidence             float64
	LineLengthDistribution map[int]int // line length -> occurrences
}
