package engine

import "strings"

// Signal weights for LooksLikeTerminalOutput.
const (
	widthSignal  = 2
	promptSignal = 1
	pathSignal   = 1
	errorSignal  = 2

	terminalThreshold = 2
)

var pathFragments = []string{"/usr/", "/home/", "/var/", "/Users/", "/opt/"}

// LooksLikeTerminalOutput is a coarse classifier for copied text. It sums a
// handful of signals (consistent wrap width, shell prompts, filesystem paths,
// compiler or log messages) and reports true once they reach the threshold.
// Single-line input is never classified as terminal output.
func LooksLikeTerminalOutput(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}

	score := 0

	analysis := AnalyzeWidth(text)
	if analysis.DetectedWidth != nil && analysis.Confidence >= minWidthScore {
		score += widthSignal
	}
	if anyLine(lines, isPromptLine) {
		score += promptSignal
	}
	if anyLine(lines, hasPath) {
		score += pathSignal
	}
	if anyLine(lines, isDiagnosticLine) {
		score += errorSignal
	}

	return score >= terminalThreshold
}

func anyLine(lines []string, pred func(string) bool) bool {
	for _, line := range lines {
		if pred(line) {
			return true
		}
	}
	return false
}

// isPromptLine matches "$ cmd", "% cmd", "> cmd" and user@host:dir$ prompts.
func isPromptLine(line string) bool {
	if strings.HasPrefix(line, "$ ") || strings.HasPrefix(line, "% ") || strings.HasPrefix(line, "> ") {
		return true
	}
	return strings.Contains(line, "@") && strings.Contains(line, ":") &&
		(strings.Contains(line, "$") || strings.Contains(line, "%"))
}

func hasPath(line string) bool {
	for _, frag := range pathFragments {
		if strings.Contains(line, frag) {
			return true
		}
	}
	return strings.HasPrefix(line, "./") || strings.HasPrefix(line, "../")
}

// isDiagnosticLine matches compiler diagnostics and bracketed log prefixes.
func isDiagnosticLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "error:") || strings.Contains(lower, "warning:") || strings.Contains(lower, "fatal:") {
		return true
	}
	if strings.Contains(line, "]: ") {
		return true
	}
	return strings.HasPrefix(line, "[") && strings.Contains(line, "]")
}
