package engine

import (
	"regexp"
	"strings"
)

var numberedItemPattern = regexp.MustCompile(`^\p{Nd}+[.)][\s\p{Zs}]`)

var (
	listPrefixes     = []string{"- ", "* ", "• "}
	markdownPrefixes = []string{"#", ">", "|", "---", "***", "___"}
)

// shouldPreserve reports whether a line must be emitted verbatim instead of
// joining the current paragraph. Checks run in order; the first hit wins.
func shouldPreserve(line, trimmed string, opts Options, patterns []*regexp.Regexp) bool {
	// Indented content is treated as code.
	if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
		return true
	}

	if hasAnyPrefix(trimmed, listPrefixes) {
		return true
	}

	if numberedItemPattern.MatchString(trimmed) {
		return true
	}

	// Headers, blockquotes, table rows and rules.
	if opts.MarkdownAware && hasAnyPrefix(trimmed, markdownPrefixes) {
		return true
	}

	for _, re := range patterns {
		if re.MatchString(trimmed) {
			return true
		}
	}

	if opts.Aggressiveness == Conservative {
		if last := lastGrapheme(trimmed); last != "" && strings.Contains(".!?:", last) {
			return true
		}
	}

	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
