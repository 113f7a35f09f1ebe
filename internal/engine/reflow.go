package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// Reflow rejoins hard-wrapped lines into logical lines. Structural lines
// (fences and their contents, blanks, lists, indented code, markdown blocks,
// custom patterns) pass through verbatim; runs of other lines are joined.
//
// Reflow never fails. Custom patterns that do not compile are skipped.
func Reflow(text string, opts Options) Result {
	patterns := compilePatterns(opts.CustomPatterns)

	var (
		out         []string
		paragraph   []string
		linesJoined int
		inFence     bool
	)

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		out = append(out, joinParagraph(paragraph))
		linesJoined += len(paragraph) - 1
		paragraph = paragraph[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := trimHorizontal(line)

		if opts.MarkdownAware && isFenceDelimiter(trimmed) {
			flush()
			out = append(out, line)
			inFence = !inFence
			continue
		}

		if inFence {
			out = append(out, line)
			continue
		}

		if trimmed == "" {
			flush()
			out = append(out, "")
			continue
		}

		if shouldPreserve(line, trimmed, opts, patterns) {
			flush()
			out = append(out, line)
			continue
		}

		paragraph = append(paragraph, trimmed)
	}
	flush()

	paragraphs := 0
	for _, l := range out {
		if l != "" {
			paragraphs++
		}
	}

	return Result{
		Original:           text,
		Reflowed:           strings.Join(out, "\n"),
		LinesJoined:        linesJoined,
		ParagraphsDetected: paragraphs,
	}
}

func isFenceDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// trimHorizontal strips tabs and space separators from both ends. Other
// control characters, including a stray \r, are kept.
func trimHorizontal(s string) string {
	return strings.TrimFunc(s, isHorizontalSpace)
}

func isHorizontalSpace(r rune) bool {
	return r == '\t' || unicode.Is(unicode.Zs, r)
}

// compilePatterns compiles each pattern once, dropping the invalid ones.
func compilePatterns(patterns []string) []*regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// PatternError describes a custom pattern that Reflow will ignore.
type PatternError struct {
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return "invalid pattern " + e.Pattern + ": " + e.Err.Error()
}

// ValidatePatterns reports every pattern that fails to compile. Reflow
// itself silently skips these; this exists so callers can warn about them.
func ValidatePatterns(patterns []string) []PatternError {
	var errs []PatternError
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, PatternError{Pattern: p, Err: err})
		}
	}
	return errs
}
