package engine

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// continuationPunct are the non-alphanumeric characters that may appear on
// either side of a break inside a path, URL or identifier.
const continuationPunct = "/-_.:~@"

// joinParagraph joins trimmed paragraph lines into one line, choosing a
// separator at each break.
func joinParagraph(lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0]
	}

	var b strings.Builder
	b.WriteString(lines[0])
	for i := 1; i < len(lines); i++ {
		if !joinWithoutSpace(lines[i-1], lines[i]) {
			b.WriteByte(' ')
		}
		b.WriteString(lines[i])
	}
	return b.String()
}

// joinWithoutSpace reports whether prev and next were split mid-token, as
// happens when a terminal wraps a long path, URL or identifier.
func joinWithoutSpace(prev, next string) bool {
	last := lastGrapheme(prev)
	first := firstGrapheme(next)
	if last == "" || first == "" {
		return false
	}

	if !isContinuation(last) || !isContinuation(first) {
		return false
	}

	combined := prev + next

	looksLikePath := strings.Contains(combined, "/") &&
		(strings.HasPrefix(combined, "/") ||
			strings.HasPrefix(combined, "./") ||
			strings.HasPrefix(combined, "../") ||
			strings.Contains(combined, "://"))
	looksLikeURL := strings.Contains(combined, "://") || strings.HasPrefix(combined, "www.")
	looksLikeToken := !strings.Contains(prev, " ") && !strings.Contains(next, " ")

	return looksLikePath || looksLikeURL || looksLikeToken
}

// isContinuation reports whether every code point of the grapheme is a
// letter, mark, number or one of continuationPunct.
func isContinuation(grapheme string) bool {
	for _, r := range grapheme {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) {
			continue
		}
		if strings.ContainsRune(continuationPunct, r) {
			continue
		}
		return false
	}
	return true
}

func firstGrapheme(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

func lastGrapheme(s string) string {
	var last string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		last = g.Str()
	}
	return last
}
