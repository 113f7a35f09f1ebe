// Package sanitize cleans captured terminal text before it is reflowed.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences (SGR colours, cursor movement, OSC
// titles and hyperlinks) from text. Control characters such as newlines and
// tabs are kept.
func StripANSI(text string) string {
	if !strings.ContainsRune(text, '\x1b') && !strings.ContainsRune(text, '\x9b') {
		return text
	}
	return ansi.Strip(text)
}

// NormalizeLineEndings converts Windows and classic Mac line endings to \n.
func NormalizeLineEndings(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Clean strips escape sequences and normalizes line endings.
func Clean(text string) string {
	return NormalizeLineEndings(StripANSI(text))
}
