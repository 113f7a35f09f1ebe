// Package registry classifies source applications by bundle identifier.
package registry

import "sort"

var terminals = map[string]string{
	"com.apple.Terminal":     "Terminal",
	"com.googlecode.iterm2":  "iTerm2",
	"com.mitchellh.ghostty":  "Ghostty",
	"dev.warp.Warp-Stable":   "Warp",
	"org.alacritty":          "Alacritty",
	"net.kovidgoyal.kitty":   "Kitty",
	"co.zeit.hyper":          "Hyper",
	"com.github.wez.wezterm": "WezTerm",
}

// Editors with integrated terminals. Their clipboard may hold either prose or
// terminal output, so content is inspected before reflowing.
var mixedSource = map[string]string{
	"com.microsoft.VSCode":          "VS Code",
	"com.todesktop.230313mzl4w4u92": "Cursor",
	"dev.zed.Zed":                   "Zed",
}

// IsTerminal reports whether id is a known terminal emulator. An empty id
// means the source is unknown and is never a terminal.
func IsTerminal(id string) bool {
	if id == "" {
		return false
	}
	_, ok := terminals[id]
	return ok
}

// IsMixedSource reports whether id is an editor with an integrated terminal.
func IsMixedSource(id string) bool {
	if id == "" {
		return false
	}
	_, ok := mixedSource[id]
	return ok
}

// Source describes the application text was copied from.
type Source struct {
	ID          string
	Name        string
	Terminal    bool
	MixedSource bool
}

// Lookup classifies id. When name is empty the registry's display name is
// used, if it has one.
func Lookup(id, name string) Source {
	if name == "" {
		name = KnownName(id)
	}
	return Source{
		ID:          id,
		Name:        name,
		Terminal:    IsTerminal(id),
		MixedSource: IsMixedSource(id),
	}
}

// KnownName returns the display name registered for id, or "".
func KnownName(id string) string {
	if n, ok := terminals[id]; ok {
		return n
	}
	return mixedSource[id]
}

// DisplayName returns the best label for the source.
func (s Source) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.ID != "":
		return s.ID
	default:
		return "Unknown"
	}
}

// Terminals returns the known terminal bundle identifiers, sorted.
func Terminals() []string {
	return sortedKeys(terminals)
}

// MixedSourceApps returns the mixed-source bundle identifiers, sorted.
func MixedSourceApps() []string {
	return sortedKeys(mixedSource)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
