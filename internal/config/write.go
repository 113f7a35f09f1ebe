package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigDir returns the reflow config directory path.
// Uses $XDG_CONFIG_HOME/reflow if set, otherwise ~/.config/reflow.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reflow")
}

const defaultConfigTemplate = `# reflow configuration

# Where the history database and exports live.
# Empty means $XDG_STATE_HOME/reflow or ~/.local/state/reflow.
state_dir = %q

[reflow]
aggressiveness = "normal"    # conservative | normal | aggressive
markdown_aware = true
custom_patterns = []         # lines matching any of these are never joined

[auto]
enabled = true
force_aggressiveness = "aggressive"
show_only_terminal_items = false

[history]
enabled = true
max_items = 10
compress = true

[watch]
debounce_ms = 80
in_place = false
`

var stateDirLine = regexp.MustCompile(`(?m)^state_dir\s*=.*$`)

// WriteDefault writes a commented default config.toml and returns its path
// with the action taken: "created" for a new file, "updated" when an existing
// file's state_dir was changed to stateDir, or "unchanged". Other settings in
// an existing file are left as they are. An empty stateDir never updates.
func WriteDefault(stateDir string) (string, string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")
	portable := CompressHome(stateDir)

	if data, err := os.ReadFile(path); err == nil {
		content := string(data)
		if stateDir == "" {
			return path, "unchanged", nil
		}
		line := fmt.Sprintf("state_dir = %q", portable)

		var updated string
		if m := stateDirLine.FindString(content); m != "" {
			if m == line {
				return path, "unchanged", nil
			}
			updated = stateDirLine.ReplaceAllLiteralString(content, line)
		} else {
			updated = line + "\n\n" + content
		}

		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return "", "", fmt.Errorf("update config: %w", err)
		}
		return path, "updated", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create config dir: %w", err)
	}

	content := fmt.Sprintf(defaultConfigTemplate, portable)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write config: %w", err)
	}

	return path, "created", nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
