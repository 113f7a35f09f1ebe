package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/reflow/internal/engine"
)

// Config holds all reflow configuration.
type Config struct {
	StateDir string `toml:"state_dir"`

	Reflow  ReflowConfig  `toml:"reflow"`
	Auto    AutoConfig    `toml:"auto"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

type ReflowConfig struct {
	Aggressiveness string   `toml:"aggressiveness"`
	MarkdownAware  bool     `toml:"markdown_aware"`
	CustomPatterns []string `toml:"custom_patterns"`
}

// AutoConfig controls reflowing of captured text (fix --app, watch).
type AutoConfig struct {
	Enabled               bool   `toml:"enabled"`
	ForceAggressiveness   string `toml:"force_aggressiveness"`
	ShowOnlyTerminalItems bool   `toml:"show_only_terminal_items"`
}

type HistoryConfig struct {
	Enabled  bool `toml:"enabled"`
	MaxItems int  `toml:"max_items"`
	Compress bool `toml:"compress"`
}

type WatchConfig struct {
	DebounceMS int  `toml:"debounce_ms"`
	InPlace    bool `toml:"in_place"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	opts := engine.DefaultOptions()
	return Config{
		StateDir: "",
		Reflow: ReflowConfig{
			Aggressiveness: opts.Aggressiveness.String(),
			MarkdownAware:  opts.MarkdownAware,
			CustomPatterns: []string{},
		},
		Auto: AutoConfig{
			Enabled:               true,
			ForceAggressiveness:   "aggressive",
			ShowOnlyTerminalItems: false,
		},
		History: HistoryConfig{
			Enabled:  true,
			MaxItems: 10,
			Compress: true,
		},
		Watch: WatchConfig{
			DebounceMS: 80,
			InPlace:    false,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if p := Path(); p != "" {
		if _, err := toml.DecodeFile(p, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
	}

	cfg.StateDir = expandHome(cfg.StateDir)
	if cfg.History.MaxItems < 1 {
		cfg.History.MaxItems = 1
	}
	if cfg.Watch.DebounceMS < 0 {
		cfg.Watch.DebounceMS = 0
	}

	return cfg, nil
}

// Path returns the first existing config file, or "" when none exists.
func Path() string {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "reflow", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "reflow", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// StateDirPath returns where the history database and exports live:
// state_dir if set, else $XDG_STATE_HOME/reflow, else ~/.local/state/reflow.
func (c Config) StateDirPath() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "reflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "reflow")
}

// DBPath returns the history database path inside the state directory.
func (c Config) DBPath() string {
	return filepath.Join(c.StateDirPath(), "reflow.db")
}

// Options converts the [reflow] section to engine options.
func (c Config) Options() engine.Options {
	return engine.Options{
		Aggressiveness: parseLevel("reflow.aggressiveness", c.Reflow.Aggressiveness),
		MarkdownAware:  c.Reflow.MarkdownAware,
		CustomPatterns: c.Reflow.CustomPatterns,
	}
}

// ForcedOptions is Options with the aggressiveness used for forced reflows.
func (c Config) ForcedOptions() engine.Options {
	opts := c.Options()
	opts.Aggressiveness = parseLevel("auto.force_aggressiveness", c.Auto.ForceAggressiveness)
	return opts
}

func parseLevel(key, value string) engine.Aggressiveness {
	level, err := engine.ParseAggressiveness(value)
	if err != nil {
		log.Printf("warning: %s: %v, using %s", key, err, level)
	}
	return level
}
