package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/reflow/internal/capture"
	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/history"
	"github.com/suykerbuyk/reflow/internal/stats"
	"github.com/suykerbuyk/reflow/internal/store"
)

// state is the store-backed history and statistics of one run.
type state struct {
	db      *store.DB
	history *history.Manager
	stats   *stats.Tracker
}

func openState(cfg config.Config) (*state, error) {
	db, err := store.Open(cfg.DBPath(), cfg.History.Compress)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	h, err := history.Open(db, cfg.History.Enabled, cfg.History.MaxItems)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}
	s, err := stats.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return &state{db: db, history: h, stats: s}, nil
}

// tryOpenState is openState for commands that work without a store. Failure
// is a warning and the nil state records nothing.
func tryOpenState(cfg config.Config) *state {
	st, err := openState(cfg)
	if err != nil {
		log.Printf("warning: %v (history and stats not recorded)", err)
		return nil
	}
	return st
}

func (s *state) Close() {
	if s == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		log.Printf("warning: close db: %v", err)
	}
}

func (s *state) pipeline(cfg config.Config) *capture.Pipeline {
	p := &capture.Pipeline{Config: cfg}
	if s != nil {
		p.History = s.history
		p.Stats = s.stats
	}
	return p
}

// absPath expands a leading ~ and makes path absolute.
func absPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
