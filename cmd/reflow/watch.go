package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/suykerbuyk/reflow/internal/capture"
	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/registry"
	"github.com/suykerbuyk/reflow/internal/watch"
)

var watchFlags = flagSet{bools: []string{"--in-place"}, values: []string{"--app"}}

func runWatch(cfg config.Config, args []string) {
	pos, unknown := watchFlags.parse(args)
	if unknown != "" {
		fatal("watch: unknown flag %s", unknown)
	}
	if len(pos) != 1 {
		fatal("usage: reflow watch <file> [--app <id>] [--in-place]")
	}
	path := pos[0]

	// Changes to the file count as terminal copies unless --app says otherwise.
	src := registry.Source{Name: filepath.Base(path), Terminal: true}
	if app := flagValue(args, "--app"); app != "" {
		src = registry.Lookup(app, "")
	}

	st := tryOpenState(cfg)
	defer st.Close()
	if st != nil {
		if err := st.stats.ResetSession(); err != nil {
			log.Printf("warning: reset session stats: %v", err)
		}
	}

	w, err := watch.New(path, st.pipeline(cfg), watch.Options{
		Source:   src,
		Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		InPlace:  cfg.Watch.InPlace || hasFlag(args, "--in-place"),
		Out:      os.Stdout,
		Report:   reportChange,
	})
	if err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("watching %s", config.CompressHome(w.Path()))
	if err := w.Run(ctx); err != nil {
		st.Close()
		fatal("%v", err)
	}
}

func reportChange(d capture.Decision) {
	if d.Transformed() {
		log.Printf("%s (%d lines joined)", capture.Summary(d.Result.Reflowed), d.Result.LinesJoined)
		return
	}
	log.Printf("skipped: %s", d.Reason)
}
