// Package watch reflows a file each time it changes, the file-based
// counterpart of a clipboard monitor.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suykerbuyk/reflow/internal/capture"
	"github.com/suykerbuyk/reflow/internal/registry"
)

// Options configures a Watcher.
type Options struct {
	Source   registry.Source // where changes are treated as copied from
	Debounce time.Duration   // quiet period before a change is processed
	InPlace  bool            // write reflowed text back to the file
	Out      io.Writer       // receives reflowed text when not InPlace; nil discards

	// Report, if set, is called with every processed change. Changes caused
	// by the watcher's own in-place writes are not reported.
	Report func(capture.Decision)
}

// Watcher watches a single file. Its methods are not safe for concurrent use;
// Run owns the watcher until it returns.
type Watcher struct {
	path     string
	pipeline *capture.Pipeline
	opts     Options
	fsw      *fsnotify.Watcher

	// written is the content of our last in-place write. A change that
	// leaves the file holding exactly this is our own and is skipped.
	written string
}

// New starts watching path. The file's directory is watched rather than the
// file itself so that editors which replace the file on save keep working.
func New(path string, p *capture.Pipeline, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}

	return &Watcher{path: abs, pipeline: p, opts: opts, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops watching. Run calls it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run processes changes until ctx is cancelled or the underlying watcher
// fails. Bursts of events are collapsed: a change is processed once no
// further event has arrived for the debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Stop()
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if _, err := w.Process(); err != nil {
				log.Printf("warning: %v", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}

// relevant reports whether event is a content change to the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// Process reads the file once and runs it through the capture pipeline. It
// returns false when there was nothing to do: the file is blank or holds
// the result of our own last write.
func (w *Watcher) Process() (bool, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", w.path, err)
	}
	text := string(data)

	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	if w.written != "" && text == w.written {
		return false, nil
	}

	d, err := w.pipeline.Process(text, w.opts.Source, false)
	if err != nil {
		log.Printf("warning: %v", err)
	}

	if d.Transformed() {
		if err := w.emit(d.Output()); err != nil {
			return true, err
		}
	}

	if w.opts.Report != nil {
		w.opts.Report(d)
	}
	return true, nil
}

func (w *Watcher) emit(out string) error {
	if w.opts.InPlace {
		w.written = out
		if err := os.WriteFile(w.path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		return nil
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if _, err := io.WriteString(w.opts.Out, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
