package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suykerbuyk/reflow/internal/archive"
	"github.com/suykerbuyk/reflow/internal/capture"
	"github.com/suykerbuyk/reflow/internal/config"
	"github.com/suykerbuyk/reflow/internal/history"
)

func runHistory(cfg config.Config, args []string) {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	st, err := openState(cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()
	h := st.history
	now := time.Now()

	switch sub {
	case "list":
		fmt.Print(history.FormatList(visibleItems(cfg, h), now))

	case "search":
		if len(args) == 0 {
			fatal("usage: reflow history search <query>")
		}
		matches := make(map[string]bool)
		for _, it := range h.Filter(strings.Join(args, " ")) {
			matches[it.ID] = true
		}
		rows := history.Select(history.Number(visibleItems(cfg, h)), func(it history.Item) bool {
			return matches[it.ID]
		})
		fmt.Print(history.FormatRows(rows, now))

	case "show":
		_, it := itemArg(cfg, h, args, sub)
		fmt.Print(history.FormatItem(it, now))

	case "get":
		_, it := itemArg(cfg, h, args, sub)
		if !hasFlag(args, "--reflow") || !it.IsReflowCandidate() {
			fmt.Print(it.Content)
			return
		}
		// Reflowing from history counts as a paste but is not a new copy.
		p := &capture.Pipeline{Config: cfg, Stats: st.stats}
		res, err := p.Apply(it.Content, cfg.Options(), it.Source())
		if err != nil {
			fatal("%v", err)
		}
		fmt.Print(res.Reflowed)

	case "pin":
		n, it := itemArg(cfg, h, args, sub)
		pinned, err := h.TogglePin(it.ID)
		if err != nil {
			fatal("pin %d: %v", n, err)
		}
		if pinned {
			fmt.Printf("pinned %d\n", n)
		} else {
			fmt.Printf("unpinned %d\n", n)
		}

	case "rm":
		n, it := itemArg(cfg, h, args, sub)
		if err := h.Remove(it.ID); err != nil {
			fatal("rm %d: %v", n, err)
		}
		fmt.Printf("removed %d: %s\n", n, it.Preview())

	case "clear":
		n := h.Len()
		if err := h.Clear(); err != nil {
			fatal("clear history: %v", err)
		}
		fmt.Printf("cleared %d items\n", n)

	case "export":
		path := archive.DefaultPath(cfg.StateDirPath())
		if len(args) > 0 {
			path = args[0]
		}
		items := h.Items()
		if err := archive.Export(items, path); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("exported %d items to %s\n", len(items), config.CompressHome(path))

	case "import":
		if len(args) == 0 {
			fatal("usage: reflow history import <path>")
		}
		items, err := archive.Import(args[0])
		if err != nil {
			fatal("%v", err)
		}
		added, err := h.Merge(items)
		if err != nil {
			fatal("import: %v", err)
		}
		fmt.Printf("imported %d new items (%d in history)\n", added, h.Len())

	default:
		fatal("unknown history command: %s", sub)
	}
}

// visibleItems is the list the user sees and numbers refer to.
func visibleItems(cfg config.Config, h *history.Manager) []history.Item {
	items := h.Items()
	if !cfg.Auto.ShowOnlyTerminalItems {
		return items
	}
	var out []history.Item
	for _, it := range items {
		if it.IsReflowCandidate() {
			out = append(out, it)
		}
	}
	return out
}

// itemArg resolves the 1-based item number in args[0].
func itemArg(cfg config.Config, h *history.Manager, args []string, sub string) (int, history.Item) {
	if len(args) == 0 {
		fatal("usage: reflow history %s <n>", sub)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fatal("history %s: %q is not an item number", sub, args[0])
	}
	items := visibleItems(cfg, h)
	if n < 1 || n > len(items) {
		fatal("history %s: item %d: %v", sub, n, history.ErrNotFound)
	}
	return n, items[n-1]
}
