// Package history keeps a short, deduplicated list of recently captured
// text. Pinned items are never trimmed.
package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/suykerbuyk/reflow/internal/registry"
)

// ErrNotFound is returned when an item ID is not in the history.
var ErrNotFound = errors.New("history item not found")

// Store persists the item list. UpdateItems passes fn the stored items and
// atomically replaces them with fn's result; an error from fn stores nothing.
type Store interface {
	ListItems() ([]Item, error)
	UpdateItems(fn func(items []Item) ([]Item, error)) error
}

// Manager keeps a view of the history. Every change is applied to the list
// as currently stored, so changes made by another process since Open are
// kept. A nil Store keeps history in memory only.
type Manager struct {
	store    Store
	enabled  bool
	maxItems int
	items    []Item

	now func() time.Time
}

// Open loads the stored history. maxItems below 1 is treated as 1.
func Open(store Store, enabled bool, maxItems int) (*Manager, error) {
	if maxItems < 1 {
		maxItems = 1
	}
	m := &Manager{
		store:    store,
		enabled:  enabled,
		maxItems: maxItems,
		now:      time.Now,
	}
	if store != nil {
		items, err := store.ListItems()
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		m.items = items
		m.sort()
	}
	return m, nil
}

// Items returns a copy of the history, pinned first then most recent first.
func (m *Manager) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) Len() int { return len(m.items) }

// Add records a copy of text from src. It does nothing when history is
// disabled or text is blank. Copying the same content again bumps its
// LastCopy and CopyCount. Returns whether the history changed.
func (m *Manager) Add(text string, src registry.Source) (bool, error) {
	if !m.enabled || strings.TrimSpace(text) == "" {
		return false, nil
	}

	now := m.now()
	err := m.apply(func() error {
		if i := m.indexOfContent(text); i >= 0 {
			m.items[i].LastCopy = now
			m.items[i].CopyCount++
		} else {
			m.items = append(m.items, NewItem(text, src, now))
		}
		m.sort()
		m.trim()
		return nil
	})
	return true, err
}

// Merge adds items from another history (an import). Items whose content
// is already present keep the newer LastCopy and sum their copy counts.
// Returns how many new items were kept.
func (m *Manager) Merge(items []Item) (int, error) {
	kept := 0
	err := m.apply(func() error {
		kept = m.merge(items)
		return nil
	})
	return kept, err
}

func (m *Manager) merge(items []Item) int {
	added := make(map[string]bool)
	for _, in := range items {
		if strings.TrimSpace(in.Content) == "" {
			continue
		}
		if i := m.indexOfContent(in.Content); i >= 0 {
			cur := &m.items[i]
			if in.LastCopy.After(cur.LastCopy) {
				cur.LastCopy = in.LastCopy
			}
			if in.FirstCopy.Before(cur.FirstCopy) {
				cur.FirstCopy = in.FirstCopy
			}
			cur.CopyCount += in.CopyCount
			cur.Pinned = cur.Pinned || in.Pinned
			continue
		}
		if in.ID == "" || m.indexOfID(in.ID) >= 0 {
			in.ID = uuid.NewString()
		}
		if in.CopyCount < 1 {
			in.CopyCount = 1
		}
		m.items = append(m.items, in)
		added[in.ID] = true
	}

	m.sort()
	m.trim()

	kept := 0
	for _, it := range m.items {
		if added[it.ID] {
			kept++
		}
	}
	return kept
}

// Remove deletes the item with the given ID.
func (m *Manager) Remove(id string) error {
	return m.apply(func() error {
		i := m.indexOfID(id)
		if i < 0 {
			return ErrNotFound
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		return nil
	})
}

// TogglePin flips the pinned flag and returns the new state.
func (m *Manager) TogglePin(id string) (bool, error) {
	var pinned bool
	err := m.apply(func() error {
		i := m.indexOfID(id)
		if i < 0 {
			return ErrNotFound
		}
		m.items[i].Pinned = !m.items[i].Pinned
		pinned = m.items[i].Pinned
		m.sort()
		return nil
	})
	return pinned, err
}

// Clear removes every item, pinned ones included.
func (m *Manager) Clear() error {
	return m.apply(func() error {
		m.items = nil
		return nil
	})
}

// At returns the item at index i in display order.
func (m *Manager) At(i int) (Item, bool) {
	if i < 0 || i >= len(m.items) {
		return Item{}, false
	}
	return m.items[i], true
}

// Filter returns the items whose content or source name contains query,
// ignoring case. When nothing matches that way, items are matched by edit
// distance between query words and content words, so small typos still
// find something. An empty query returns everything.
func (m *Manager) Filter(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return m.Items()
	}

	var out []Item
	for _, it := range m.items {
		if strings.Contains(strings.ToLower(it.Content), q) ||
			strings.Contains(strings.ToLower(it.SourceName), q) {
			out = append(out, it)
		}
	}
	if len(out) > 0 {
		return out
	}

	words := strings.Fields(q)
	for _, it := range m.items {
		if fuzzyMatch(words, it) {
			out = append(out, it)
		}
	}
	return out
}

// minFuzzyLen keeps short query words from matching almost anything.
const minFuzzyLen = 3

// maxFuzzyRatio is the largest edit distance, relative to the longer word,
// still counted as a match.
const maxFuzzyRatio = 0.34

func fuzzyMatch(queryWords []string, it Item) bool {
	candidates := strings.Fields(strings.ToLower(it.Content + " " + it.SourceName))
	for _, qw := range queryWords {
		if len([]rune(qw)) < minFuzzyLen || !anyClose(qw, candidates) {
			return false
		}
	}
	return true
}

func anyClose(word string, candidates []string) bool {
	for _, c := range candidates {
		c = strings.Trim(c, ".,;:!?\"'()[]{}")
		if c == "" {
			continue
		}
		longest := len([]rune(word))
		if n := len([]rune(c)); n > longest {
			longest = n
		}
		dist := levenshtein.ComputeDistance(word, c)
		if float64(dist)/float64(longest) < maxFuzzyRatio {
			return true
		}
	}
	return false
}

func (m *Manager) indexOfContent(content string) int {
	for i, it := range m.items {
		if it.Content == content {
			return i
		}
	}
	return -1
}

func (m *Manager) indexOfID(id string) int {
	for i, it := range m.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) sort() {
	sort.SliceStable(m.items, func(i, j int) bool {
		a, b := m.items[i], m.items[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		return a.LastCopy.After(b.LastCopy)
	})
}

// trim keeps every pinned item plus the newest unpinned ones, up to
// maxItems minus the pinned count. Items must already be sorted.
func (m *Manager) trim() {
	pinned := 0
	for _, it := range m.items {
		if it.Pinned {
			pinned++
		}
	}
	limit := m.maxItems - pinned

	kept := m.items[:0]
	unpinned := 0
	for _, it := range m.items {
		if !it.Pinned {
			unpinned++
			if unpinned > limit {
				continue
			}
		}
		kept = append(kept, it)
	}
	m.items = kept
}

// apply runs change against the stored list and saves the result. change
// edits m.items; when it fails nothing is saved and its error is returned
// as is.
func (m *Manager) apply(change func() error) error {
	if m.store == nil {
		return change()
	}

	var changeErr error
	err := m.store.UpdateItems(func(items []Item) ([]Item, error) {
		m.items = items
		m.sort()
		if changeErr = change(); changeErr != nil {
			return nil, changeErr
		}
		return m.items, nil
	})
	if changeErr != nil {
		return changeErr
	}
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
