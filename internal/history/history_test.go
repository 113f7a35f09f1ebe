package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/reflow/internal/registry"
)

// memStore is an in-memory Store that counts saves.
type memStore struct {
	items []Item
	saves int
	err   error
}

func (s *memStore) ListItems() ([]Item, error) {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore) UpdateItems(fn func([]Item) ([]Item, error)) error {
	if s.err != nil {
		return s.err
	}
	cur, _ := s.ListItems()
	items, err := fn(cur)
	if err != nil {
		return err
	}
	s.items = append([]Item(nil), items...)
	s.saves++
	return nil
}

var (
	terminal = registry.Lookup("com.apple.Terminal", "")
	safari   = registry.Source{ID: "com.apple.Safari", Name: "Safari"}
)

// newManager returns a manager whose clock advances one minute per call.
func newManager(t *testing.T, store Store, max int) *Manager {
	t.Helper()
	m, err := Open(store, true, max)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return m
}

func mustAdd(t *testing.T, m *Manager, text string, src registry.Source) {
	t.Helper()
	if _, err := m.Add(text, src); err != nil {
		t.Fatalf("Add(%q): %v", text, err)
	}
}

func contents(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Content
	}
	return out
}

func TestAdd_NewestFirst(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, 10)

	mustAdd(t, m, "first", terminal)
	mustAdd(t, m, "second", safari)

	got := contents(m.Items())
	if strings.Join(got, ",") != "second,first" {
		t.Errorf("items = %v, want [second first]", got)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}

	it, _ := m.At(1)
	if !it.FromTerminal || it.SourceID != "com.apple.Terminal" || it.SourceName != "Terminal" {
		t.Errorf("source fields not copied: %+v", it)
	}
	if it.CopyCount != 1 || !it.FirstCopy.Equal(it.LastCopy) {
		t.Errorf("new item counters: %+v", it)
	}
	if it.ID == "" {
		t.Error("new item has no ID")
	}
}

func TestAdd_IgnoresBlankAndDisabled(t *testing.T) {
	m := newManager(t, nil, 10)
	for _, text := range []string{"", "   ", "\n\t\n"} {
		changed, err := m.Add(text, terminal)
		if err != nil || changed {
			t.Errorf("Add(%q) = %v, %v; want false, nil", text, changed, err)
		}
	}

	off, err := Open(nil, false, 10)
	if err != nil {
		t.Fatal(err)
	}
	if changed, _ := off.Add("text", terminal); changed || off.Len() != 0 {
		t.Error("disabled history recorded an item")
	}
}

func TestAdd_DuplicateBumpsCount(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "same", terminal)
	mustAdd(t, m, "other", terminal)
	mustAdd(t, m, "same", safari)

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	top, _ := m.At(0)
	if top.Content != "same" || top.CopyCount != 2 {
		t.Errorf("top = %q x%d, want same x2", top.Content, top.CopyCount)
	}
	if !top.LastCopy.After(top.FirstCopy) {
		t.Error("LastCopy not bumped")
	}
	if top.SourceName != "Terminal" {
		t.Errorf("duplicate changed the original source to %q", top.SourceName)
	}
}

func TestAdd_TrimsToMaxKeepingPinned(t *testing.T) {
	m := newManager(t, nil, 3)
	mustAdd(t, m, "a", terminal)
	mustAdd(t, m, "b", terminal)

	a, _ := m.At(1)
	if _, err := m.TogglePin(a.ID); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"c", "d", "e"} {
		mustAdd(t, m, s, terminal)
	}

	got := strings.Join(contents(m.Items()), ",")
	if got != "a,e,d" {
		t.Errorf("items = %s, want a,e,d", got)
	}
}

func TestAdd_PinnedBeyondMaxAreKept(t *testing.T) {
	m := newManager(t, nil, 2)
	mustAdd(t, m, "a", terminal)
	mustAdd(t, m, "b", terminal)
	for _, it := range m.Items() {
		if _, err := m.TogglePin(it.ID); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(t, m, "c", terminal)

	got := strings.Join(contents(m.Items()), ",")
	if got != "b,a" {
		t.Errorf("items = %s, want b,a (no room for unpinned)", got)
	}
}

func TestRemove(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "keep", terminal)
	mustAdd(t, m, "drop", terminal)

	drop, _ := m.At(0)
	if err := m.Remove(drop.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := contents(m.Items()); len(got) != 1 || got[0] != "keep" {
		t.Errorf("items = %v", got)
	}
	if err := m.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(missing) = %v, want ErrNotFound", err)
	}
}

func TestTogglePin(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "old", terminal)
	mustAdd(t, m, "new", terminal)

	old, _ := m.At(1)
	pinned, err := m.TogglePin(old.ID)
	if err != nil || !pinned {
		t.Fatalf("TogglePin = %v, %v", pinned, err)
	}
	if top, _ := m.At(0); top.Content != "old" {
		t.Errorf("pinned item not first: %v", contents(m.Items()))
	}

	pinned, _ = m.TogglePin(old.ID)
	if pinned {
		t.Error("second toggle should unpin")
	}
	if top, _ := m.At(0); top.Content != "new" {
		t.Errorf("unpinned order = %v", contents(m.Items()))
	}
	if _, err := m.TogglePin("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TogglePin(missing) = %v, want ErrNotFound", err)
	}
}

func TestClear(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, 10)
	mustAdd(t, m, "x", terminal)

	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 || len(store.items) != 0 {
		t.Errorf("Clear left %d in memory, %d stored", m.Len(), len(store.items))
	}
}

func TestAt_Bounds(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "only", terminal)

	for _, i := range []int{-1, 1, 5} {
		if _, ok := m.At(i); ok {
			t.Errorf("At(%d) ok, want out of range", i)
		}
	}
	if it, ok := m.At(0); !ok || it.Content != "only" {
		t.Errorf("At(0) = %q, %v", it.Content, ok)
	}
}

func TestOpen_LoadsAndSorts(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memStore{items: []Item{
		{ID: "1", Content: "older", LastCopy: base},
		{ID: "2", Content: "newer", LastCopy: base.Add(time.Hour)},
		{ID: "3", Content: "pinned", LastCopy: base.Add(-time.Hour), Pinned: true},
	}}

	m, err := Open(store, true, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(contents(m.Items()), ",")
	if got != "pinned,newer,older" {
		t.Errorf("items = %s", got)
	}
}

func TestManagers_ShareStore(t *testing.T) {
	store := &memStore{}
	first := newManager(t, store, 10)
	second := newManager(t, store, 10)

	mustAdd(t, first, "from fix", terminal)
	mustAdd(t, second, "from watch", terminal)

	if got := len(store.items); got != 2 {
		t.Fatalf("stored %d items, want 2: %v", got, contents(store.items))
	}

	// second never saw the first item being pinned or removed, but its
	// changes start from what is stored.
	fixItem, _ := first.At(0)
	if _, err := first.TogglePin(fixItem.ID); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, second, "later", terminal)
	if top := store.items[0]; top.Content != "from fix" || !top.Pinned {
		t.Errorf("pin lost: stored %v", contents(store.items))
	}

	if err := second.Remove(fixItem.ID); err != nil {
		t.Fatal(err)
	}
	if err := first.Remove(fixItem.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove = %v, want ErrNotFound", err)
	}
	if got := strings.Join(contents(store.items), ","); got != "later,from watch" {
		t.Errorf("stored = %s", got)
	}
}

func TestRemove_NotFoundSavesNothing(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, 10)
	mustAdd(t, m, "keep", terminal)

	if err := m.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove = %v, want ErrNotFound", err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestAdd_StoreError(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	m := newManager(t, store, 10)

	_, err := m.Add("text", terminal)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Add error = %v, want wrapped store error", err)
	}
}

func TestFilter(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "npm install reflow", terminal)
	mustAdd(t, m, "Meeting notes for Monday", safari)
	mustAdd(t, m, "git push origin main", terminal)

	tests := []struct {
		query string
		want  string
	}{
		{"", "git push origin main,Meeting notes for Monday,npm install reflow"},
		{"INSTALL", "npm install reflow"},
		{"safari", "Meeting notes for Monday"},
		{"terminal", "git push origin main,npm install reflow"},
		{"instal reflw", "npm install reflow"},
		{"meting", "Meeting notes for Monday"},
		{"zz", ""},
		{"completely unrelated", ""},
	}
	for _, tt := range tests {
		got := strings.Join(contents(m.Filter(tt.query)), ",")
		if got != tt.want {
			t.Errorf("Filter(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	m := newManager(t, nil, 10)
	mustAdd(t, m, "shared", terminal)
	existing, _ := m.At(0)

	later := existing.LastCopy.Add(time.Hour)
	imported := []Item{
		{ID: "x1", Content: "shared", LastCopy: later, FirstCopy: later, CopyCount: 3},
		{ID: existing.ID, Content: "imported", LastCopy: later.Add(-time.Minute), FirstCopy: later, CopyCount: 1},
		{ID: "x3", Content: "  ", CopyCount: 1},
	}

	added, err := m.Merge(imported)
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}

	top, _ := m.At(0)
	if top.Content != "shared" || top.CopyCount != 4 || !top.LastCopy.Equal(later) {
		t.Errorf("merged item = %+v", top)
	}
	second, _ := m.At(1)
	if second.ID == existing.ID {
		t.Error("colliding ID was not replaced")
	}
}
