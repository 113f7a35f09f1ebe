// Package stats counts how much work reflowing has saved, for the current
// session and across all sessions.
package stats

import "fmt"

// Counters is one set of running totals.
type Counters struct {
	LinesJoined int64
	Pastes      int64
}

// LinesPerPaste is the average number of lines joined per reflowed paste.
func (c Counters) LinesPerPaste() float64 {
	if c.Pastes == 0 {
		return 0
	}
	return float64(c.LinesJoined) / float64(c.Pastes)
}

// Snapshot holds both counter sets.
type Snapshot struct {
	Session Counters
	AllTime Counters
}

// Store persists counters. Updates are applied to the stored values, not
// written over them, and return the totals as stored afterwards.
type Store interface {
	Counters() (Snapshot, error)
	AddPaste(linesJoined int64) (Snapshot, error)
	ResetCounters(allTime bool) (Snapshot, error)
}

// Tracker updates counters through a Store. A nil Store keeps counts in
// memory only.
type Tracker struct {
	store Store
	snap  Snapshot
}

// Open loads the stored counters.
func Open(store Store) (*Tracker, error) {
	t := &Tracker{store: store}
	if store != nil {
		s, err := store.Counters()
		if err != nil {
			return nil, fmt.Errorf("load counters: %w", err)
		}
		t.snap = s
	}
	return t, nil
}

// Snapshot returns the counters as of the last update.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// RecordPaste counts one reflowed paste that joined linesJoined lines.
func (t *Tracker) RecordPaste(linesJoined int) error {
	n := int64(linesJoined)
	if t.store == nil {
		t.snap.Session.LinesJoined += n
		t.snap.Session.Pastes++
		t.snap.AllTime.LinesJoined += n
		t.snap.AllTime.Pastes++
		return nil
	}

	s, err := t.store.AddPaste(n)
	if err != nil {
		return fmt.Errorf("record paste: %w", err)
	}
	t.snap = s
	return nil
}

// ResetSession zeroes the session counters.
func (t *Tracker) ResetSession() error {
	return t.reset(false)
}

// ResetAllTime zeroes everything, the session included.
func (t *Tracker) ResetAllTime() error {
	return t.reset(true)
}

func (t *Tracker) reset(allTime bool) error {
	if t.store == nil {
		t.snap.Session = Counters{}
		if allTime {
			t.snap.AllTime = Counters{}
		}
		return nil
	}

	s, err := t.store.ResetCounters(allTime)
	if err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	t.snap = s
	return nil
}
