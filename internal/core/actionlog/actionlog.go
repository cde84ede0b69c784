// Package actionlog keeps a bounded, append-only history of actions.
package actionlog

import (
	"errors"
	"iter"
	"time"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

// DefaultCapacity matches the history size of the record keeper.
const DefaultCapacity = 100

var ErrLogFull = errors.New("actionlog: history is full")

// Log is a fixed-capacity append-only log. Once full it rejects further
// records; old entries are never evicted.
type Log struct {
	entries []entities.ActionLogEntry
	now     func() time.Time
}

// New returns a Log holding at most capacity entries (DefaultCapacity if <= 0).
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries: make([]entities.ActionLogEntry, 0, capacity),
		now:     time.Now,
	}
}

// SetClock replaces the timestamp source (tests).
func (l *Log) SetClock(now func() time.Time) { l.now = now }

// Record appends description stamped with the current time.
func (l *Log) Record(description string) (entities.ActionLogEntry, error) {
	if l.Full() {
		return entities.ActionLogEntry{}, ErrLogFull
	}
	e := entities.ActionLogEntry{Description: description, Timestamp: l.now()}
	l.entries = append(l.entries, e)
	return e, nil
}

// All yields the entries in insertion order. The sequence covers the entries
// present when All was called.
func (l *Log) All() iter.Seq[entities.ActionLogEntry] {
	snap := l.entries[:len(l.entries):len(l.entries)]
	return func(yield func(entities.ActionLogEntry) bool) {
		for _, e := range snap {
			if !yield(e) {
				return
			}
		}
	}
}

func (l *Log) Len() int   { return len(l.entries) }
func (l *Log) Cap() int   { return cap(l.entries) }
func (l *Log) Full() bool { return len(l.entries) >= cap(l.entries) }
