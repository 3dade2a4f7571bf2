// Package history implements the bounded undo/redo log for the label
// designer. The log stores full element-set snapshots; at the document sizes
// involved (dozens of elements) snapshots are cheaper to reason about than
// structural diffs.
package history

import (
	"time"

	"github.com/labeldesk/backend/internal/domain/designer"
)

// DefaultLimit is the maximum number of snapshots retained in the log
const DefaultLimit = 50

// Snapshot is a deep, independent copy of the full element set. No aliasing
// exists between a snapshot and live editor state.
type Snapshot struct {
	Elements    []designer.Element
	Timestamp   time.Time
	Description string
}

// Log is a linear undo/redo log: a bounded snapshot ring plus a cursor.
// A fresh commit after an undo discards the redo branch; history never
// branches.
type Log struct {
	snapshots []Snapshot
	cursor    int
	limit     int
	applying  bool
}

// NewLog creates a log seeding the initial element set as snapshot zero,
// so the first user mutation is undoable back to the loaded state.
func NewLog(initial []designer.Element, limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	log := &Log{
		snapshots: make([]Snapshot, 0, limit),
		cursor:    0,
		limit:     limit,
	}
	log.snapshots = append(log.snapshots, Snapshot{
		Elements:    designer.CloneElements(initial),
		Timestamp:   time.Now(),
		Description: "initial",
	})
	return log
}

// Commit appends a deep-copied snapshot of the element set, truncating any
// redo branch and evicting the oldest snapshot when the ring is full.
//
// Commits issued while a restored snapshot is being applied are dropped;
// without that guard an undo would immediately corrupt the linear log.
func (l *Log) Commit(elements []designer.Element, description string) {
	if l.applying {
		return
	}

	// Drop everything after the cursor: a commit invalidates the redo branch.
	l.snapshots = l.snapshots[:l.cursor+1]

	l.snapshots = append(l.snapshots, Snapshot{
		Elements:    designer.CloneElements(elements),
		Timestamp:   time.Now(),
		Description: description,
	})
	l.cursor++

	if len(l.snapshots) > l.limit {
		evict := len(l.snapshots) - l.limit
		l.snapshots = l.snapshots[evict:]
		l.cursor -= evict
	}
}

// Undo moves the cursor one snapshot back and returns a deep copy of that
// element set. At the earliest snapshot it is a no-op, not an error.
func (l *Log) Undo() ([]designer.Element, bool) {
	if l.cursor <= 0 {
		return nil, false
	}
	l.cursor--
	return designer.CloneElements(l.snapshots[l.cursor].Elements), true
}

// Redo moves the cursor one snapshot forward and returns a deep copy.
// At the newest snapshot it is a no-op.
func (l *Log) Redo() ([]designer.Element, bool) {
	if l.cursor >= len(l.snapshots)-1 {
		return nil, false
	}
	l.cursor++
	return designer.CloneElements(l.snapshots[l.cursor].Elements), true
}

// CanUndo reports whether an undo would change state
func (l *Log) CanUndo() bool {
	return l.cursor > 0
}

// CanRedo reports whether a redo would change state
func (l *Log) CanRedo() bool {
	return l.cursor < len(l.snapshots)-1
}

// Len returns the number of retained snapshots
func (l *Log) Len() int {
	return len(l.snapshots)
}

// Cursor returns the current cursor index
func (l *Log) Cursor() int {
	return l.cursor
}

// Descriptions lists the snapshot descriptions in order, oldest first
func (l *Log) Descriptions() []string {
	out := make([]string, len(l.snapshots))
	for i, snapshot := range l.snapshots {
		out[i] = snapshot.Description
	}
	return out
}

// WhileApplying runs fn with the reentrancy guard held. Editor code applies
// restored snapshots inside this window so that any state update triggered
// by the application cannot commit itself as a new history entry.
func (l *Log) WhileApplying(fn func()) {
	l.applying = true
	defer func() { l.applying = false }()
	fn()
}
