// Package history keeps a linear undo/redo log over diagram snapshots.
//
// The Manager owns the canonical present snapshot. Every accepted mutation pushes
// the old present onto the past stack and clears the future stack; undo and redo
// shift snapshots between the stacks. Branching timelines are not kept: an edit
// made after an undo discards the redo stack.
//
// Manager is not safe for concurrent use. Callers with several writers must
// serialize Apply, Undo, Redo and Reset behind one lock (see service.DiagramService).
package history

import "gridview/internal/domain"

// Mutator derives a candidate snapshot from the present one. Returning the input
// (or nil) signals "no change".
type Mutator func(present *domain.Snapshot) *domain.Snapshot

// Manager is the edit history over a sequence of snapshots
type Manager struct {
	past    []*domain.Snapshot
	present *domain.Snapshot
	future  []*domain.Snapshot
	limit   int
}

// Option configures a Manager
type Option func(*Manager)

// WithLimit bounds the number of undo steps kept. Older entries are discarded.
// Zero means unbounded.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// New creates a manager whose present is the given snapshot. A nil snapshot is
// replaced by an empty one.
func New(initial *domain.Snapshot, opts ...Option) *Manager {
	if initial == nil {
		initial = domain.EmptySnapshot()
	}
	m := &Manager{present: initial}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Present returns the current snapshot
func (m *Manager) Present() *domain.Snapshot {
	return m.present
}

// Apply runs the mutator against the present snapshot and records the result. It
// reports whether the history changed.
func (m *Manager) Apply(mutate Mutator) bool {
	candidate := mutate(m.present)
	if candidate == nil || candidate == m.present {
		return false
	}
	m.past = append(m.past, m.present)
	if m.limit > 0 && len(m.past) > m.limit {
		m.past = append(m.past[:0:0], m.past[len(m.past)-m.limit:]...)
	}
	m.present = candidate
	m.future = nil
	return true
}

// Undo restores the most recent past snapshot. It is a no-op when there is nothing
// to undo.
func (m *Manager) Undo() bool {
	if len(m.past) == 0 {
		return false
	}
	last := len(m.past) - 1
	previous := m.past[last]
	m.past[last] = nil
	m.past = m.past[:last]
	m.future = append([]*domain.Snapshot{m.present}, m.future...)
	m.present = previous
	return true
}

// Redo re-applies the most recently undone snapshot. It is a no-op when there is
// nothing to redo.
func (m *Manager) Redo() bool {
	if len(m.future) == 0 {
		return false
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, m.present)
	m.present = next
	return true
}

// Reset installs an externally supplied snapshot and clears both stacks. Imports
// use Reset rather than Apply because loading a file is a context switch, not an
// undoable edit.
func (m *Manager) Reset(snapshot *domain.Snapshot) {
	if snapshot == nil {
		snapshot = domain.EmptySnapshot()
	}
	m.past = nil
	m.present = snapshot
	m.future = nil
}

// CanUndo reports whether Undo would change anything
func (m *Manager) CanUndo() bool {
	return len(m.past) > 0
}

// CanRedo reports whether Redo would change anything
func (m *Manager) CanRedo() bool {
	return len(m.future) > 0
}

// Depth returns the sizes of the past and future stacks
func (m *Manager) Depth() (past, future int) {
	return len(m.past), len(m.future)
}
