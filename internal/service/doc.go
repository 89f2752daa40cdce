// Package service coordinates the diagram core with persistence and clients.
//
// DiagramService owns the edit history and is the single place where the
// canonical snapshot changes. Every mutation, undo, redo and reset runs behind
// one lock, so concurrent HTTP writers still produce a linear history.
//
// # Events
//
// State changes are announced on an EventBus after the lock is released. Calls
// that leave the snapshot untouched publish nothing. The SSE hub subscribes to
// the bus and forwards events to browsers.
package service
