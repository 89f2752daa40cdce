// Package repository defines the data access interfaces for gridview.
//
// The persistence layer stores whole snapshots. It never takes part in the edit
// history: loading a stored snapshot is a hard reset of the history, not an
// undoable edit.
//
// # SQLite Implementation
//
// The sqlite subpackage stores each snapshot as its canonical JSON document next to
// a blake2b digest of that document. The digest is unique, so saving an unchanged
// diagram twice does not create a second row. Documents are decoded through the
// codec package on the way out, which substitutes the default component-type
// registry for legacy rows.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
