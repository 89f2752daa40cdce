// Package domain defines the core domain types for the gridview one-line diagram editor.
//
// This package contains the entities and value objects that describe an electrical
// single-line diagram: typed components, the directed links between them, named groups
// and the component-type registry.
//
// # Core Types
//
// Node represents a component (generator, transformer, bus, load, breaker or a
// user-defined type). The type string is opaque here and only resolved against the
// ComponentTypeRegistry to build default labels.
//
// Link represents a directed "source feeds target" relationship between two nodes.
//
// Group is a named, ordered list of member node ids. A node may belong to any number
// of groups.
//
// Diagram bundles nodes, links and groups. Dangling link endpoints and dangling group
// members are tolerated everywhere; consumers skip what they cannot resolve.
//
// # Snapshots
//
// Snapshot pairs a Diagram with its ComponentTypeRegistry and is immutable once
// created. Edit operations (AddNode, RemoveNode, AddLink, SetGroupMembers, ...) return a
// fresh Snapshot that shares every untouched slice with its predecessor, or the
// receiver itself when the edit would change nothing. Callers rely on that pointer
// identity to detect no-op edits.
//
// # Design Principles
//
// - Immutable value objects
// - No database or transport dependencies
// - Pure domain logic without infrastructure concerns
package domain
