package domain

// Snapshot is the full editable state at one instant: the diagram plus its
// component-type registry. Snapshots are never modified after construction; every
// edit produces a new one.
type Snapshot struct {
	diagram  *Diagram
	registry *ComponentTypeRegistry
}

// NewSnapshot creates a snapshot. A nil diagram becomes an empty one and a nil
// registry becomes the default registry.
func NewSnapshot(diagram *Diagram, registry *ComponentTypeRegistry) *Snapshot {
	if diagram == nil {
		diagram = NewDiagram()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Snapshot{diagram: diagram, registry: registry}
}

// EmptySnapshot returns a snapshot with no nodes and the default registry
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil)
}

// Diagram returns the snapshot's diagram. Callers must not modify it.
func (s *Snapshot) Diagram() *Diagram {
	return s.diagram
}

// Registry returns the snapshot's component-type registry. Callers must not modify it.
func (s *Snapshot) Registry() *ComponentTypeRegistry {
	return s.registry
}

// withDiagram returns a new snapshot sharing the registry
func (s *Snapshot) withDiagram(d *Diagram) *Snapshot {
	return &Snapshot{diagram: d, registry: s.registry}
}

// withRegistry returns a new snapshot sharing the diagram
func (s *Snapshot) withRegistry(r *ComponentTypeRegistry) *Snapshot {
	return &Snapshot{diagram: s.diagram, registry: r}
}
