package service

import (
	"fmt"

	"gridview/internal/domain"
)

// AddNode adds a node of type t and returns its generated ID
func (s *DiagramService) AddNode(t domain.NodeType, pos *domain.Position) (string, error) {
	if t == "" {
		return "", fmt.Errorf("node type required: %w", ErrInvalidInput)
	}
	var id string
	_, err := s.mutate("add_node", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		var next *domain.Snapshot
		next, id = present.AddNode(t, pos)
		return next, nil
	})
	return id, err
}

// UpdateNode changes a node's label and/or properties
func (s *DiagramService) UpdateNode(id, label string, properties map[string]any) (bool, error) {
	return s.mutate("update_node", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if !present.Diagram().HasNode(id) {
			return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
		return present.UpdateNode(id, label, properties), nil
	})
}

// MoveNode stores a node's position
func (s *DiagramService) MoveNode(id string, pos domain.Position) (bool, error) {
	return s.mutate("move_node", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if !present.Diagram().HasNode(id) {
			return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
		return present.MoveNode(id, pos), nil
	})
}

// RemoveNode deletes a node with its links and group memberships
func (s *DiagramService) RemoveNode(id string) (bool, error) {
	return s.mutate("remove_node", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if !present.Diagram().HasNode(id) {
			return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
		return present.RemoveNode(id), nil
	})
}

// AddLink connects source to target. Linking a node to itself is rejected.
func (s *DiagramService) AddLink(source, target string, properties map[string]any) (bool, error) {
	if source == "" || target == "" {
		return false, fmt.Errorf("link source and target required: %w", ErrInvalidInput)
	}
	if source == target {
		return false, fmt.Errorf("link source and target cannot be the same: %w", ErrInvalidInput)
	}
	return s.mutate("add_link", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		d := present.Diagram()
		for _, id := range []string{source, target} {
			if !d.HasNode(id) {
				return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
			}
		}
		return present.AddLink(source, target, properties), nil
	})
}

// RemoveLink deletes the link from source to target
func (s *DiagramService) RemoveLink(source, target string) (bool, error) {
	return s.mutate("remove_link", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if present.Diagram().LinkIndex(source, target) < 0 {
			return nil, fmt.Errorf("link %s->%s: %w", source, target, ErrNotFound)
		}
		return present.RemoveLink(source, target), nil
	})
}

// AddGroup creates a group and returns its generated ID
func (s *DiagramService) AddGroup(label string, members []string) (string, error) {
	if label == "" {
		return "", fmt.Errorf("group label required: %w", ErrInvalidInput)
	}
	var id string
	_, err := s.mutate("add_group", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		var next *domain.Snapshot
		next, id = present.AddGroup(label, members)
		return next, nil
	})
	return id, err
}

// RenameGroup changes a group's label
func (s *DiagramService) RenameGroup(id, label string) (bool, error) {
	if label == "" {
		return false, fmt.Errorf("group label required: %w", ErrInvalidInput)
	}
	return s.mutate("rename_group", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if present.Diagram().GroupIndex(id) < 0 {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		return present.RenameGroup(id, label), nil
	})
}

// SetGroupMembers replaces a group's members
func (s *DiagramService) SetGroupMembers(id string, members []string) (bool, error) {
	return s.mutate("set_group_members", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if present.Diagram().GroupIndex(id) < 0 {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		return present.SetGroupMembers(id, members), nil
	})
}

// UpdateGroup renames a group and/or replaces its members as a single history
// entry. An empty label keeps the current one; nil members keep the current list.
func (s *DiagramService) UpdateGroup(id, label string, members *[]string) (bool, error) {
	return s.mutate("update_group", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if present.Diagram().GroupIndex(id) < 0 {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		next := present
		if label != "" {
			next = next.RenameGroup(id, label)
		}
		if members != nil {
			next = next.SetGroupMembers(id, *members)
		}
		return next, nil
	})
}

// RemoveGroup deletes a group, keeping its member nodes
func (s *DiagramService) RemoveGroup(id string) (bool, error) {
	return s.mutate("remove_group", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if present.Diagram().GroupIndex(id) < 0 {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		return present.RemoveGroup(id), nil
	})
}

// RegisterType adds or relabels a component type
func (s *DiagramService) RegisterType(t domain.NodeType, label string) (bool, error) {
	if t == "" {
		return false, fmt.Errorf("component type required: %w", ErrInvalidInput)
	}
	if label == "" {
		label = string(t)
	}
	return s.mutate("register_type", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		return present.RegisterType(t, label), nil
	})
}

// UnregisterType removes a component type from the registry
func (s *DiagramService) UnregisterType(t domain.NodeType) (bool, error) {
	return s.mutate("unregister_type", func(present *domain.Snapshot) (*domain.Snapshot, error) {
		if _, ok := present.Registry().Lookup(t); !ok {
			return nil, fmt.Errorf("component type %s: %w", t, ErrNotFound)
		}
		return present.UnregisterType(t), nil
	})
}
