package history

import (
	"math/rand"
	"reflect"
	"testing"

	"gridview/internal/domain"
)

func addNode(id string) Mutator {
	return func(s *domain.Snapshot) *domain.Snapshot {
		return s.InsertNode(*domain.NewNode(id, domain.NodeTypeBus, id))
	}
}

func identity(s *domain.Snapshot) *domain.Snapshot { return s }

func nodeIDs(s *domain.Snapshot) []string {
	ids := make([]string, 0, len(s.Diagram().Nodes))
	for _, n := range s.Diagram().Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestNew(t *testing.T) {
	t.Run("nil initial becomes empty snapshot", func(t *testing.T) {
		m := New(nil)
		if m.Present() == nil {
			t.Fatal("expected present snapshot")
		}
		if m.CanUndo() || m.CanRedo() {
			t.Error("expected empty stacks")
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("records accepted mutation", func(t *testing.T) {
		initial := domain.EmptySnapshot()
		m := New(initial)
		if !m.Apply(addNode("A")) {
			t.Fatal("expected Apply to report a change")
		}
		past, future := m.Depth()
		if past != 1 || future != 0 {
			t.Errorf("expected depth (1,0), got (%d,%d)", past, future)
		}
		if m.Present() == initial {
			t.Error("expected new present")
		}
	})

	t.Run("identity mutator is a no-op", func(t *testing.T) {
		m := New(nil)
		m.Apply(addNode("A"))
		m.Apply(addNode("B"))
		m.Undo()

		before := m.Present()
		if m.Apply(identity) {
			t.Error("expected identity mutator to report no change")
		}
		past, future := m.Depth()
		if past != 1 || future != 1 {
			t.Errorf("expected stacks untouched (1,1), got (%d,%d)", past, future)
		}
		if m.Present() != before {
			t.Error("expected present untouched")
		}
	})

	t.Run("nil candidate is a no-op", func(t *testing.T) {
		m := New(nil)
		if m.Apply(func(*domain.Snapshot) *domain.Snapshot { return nil }) {
			t.Error("expected nil candidate to be ignored")
		}
	})

	t.Run("accepted mutation clears future", func(t *testing.T) {
		m := New(nil)
		m.Apply(addNode("A"))
		m.Apply(addNode("B"))
		m.Undo()
		m.Undo()
		if !m.CanRedo() {
			t.Fatal("expected redo stack")
		}
		m.Apply(addNode("C"))
		if m.CanRedo() {
			t.Error("expected future cleared")
		}
		if got := nodeIDs(m.Present()); !reflect.DeepEqual(got, []string{"C"}) {
			t.Errorf("expected [C], got %v", got)
		}
	})
}

func TestUndoRedo(t *testing.T) {
	t.Run("empty stacks are no-ops", func(t *testing.T) {
		m := New(nil)
		present := m.Present()
		if m.Undo() || m.Redo() {
			t.Error("expected no-op on empty stacks")
		}
		if m.Present() != present {
			t.Error("expected present untouched")
		}
	})

	t.Run("undo then redo restores the same snapshot", func(t *testing.T) {
		m := New(nil)
		m.Apply(addNode("A"))
		m.Apply(addNode("B"))
		top := m.Present()

		m.Undo()
		if got := nodeIDs(m.Present()); !reflect.DeepEqual(got, []string{"A"}) {
			t.Errorf("expected [A] after undo, got %v", got)
		}
		m.Redo()
		if m.Present() != top {
			t.Error("expected redo to restore the identical snapshot")
		}
	})

	t.Run("undo prepends to future in order", func(t *testing.T) {
		m := New(nil)
		m.Apply(addNode("A"))
		m.Apply(addNode("B"))
		m.Apply(addNode("C"))
		m.Undo()
		m.Undo()
		m.Redo()
		if got := nodeIDs(m.Present()); !reflect.DeepEqual(got, []string{"A", "B"}) {
			t.Errorf("expected [A B], got %v", got)
		}
	})
}

func TestReset(t *testing.T) {
	m := New(nil)
	m.Apply(addNode("A"))
	m.Apply(addNode("B"))
	m.Undo()

	imported := domain.EmptySnapshot().InsertNode(*domain.NewNode("X", domain.NodeTypeLoad, "X"))
	m.Reset(imported)

	if m.Present() != imported {
		t.Error("expected imported snapshot as present")
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("expected both stacks cleared")
	}
}

func TestWithLimit(t *testing.T) {
	m := New(nil, WithLimit(2))
	for _, id := range []string{"A", "B", "C", "D"} {
		m.Apply(addNode(id))
	}
	past, _ := m.Depth()
	if past != 2 {
		t.Fatalf("expected past bounded to 2, got %d", past)
	}
	m.Undo()
	m.Undo()
	if m.Undo() {
		t.Error("expected discarded history to be unreachable")
	}
	if got := nodeIDs(m.Present()); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", got)
	}
}

// Undoing N steps then redoing N steps must land on a present equal to the one
// before the undos, for any interleaving of edits, undos and redos.
func TestUndoRedoReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		m := New(nil)
		next := 0
		for step := 0; step < 40; step++ {
			switch rng.Intn(4) {
			case 0, 1:
				m.Apply(addNode(string(rune('a' + next%26))))
				next++
			case 2:
				m.Undo()
			case 3:
				m.Redo()
			}
		}

		before := m.Present()
		wantIDs := nodeIDs(before)
		pastBefore, _ := m.Depth()
		n := rng.Intn(pastBefore + 1)

		for i := 0; i < n; i++ {
			m.Undo()
		}
		for i := 0; i < n; i++ {
			m.Redo()
		}

		if m.Present() != before {
			t.Fatalf("trial %d: expected identical present after %d undo/redo", trial, n)
		}
		if got := nodeIDs(m.Present()); !reflect.DeepEqual(got, wantIDs) {
			t.Fatalf("trial %d: expected %v, got %v", trial, wantIDs, got)
		}
	}
}
