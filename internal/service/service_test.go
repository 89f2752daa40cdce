package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gridview/internal/config"
	"gridview/internal/domain"
	"gridview/internal/logging"
	"gridview/internal/repository/sqlite"
	"gridview/internal/view"
)

func newTestService(t *testing.T) (*DiagramService, chan Event) {
	t.Helper()
	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	return NewDiagramService(nil, bus, config.DefaultConfig(), logging.Discard()), events
}

// drain returns every event published so far
func drain(ch chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

// seed builds G -> T -> B with T and B grouped as "sub"
func seed(t *testing.T, svc *DiagramService) (gen, xfmr, bus, group string) {
	t.Helper()
	var err error
	gen, err = svc.AddNode(domain.NodeTypeGenerator, nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	xfmr, _ = svc.AddNode(domain.NodeTypeTransformer, nil)
	bus, _ = svc.AddNode(domain.NodeTypeBus, nil)
	if _, err := svc.AddLink(gen, xfmr, nil); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if _, err := svc.AddLink(xfmr, bus, nil); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	group, err = svc.AddGroup("Substation", []string{xfmr, bus})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	return
}

func TestDiagramService_PublishesOnlyOnChange(t *testing.T) {
	svc, events := newTestService(t)

	id, err := svc.AddNode(domain.NodeTypeLoad, nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	got := drain(events)
	if len(got) != 1 || got[0].Type != EventDiagramChanged {
		t.Fatalf("expected one diagram_changed event, got %+v", got)
	}
	payload := got[0].Payload.(ChangePayload)
	if payload.Action != "add_node" || payload.Nodes != 1 || !payload.CanUndo {
		t.Errorf("unexpected payload %+v", payload)
	}

	t.Run("no-op edit publishes nothing", func(t *testing.T) {
		changed, err := svc.UpdateNode(id, "", nil)
		if err != nil {
			t.Fatalf("UpdateNode: %v", err)
		}
		if changed {
			t.Error("expected no change")
		}
		if got := drain(events); len(got) != 0 {
			t.Errorf("expected no events, got %+v", got)
		}
	})

	t.Run("failed edit publishes nothing", func(t *testing.T) {
		_, err := svc.MoveNode("missing", domain.Position{X: 1})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if got := drain(events); len(got) != 0 {
			t.Errorf("expected no events, got %+v", got)
		}
	})

	t.Run("undo on empty redo stack", func(t *testing.T) {
		if svc.Redo() {
			t.Error("Redo should be a no-op")
		}
		if got := drain(events); len(got) != 0 {
			t.Errorf("expected no events, got %+v", got)
		}
	})
}

func TestDiagramService_UndoRedo(t *testing.T) {
	svc, events := newTestService(t)

	id, _ := svc.AddNode(domain.NodeTypeBus, nil)
	if _, err := svc.UpdateNode(id, "Main Bus", nil); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	drain(events)

	if !svc.Undo() {
		t.Fatal("Undo should change state")
	}
	node, _ := svc.Snapshot().Diagram().GetNode(id)
	if node.Label != "Bus 1" {
		t.Errorf("after undo label = %q, want Bus 1", node.Label)
	}
	if got := drain(events); len(got) != 1 || got[0].Type != EventHistoryUndone {
		t.Errorf("expected history_undone, got %+v", got)
	}

	if !svc.Redo() {
		t.Fatal("Redo should change state")
	}
	node, _ = svc.Snapshot().Diagram().GetNode(id)
	if node.Label != "Main Bus" {
		t.Errorf("after redo label = %q, want Main Bus", node.Label)
	}

	canUndo, canRedo := svc.HistoryState()
	if !canUndo || canRedo {
		t.Errorf("HistoryState = %v/%v, want true/false", canUndo, canRedo)
	}
}

func TestDiagramService_EditErrors(t *testing.T) {
	svc, _ := newTestService(t)
	gen, xfmr, _, group := seed(t, svc)

	tests := []struct {
		name string
		run  func() error
	}{
		{"update missing node", func() error { _, err := svc.UpdateNode("nope", "x", nil); return err }},
		{"remove missing node", func() error { _, err := svc.RemoveNode("nope"); return err }},
		{"link to missing node", func() error { _, err := svc.AddLink(gen, "nope", nil); return err }},
		{"remove missing link", func() error { _, err := svc.RemoveLink(xfmr, gen); return err }},
		{"rename missing group", func() error { _, err := svc.RenameGroup("nope", "x"); return err }},
		{"members of missing group", func() error { _, err := svc.SetGroupMembers("nope", nil); return err }},
		{"update missing group", func() error { _, err := svc.UpdateGroup("nope", "x", nil); return err }},
		{"remove missing group", func() error { _, err := svc.RemoveGroup("nope"); return err }},
		{"unregister missing type", func() error { _, err := svc.UnregisterType("nope"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}

	t.Run("self link rejected", func(t *testing.T) {
		if _, err := svc.AddLink(gen, gen, nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("valid group edits", func(t *testing.T) {
		changed, err := svc.RenameGroup(group, "Yard")
		if err != nil || !changed {
			t.Errorf("RenameGroup = %v, %v", changed, err)
		}
		changed, err = svc.SetGroupMembers(group, []string{xfmr, xfmr})
		if err != nil || !changed {
			t.Errorf("SetGroupMembers = %v, %v", changed, err)
		}
		g, _ := svc.Snapshot().Diagram().GetGroup(group)
		if len(g.Members) != 1 {
			t.Errorf("members = %v, want deduplicated", g.Members)
		}
	})

	t.Run("update group is a single history entry", func(t *testing.T) {
		before, _ := svc.Snapshot().Diagram().GetGroup(group)
		members := []string{xfmr, gen}
		changed, err := svc.UpdateGroup(group, "Switchyard", &members)
		if err != nil || !changed {
			t.Fatalf("UpdateGroup = %v, %v", changed, err)
		}
		g, _ := svc.Snapshot().Diagram().GetGroup(group)
		if g.Label != "Switchyard" || len(g.Members) != 2 {
			t.Fatalf("after update: %+v", g)
		}
		if !svc.Undo() {
			t.Fatal("expected undo")
		}
		g, _ = svc.Snapshot().Diagram().GetGroup(group)
		if g.Label != before.Label || len(g.Members) != len(before.Members) {
			t.Errorf("after one undo: %+v, want %+v", g, before)
		}
		if changed, _ := svc.UpdateGroup(group, "", nil); changed {
			t.Error("empty update should be a no-op")
		}
	})
}

func TestDiagramService_View(t *testing.T) {
	svc, _ := newTestService(t)
	gen, xfmr, bus, group := seed(t, svc)

	t.Run("trace", func(t *testing.T) {
		result := svc.View(view.Trace(bus), config.LayoutForce)
		if result.Kind != view.KindTrace {
			t.Errorf("Kind = %s", result.Kind)
		}
		if len(result.Nodes) != 3 || result.Nodes[0].ID != bus || result.Nodes[2].ID != gen {
			t.Errorf("unexpected trace nodes %+v", result.Nodes)
		}
		if len(result.Groups) != 0 {
			t.Error("trace should drop groups")
		}
	})

	t.Run("focus with fixed layout", func(t *testing.T) {
		result := svc.View(view.Focus(group), config.LayoutFixed)
		if result.Kind != view.KindFocus || result.Layout != config.LayoutFixed {
			t.Errorf("Kind/Layout = %s/%s", result.Kind, result.Layout)
		}
		for _, n := range result.Nodes {
			if n.Position == nil || !n.Pinned {
				t.Errorf("node %s not pinned", n.ID)
			}
		}
		if _, ok := result.Shapes[group]; !ok {
			t.Error("expected group outline")
		}

		// the cached model must not pick up layout positions
		plain := svc.View(view.Focus(group), config.LayoutForce)
		for _, n := range plain.Nodes {
			if n.Pinned {
				t.Errorf("force view node %s leaked pinned flag", n.ID)
			}
		}
	})

	t.Run("force view without positions has no outline", func(t *testing.T) {
		result := svc.View(view.Default(), config.LayoutForce)
		if len(result.Shapes) != 0 {
			t.Errorf("expected no shapes, got %v", result.Shapes)
		}
		if _, err := svc.MoveNode(xfmr, domain.Position{X: 10, Y: 10}); err != nil {
			t.Fatal(err)
		}
		result = svc.View(view.Default(), config.LayoutForce)
		if _, ok := result.Shapes[group]; !ok {
			t.Error("expected outline once a member has a position")
		}
	})

	t.Run("empty mode uses configured default", func(t *testing.T) {
		if got := svc.View(view.Default(), "").Layout; got != config.LayoutForce {
			t.Errorf("Layout = %s, want force", got)
		}
	})

	_, misses := svc.CacheStats()
	if misses == 0 {
		t.Error("expected cache misses to be counted")
	}
}

func TestDiagramService_ImportExport(t *testing.T) {
	svc, events := newTestService(t)
	seed(t, svc)

	var buf bytes.Buffer
	if err := svc.Export("yaml", &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	other, otherEvents := newTestService(t)
	if _, err := other.AddNode(domain.NodeTypeLoad, nil); err != nil {
		t.Fatal(err)
	}
	drain(otherEvents)

	snap, err := other.Import("yaml", &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(snap.Diagram().Nodes) != 3 {
		t.Errorf("imported %d nodes, want 3", len(snap.Diagram().Nodes))
	}
	if canUndo, _ := other.HistoryState(); canUndo {
		t.Error("import must clear undo history")
	}
	if got := drain(otherEvents); len(got) != 1 || got[0].Type != EventDiagramReset {
		t.Errorf("expected diagram_reset, got %+v", got)
	}

	t.Run("invalid input keeps present", func(t *testing.T) {
		before := svc.Snapshot()
		drain(events)
		_, err := svc.Import("json", strings.NewReader(`{"nodes":[{"id":""}]}`))
		if err == nil {
			t.Fatal("expected error")
		}
		if svc.Snapshot() != before {
			t.Error("present changed after failed import")
		}
		if got := drain(events); len(got) != 0 {
			t.Errorf("expected no events, got %+v", got)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := svc.Export("xml", &bytes.Buffer{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDiagramService_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("without repository", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.Save(ctx, ""); !errors.Is(err, ErrNoRepository) {
			t.Errorf("expected ErrNoRepository, got %v", err)
		}
	})

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	svc := NewDiagramService(repo, bus, nil, logging.Discard())

	if _, err := svc.LoadLatest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadLatest on empty store: expected ErrNotFound, got %v", err)
	}

	seed(t, svc)
	saved := svc.Snapshot()
	record, err := svc.Save(ctx, "baseline")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if record.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", record.NodeCount)
	}
	got := drain(events)
	if last := got[len(got)-1]; last.Type != EventSnapshotSaved {
		t.Errorf("last event = %s, want snapshot_saved", last.Type)
	}

	svc.Reset(nil, "clear")
	if len(svc.Snapshot().Diagram().Nodes) != 0 {
		t.Fatal("Reset(nil) should install an empty snapshot")
	}

	loaded, err := svc.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if len(loaded.Diagram().Nodes) != len(saved.Diagram().Nodes) {
		t.Errorf("loaded %d nodes, want %d", len(loaded.Diagram().Nodes), len(saved.Diagram().Nodes))
	}

	if _, err := svc.Load(ctx, record.ID+1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing: expected ErrNotFound, got %v", err)
	}

	records, err := svc.ListSaved(ctx)
	if err != nil || len(records) != 1 {
		t.Errorf("ListSaved = %v, %v", records, err)
	}
}

func TestDiagramService_ConcurrentEditsStayLinear(t *testing.T) {
	svc, _ := newTestService(t)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddNode(domain.NodeTypeLoad, nil); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := len(svc.Snapshot().Diagram().Nodes); n != writers {
		t.Fatalf("nodes = %d, want %d", n, writers)
	}
	undone := 0
	for svc.Undo() {
		undone++
	}
	if undone != writers {
		t.Errorf("undo steps = %d, want %d", undone, writers)
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	a := make(chan Event, 1)
	b := make(chan Event, 1)
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Unsubscribe(a)

	bus.Publish(Event{Type: EventDiagramReset})

	if len(a) != 0 {
		t.Error("unsubscribed channel received event")
	}
	if len(b) != 1 {
		t.Error("subscribed channel missed event")
	}
}
