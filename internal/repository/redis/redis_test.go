package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	"gridview/internal/domain"
	"gridview/internal/repository"
)

// newTestRepo connects to the server named by GRIDVIEW_TEST_REDIS_ADDR under a
// throwaway prefix, skipping when the variable is unset
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	addr := os.Getenv("GRIDVIEW_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRIDVIEW_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	prefix := "gridview-test:" + uuid.NewString() + ":"
	repo, err := New(ctx, Options{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		iter := repo.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			repo.client.Del(ctx, iter.Val())
		}
		repo.Close()
	})
	return repo
}

func testSnapshot(ids ...string) *domain.Snapshot {
	d := domain.NewDiagram()
	for _, id := range ids {
		d.Nodes = append(d.Nodes, *domain.NewNode(id, domain.NodeTypeLoad, "Load "+id))
	}
	return domain.NewSnapshot(d, nil)
}

func TestKeyLayout(t *testing.T) {
	r := &Repository{prefix: "gv:"}
	tests := map[string]string{
		r.key("order"):         "gv:order",
		r.key("digest", "abc"): "gv:digest:abc",
		r.snapshotKey(42):      "gv:snapshot:42",
		r.key("order_seq"):     "gv:order_seq",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("key = %q, want %q", got, want)
		}
	}
}

func TestRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	if err != nil || latest != nil {
		t.Fatalf("Latest on empty store = %v, %v", latest, err)
	}

	first, err := repo.Save(ctx, testSnapshot("a"), "one")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.NodeCount != 1 || first.Label != "one" {
		t.Errorf("unexpected record %+v", first)
	}
	second, err := repo.Save(ctx, testSnapshot("a", "b"), "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.Save(ctx, testSnapshot("a"), "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if again.ID != first.ID || again.Label != "one" {
		t.Errorf("re-save returned %+v, want record %d labelled one", again, first.ID)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].ID != first.ID || records[1].ID != second.ID {
		t.Errorf("unexpected order %+v", records)
	}

	latest, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(latest.Diagram().Nodes) != 1 {
		t.Errorf("latest has %d nodes, want 1", len(latest.Diagram().Nodes))
	}

	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, second.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, second.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepository_ConcurrentSavesShareOneRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const writers = 8
	ids := make(chan int64, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := repo.Save(ctx, testSnapshot("a", "b"), "")
			if err != nil {
				errs <- err
				return
			}
			ids <- record.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("Save: %v", err)
	}
	seen := map[int64]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("concurrent saves produced records %v, want one", seen)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List returned %d records, want 1", len(records))
	}
}
