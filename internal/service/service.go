package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"gridview/internal/codec"
	"gridview/internal/config"
	"gridview/internal/domain"
	"gridview/internal/history"
	"gridview/internal/layout"
	"gridview/internal/repository"
	"gridview/internal/view"
)

var (
	// ErrNotFound is returned when an edit names a node, group or stored snapshot
	// that does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when an edit request is malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRepository is returned by persistence calls on a service without storage
	ErrNoRepository = errors.New("no repository configured")
)

// DiagramService provides business logic for diagram editing
type DiagramService struct {
	mu      sync.Mutex
	history *history.Manager
	cache   *view.Cache

	repo     repository.Repository
	eventBus *EventBus
	logger   *log.Logger

	layoutMode config.LayoutMode
	layoutOpts layout.Options
	padding    float64
}

// NewDiagramService creates a diagram service starting from an empty snapshot.
// repo may be nil, in which case Save and Load return ErrNoRepository.
func NewDiagramService(repo repository.Repository, eventBus *EventBus, cfg *config.Config, logger *log.Logger) *DiagramService {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DiagramService{
		history:    history.New(domain.EmptySnapshot(), history.WithLimit(cfg.History.Limit)),
		cache:      view.NewCache(),
		repo:       repo,
		eventBus:   eventBus,
		logger:     logger,
		layoutMode: cfg.Layout.Mode,
		layoutOpts: cfg.LayoutOptions(),
		padding:    cfg.Geometry.Padding,
	}
}

// Snapshot returns the present snapshot
func (s *DiagramService) Snapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Present()
}

// HistoryState reports whether undo and redo are available
func (s *DiagramService) HistoryState() (canUndo, canRedo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo(), s.history.CanRedo()
}

// Apply runs an arbitrary mutator through the history and reports whether the
// snapshot changed
func (s *DiagramService) Apply(action string, mutate history.Mutator) bool {
	changed, _ := s.mutate(action, func(present *domain.Snapshot) (*domain.Snapshot, error) {
		return mutate(present), nil
	})
	return changed
}

// mutate applies fn under the lock. An error from fn aborts the edit without
// touching the history.
func (s *DiagramService) mutate(action string, fn func(*domain.Snapshot) (*domain.Snapshot, error)) (bool, error) {
	var fnErr error

	s.mu.Lock()
	changed := s.history.Apply(func(present *domain.Snapshot) *domain.Snapshot {
		next, err := fn(present)
		if err != nil {
			fnErr = err
			return present
		}
		return next
	})
	payload := s.changePayload(action)
	s.mu.Unlock()

	if fnErr != nil {
		return false, fnErr
	}
	if changed {
		s.logger.Debug("diagram changed", "action", action, "nodes", payload.Nodes, "links", payload.Links)
		s.eventBus.Publish(Event{Type: EventDiagramChanged, Payload: payload})
	}
	return changed, nil
}

// changePayload must be called with s.mu held
func (s *DiagramService) changePayload(action string) ChangePayload {
	d := s.history.Present().Diagram()
	return ChangePayload{
		Action:  action,
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Nodes:   len(d.Nodes),
		Links:   len(d.Links),
		Groups:  len(d.Groups),
	}
}

// Undo steps back one edit. It reports whether anything changed.
func (s *DiagramService) Undo() bool {
	return s.step("undo", EventHistoryUndone, s.history.Undo)
}

// Redo re-applies the most recently undone edit. It reports whether anything
// changed.
func (s *DiagramService) Redo() bool {
	return s.step("redo", EventHistoryRedone, s.history.Redo)
}

func (s *DiagramService) step(action string, eventType EventType, move func() bool) bool {
	s.mu.Lock()
	changed := move()
	payload := s.changePayload(action)
	s.mu.Unlock()

	if changed {
		s.eventBus.Publish(Event{Type: eventType, Payload: payload})
	}
	return changed
}

// Reset installs snapshot as the present and clears undo and redo
func (s *DiagramService) Reset(snapshot *domain.Snapshot, action string) {
	if snapshot == nil {
		snapshot = domain.EmptySnapshot()
	}

	s.mu.Lock()
	s.history.Reset(snapshot)
	payload := s.changePayload(action)
	s.mu.Unlock()

	s.logger.Info("diagram reset", "action", action, "nodes", payload.Nodes, "links", payload.Links, "groups", payload.Groups)
	s.eventBus.Publish(Event{Type: EventDiagramReset, Payload: payload})
}

// Import decodes a snapshot in the given format and hard-resets the history to
// it. Invalid input leaves the present untouched.
func (s *DiagramService) Import(format string, r io.Reader) (*domain.Snapshot, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	snapshot, err := c.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", c.Format(), err)
	}
	s.Reset(snapshot, "import")
	return snapshot, nil
}

// Export writes the present snapshot in the given format
func (s *DiagramService) Export(format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return c.Encode(s.Snapshot(), w)
}

// Save stores the present snapshot
func (s *DiagramService) Save(ctx context.Context, label string) (*repository.Record, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	record, err := s.repo.Save(ctx, s.Snapshot(), label)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved", "id", record.ID, "digest", record.Digest)
	s.eventBus.Publish(Event{Type: EventSnapshotSaved, Payload: record})
	return record, nil
}

// LoadLatest hard-resets the history to the most recently stored snapshot
func (s *DiagramService) LoadLatest(ctx context.Context) (*domain.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	snapshot, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, fmt.Errorf("no stored snapshot: %w", ErrNotFound)
	}
	s.Reset(snapshot, "load")
	return snapshot, nil
}

// Load hard-resets the history to a stored snapshot by record ID
func (s *DiagramService) Load(ctx context.Context, id int64) (*domain.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	snapshot, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	s.Reset(snapshot, "load")
	return snapshot, nil
}

// ListSaved returns stored snapshot records, most recent first
func (s *DiagramService) ListSaved(ctx context.Context) ([]repository.Record, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.List(ctx)
}
