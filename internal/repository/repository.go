package repository

import (
	"context"
	"errors"
	"time"

	"gridview/internal/domain"
)

// ErrNotFound is returned when a stored snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// Record describes a stored snapshot
type Record struct {
	ID         int64     `json:"id"`
	Label      string    `json:"label,omitempty"`
	Digest     string    `json:"digest"`
	NodeCount  int       `json:"node_count"`
	LinkCount  int       `json:"link_count"`
	GroupCount int       `json:"group_count"`
	SavedAt    time.Time `json:"saved_at"`
}

// Repository defines the interface for snapshot persistence
type Repository interface {
	// Save stores a snapshot. Saving content that is already stored returns the
	// existing record and marks it as the latest.
	Save(ctx context.Context, snapshot *domain.Snapshot, label string) (*Record, error)

	// Latest returns the most recently saved snapshot, or nil when none exists
	Latest(ctx context.Context) (*domain.Snapshot, error)

	// Get returns a stored snapshot by record ID
	Get(ctx context.Context, id int64) (*domain.Snapshot, error)

	// List returns records, most recent first
	List(ctx context.Context) ([]Record, error)

	// Delete removes a stored snapshot
	Delete(ctx context.Context, id int64) error

	// Close releases resources
	Close() error
}
